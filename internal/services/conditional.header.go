package services

import (
	"net/http"

	"github.com/joshuarp/orders-api/internal/apierr"
)

// ConditionalHeaders carries the raw If-Match / If-None-Match values of a
// request. Each slice holds one entry per header value after the HTTP
// layer has split comma-separated occurrences.
type ConditionalHeaders struct {
	IfMatch     []string
	IfNoneMatch []string
}

// ActionKind selects between the two operations a conditional PUT can
// express.
type ActionKind string

const (
	ActionCreate  ActionKind = "create"
	ActionReplace ActionKind = "replace"
)

// ConditionalAction is the resolved intent of a PUT request: create a new
// resource, or replace the revision identified by ExpectedETag.
type ConditionalAction struct {
	Kind         ActionKind
	ExpectedETag ETag
}

// ResolveConditionalAction maps the conditional-header multiset onto an
// action. Pure; rules are checked in order and the first match wins:
//
//  1. both headers present            -> 400
//  2. exactly one If-Match            -> replace(etag)
//  3. more than one If-Match          -> 400
//  4. If-None-Match equal to "*"      -> create
//  5. more than one If-None-Match     -> 400
//  6. If-None-Match not "*"           -> 400
//  7. neither header present          -> 428
func ResolveConditionalAction(headers ConditionalHeaders) (ConditionalAction, *apierr.Error) {
	switch {
	case len(headers.IfMatch) > 0 && len(headers.IfNoneMatch) > 0:
		return ConditionalAction{}, apierr.InvalidConditionalHeader(http.StatusBadRequest,
			"cannot specify both If-Match and If-None-Match headers")

	case len(headers.IfMatch) == 1:
		return ConditionalAction{Kind: ActionReplace, ExpectedETag: ETag(headers.IfMatch[0])}, nil

	case len(headers.IfMatch) > 1:
		return ConditionalAction{}, apierr.InvalidConditionalHeader(http.StatusBadRequest,
			"can only specify one If-Match header")

	case len(headers.IfNoneMatch) == 1 && headers.IfNoneMatch[0] == "*":
		return ConditionalAction{Kind: ActionCreate}, nil

	case len(headers.IfNoneMatch) > 1:
		return ConditionalAction{}, apierr.InvalidConditionalHeader(http.StatusBadRequest,
			"can only specify one If-None-Match header")

	case len(headers.IfNoneMatch) == 1:
		return ConditionalAction{}, apierr.InvalidConditionalHeader(http.StatusBadRequest,
			"If-None-Match header must be '*'")

	default:
		return ConditionalAction{}, apierr.InvalidConditionalHeader(http.StatusPreconditionRequired,
			"one of If-Match or If-None-Match headers must be specified")
	}
}
