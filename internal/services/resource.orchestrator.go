package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/joshuarp/orders-api/internal/apierr"
)

// ResourceOrchestrator ties identifier parsing, conditional-header
// resolution, body decoding, store dispatch, and response construction
// together for one resource kind. All client-visible failures come back
// as *apierr.Error; anything else is an unexpected store failure the
// handler maps to 500.
type ResourceOrchestrator[R any] struct {
	codec  ResourceCodec[R]
	store  ResourceStore[R]
	logger *slog.Logger
}

func NewResourceOrchestrator[R any](codec ResourceCodec[R], store ResourceStore[R], logger *slog.Logger) *ResourceOrchestrator[R] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceOrchestrator[R]{codec: codec, store: store, logger: logger}
}

// UpsertResult is the outcome of a successful create-or-replace.
// Document is the serialized resource with eTag embedded.
type UpsertResult struct {
	Created  bool
	Document map[string]any
}

// CreateOrReplace runs the conditional PUT protocol. The three parse
// stages (identifier, conditional headers, body) run independently and
// their failures accumulate into one combined error; a lone
// missing-header rejection keeps its 428 status.
func (o *ResourceOrchestrator[R]) CreateOrReplace(ctx context.Context, rawID string, headers ConditionalHeaders, body []byte) (UpsertResult, error) {
	var failures []*apierr.Error

	id, idErr := parseResourceID(rawID)
	if idErr != nil {
		failures = append(failures, idErr)
	}

	action, headerErr := ResolveConditionalAction(headers)
	if headerErr != nil {
		failures = append(failures, headerErr)
	}

	resource, bodyErr := o.codec.Decode(uuid.NullUUID{UUID: id, Valid: idErr == nil}, body)
	if bodyErr != nil {
		failures = append(failures, bodyErr)
	}

	if combined := apierr.Combine(failures); combined != nil {
		return UpsertResult{}, combined
	}

	switch action.Kind {
	case ActionCreate:
		etag, err := o.store.Create(ctx, id, resource)
		if err != nil {
			if errors.Is(err, ErrResourceExists) {
				return UpsertResult{}, apierr.AlreadyExists(id)
			}
			return UpsertResult{}, fmt.Errorf("services: create %s: %w", id, err)
		}
		return UpsertResult{Created: true, Document: o.document(resource, etag)}, nil

	default:
		etag, err := o.store.Replace(ctx, id, action.ExpectedETag, resource)
		if err != nil {
			switch {
			case errors.Is(err, ErrResourceNotFound):
				return UpsertResult{}, apierr.NotFound(id)
			case errors.Is(err, ErrETagMismatch):
				return UpsertResult{}, apierr.ETagMismatch()
			default:
				return UpsertResult{}, fmt.Errorf("services: replace %s: %w", id, err)
			}
		}
		return UpsertResult{Created: false, Document: o.document(resource, etag)}, nil
	}
}

// Get fetches one resource as its serialized document with eTag.
func (o *ResourceOrchestrator[R]) Get(ctx context.Context, rawID string) (map[string]any, error) {
	id, idErr := parseResourceID(rawID)
	if idErr != nil {
		return nil, idErr
	}

	stored, found, err := o.store.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("services: find %s: %w", id, err)
	}
	if !found {
		return nil, apierr.NotFound(id)
	}

	return o.document(stored.Resource, stored.ETag), nil
}

// Delete removes the resource. Idempotent: deleting an absent
// identifier succeeds.
func (o *ResourceOrchestrator[R]) Delete(ctx context.Context, rawID string) error {
	id, idErr := parseResourceID(rawID)
	if idErr != nil {
		return idErr
	}

	if err := o.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("services: delete %s: %w", id, err)
	}
	return nil
}

// ListQuery carries the raw list query parameters plus the request URI
// used to build nextLink.
type ListQuery struct {
	Skip              string
	Top               string
	MaxPageSize       string
	Select            string
	ContinuationToken string
	RequestURI        string
}

// List fetches one page, projects each serialized item onto the
// selected fields, and assembles the page document with an optional
// nextLink.
func (o *ResourceOrchestrator[R]) List(ctx context.Context, query ListQuery) (PageDocument, error) {
	req := ListRequest{ContinuationToken: query.ContinuationToken}
	var failures []*apierr.Error

	for _, p := range []struct {
		name  string
		raw   string
		field *int
	}{
		{"skip", query.Skip, &req.Skip},
		{"top", query.Top, &req.Top},
		{"maxPageSize", query.MaxPageSize, &req.MaxPageSize},
	} {
		if err := parsePagingParam(p.name, p.raw, p.field); err != nil {
			failures = append(failures, err)
		}
	}
	if combined := apierr.Combine(failures); combined != nil {
		return PageDocument{}, combined
	}

	page, err := o.store.List(ctx, req)
	if err != nil {
		if errors.Is(err, ErrBadContinuationToken) {
			return PageDocument{}, apierr.InvalidRouteValue("continuationToken is not valid")
		}
		return PageDocument{}, fmt.Errorf("services: list: %w", err)
	}

	selected := parseSelect(query.Select)
	items := make([]map[string]any, 0, len(page.Items))
	for _, stored := range page.Items {
		items = append(items, projectFields(o.document(stored.Resource, stored.ETag), selected))
	}

	return assemblePage(items, page.ContinuationToken, query.RequestURI)
}

func (o *ResourceOrchestrator[R]) document(resource R, etag ETag) map[string]any {
	doc := o.codec.Encode(resource)
	doc["eTag"] = string(etag)
	return doc
}

func parseResourceID(raw string) (uuid.UUID, *apierr.Error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.InvalidRouteValue("ID must be a valid GUID")
	}
	return id, nil
}

func parsePagingParam(name, raw string, out *int) *apierr.Error {
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return apierr.InvalidRouteValue(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	*out = value
	return nil
}
