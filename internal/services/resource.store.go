package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/joshuarp/orders-api/internal/apierr"
)

// ETag is an opaque revision token. The store mints a fresh value on
// every successful create or replace; it never repeats for the same
// resource revision.
type ETag string

// Typed store failures. The orchestrator dispatches on these with
// errors.Is; anything else is treated as an unexpected failure and
// surfaces as a 500.
var (
	ErrResourceExists       = errors.New("resource already exists")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrETagMismatch         = errors.New("etag does not match current revision")
	ErrBadContinuationToken = errors.New("continuation token is not valid")
)

// StoredResource pairs a resource with its current revision token.
type StoredResource[R any] struct {
	Resource R
	ETag     ETag
}

// ListRequest carries the paging parameters of a list operation. Zero
// values mean "not supplied"; the store applies its own defaults and
// caps. ContinuationToken, when set, resumes a previous page and takes
// precedence over Skip.
type ListRequest struct {
	Skip              int
	Top               int
	MaxPageSize       int
	ContinuationToken string
}

// ResourcePage is one page of list results. A non-empty
// ContinuationToken means more results remain.
type ResourcePage[R any] struct {
	Items             []StoredResource[R]
	ContinuationToken string
}

// ResourceStore is the backing-store capability the orchestrator
// dispatches against. Implementations must serialize conflicting writes
// per identifier so that at most one writer wins per revision, and must
// observe ctx cancellation without partial mutation.
type ResourceStore[R any] interface {
	// Create stores a new resource. Fails with ErrResourceExists when
	// the identifier is already present.
	Create(ctx context.Context, id uuid.UUID, resource R) (ETag, error)

	// Replace swaps the stored resource wholesale, guarded by the
	// expected revision. Fails with ErrResourceNotFound or
	// ErrETagMismatch.
	Replace(ctx context.Context, id uuid.UUID, expected ETag, resource R) (ETag, error)

	// Find returns the resource and its current ETag, or found=false.
	Find(ctx context.Context, id uuid.UUID) (StoredResource[R], bool, error)

	// Delete removes the resource. Deleting an absent identifier is not
	// an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of resources in a stable order. Fails with
	// ErrBadContinuationToken when the token does not decode.
	List(ctx context.Context, req ListRequest) (ResourcePage[R], error)
}

// ResourceCodec converts between a domain resource and its JSON wire
// document. Decode validates applicatively: every field failure is
// collected into the returned error's details rather than stopping at
// the first. An invalid pathID means the route identifier failed to
// parse (and is reported elsewhere); implementations skip the body-id
// match but still validate the rest of the body.
type ResourceCodec[R any] interface {
	Decode(pathID uuid.NullUUID, body []byte) (R, *apierr.Error)
	Encode(resource R) map[string]any
}
