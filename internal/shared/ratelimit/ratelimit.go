// Package ratelimit provides fixed-window rate limiting with pluggable
// storage backends. Implementations are safe for concurrent use.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Result contains the rate limit decision and metadata.
type Result struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Limit is the maximum requests per window.
	Limit int64

	// Remaining is the number of requests left in the current window.
	Remaining int64

	// RetryAfter is the duration to wait before retrying (if not allowed).
	RetryAfter time.Duration
}

// Config configures the limiter.
type Config struct {
	// Limit is the maximum number of requests allowed per window.
	Limit int64

	// Window is the fixed time window.
	Window time.Duration

	// OnLimited is called when the limit is exceeded. Can be used for
	// logging or metrics.
	OnLimited func(ctx context.Context, key string, result Result)
}

// Store is the counting backend. Incr bumps the counter for key within
// the current window and returns the new count plus the time remaining
// until the window resets.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
	Close() error
}

// Limiter is the main rate limiter interface.
type Limiter interface {
	// Allow checks if a request is allowed for the given key and
	// consumes a slot.
	Allow(ctx context.Context, key string) (Result, error)

	// Close releases resources.
	Close() error
}

type limiter struct {
	store  Store
	config Config
}

// New creates a fixed-window limiter over the provided store.
func New(store Store, config Config) (Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("ratelimit: store is required")
	}
	if config.Limit <= 0 {
		return nil, fmt.Errorf("ratelimit: limit must be positive")
	}
	if config.Window <= 0 {
		return nil, fmt.Errorf("ratelimit: window must be positive")
	}

	return &limiter{store: store, config: config}, nil
}

func (l *limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetIn, err := l.store.Incr(ctx, key, l.config.Window)
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: store error: %w", err)
	}

	result := Result{
		Allowed:   count <= l.config.Limit,
		Limit:     l.config.Limit,
		Remaining: max(l.config.Limit-count, 0),
	}
	if !result.Allowed {
		result.RetryAfter = resetIn
		if l.config.OnLimited != nil {
			l.config.OnLimited(ctx, key, result)
		}
	}

	return result, nil
}

func (l *limiter) Close() error {
	return l.store.Close()
}
