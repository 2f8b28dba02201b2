// Package etag mints opaque revision tokens for optimistic concurrency.
// Resource identifiers are client-supplied, so the only server-side
// token generation in this service is the ETag issued per successful
// mutation.
package etag

import (
	"context"
	"fmt"
)

// Strategy defines which token generation algorithm to use.
type Strategy string

const (
	StrategySnowflake Strategy = "snowflake"
	StrategyUUIDv7    Strategy = "uuidv7"
)

// Options configures the generator.
type Options struct {
	// Strategy selects the generation algorithm.
	Strategy Strategy

	// NodeID identifies this node in a distributed system (Snowflake only).
	// Valid range: 0–1023.
	NodeID int64
}

// Generator is the interface consumers depend on for minting revision
// tokens. Implementations must be safe for concurrent use and must
// never return the empty string.
type Generator interface {
	// Generate returns a new opaque revision token.
	Generate(ctx context.Context) (string, error)
}

// New creates a Generator based on the provided options.
func New(opts Options) (Generator, error) {
	switch opts.Strategy {
	case StrategySnowflake:
		return NewSnowflake(opts.NodeID)
	case StrategyUUIDv7:
		return NewUUIDv7()
	default:
		return nil, fmt.Errorf("etag: unknown strategy %q", opts.Strategy)
	}
}
