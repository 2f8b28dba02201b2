package etag

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var _ Generator = (*snowflakeGenerator)(nil)

type snowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflake creates a Snowflake-based Generator.
// nodeID must be unique per node in a distributed setup (0–1023).
func NewSnowflake(nodeID int64) (Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("etag: failed to create snowflake node: %w", err)
	}
	return &snowflakeGenerator{node: node}, nil
}

func (g *snowflakeGenerator) Generate(ctx context.Context) (string, error) {
	g.mu.Lock()
	token := g.node.Generate()
	g.mu.Unlock()
	return token.String(), nil
}
