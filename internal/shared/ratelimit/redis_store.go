package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a distributed fixed-window counter on Redis.
// Safe for multi-instance deployments.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisStoreOption configures the Redis store.
type RedisStoreOption func(*RedisStore)

// WithRedisPrefix sets a prefix for all Redis keys.
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a new Redis-based rate limit store.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if s == nil || s.client == nil {
		return 0, 0, errors.New("ratelimit: redis store is not initialized")
	}

	fullKey := s.prefix + ":" + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	ttl := pipe.PTTL(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = window
	}
	return incr.Val(), resetIn, nil
}

func (s *RedisStore) Close() error {
	// The client is shared and closed by the application lifecycle.
	return nil
}
