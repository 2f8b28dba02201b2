package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joshuarp/orders-api/internal/shared/config"
	sharedratelimit "github.com/joshuarp/orders-api/internal/shared/ratelimit"
)

func provideRedisClient(cfg config.ConfigProvider) *redis.Client {
	host := strings.TrimSpace(cfg.GetString("redis.host"))
	if host == "" {
		host = "localhost"
	}

	port := cfg.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	})
}

// provideOrdersWriteRateLimiter limits mutating order requests per
// client IP. Backed by Redis when enabled; nil (disabled) otherwise,
// which the middleware treats as a pass-through.
func provideOrdersWriteRateLimiter(cfg config.ConfigProvider, redisClient *redis.Client, logger *slog.Logger) (sharedratelimit.Limiter, error) {
	if cfg.IsSet("rate_limit.writes.enabled") && !cfg.GetBool("rate_limit.writes.enabled") {
		return nil, nil
	}

	limit := cfg.GetInt("rate_limit.writes.limit")
	if limit <= 0 {
		limit = 60
	}

	window := cfg.GetDuration("rate_limit.writes.window")
	if window <= 0 {
		window = time.Minute
	}

	store := sharedratelimit.NewRedisStore(redisClient, sharedratelimit.WithRedisPrefix("orders-api:writes"))

	return sharedratelimit.New(store, sharedratelimit.Config{
		Limit:  int64(limit),
		Window: window,
		OnLimited: func(_ context.Context, key string, result sharedratelimit.Result) {
			if logger != nil {
				logger.Warn("rate limit exceeded", "scope", "orders_write", "key", key, "limit", result.Limit)
			}
		},
	})
}
