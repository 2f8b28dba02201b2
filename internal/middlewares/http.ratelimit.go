package middlewares

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	sharedratelimit "github.com/joshuarp/orders-api/internal/shared/ratelimit"
)

// RateLimitConfig configures the HTTP rate limit middleware.
type RateLimitConfig struct {
	Limiter sharedratelimit.Limiter
	Logger  *slog.Logger

	// KeyPrefix namespaces the limiter keys, e.g. "orders:write".
	KeyPrefix string
}

// NewHTTPRateLimitMiddleware limits requests per client IP. Limiter
// failures fail open: an unreachable store must not take writes down
// with it.
func NewHTTPRateLimitMiddleware(config RateLimitConfig) fiber.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(c fiber.Ctx) error {
		if config.Limiter == nil {
			return c.Next()
		}

		key := config.KeyPrefix + ":ip:" + c.IP()
		result, err := config.Limiter.Allow(c.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

		if !result.Allowed {
			retryAfter := int64(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(retryAfter, 10))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}

		return c.Next()
	}
}
