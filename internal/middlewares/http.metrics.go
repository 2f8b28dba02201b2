package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v3"

	sharedmetrics "github.com/joshuarp/orders-api/internal/shared/metrics"
)

// NewHTTPMetricsMiddleware records a counter and latency observation per
// request, labelled by the route pattern rather than the raw path to
// keep cardinality bounded.
func NewHTTPMetricsMiddleware(m *sharedmetrics.HTTPMetrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		m.Observe(c.Method(), route, c.Response().StatusCode(), time.Since(start))

		return err
	}
}
