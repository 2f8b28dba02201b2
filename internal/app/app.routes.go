package app

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"go.uber.org/fx"

	"github.com/joshuarp/orders-api/internal/handlers"
	"github.com/joshuarp/orders-api/internal/middlewares"
	sharedmetrics "github.com/joshuarp/orders-api/internal/shared/metrics"
	sharedratelimit "github.com/joshuarp/orders-api/internal/shared/ratelimit"
)

type routerGroupsOut struct {
	fx.Out
	API fiber.Router `name:"api_v1"`
}

func provideRouterGroups(
	app *fiber.App,
	logger *slog.Logger,
	httpMetrics *sharedmetrics.HTTPMetrics,
) routerGroupsOut {
	app.Use(middlewares.NewHTTPRecoveryMiddleware())
	app.Use(middlewares.NewHTTPRequestIDMiddleware())
	app.Use(middlewares.NewHTTPCORSMiddleware())
	app.Use(middlewares.NewHTTPMetricsMiddleware(httpMetrics))
	app.Use(middlewares.NewHTTPRequestResponseLogMiddleware(logger))

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(httpMetrics.Handler()))

	return routerGroupsOut{
		API: app.Group("/v1"),
	}
}

type orderRoutesIn struct {
	fx.In
	API         fiber.Router            `name:"api_v1"`
	RateLimiter sharedratelimit.Limiter `name:"orders_write_rate_limiter" optional:"true"`
	Logger      *slog.Logger
	Handler     *handlers.OrderResourceHandler
}

func registerOrderRoutes(in orderRoutesIn) {
	writeLimit := middlewares.NewHTTPRateLimitMiddleware(middlewares.RateLimitConfig{
		Limiter:   in.RateLimiter,
		Logger:    in.Logger,
		KeyPrefix: "orders:write",
	})

	in.Handler.Register(in.API, writeLimit)
}
