package app

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"

	"github.com/joshuarp/orders-api/internal/shared/config"
	sharedetag "github.com/joshuarp/orders-api/internal/shared/etag"
	sharedlog "github.com/joshuarp/orders-api/internal/shared/log"
	sharedmetrics "github.com/joshuarp/orders-api/internal/shared/metrics"
)

func New(modules ...fx.Option) *fx.App {
	opts := []fx.Option{CoreModule()}
	opts = append(opts, modules...)
	opts = append(opts, fx.Invoke(registerLifecycle))
	return fx.New(opts...)
}

func CoreModule() fx.Option {
	return fx.Module("core",
		fx.Provide(
			provideConfig,
			sharedlog.NewJSONLogger,
			provideRedisClient,
			provideETagGenerator,
			provideFiberApp,
			sharedmetrics.NewHTTPMetrics,
			provideRouterGroups,
		),
	)
}

func provideConfig() (config.ConfigProvider, error) {
	loadOrder := []config.Options{
		{YAMLPath: "config.yaml", EnvPath: ".env"},
		{YAMLPath: "config.yaml.example", EnvPath: ".env.example"},
	}

	var lastErr error
	for _, opts := range loadOrder {
		provider, err := config.Init(opts)
		if err == nil {
			return provider, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func provideFiberApp(cfg config.ConfigProvider) *fiber.App {
	readTimeout := cfg.GetDuration("server.read_timeout")
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}

	writeTimeout := cfg.GetDuration("server.write_timeout")
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	return fiber.New(fiber.Config{
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
}

func provideETagGenerator(cfg config.ConfigProvider) (sharedetag.Generator, error) {
	return sharedetag.New(sharedetag.Options{
		Strategy: parseETagStrategy(cfg.GetString("etag.strategy")),
		NodeID:   int64(cfg.GetInt("etag.node_id")),
	})
}

func parseETagStrategy(value string) sharedetag.Strategy {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "snowflake":
		return sharedetag.StrategySnowflake
	default:
		return sharedetag.StrategyUUIDv7
	}
}
