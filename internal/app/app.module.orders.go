package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/joshuarp/orders-api/internal/codec"
	"github.com/joshuarp/orders-api/internal/domain"
	"github.com/joshuarp/orders-api/internal/handlers"
	"github.com/joshuarp/orders-api/internal/repository"
	"github.com/joshuarp/orders-api/internal/services"
)

func OrdersModule() fx.Option {
	return fx.Module("orders",
		fx.Provide(
			fx.Annotate(
				codec.NewOrderCodec,
				fx.As(new(services.ResourceCodec[domain.Order])),
			),
			fx.Annotate(
				repository.NewMemoryOrderStore,
				fx.As(new(services.ResourceStore[domain.Order])),
			),
			fx.Annotate(
				newOrderResourceService,
				fx.As(new(handlers.OrderResourceService)),
			),
			fx.Annotate(
				provideOrdersWriteRateLimiter,
				fx.ResultTags(`name:"orders_write_rate_limiter"`),
			),
			handlers.NewOrderResourceHandler,
		),
		fx.Invoke(registerOrderRoutes),
	)
}

func newOrderResourceService(
	orderCodec services.ResourceCodec[domain.Order],
	store services.ResourceStore[domain.Order],
	logger *slog.Logger,
) *services.ResourceOrchestrator[domain.Order] {
	return services.NewResourceOrchestrator(orderCodec, store, logger)
}
