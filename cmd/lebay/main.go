package main

import (
	"context"
	"log/slog"
	"os"

	"lebay/config"
	"lebay/internal/delivery"
	"lebay/internal/delivery/api"
	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/router/handler"
	"lebay/internal/domain/auction"
	"lebay/internal/infra/auth"
	"lebay/internal/infra/cache"
	logs "lebay/internal/infra/log"
	"lebay/internal/infra/persistence/postgres"
	"lebay/internal/infra/pubsub"
	"lebay/internal/infra/qrcode"
	"lebay/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewSellerRepository,
			postgres.NewCategoryRepository,
			postgres.NewItemRepository,
			postgres.NewAuctionRepository,
			postgres.NewBidRepository,
			postgres.NewSaleRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			cache.NewCacheStore,
			pubsub.NewEventPublisher,
			qrcode.NewQRCodeService,
			auction.NewSystemClock,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewSessionService,
			impl.NewSellerService,
			impl.NewCatalogService,
			impl.NewListingService,
			impl.NewAuctionService,
			impl.NewSettlementService,
			impl.NewPaymentService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewSessionHandler,
			handler.NewSellerHandler,
			handler.NewCategoryHandler,
			handler.NewItemHandler,
			handler.NewAuctionHandler,
			handler.NewPaymentHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
