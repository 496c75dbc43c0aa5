// Command settler closes ended auctions. It runs a cron sweep and an admin
// server, or a single sweep with --once.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"lebay/config"
	"lebay/internal/delivery"
	"lebay/internal/delivery/worker"
	"lebay/internal/delivery/worker/handler"
	"lebay/internal/domain/auction"
	logs "lebay/internal/infra/log"
	"lebay/internal/infra/persistence/postgres"
	"lebay/internal/infra/pubsub"
	"lebay/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type runOnceParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Sweeper *worker.Sweeper
}

func main() {
	once := flag.Bool("once", false, "run a single settlement sweep and exit")
	flag.Parse()

	options := []fx.Option{
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		fx.Provide(worker.NewSweeper),
	}
	if *once {
		options = append(options, fx.Invoke(runOnce))
	} else {
		options = append(options,
			injectHandler(),
			injectDelivery(),
			fx.Invoke(startServer),
		)
	}

	fx.New(options...).Run()
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
			postgres.NewAuctionRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			pubsub.NewEventPublisher,
			auction.NewSystemClock,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSettlementService,
			impl.NewSessionService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
			handler.NewSweepHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewSweeperDelivery,
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

// runOnce sweeps after the database is up, then stops the app.
func runOnce(ctx context.Context, params runOnceParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				params.Sweeper.RunOnce(ctx)
				if err := params.Shutdown(); err != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", err))
					os.Exit(1)
				}
			}()

			return nil
		},
	})
}
