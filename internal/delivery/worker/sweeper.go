package worker

import (
	"context"
	"log/slog"

	"lebay/config"
	"lebay/internal/delivery"
	"lebay/internal/domain/lifecycle"
	"lebay/internal/usecase"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// SweeperParams holds dependencies for the scheduled sweeper
type SweeperParams struct {
	fx.In

	Cfg          *config.Config
	Logger       *slog.Logger
	SettlementUC usecase.SettlementUsecase
	SessionUC    usecase.SessionUsecase
}

// Sweeper settles ended auctions and drops expired sessions on a cron schedule.
type Sweeper struct {
	schedule     string
	batchSize    int
	logger       *slog.Logger
	settlementUC usecase.SettlementUsecase
	sessionUC    usecase.SessionUsecase
	cron         *cron.Cron
}

func NewSweeper(params SweeperParams) *Sweeper {
	return &Sweeper{
		schedule:     params.Cfg.Auction.SweepSchedule,
		batchSize:    params.Cfg.Auction.SweepBatchSize,
		logger:       params.Logger,
		settlementUC: params.SettlementUC,
		sessionUC:    params.SessionUC,
		cron:         cron.New(cron.WithSeconds()),
	}
}

// NewSweeperDelivery registers the sweeper as a long-running delivery.
func NewSweeperDelivery(lc fx.Lifecycle, s *Sweeper) delivery.Delivery {
	lc.Append(fx.Hook{OnStop: s.stop})

	return s
}

// Serve schedules the sweep and returns; the cron runs in its own goroutine.
func (s *Sweeper) Serve(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return errors.Wrapf(err, "invalid sweep schedule %q", s.schedule)
	}

	s.logger.Info("Starting settlement sweeper", slog.String("schedule", s.schedule), slog.Int("batch_size", s.batchSize))
	s.cron.Start()

	return nil
}

// RunOnce performs one settlement sweep followed by session cleanup.
func (s *Sweeper) RunOnce(ctx context.Context) {
	result, err := s.settlementUC.Sweep(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("[Settler] Sweep failed", slog.Any("error", err))
	}
	if result != nil && result.Scanned > 0 {
		s.logger.Info("[Settler] Sweep finished",
			slog.Int("scanned", result.Scanned),
			slog.Int("sold", result.Sold),
			slog.Int("expired", result.Expired),
			slog.Int("already_settled", result.AlreadySettled),
			slog.Int("failed", result.Failed),
		)
	}

	removed, err := s.sessionUC.CleanupExpiredSessions(ctx)
	if err != nil {
		s.logger.Error("[Settler] Session cleanup failed", slog.Any("error", err))

		return
	}
	if removed > 0 {
		s.logger.Info("[Settler] Expired sessions removed", slog.Int64("count", removed))
	}
}

func (s *Sweeper) stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	select {
	case <-stopCtx.Done():
		s.logger.Info("Settlement sweeper stopped")

		return nil
	case <-shutdownCtx.Done():
		return errors.WithStack(shutdownCtx.Err())
	}
}
