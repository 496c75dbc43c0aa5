package impl

import (
	"context"
	"log/slog"

	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	"lebay/internal/domain/repository"
	"lebay/internal/domain/service"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type settlementService struct {
	txManager   repository.TransactionManager
	auctionRepo repository.AuctionRepository
	publisher   service.EventPublisher
	clock       auction.Clock
	logger      *slog.Logger
}

type SettlementServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AuctionRepo repository.AuctionRepository
	Publisher   service.EventPublisher
	Clock       auction.Clock
	Logger      *slog.Logger
}

func NewSettlementService(params SettlementServiceParams) usecase.SettlementUsecase {
	return &settlementService{
		txManager:   params.TxManager,
		auctionRepo: params.AuctionRepo,
		publisher:   params.Publisher,
		clock:       params.Clock,
		logger:      params.Logger,
	}
}

func (srv *settlementService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Settle moves a running item to sold or expired once its auction has ended.
func (srv *settlementService) Settle(ctx context.Context, auctionID uuid.UUID) (entity.ItemStatus, error) {
	status, a, changed, err := srv.settle(ctx, auctionID)
	if err != nil {
		return "", err
	}

	if changed {
		srv.announce(ctx, a, status)
	}

	return status, nil
}

func (srv *settlementService) settle(ctx context.Context, auctionID uuid.UUID) (entity.ItemStatus, *entity.Auction, bool, error) {
	var (
		status  entity.ItemStatus
		settled *entity.Auction
		changed bool
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		a, err := repoFactory.AuctionRepo().LockByID(ctx, auctionID)
		if err != nil {
			return translateRepoError(err, "failed to lock auction")
		}

		status, changed = auction.SettlementOutcome(a, srv.clock.Now())
		if changed {
			if err := repoFactory.ItemRepo().UpdateStatus(ctx, a.Item.ID, entity.ItemStatusRunning, status); err != nil {
				return errors.Wrap(err, "failed to update item status")
			}
			a.Item.Status = status
		}
		settled = a

		return nil
	})
	if err != nil {
		return "", nil, false, errors.Wrap(err, "failed to settle auction")
	}

	if changed {
		srv.log(ctx).Info("Auction settled",
			slog.Any("auction_id", auctionID),
			slog.String("status", status.String()),
			slog.Int64("bids", settled.BidCount),
		)
	}

	return status, settled, changed, nil
}

func (srv *settlementService) announce(ctx context.Context, a *entity.Auction, status entity.ItemStatus) {
	msg := &entity.AuctionEventMessage{
		Type:           entity.EventAuctionSettled,
		AuctionEventID: a.Event.ID,
		ItemID:         a.Item.ID,
		ItemStatus:     status,
	}
	if status == entity.ItemStatusSold && a.HighestBid != nil {
		winner, amount := a.HighestBid.BidderID, a.HighestBid.Amount
		msg.UserID, msg.Amount = &winner, &amount
	}

	publishEvent(ctx, srv.publisher, srv.clock, srv.log(ctx), msg)
}

// GetEndedAuction settles lazily so a page view never shows a stale running state.
func (srv *settlementService) GetEndedAuction(ctx context.Context, auctionID uuid.UUID) (*usecase.AuctionView, error) {
	status, a, changed, err := srv.settle(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if changed {
		srv.announce(ctx, a, status)
	}

	return newAuctionView(a, srv.clock.Now()), nil
}

func (srv *settlementService) Sweep(ctx context.Context, batchSize int) (*usecase.SweepResult, error) {
	ids, err := srv.auctionRepo.ListEndedRunningIDs(ctx, srv.clock.Now(), batchSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ended auctions")
	}

	result := &usecase.SweepResult{Scanned: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, errors.WithStack(err)
		}

		status, a, changed, err := srv.settle(ctx, id)
		if err != nil {
			result.Failed++
			srv.log(ctx).Error("Failed to settle auction", slog.Any("auction_id", id), slog.Any("error", err))

			continue
		}
		if !changed {
			result.AlreadySettled++

			continue
		}
		srv.announce(ctx, a, status)

		switch status {
		case entity.ItemStatusSold:
			result.Sold++
		case entity.ItemStatusExpired:
			result.Expired++
		}
	}

	if result.Scanned > 0 {
		srv.log(ctx).Info("Settlement sweep finished",
			slog.Int("scanned", result.Scanned),
			slog.Int("sold", result.Sold),
			slog.Int("expired", result.Expired),
			slog.Int("already_settled", result.AlreadySettled),
			slog.Int("failed", result.Failed),
		)
	}

	return result, nil
}
