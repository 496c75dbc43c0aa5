package usecase

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

// SweepResult summarizes one settlement sweep. Sold and Expired count the
// transitions this sweep made; AlreadySettled counts auctions someone else
// settled between listing and locking.
type SweepResult struct {
	Scanned        int
	Sold           int
	Expired        int
	AlreadySettled int
	Failed         int
}

type SettlementUsecase interface {
	// Settle finalizes an ended auction and returns the item status. Calling it
	// again, or before the end time, changes nothing.
	Settle(ctx context.Context, auctionID uuid.UUID) (entity.ItemStatus, error)

	// GetEndedAuction settles the auction if needed and returns its final view.
	GetEndedAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error)

	// Sweep settles up to batchSize ended auctions. One failure does not stop the batch.
	Sweep(ctx context.Context, batchSize int) (*SweepResult, error)
}
