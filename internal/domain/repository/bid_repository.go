package repository

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

// BidRepository stores immutable bids.
type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error

	// ListByAuction returns bids by amount descending.
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*entity.Bid, error)
}
