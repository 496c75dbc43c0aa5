package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is an immutable offer on an auction event.
type Bid struct {
	ID             uuid.UUID
	AuctionEventID uuid.UUID
	BidderID       uuid.UUID
	Amount         decimal.Decimal
	CreatedAt      time.Time
}
