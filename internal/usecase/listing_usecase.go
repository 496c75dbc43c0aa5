package usecase

import (
	"context"
	"time"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemInput struct {
	CategoryID  uuid.UUID
	Title       string
	Description string
	Condition   entity.ItemCondition
}

// AuctionTermsInput describes a new auction event. Empty shipping and payment
// fields fall back to the seller profile defaults.
type AuctionTermsInput struct {
	StartTime      time.Time
	EndTime        time.Time
	StartingPrice  decimal.Decimal
	ReservePrice   decimal.Decimal
	ShippingFee    decimal.Decimal
	ShippingMethod entity.ShippingMethod
	ShippingDetail string
	PaymentDetail  string
}

type CreateListingInput struct {
	Item    ItemInput
	Auction AuctionTermsInput
}

type ListingOutput struct {
	Item  *entity.Item
	Event *entity.AuctionEvent
}

// ItemView is an item with every auction event ever held for it, newest first.
type ItemView struct {
	Item   *entity.Item
	Events []*entity.AuctionEvent
}

type ListingUsecase interface {
	// CreateListing creates an item and its auction event together; the item starts running.
	CreateListing(ctx context.Context, userID uuid.UUID, input *CreateListingInput) (*ListingOutput, error)

	// ListExistingItem puts an idle item up for a new auction.
	ListExistingItem(ctx context.Context, userID, itemID uuid.UUID, input *AuctionTermsInput) (*ListingOutput, error)

	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemView, error)

	// UpdateItem edits an idle item owned by userID.
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input *ItemInput) (*entity.Item, error)
}
