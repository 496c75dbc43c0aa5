package usecase

import (
	"context"
	"time"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BrowseInput selects a page of current auctions. Zero Page/Limit use the
// configured defaults.
type BrowseInput struct {
	Search     string
	Sort       string
	Page       int
	Limit      int
	CategoryID *uuid.UUID
	ViewerID   *uuid.UUID // When set, the viewer's own listings are hidden.
}

// AuctionView is an auction with its derived state evaluated at At.
type AuctionView struct {
	Auction           *entity.Auction
	CurrentPrice      decimal.Decimal
	HasStarted        bool
	HasEnded          bool
	IsRunning         bool
	TimeRemaining     time.Duration
	TimeRemainingText string
	PaymentStatus     string
	At                time.Time
}

type AuctionPage struct {
	Auctions []*AuctionView
	Total    int64
	Page     int
	Limit    int
}

type BidHistory struct {
	Auction    *AuctionView
	Bids       []*entity.Bid // Amount descending.
	HighestBid *entity.Bid
}

type AuctionUsecase interface {
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error)
	Browse(ctx context.Context, input *BrowseInput) (*AuctionPage, error)

	// Search returns running auctions whose item title or description contains
	// query, case-insensitively. An empty query returns every running auction.
	Search(ctx context.Context, query string) ([]*AuctionView, error)

	GetBidHistory(ctx context.Context, auctionID uuid.UUID) (*BidHistory, error)
	PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*entity.Bid, error)
}
