package repository

import (
	"context"
	"time"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

// ErrAuctionNotFound is returned when no auction event matches the id.
var ErrAuctionNotFound = errors.New("auction event not found")

// AuctionSort orders auction listings.
type AuctionSort string

const (
	AuctionSortTitle      AuctionSort = "title"
	AuctionSortPriceAsc   AuctionSort = "price_asc"
	AuctionSortPriceDesc  AuctionSort = "price_desc"
	AuctionSortEndingSoon AuctionSort = "ending_soon"
	AuctionSortNewest     AuctionSort = "newest"
	// AuctionSortDefault keeps storage order (creation time).
	AuctionSortDefault AuctionSort = ""
)

// ParseAuctionSort maps unknown values to AuctionSortTitle.
func ParseAuctionSort(s string) AuctionSort {
	switch sort := AuctionSort(s); sort {
	case AuctionSortTitle, AuctionSortPriceAsc, AuctionSortPriceDesc, AuctionSortEndingSoon, AuctionSortNewest:
		return sort
	default:
		return AuctionSortTitle
	}
}

// CurrentAuctionQuery selects auctions that are running at Now: the item is
// running and StartTime <= Now < EndTime.
type CurrentAuctionQuery struct {
	Now             time.Time
	Search          string     // Case-insensitive substring of item title or description.
	CategoryID      *uuid.UUID // Restrict to one category.
	ExcludeSellerID *uuid.UUID // Hide the caller's own listings.
	Sort            AuctionSort
	Limit           int // 0 means no limit.
	Offset          int
}

// AuctionRepository loads AuctionEvents as entity.Auction aggregates.
type AuctionRepository interface {
	Create(ctx context.Context, event *entity.AuctionEvent) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Auction, error)

	// LockByID row-locks the auction event until the transaction ends and
	// returns the aggregate read after the lock was granted.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Auction, error)

	SetWinningBidder(ctx context.Context, id uuid.UUID, bidderID uuid.UUID) error

	// ListCurrent returns one page and the total match count.
	ListCurrent(ctx context.Context, query CurrentAuctionQuery) ([]*entity.Auction, int64, error)

	// ListEndedRunningIDs finds auctions past end time whose item is still running.
	ListEndedRunningIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)

	// ListBySeller returns auctions of the seller's items in the given item status.
	ListBySeller(ctx context.Context, sellerID uuid.UUID, status entity.ItemStatus) ([]*entity.Auction, error)

	// ListWonBy returns sold auctions whose winning bidder is bidderID.
	ListWonBy(ctx context.Context, bidderID uuid.UUID) ([]*entity.Auction, error)

	ListByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.AuctionEvent, error)
}
