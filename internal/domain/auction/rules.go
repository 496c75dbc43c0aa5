// Package auction holds the auction lifecycle and bidding rules. Every rule is
// a pure function of the loaded auction and an explicit "now".
package auction

import (
	"time"

	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// HasStarted reports now >= start time.
func HasStarted(event *entity.AuctionEvent, now time.Time) bool {
	return !now.Before(event.StartTime)
}

// HasEnded reports now >= end time.
func HasEnded(event *entity.AuctionEvent, now time.Time) bool {
	return !now.Before(event.EndTime)
}

// IsRunning reports whether bids may currently be placed.
func IsRunning(a *entity.Auction, now time.Time) bool {
	return HasStarted(a.Event, now) && !HasEnded(a.Event, now) && a.Item.Status == entity.ItemStatusRunning
}

// CurrentPrice is the highest bid, or the starting price when there are none.
func CurrentPrice(a *entity.Auction) decimal.Decimal {
	if a.HighestBid == nil {
		return a.Event.StartingPrice
	}

	return a.HighestBid.Amount
}

// ValidateBid decides whether amount may be accepted at now.
func ValidateBid(a *entity.Auction, amount decimal.Decimal, now time.Time) error {
	if HasEnded(a.Event, now) || a.Item.Status.IsTerminal() {
		return domainerrors.ErrAuctionExpired
	}
	if !HasStarted(a.Event, now) || a.Item.Status != entity.ItemStatusRunning {
		return domainerrors.ErrAuctionNotStarted
	}

	if price := CurrentPrice(a); amount.LessThanOrEqual(price) {
		return domainerrors.ErrBidTooLow.WithDetails("current price is " + price.StringFixed(2))
	}

	return nil
}

// SettlementOutcome returns the status the item should move to and whether a
// write is needed. Items already sold or expired, and auctions that have not
// ended yet, need no write.
func SettlementOutcome(a *entity.Auction, now time.Time) (entity.ItemStatus, bool) {
	if a.Item.Status != entity.ItemStatusRunning || !HasEnded(a.Event, now) {
		return a.Item.Status, false
	}

	if a.BidCount > 0 {
		return entity.ItemStatusSold, true
	}

	return entity.ItemStatusExpired, true
}

// IsPaid reports whether a sale exists for the auction.
func IsPaid(a *entity.Auction) bool {
	return len(a.Sales) > 0
}

// PaymentStatusLabel is "Unpaid" or the status of the newest sale.
func PaymentStatusLabel(a *entity.Auction) string {
	if !IsPaid(a) {
		return "Unpaid"
	}

	return string(a.Sales[0].PaymentStatus)
}
