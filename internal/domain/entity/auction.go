package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingMethod is how a seller ships a sold item.
type ShippingMethod string

const (
	ShippingMethodUSPS   ShippingMethod = "usps"
	ShippingMethodUPS    ShippingMethod = "ups"
	ShippingMethodFedEx  ShippingMethod = "fedex"
	ShippingMethodPickup ShippingMethod = "pickup"
	ShippingMethodOther  ShippingMethod = "other"
)

func (m ShippingMethod) IsValid() bool {
	switch m {
	case ShippingMethodUSPS, ShippingMethodUPS, ShippingMethodFedEx, ShippingMethodPickup, ShippingMethodOther:
		return true
	default:
		return false
	}
}

// AuctionEvent is a timed sale of exactly one Item.
type AuctionEvent struct {
	ID              uuid.UUID
	ItemID          uuid.UUID
	ShippingMethod  ShippingMethod
	ShippingDetail  string
	PaymentDetail   string
	StartTime       time.Time
	EndTime         time.Time
	StartingPrice   decimal.Decimal
	ShippingFee     decimal.Decimal
	ReservePrice    decimal.Decimal // Advisory only.
	WinningBidderID *uuid.UUID      // Highest bidder so far; nil until the first bid.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Auction is an AuctionEvent loaded together with what its rules need:
// the item it sells, its highest bid, bid count and sale records.
type Auction struct {
	Event      *AuctionEvent
	Item       *Item
	HighestBid *Bid // Nil when no bids exist.
	BidCount   int64
	Sales      []*Sale // Newest first.
}
