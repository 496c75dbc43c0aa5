package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names an auction domain event.
type EventType string

const (
	EventBidPlaced      EventType = "auction.bid_placed"
	EventAuctionSettled EventType = "auction.settled"
	EventSaleCreated    EventType = "sale.created"
)

// AuctionEventMessage is the payload published for every auction domain event.
type AuctionEventMessage struct {
	ID             uuid.UUID        `json:"id"`
	Type           EventType        `json:"type"`
	AuctionEventID uuid.UUID        `json:"auction_event_id"`
	ItemID         uuid.UUID        `json:"item_id"`
	UserID         *uuid.UUID       `json:"user_id,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	ItemStatus     ItemStatus       `json:"item_status,omitempty"`
	InvoiceNumber  string           `json:"invoice_number,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}
