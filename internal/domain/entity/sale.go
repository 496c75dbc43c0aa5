package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks the payment of a won auction.
type PaymentStatus string

const (
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCleared    PaymentStatus = "cleared"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusProcessing, PaymentStatusCleared, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo lets a seller resolve a processing payment, and refund a
// cleared one.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusProcessing:
		return next == PaymentStatusCleared || next == PaymentStatusFailed || next == PaymentStatusRefunded
	case PaymentStatusCleared:
		return next == PaymentStatusRefunded
	default:
		return false
	}
}

// Sale is the payment record of a won auction.
type Sale struct {
	ID             uuid.UUID
	AuctionEventID uuid.UUID
	BuyerID        uuid.UUID
	PaypalEmail    string // Payer's PayPal account as entered on the payment form.
	PaymentStatus  PaymentStatus
	InvoiceNumber  string // Unique and unguessable.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
