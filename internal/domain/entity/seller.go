package entity

import (
	"time"

	"github.com/google/uuid"
)

// Seller holds the payment and shipping defaults of a user who lists items.
type Seller struct {
	ID                    uuid.UUID
	UserID                uuid.UUID // 1:1 with User.
	PaypalEmail           string    // Where winning bidders send payment.
	DefaultShippingMethod ShippingMethod
	DefaultShippingDetail string
	DefaultPaymentDetail  string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
