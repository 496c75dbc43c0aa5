package auction

import (
	"time"

	domainerrors "lebay/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// Terms are the seller-chosen timing and pricing of a new auction event.
type Terms struct {
	StartTime     time.Time
	EndTime       time.Time
	StartingPrice decimal.Decimal
	ReservePrice  decimal.Decimal
	ShippingFee   decimal.Decimal
}

// ValidateTerms checks a listing before it is created. A zero reserve price
// means no reserve.
func ValidateTerms(t Terms, now time.Time) error {
	if t.StartTime.Before(now) {
		return domainerrors.ErrTimeInPast.WithDetails("start_time")
	}
	if t.EndTime.Before(now) {
		return domainerrors.ErrTimeInPast.WithDetails("end_time")
	}
	if t.EndTime.Before(t.StartTime) {
		return domainerrors.ErrEndBeforeStart
	}

	if t.StartingPrice.IsNegative() {
		return domainerrors.ErrValidationFailed.WithDetails("starting_price must not be negative")
	}
	if t.ShippingFee.IsNegative() {
		return domainerrors.ErrValidationFailed.WithDetails("shipping_fee must not be negative")
	}
	if t.ReservePrice.IsNegative() {
		return domainerrors.ErrValidationFailed.WithDetails("reserve_price must not be negative")
	}
	if !t.ReservePrice.IsZero() && !t.StartingPrice.IsZero() && t.ReservePrice.LessThan(t.StartingPrice) {
		return domainerrors.ErrReserveBelowStart
	}

	return nil
}
