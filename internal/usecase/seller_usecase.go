package usecase

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateSellerInput leaves nil fields unchanged.
type UpdateSellerInput struct {
	PaypalEmail           *string
	DefaultShippingMethod *entity.ShippingMethod
	DefaultShippingDetail *string
	DefaultPaymentDetail  *string
}

type SellerUsecase interface {
	// GetOrCreateProfile creates a profile on first access, with the paypal
	// email defaulting to the account email.
	GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*entity.Seller, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateSellerInput) (*entity.Seller, error)
}
