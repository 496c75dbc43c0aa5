package repository

import (
	"context"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

var (
	ErrSellerNotFound      = errors.New("seller profile not found")
	ErrSellerAlreadyExists = errors.New("seller profile already exists")
)

// SellerRepository persists seller profiles (1:1 with users).
type SellerRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Seller, error)

	// Create yields ErrSellerAlreadyExists when the user already has a profile.
	Create(ctx context.Context, seller *entity.Seller) error

	Update(ctx context.Context, seller *entity.Seller) error
}
