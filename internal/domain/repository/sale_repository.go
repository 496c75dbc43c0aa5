package repository

import (
	"context"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

var (
	ErrSaleNotFound = errors.New("sale not found")
	// ErrSaleAlreadyExists is returned when the auction already has a sale.
	ErrSaleAlreadyExists = errors.New("sale already exists for auction")
)

// SaleRepository persists payment records.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// ListBySeller returns sales of items owned by sellerID, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Sale, error)

	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
}
