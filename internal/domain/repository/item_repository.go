package repository

import (
	"context"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound = errors.New("item not found")
	// ErrItemStatusConflict is returned when a conditional status update finds
	// the item in a different status than expected.
	ErrItemStatusConflict = errors.New("item status changed concurrently")
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)

	// UpdateDetails saves title, description, condition and category.
	UpdateDetails(ctx context.Context, item *entity.Item) error

	// UpdateStatus moves the item from -> to, or fails with ErrItemStatusConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.ItemStatus) error

	ListBySeller(ctx context.Context, sellerID uuid.UUID, status entity.ItemStatus) ([]*entity.Item, error)
}
