package repository

import (
	"context"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

// ErrCategoryNotFound is returned when no category matches the id.
var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.ItemCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ItemCategory, error)

	// List returns every category ordered by title.
	List(ctx context.Context) ([]*entity.ItemCategory, error)
}
