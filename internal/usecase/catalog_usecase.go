package usecase

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

type CreateCategoryInput struct {
	Title       string
	Description string
	ParentID    *uuid.UUID
}

// CategoryPage is a category with its current auctions.
type CategoryPage struct {
	Category *entity.ItemCategory
	Auctions *AuctionPage
}

type CatalogUsecase interface {
	GetCategoryTree(ctx context.Context) ([]*entity.CategoryNode, error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.ItemCategory, error)
	GetCategoryPage(ctx context.Context, categoryID uuid.UUID, input *BrowseInput) (*CategoryPage, error)
}
