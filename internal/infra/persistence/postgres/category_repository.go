package postgres

import (
	"context"

	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/errors"
	"lebay/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.ItemCategory) error {
	categoryM := fromCategoryDomain(category)

	if err := repo.db.WithContext(ctx).Omit("Parent").Create(categoryM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ItemCategory, error) {
	var categoryM model.ItemCategoryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&categoryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) List(ctx context.Context) ([]*entity.ItemCategory, error) {
	var models []model.ItemCategoryModel
	if err := repo.db.WithContext(ctx).Order("title ASC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.ItemCategory, 0, len(models))
	for i := range models {
		categories = append(categories, toCategoryDomain(&models[i]))
	}

	return categories, nil
}

func toCategoryDomain(data *model.ItemCategoryModel) *entity.ItemCategory {
	return &entity.ItemCategory{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		ParentID:    data.ParentID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromCategoryDomain(data *entity.ItemCategory) *model.ItemCategoryModel {
	return &model.ItemCategoryModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		ParentID:    data.ParentID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
