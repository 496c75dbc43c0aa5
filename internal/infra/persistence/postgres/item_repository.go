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
	"gorm.io/gorm/clause"
)

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (repo *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	itemM := fromItemDomain(item)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			if constraintName(err) == "fk_items_category" {
				return repository.ErrCategoryNotFound
			}

			return repository.ErrUserNotFound
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("invalid item fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

func (repo *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var itemM model.ItemModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find item")
	}

	return toItemDomain(&itemM), nil
}

func (repo *itemRepository) UpdateDetails(ctx context.Context, item *entity.Item) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"title":       item.Title,
			"description": item.Description,
			"condition":   string(item.Condition),
			"category_id": item.CategoryID,
		})
	if err := result.Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

// UpdateStatus is a compare-and-set on status.
func (repo *itemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.ItemStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ItemModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update item status")
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ItemModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to check item")
	}
	if count == 0 {
		return repository.ErrItemNotFound
	}

	return repository.ErrItemStatusConflict
}

// ListBySeller returns the seller's items in status, newest first. An empty
// status returns all.
func (repo *itemRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, status entity.ItemStatus) ([]*entity.Item, error) {
	tx := repo.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}

	var models []model.ItemModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}

	items := make([]*entity.Item, 0, len(models))
	for i := range models {
		items = append(items, toItemDomain(&models[i]))
	}

	return items, nil
}

func toItemDomain(data *model.ItemModel) *entity.Item {
	if data == nil {
		return nil
	}

	return &entity.Item{
		ID:          data.ID,
		SellerID:    data.SellerID,
		CategoryID:  data.CategoryID,
		Title:       data.Title,
		Description: data.Description,
		Condition:   entity.ItemCondition(data.Condition),
		Status:      entity.ItemStatus(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromItemDomain(data *entity.Item) *model.ItemModel {
	return &model.ItemModel{
		ID:          data.ID,
		SellerID:    data.SellerID,
		CategoryID:  data.CategoryID,
		Title:       data.Title,
		Description: data.Description,
		Condition:   string(data.Condition),
		Status:      string(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
