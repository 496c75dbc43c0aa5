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

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) repository.SaleRepository {
	return &saleRepository{db: db}
}

// Create relies on the unique auction_event_id index to reject a second sale.
func (repo *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	saleM := fromSaleDomain(sale)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(saleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrSaleAlreadyExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrAuctionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create sale")
	}

	sale.ID = saleM.ID
	sale.CreatedAt = saleM.CreatedAt
	sale.UpdatedAt = saleM.UpdatedAt

	return nil
}

func (repo *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var saleM model.SaleModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&saleM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSaleNotFound
		}

		return nil, errors.Wrap(err, "failed to find sale")
	}

	return toSaleDomain(&saleM), nil
}

func (repo *saleRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Sale, error) {
	var models []model.SaleModel
	err := repo.db.WithContext(ctx).
		Joins("JOIN auction_events ON auction_events.id = sales.auction_event_id").
		Joins("JOIN items ON items.id = auction_events.item_id").
		Where("items.seller_id = ?", sellerID).
		Order("sales.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sales")
	}

	sales := make([]*entity.Sale, 0, len(models))
	for i := range models {
		sales = append(sales, toSaleDomain(&models[i]))
	}

	return sales, nil
}

func (repo *saleRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SaleModel{}).
		Where("id = ?", id).
		Update("payment_status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update payment status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSaleNotFound
	}

	return nil
}

func toSaleDomain(data *model.SaleModel) *entity.Sale {
	return &entity.Sale{
		ID:             data.ID,
		AuctionEventID: data.AuctionEventID,
		BuyerID:        data.BuyerID,
		PaypalEmail:    data.PaypalEmail,
		PaymentStatus:  entity.PaymentStatus(data.PaymentStatus),
		InvoiceNumber:  data.InvoiceNumber,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromSaleDomain(data *entity.Sale) *model.SaleModel {
	return &model.SaleModel{
		ID:             data.ID,
		AuctionEventID: data.AuctionEventID,
		BuyerID:        data.BuyerID,
		PaypalEmail:    data.PaypalEmail,
		PaymentStatus:  string(data.PaymentStatus),
		InvoiceNumber:  data.InvoiceNumber,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
