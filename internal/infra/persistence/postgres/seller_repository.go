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

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) repository.SellerRepository {
	return &sellerRepository{db: db}
}

func (repo *sellerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Seller, error) {
	var sellerM model.SellerModel
	err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&sellerM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSellerNotFound
		}

		return nil, errors.Wrap(err, "failed to find seller")
	}

	return toSellerDomain(&sellerM), nil
}

func (repo *sellerRepository) Create(ctx context.Context, seller *entity.Seller) error {
	sellerM := fromSellerDomain(seller)

	if err := repo.db.WithContext(ctx).Create(sellerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrSellerAlreadyExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create seller")
	}

	seller.ID = sellerM.ID
	seller.CreatedAt = sellerM.CreatedAt
	seller.UpdatedAt = sellerM.UpdatedAt

	return nil
}

func (repo *sellerRepository) Update(ctx context.Context, seller *entity.Seller) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SellerModel{}).
		Where("user_id = ?", seller.UserID).
		Updates(map[string]any{
			"paypal_email":            seller.PaypalEmail,
			"default_shipping_method": string(seller.DefaultShippingMethod),
			"default_shipping_detail": seller.DefaultShippingDetail,
			"default_payment_detail":  seller.DefaultPaymentDetail,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update seller")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSellerNotFound
	}

	return nil
}

func toSellerDomain(data *model.SellerModel) *entity.Seller {
	if data == nil {
		return nil
	}

	return &entity.Seller{
		ID:                    data.ID,
		UserID:                data.UserID,
		PaypalEmail:           data.PaypalEmail,
		DefaultShippingMethod: entity.ShippingMethod(data.DefaultShippingMethod),
		DefaultShippingDetail: data.DefaultShippingDetail,
		DefaultPaymentDetail:  data.DefaultPaymentDetail,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}

func fromSellerDomain(data *entity.Seller) *model.SellerModel {
	return &model.SellerModel{
		ID:                    data.ID,
		UserID:                data.UserID,
		PaypalEmail:           data.PaypalEmail,
		DefaultShippingMethod: string(data.DefaultShippingMethod),
		DefaultShippingDetail: data.DefaultShippingDetail,
		DefaultPaymentDetail:  data.DefaultPaymentDetail,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}
