package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/errors"
	"lebay/internal/usecase"
	"lebay/internal/util"

	"github.com/google/uuid"
)

type sellerService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

func NewSellerService(txManager repository.TransactionManager, logger *slog.Logger) usecase.SellerUsecase {
	return &sellerService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *sellerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sellerService) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*entity.Seller, error) {
	var seller *entity.Seller

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		sellerRepo := repoFactory.SellerRepo()

		existing, err := sellerRepo.FindByUserID(ctx, userID)
		if err == nil {
			seller = existing

			return nil
		}
		if !errors.Is(err, repository.ErrSellerNotFound) {
			return errors.Wrap(err, "failed to find seller profile")
		}

		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			return translateRepoError(err, "failed to find user")
		}

		seller = &entity.Seller{
			UserID:                userID,
			PaypalEmail:           user.Email,
			DefaultShippingMethod: entity.ShippingMethodUSPS,
		}
		if err := sellerRepo.Create(ctx, seller); err != nil {
			return errors.Wrap(err, "failed to create seller profile")
		}
		srv.log(ctx).Info("Seller profile created", slog.Any("user_id", userID))

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute seller profile transaction")
	}

	return seller, nil
}

func (srv *sellerService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateSellerInput) (*entity.Seller, error) {
	if input.DefaultShippingMethod != nil && !input.DefaultShippingMethod.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("default_shipping_method")
	}

	seller, err := srv.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.PaypalEmail != nil {
		seller.PaypalEmail = util.NormalizeEmail(*input.PaypalEmail)
	}
	if input.DefaultShippingMethod != nil {
		seller.DefaultShippingMethod = *input.DefaultShippingMethod
	}
	if input.DefaultShippingDetail != nil {
		seller.DefaultShippingDetail = strings.TrimSpace(*input.DefaultShippingDetail)
	}
	if input.DefaultPaymentDetail != nil {
		seller.DefaultPaymentDetail = strings.TrimSpace(*input.DefaultPaymentDetail)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return translateRepoError(repoFactory.SellerRepo().Update(ctx, seller), "failed to update seller profile")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute seller update transaction")
	}

	return seller, nil
}
