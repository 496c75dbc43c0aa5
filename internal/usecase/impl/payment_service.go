package impl

import (
	"context"
	"log/slog"

	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/domain/service"
	"lebay/internal/errors"
	"lebay/internal/usecase"
	"lebay/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type paymentService struct {
	txManager   repository.TransactionManager
	saleRepo    repository.SaleRepository
	auctionRepo repository.AuctionRepository
	settlement  usecase.SettlementUsecase
	qrCode      service.QRCodeService
	publisher   service.EventPublisher
	clock       auction.Clock
	logger      *slog.Logger
}

type PaymentServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	SaleRepo    repository.SaleRepository
	AuctionRepo repository.AuctionRepository
	Settlement  usecase.SettlementUsecase
	QRCode      service.QRCodeService
	Publisher   service.EventPublisher
	Clock       auction.Clock
	Logger      *slog.Logger
}

func NewPaymentService(params PaymentServiceParams) usecase.PaymentUsecase {
	return &paymentService{
		txManager:   params.TxManager,
		saleRepo:    params.SaleRepo,
		auctionRepo: params.AuctionRepo,
		settlement:  params.Settlement,
		qrCode:      params.QRCode,
		publisher:   params.Publisher,
		clock:       params.Clock,
		logger:      params.Logger,
	}
}

func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Pay records a processing sale for the winner of an ended auction.
func (srv *paymentService) Pay(ctx context.Context, auctionID, payerID uuid.UUID, input *usecase.PayInput) (*entity.Sale, error) {
	paypalEmail := util.NormalizeEmail(input.PaypalEmail)
	if paypalEmail == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("paypal_email is required")
	}

	// An ended auction nobody has visited since may still be running.
	if _, err := srv.settlement.Settle(ctx, auctionID); err != nil {
		return nil, err
	}

	var (
		sale   *entity.Sale
		itemID uuid.UUID
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		a, err := repoFactory.AuctionRepo().LockByID(ctx, auctionID)
		if err != nil {
			return translateRepoError(err, "failed to lock auction")
		}

		if a.Item.Status != entity.ItemStatusSold {
			return errors.WithStack(domainerrors.ErrAuctionNotSettled)
		}
		if a.Event.WinningBidderID == nil || *a.Event.WinningBidderID != payerID {
			return errors.WithStack(domainerrors.ErrNotWinner)
		}
		if auction.IsPaid(a) {
			return errors.WithStack(domainerrors.ErrAlreadyPaid)
		}

		sale = &entity.Sale{
			AuctionEventID: auctionID,
			BuyerID:        payerID,
			PaypalEmail:    paypalEmail,
			PaymentStatus:  entity.PaymentStatusProcessing,
			InvoiceNumber:  util.NewInvoiceNumber(srv.clock.Now()),
		}
		if err := repoFactory.SaleRepo().Create(ctx, sale); err != nil {
			return translateRepoError(err, "failed to create sale")
		}
		itemID = a.Item.ID

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Payment rejected", slog.Any("auction_id", auctionID), slog.Any("payer_id", payerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to pay")
	}
	srv.log(ctx).Info("Payment recorded", slog.Any("auction_id", auctionID), slog.String("invoice", sale.InvoiceNumber))

	publishEvent(ctx, srv.publisher, srv.clock, srv.log(ctx), &entity.AuctionEventMessage{
		Type:           entity.EventSaleCreated,
		AuctionEventID: auctionID,
		ItemID:         itemID,
		UserID:         &payerID,
		InvoiceNumber:  sale.InvoiceNumber,
		OccurredAt:     sale.CreatedAt,
	})

	return sale, nil
}

func (srv *paymentService) ListSales(ctx context.Context, userID uuid.UUID) ([]*entity.Sale, error) {
	sales, err := srv.saleRepo.ListBySeller(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sales")
	}

	return sales, nil
}

func (srv *paymentService) UpdatePaymentStatus(ctx context.Context, userID, saleID uuid.UUID, status entity.PaymentStatus) (*entity.Sale, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("payment_status")
	}

	var sale *entity.Sale
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		sale, err = repoFactory.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return translateRepoError(err, "failed to find sale")
		}

		a, err := repoFactory.AuctionRepo().FindByID(ctx, sale.AuctionEventID)
		if err != nil {
			return translateRepoError(err, "failed to find auction")
		}
		if a.Item.SellerID != userID {
			return errors.Wrap(domainerrors.ErrForbidden, "only the seller can update the payment status")
		}

		if !sale.PaymentStatus.CanTransitionTo(status) {
			return domainerrors.ErrInvalidPaymentStatus.WithDetails(string(sale.PaymentStatus) + " -> " + string(status))
		}
		if err := repoFactory.SaleRepo().UpdatePaymentStatus(ctx, saleID, status); err != nil {
			return translateRepoError(err, "failed to update payment status")
		}
		sale.PaymentStatus = status

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute payment status transaction")
	}
	srv.log(ctx).Info("Payment status updated", slog.Any("sale_id", saleID), slog.String("status", string(status)))

	return sale, nil
}

// GetInvoiceQR is available to the buyer and the seller of the sale.
func (srv *paymentService) GetInvoiceQR(ctx context.Context, userID, saleID uuid.UUID) ([]byte, error) {
	sale, err := srv.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, translateRepoError(err, "failed to find sale")
	}

	if sale.BuyerID != userID {
		a, err := srv.auctionRepo.FindByID(ctx, sale.AuctionEventID)
		if err != nil {
			return nil, translateRepoError(err, "failed to find auction")
		}
		if a.Item.SellerID != userID {
			return nil, errors.WithStack(domainerrors.ErrForbidden)
		}
	}

	png, err := srv.qrCode.GenerateInvoiceQR(sale.InvoiceNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate invoice qr code")
	}

	return png, nil
}
