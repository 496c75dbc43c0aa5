package usecase

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

type PayInput struct {
	PaypalEmail string
}

type PaymentUsecase interface {
	// Pay records the winner's payment; a second attempt fails with AlreadyPaid.
	Pay(ctx context.Context, auctionID, payerID uuid.UUID, input *PayInput) (*entity.Sale, error)

	// ListSales returns the sales of items sold by userID.
	ListSales(ctx context.Context, userID uuid.UUID) ([]*entity.Sale, error)

	// UpdatePaymentStatus lets the seller resolve a payment.
	UpdatePaymentStatus(ctx context.Context, userID, saleID uuid.UUID, status entity.PaymentStatus) (*entity.Sale, error)

	// GetInvoiceQR renders the invoice QR code for the buyer or the seller.
	GetInvoiceQR(ctx context.Context, userID, saleID uuid.UUID) ([]byte, error)
}
