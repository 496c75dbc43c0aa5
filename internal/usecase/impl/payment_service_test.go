package impl

import (
	"context"
	"testing"
	"time"

	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	env     *testEnv
	seller  *entity.User
	winner  *entity.User
	loser   *entity.User
	listing *usecase.ListingOutput
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	env := newTestEnv(t, 0)
	f := &paymentFixture{
		env:    env,
		seller: env.registerSeller(t, "seller"),
		winner: env.register(t, "winner"),
		loser:  env.register(t, "loser"),
	}
	f.listing = env.list(t, f.seller, env.category(t, "Music"), "Guitar", "100.00", time.Hour)

	ctx := context.Background()
	_, err := env.auctions.PlaceBid(ctx, f.listing.Event.ID, f.loser.ID, dec("110.00"))
	require.NoError(t, err)
	_, err = env.auctions.PlaceBid(ctx, f.listing.Event.ID, f.winner.ID, dec("120.00"))
	require.NoError(t, err)

	return f
}

func TestPaymentService_Pay(t *testing.T) {
	f := newPaymentFixture(t)
	env := f.env
	ctx := context.Background()
	auctionID := f.listing.Event.ID
	input := &usecase.PayInput{PaypalEmail: " Winner@PayPal.com "}

	_, err := env.payments.Pay(ctx, auctionID, f.winner.ID, input)
	assert.True(t, errors.Is(err, domainerrors.ErrAuctionNotSettled), "cannot pay while running")

	env.clock.Advance(time.Hour)

	_, err = env.payments.Pay(ctx, auctionID, f.loser.ID, input)
	assert.True(t, errors.Is(err, domainerrors.ErrNotWinner))

	_, err = env.payments.Pay(ctx, auctionID, f.winner.ID, &usecase.PayInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	sale, err := env.payments.Pay(ctx, auctionID, f.winner.ID, input)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusProcessing, sale.PaymentStatus)
	assert.Equal(t, "winner@paypal.com", sale.PaypalEmail)
	assert.Equal(t, f.winner.ID, sale.BuyerID)
	assert.NotEmpty(t, sale.InvoiceNumber)

	_, err = env.payments.Pay(ctx, auctionID, f.winner.ID, input)
	assert.True(t, errors.Is(err, domainerrors.ErrAlreadyPaid))

	view, err := env.auctions.GetAuction(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentStatusProcessing), view.PaymentStatus)

	created := env.publisher.ofType(entity.EventSaleCreated)
	require.Len(t, created, 1)
	assert.Equal(t, sale.InvoiceNumber, created[0].InvoiceNumber)
	assert.Len(t, env.publisher.ofType(entity.EventAuctionSettled), 1, "lazy settlement is announced once")
}

func TestPaymentService_Pay_ExpiredAuction(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	buyer := env.register(t, "buyer")
	listing := env.list(t, seller, env.category(t, "Music"), "Drum", "10.00", time.Hour)

	env.clock.Advance(time.Hour)

	_, err := env.payments.Pay(context.Background(), listing.Event.ID, buyer.ID, &usecase.PayInput{PaypalEmail: "buyer@paypal.com"})
	assert.True(t, errors.Is(err, domainerrors.ErrAuctionNotSettled))
}

func TestPaymentService_UpdatePaymentStatus(t *testing.T) {
	f := newPaymentFixture(t)
	env := f.env
	ctx := context.Background()

	env.clock.Advance(time.Hour)
	sale, err := env.payments.Pay(ctx, f.listing.Event.ID, f.winner.ID, &usecase.PayInput{PaypalEmail: "winner@paypal.com"})
	require.NoError(t, err)

	_, err = env.payments.UpdatePaymentStatus(ctx, f.winner.ID, sale.ID, entity.PaymentStatusCleared)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden), "buyers cannot clear their own payment")

	_, err = env.payments.UpdatePaymentStatus(ctx, f.seller.ID, sale.ID, "lost")
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	updated, err := env.payments.UpdatePaymentStatus(ctx, f.seller.ID, sale.ID, entity.PaymentStatusCleared)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCleared, updated.PaymentStatus)

	_, err = env.payments.UpdatePaymentStatus(ctx, f.seller.ID, sale.ID, entity.PaymentStatusFailed)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidPaymentStatus))

	_, err = env.payments.UpdatePaymentStatus(ctx, f.seller.ID, sale.ID, entity.PaymentStatusRefunded)
	require.NoError(t, err)

	sales, err := env.payments.ListSales(ctx, f.seller.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, entity.PaymentStatusRefunded, sales[0].PaymentStatus)

	none, err := env.payments.ListSales(ctx, f.winner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPaymentService_GetInvoiceQR(t *testing.T) {
	f := newPaymentFixture(t)
	env := f.env
	ctx := context.Background()

	env.clock.Advance(time.Hour)
	sale, err := env.payments.Pay(ctx, f.listing.Event.ID, f.winner.ID, &usecase.PayInput{PaypalEmail: "winner@paypal.com"})
	require.NoError(t, err)

	for _, viewer := range []*entity.User{f.winner, f.seller} {
		png, err := env.payments.GetInvoiceQR(ctx, viewer.ID, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, "png:"+sale.InvoiceNumber, string(png))
	}

	_, err = env.payments.GetInvoiceQR(ctx, f.loser.ID, sale.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}
