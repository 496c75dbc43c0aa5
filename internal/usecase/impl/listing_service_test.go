package impl

import (
	"context"
	"testing"
	"time"

	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingService_CreateListing(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	category := env.category(t, "Cameras")
	ctx := context.Background()

	_, err := env.sellers.UpdateProfile(ctx, seller.ID, &usecase.UpdateSellerInput{
		DefaultShippingMethod: ptr(entity.ShippingMethodUPS),
		DefaultShippingDetail: ptr("Ships in 2 days"),
		DefaultPaymentDetail:  ptr("PayPal only"),
	})
	require.NoError(t, err)

	out := env.list(t, seller, category, "Leica M6", "100.00", 24*time.Hour)
	assert.Equal(t, entity.ItemStatusRunning, out.Item.Status)
	assert.Equal(t, seller.ID, out.Item.SellerID)
	assert.Equal(t, out.Item.ID, out.Event.ItemID)
	assert.Equal(t, entity.ShippingMethodUPS, out.Event.ShippingMethod)
	assert.Equal(t, "Ships in 2 days", out.Event.ShippingDetail)
	assert.Equal(t, "PayPal only", out.Event.PaymentDetail)
	assert.Nil(t, out.Event.WinningBidderID)

	view, err := env.auctions.GetAuction(ctx, out.Event.ID)
	require.NoError(t, err)
	assert.True(t, view.IsRunning)
	assert.True(t, dec("100.00").Equal(view.CurrentPrice))
}

func TestListingService_CreateListing_Rejections(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	buyer := env.register(t, "buyer")
	category := env.category(t, "Cameras")
	ctx := context.Background()
	now := env.clock.Now()

	valid := func() *usecase.CreateListingInput {
		return &usecase.CreateListingInput{
			Item: usecase.ItemInput{CategoryID: category.ID, Title: "Lens", Condition: entity.ItemConditionNew},
			Auction: usecase.AuctionTermsInput{
				StartTime:     now.Add(time.Hour),
				EndTime:       now.Add(2 * time.Hour),
				StartingPrice: dec("10.00"),
				ReservePrice:  dec("20.00"),
			},
		}
	}

	tests := []struct {
		name    string
		userID  uuid.UUID
		mutate  func(*usecase.CreateListingInput)
		wantErr *domainerrors.BaseError
	}{
		{name: "no seller profile", userID: buyer.ID, mutate: func(*usecase.CreateListingInput) {}, wantErr: domainerrors.ErrSellerProfileRequired},
		{name: "start in past", userID: seller.ID, mutate: func(in *usecase.CreateListingInput) { in.Auction.StartTime = now.Add(-time.Minute) }, wantErr: domainerrors.ErrTimeInPast},
		{name: "end before start", userID: seller.ID, mutate: func(in *usecase.CreateListingInput) { in.Auction.EndTime = now.Add(30 * time.Minute) }, wantErr: domainerrors.ErrEndBeforeStart},
		{name: "reserve below start", userID: seller.ID, mutate: func(in *usecase.CreateListingInput) { in.Auction.ReservePrice = dec("5.00") }, wantErr: domainerrors.ErrReserveBelowStart},
		{name: "unknown category", userID: seller.ID, mutate: func(in *usecase.CreateListingInput) { in.Item.CategoryID = uuid.New() }, wantErr: domainerrors.ErrCategoryNotFound},
		{name: "blank title", userID: seller.ID, mutate: func(in *usecase.CreateListingInput) { in.Item.Title = "  " }, wantErr: domainerrors.ErrValidationFailed},
		{name: "bad condition", userID: seller.ID, mutate: func(in *usecase.CreateListingInput) { in.Item.Condition = "broken" }, wantErr: domainerrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(input)

			_, err := env.listings.CreateListing(ctx, tt.userID, input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.Empty(t, env.store.items, "rejected listings must not create items")
}

func TestListingService_ListExistingItem(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	other := env.registerSeller(t, "other")
	category := env.category(t, "Cameras")
	ctx := context.Background()
	now := env.clock.Now()

	item := &entity.Item{SellerID: seller.ID, CategoryID: category.ID, Title: "Tripod", Condition: entity.ItemConditionGood, Status: entity.ItemStatusIdle}
	require.NoError(t, (&fakeItemRepo{env.store}).Create(ctx, item))

	terms := &usecase.AuctionTermsInput{StartTime: now, EndTime: now.Add(time.Hour), StartingPrice: dec("15.00")}

	_, err := env.listings.ListExistingItem(ctx, other.ID, item.ID, terms)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	out, err := env.listings.ListExistingItem(ctx, seller.ID, item.ID, terms)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusRunning, out.Item.Status)

	_, err = env.listings.ListExistingItem(ctx, seller.ID, item.ID, terms)
	assert.True(t, errors.Is(err, domainerrors.ErrItemNotListable))

	view, err := env.listings.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, view.Events, 1)
	assert.Equal(t, out.Event.ID, view.Events[0].ID)
}

func TestListingService_UpdateItem(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	category := env.category(t, "Cameras")
	other := env.category(t, "Lenses")
	ctx := context.Background()

	idle := &entity.Item{SellerID: seller.ID, CategoryID: category.ID, Title: "Tripod", Condition: entity.ItemConditionGood, Status: entity.ItemStatusIdle}
	require.NoError(t, (&fakeItemRepo{env.store}).Create(ctx, idle))

	updated, err := env.listings.UpdateItem(ctx, seller.ID, idle.ID, &usecase.ItemInput{
		CategoryID: other.ID,
		Title:      "Carbon tripod",
		Condition:  entity.ItemConditionLikeNew,
	})
	require.NoError(t, err)
	assert.Equal(t, "Carbon tripod", updated.Title)
	assert.Equal(t, other.ID, updated.CategoryID)

	running := env.list(t, seller, category, "Flash", "5.00", time.Hour)
	_, err = env.listings.UpdateItem(ctx, seller.ID, running.Item.ID, &usecase.ItemInput{
		CategoryID: category.ID,
		Title:      "Flash unit",
		Condition:  entity.ItemConditionGood,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrItemNotEditable))
}
