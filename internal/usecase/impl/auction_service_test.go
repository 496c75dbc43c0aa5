package impl

import (
	"context"
	"fmt"
	"sync"
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

func TestAuctionService_PlaceBid(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	category := env.category(t, "Watches")
	listing := env.list(t, seller, category, "Omega", "10.00", 24*time.Hour)
	auctionID := listing.Event.ID
	ctx := context.Background()

	bid, err := env.auctions.PlaceBid(ctx, auctionID, alice.ID, dec("12.00"))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, bid.BidderID)

	_, err = env.auctions.PlaceBid(ctx, auctionID, bob.ID, dec("11.00"))
	assert.True(t, errors.Is(err, domainerrors.ErrBidTooLow))

	_, err = env.auctions.PlaceBid(ctx, auctionID, bob.ID, dec("12.00"))
	assert.True(t, errors.Is(err, domainerrors.ErrBidTooLow), "equal bids are too low")

	_, err = env.auctions.PlaceBid(ctx, auctionID, bob.ID, dec("15.50"))
	require.NoError(t, err)

	view, err := env.auctions.GetAuction(ctx, auctionID)
	require.NoError(t, err)
	assert.True(t, dec("15.50").Equal(view.CurrentPrice))
	require.NotNil(t, view.Auction.Event.WinningBidderID)
	assert.Equal(t, bob.ID, *view.Auction.Event.WinningBidderID)
	assert.Equal(t, int64(2), view.Auction.BidCount)

	history, err := env.auctions.GetBidHistory(ctx, auctionID)
	require.NoError(t, err)
	require.Len(t, history.Bids, 2)
	assert.True(t, dec("15.50").Equal(history.Bids[0].Amount))
	assert.Equal(t, bob.ID, history.HighestBid.BidderID)

	placed := env.publisher.ofType(entity.EventBidPlaced)
	require.Len(t, placed, 2)
	assert.Equal(t, auctionID, placed[1].AuctionEventID)
	assert.True(t, dec("15.50").Equal(*placed[1].Amount))
}

func TestAuctionService_PlaceBid_Rejections(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	alice := env.register(t, "alice")
	category := env.category(t, "Watches")
	ctx := context.Background()
	now := env.clock.Now()

	listing := env.list(t, seller, category, "Omega", "10.00", time.Hour)

	future, err := env.listings.CreateListing(ctx, seller.ID, &usecase.CreateListingInput{
		Item:    usecase.ItemInput{CategoryID: category.ID, Title: "Rolex", Condition: entity.ItemConditionNew},
		Auction: usecase.AuctionTermsInput{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), StartingPrice: dec("10.00")},
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		auctionID uuid.UUID
		bidderID  uuid.UUID
		amount    string
		wantErr   *domainerrors.BaseError
	}{
		{name: "own auction", auctionID: listing.Event.ID, bidderID: seller.ID, amount: "20.00", wantErr: domainerrors.ErrOwnAuction},
		{name: "not started", auctionID: future.Event.ID, bidderID: alice.ID, amount: "20.00", wantErr: domainerrors.ErrAuctionNotStarted},
		{name: "equal to starting price", auctionID: listing.Event.ID, bidderID: alice.ID, amount: "10.00", wantErr: domainerrors.ErrBidTooLow},
		{name: "zero", auctionID: listing.Event.ID, bidderID: alice.ID, amount: "0", wantErr: domainerrors.ErrValidationFailed},
		{name: "too precise", auctionID: listing.Event.ID, bidderID: alice.ID, amount: "10.001", wantErr: domainerrors.ErrValidationFailed},
		{name: "above maximum", auctionID: listing.Event.ID, bidderID: alice.ID, amount: "10000.00", wantErr: domainerrors.ErrValidationFailed},
		{name: "unknown auction", auctionID: uuid.New(), bidderID: alice.ID, amount: "20.00", wantErr: domainerrors.ErrAuctionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auctions.PlaceBid(ctx, tt.auctionID, tt.bidderID, dec(tt.amount))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("expired", func(t *testing.T) {
		env.clock.Advance(time.Hour)
		_, err := env.auctions.PlaceBid(ctx, listing.Event.ID, alice.ID, dec("20.00"))
		assert.True(t, errors.Is(err, domainerrors.ErrAuctionExpired))
	})

	assert.Empty(t, env.publisher.ofType(entity.EventBidPlaced))
}

// Concurrent bids for the same amount: exactly one wins, the rest are too low.
func TestAuctionService_PlaceBid_ConcurrentSameAmount(t *testing.T) {
	const bidders = 10

	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	category := env.category(t, "Watches")
	listing := env.list(t, seller, category, "Omega", "10.00", time.Hour)

	users := make([]*entity.User, bidders)
	for i := range users {
		users[i] = env.register(t, fmt.Sprintf("bidder%d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		tooLow   int
	)
	for _, u := range users {
		wg.Add(1)
		go func(bidderID uuid.UUID) {
			defer wg.Done()

			_, err := env.auctions.PlaceBid(context.Background(), listing.Event.ID, bidderID, dec("20.00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, domainerrors.ErrBidTooLow):
				tooLow++
			default:
				t.Errorf("unexpected bid error: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, bidders-1, tooLow)

	history, err := env.auctions.GetBidHistory(context.Background(), listing.Event.ID)
	require.NoError(t, err)
	require.Len(t, history.Bids, 1)
	assert.Equal(t, history.Bids[0].BidderID, *history.Auction.Auction.Event.WinningBidderID)
}

func TestAuctionService_BrowseAndSearch(t *testing.T) {
	env := newTestEnv(t, 0)
	seller := env.registerSeller(t, "seller")
	viewer := env.registerSeller(t, "viewer")
	books := env.category(t, "Books")
	games := env.category(t, "Games")
	ctx := context.Background()

	env.list(t, seller, books, "Dune", "5.00", time.Hour)
	env.list(t, seller, books, "Emma", "5.00", time.Hour)
	env.list(t, seller, games, "Chess set", "5.00", time.Hour)
	env.list(t, viewer, games, "Backgammon", "5.00", time.Hour)
	env.list(t, seller, games, "Ending soon", "5.00", time.Minute)

	page, err := env.auctions.Browse(ctx, &usecase.BrowseInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Auctions, 2)
	assert.Equal(t, "Backgammon", page.Auctions[0].Auction.Item.Title)

	page, err = env.auctions.Browse(ctx, &usecase.BrowseInput{Page: 3, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Limit, "limit is clamped to the maximum page size")
	assert.Empty(t, page.Auctions)

	page, err = env.auctions.Browse(ctx, &usecase.BrowseInput{ViewerID: &viewer.ID, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total, "viewer's own listings are hidden")

	categoryPage, err := env.catalog.GetCategoryPage(ctx, books.ID, &usecase.BrowseInput{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, books.ID, categoryPage.Category.ID)
	assert.Equal(t, int64(2), categoryPage.Auctions.Total)

	env.clock.Advance(time.Minute)

	results, err := env.auctions.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, results, 4, "ended auctions are no longer current")
	titles := make([]string, len(results))
	for i, r := range results {
		titles[i] = r.Auction.Item.Title
	}
	assert.Equal(t, []string{"Dune", "Emma", "Chess set", "Backgammon"}, titles, "search keeps listing order")

	results, err = env.auctions.Search(ctx, "GOOD SHAPE")
	require.NoError(t, err)
	assert.Len(t, results, 4, "search matches descriptions")

	results, err = env.auctions.Search(ctx, "dun")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].Auction.Item.Title)
	assert.Equal(t, "59 minutes", results[0].TimeRemainingText)
}
