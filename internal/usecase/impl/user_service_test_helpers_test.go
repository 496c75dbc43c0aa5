package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"lebay/config"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	"lebay/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			MaxActiveSessions: maxActiveSessions,
		},
	}
	cfg.Auction.DefaultPageSize = 2
	cfg.Auction.MaxPageSize = 5
	cfg.Auction.MaxBidAmount = decimal.RequireFromString("9999.99")

	return cfg
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testEnv wires every use case onto one in-memory store.
type testEnv struct {
	clock     *auction.FixedClock
	store     *memStore
	txManager *fakeTxManager
	tokens    *fakeTokenService
	publisher *fakePublisher
	cache     *fakeCache

	users      usecase.UserUsecase
	sessions   usecase.SessionUsecase
	sellers    usecase.SellerUsecase
	catalog    usecase.CatalogUsecase
	listings   usecase.ListingUsecase
	auctions   usecase.AuctionUsecase
	settlement usecase.SettlementUsecase
	payments   usecase.PaymentUsecase
}

func newTestEnv(t *testing.T, maxActiveSessions int) *testEnv {
	t.Helper()

	clock := auction.NewFixedClock(testNow)
	store := newMemStore(clock)
	txManager := &fakeTxManager{store: store}
	direct := &fakeRepoFactory{store: store}
	logger := newDiscardLogger()
	cfg := newTestConfig(maxActiveSessions)

	env := &testEnv{
		clock:     clock,
		store:     store,
		txManager: txManager,
		tokens:    newFakeTokenService(),
		publisher: &fakePublisher{},
		cache:     newFakeCache(),
	}

	env.users = NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         direct.UserRepo(),
		AuthRepo:         direct.AuthRepo(),
		RefreshTokenRepo: direct.RefreshTokenRepo(),
		ItemRepo:         direct.ItemRepo(),
		AuctionRepo:      direct.AuctionRepo(),
		Hasher:           fakeHasher{},
		TokenService:     env.tokens,
		Clock:            clock,
		Config:           cfg,
		Logger:           logger,
	})
	env.sessions = NewSessionService(txManager, clock, logger)
	env.sellers = NewSellerService(txManager, logger)
	env.auctions = NewAuctionService(AuctionServiceParams{
		TxManager:   txManager,
		AuctionRepo: direct.AuctionRepo(),
		BidRepo:     direct.BidRepo(),
		Publisher:   env.publisher,
		Clock:       clock,
		Config:      cfg,
		Logger:      logger,
	})
	env.catalog = NewCatalogService(CatalogServiceParams{
		CategoryRepo: direct.CategoryRepo(),
		Cache:        env.cache,
		Auctions:     env.auctions,
		Config:       cfg,
		Logger:       logger,
	})
	env.listings = NewListingService(ListingServiceParams{
		TxManager:   txManager,
		ItemRepo:    direct.ItemRepo(),
		AuctionRepo: direct.AuctionRepo(),
		Clock:       clock,
		Logger:      logger,
	})
	env.settlement = NewSettlementService(SettlementServiceParams{
		TxManager:   txManager,
		AuctionRepo: direct.AuctionRepo(),
		Publisher:   env.publisher,
		Clock:       clock,
		Logger:      logger,
	})
	env.payments = NewPaymentService(PaymentServiceParams{
		TxManager:   txManager,
		SaleRepo:    direct.SaleRepo(),
		AuctionRepo: direct.AuctionRepo(),
		Settlement:  env.settlement,
		QRCode:      fakeQRCode{},
		Publisher:   env.publisher,
		Clock:       clock,
		Logger:      logger,
	})

	return env
}

func (env *testEnv) register(t *testing.T, username string) *entity.User {
	t.Helper()

	user, err := env.users.Register(context.Background(), &usecase.RegisterUserInput{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "Password123!",
		RetypePassword: "Password123!",
		FirstName:      "Test",
		LastName:       username,
		Address:        entity.Address{Line1: "1 Main St", City: "Springfield", State: "IL", Zipcode: "62701"},
	})
	require.NoError(t, err)

	return user
}

func (env *testEnv) registerSeller(t *testing.T, username string) *entity.User {
	t.Helper()

	user := env.register(t, username)
	_, err := env.sellers.GetOrCreateProfile(context.Background(), user.ID)
	require.NoError(t, err)

	return user
}

func (env *testEnv) category(t *testing.T, title string) *entity.ItemCategory {
	t.Helper()

	category, err := env.catalog.CreateCategory(context.Background(), &usecase.CreateCategoryInput{Title: title})
	require.NoError(t, err)

	return category
}

// list creates a listing that starts now and runs for d.
func (env *testEnv) list(t *testing.T, seller *entity.User, category *entity.ItemCategory, title, startingPrice string, d time.Duration) *usecase.ListingOutput {
	t.Helper()

	now := env.clock.Now()
	out, err := env.listings.CreateListing(context.Background(), seller.ID, &usecase.CreateListingInput{
		Item: usecase.ItemInput{
			CategoryID:  category.ID,
			Title:       title,
			Description: title + " in good shape",
			Condition:   entity.ItemConditionGood,
		},
		Auction: usecase.AuctionTermsInput{
			StartTime:     now,
			EndTime:       now.Add(d),
			StartingPrice: dec(startingPrice),
			ShippingFee:   dec("5.00"),
		},
	})
	require.NoError(t, err)

	return out
}

func ptr[T any](v T) *T {
	return &v
}
