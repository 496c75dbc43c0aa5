package impl

import (
	"context"
	"log/slog"
	"strings"

	"lebay/config"
	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/domain/service"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const (
	fallbackPageSize    = 10
	fallbackMaxPageSize = 100
)

type auctionService struct {
	txManager    repository.TransactionManager
	auctionRepo  repository.AuctionRepository
	bidRepo      repository.BidRepository
	publisher    service.EventPublisher
	clock        auction.Clock
	maxBidAmount decimal.Decimal
	pageSize     int
	maxPageSize  int
	logger       *slog.Logger
}

type AuctionServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AuctionRepo repository.AuctionRepository
	BidRepo     repository.BidRepository
	Publisher   service.EventPublisher
	Clock       auction.Clock
	Config      *config.Config
	Logger      *slog.Logger
}

func NewAuctionService(params AuctionServiceParams) usecase.AuctionUsecase {
	srv := &auctionService{
		txManager:   params.TxManager,
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		publisher:   params.Publisher,
		clock:       params.Clock,
		pageSize:    fallbackPageSize,
		maxPageSize: fallbackMaxPageSize,
		logger:      params.Logger,
	}

	if params.Config != nil {
		cfg := params.Config.Auction
		srv.maxBidAmount = cfg.MaxBidAmount
		if cfg.DefaultPageSize > 0 {
			srv.pageSize = cfg.DefaultPageSize
		}
		if cfg.MaxPageSize >= srv.pageSize {
			srv.maxPageSize = cfg.MaxPageSize
		}
	}

	return srv
}

func (srv *auctionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *auctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*usecase.AuctionView, error) {
	a, err := srv.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, translateRepoError(err, "failed to find auction")
	}

	return newAuctionView(a, srv.clock.Now()), nil
}

// Browse lists running auctions one page at a time. Page numbers start at 1.
func (srv *auctionService) Browse(ctx context.Context, input *usecase.BrowseInput) (*usecase.AuctionPage, error) {
	if input == nil {
		input = &usecase.BrowseInput{}
	}

	page := max(input.Page, 1)
	limit := input.Limit
	if limit <= 0 {
		limit = srv.pageSize
	}
	limit = min(limit, srv.maxPageSize)

	now := srv.clock.Now()
	auctions, total, err := srv.auctionRepo.ListCurrent(ctx, repository.CurrentAuctionQuery{
		Now:             now,
		Search:          strings.TrimSpace(input.Search),
		CategoryID:      input.CategoryID,
		ExcludeSellerID: input.ViewerID,
		Sort:            repository.ParseAuctionSort(input.Sort),
		Limit:           limit,
		Offset:          (page - 1) * limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list current auctions")
	}

	return &usecase.AuctionPage{
		Auctions: newAuctionViews(auctions, now),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (srv *auctionService) Search(ctx context.Context, query string) ([]*usecase.AuctionView, error) {
	now := srv.clock.Now()
	auctions, _, err := srv.auctionRepo.ListCurrent(ctx, repository.CurrentAuctionQuery{
		Now:    now,
		Search: strings.TrimSpace(query),
		Sort:   repository.AuctionSortDefault,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search auctions")
	}

	return newAuctionViews(auctions, now), nil
}

func (srv *auctionService) GetBidHistory(ctx context.Context, auctionID uuid.UUID) (*usecase.BidHistory, error) {
	a, err := srv.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, translateRepoError(err, "failed to find auction")
	}

	bids, err := srv.bidRepo.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bids")
	}

	return &usecase.BidHistory{
		Auction:    newAuctionView(a, srv.clock.Now()),
		Bids:       bids,
		HighestBid: a.HighestBid,
	}, nil
}

// PlaceBid validates and records a bid while holding the auction row lock, so
// concurrent bids on one auction are decided one at a time.
func (srv *auctionService) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*entity.Bid, error) {
	if err := srv.validateAmount(amount); err != nil {
		return nil, err
	}

	var (
		bid    *entity.Bid
		itemID uuid.UUID
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		auctionRepo := repoFactory.AuctionRepo()

		a, err := auctionRepo.LockByID(ctx, auctionID)
		if err != nil {
			return translateRepoError(err, "failed to lock auction")
		}
		if a.Item.SellerID == bidderID {
			return errors.WithStack(domainerrors.ErrOwnAuction)
		}

		if err := auction.ValidateBid(a, amount, srv.clock.Now()); err != nil {
			return err
		}

		bid = &entity.Bid{
			AuctionEventID: auctionID,
			BidderID:       bidderID,
			Amount:         amount,
		}
		if err := repoFactory.BidRepo().Create(ctx, bid); err != nil {
			return errors.Wrap(err, "failed to create bid")
		}
		if err := auctionRepo.SetWinningBidder(ctx, auctionID, bidderID); err != nil {
			return translateRepoError(err, "failed to set winning bidder")
		}
		itemID = a.Item.ID

		return nil
	})
	if err != nil {
		srv.log(ctx).Info("Bid rejected",
			slog.Any("auction_id", auctionID),
			slog.Any("bidder_id", bidderID),
			slog.String("amount", amount.StringFixed(2)),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to place bid")
	}
	srv.log(ctx).Info("Bid placed", slog.Any("auction_id", auctionID), slog.String("amount", amount.StringFixed(2)))

	srv.publish(ctx, &entity.AuctionEventMessage{
		Type:           entity.EventBidPlaced,
		AuctionEventID: auctionID,
		ItemID:         itemID,
		UserID:         &bidderID,
		Amount:         &amount,
		OccurredAt:     bid.CreatedAt,
	})

	return bid, nil
}

func (srv *auctionService) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerrors.ErrValidationFailed.WithDetails("amount must be positive")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return domainerrors.ErrValidationFailed.WithDetails("amount must have at most 2 decimal places")
	}
	if srv.maxBidAmount.IsPositive() && amount.GreaterThan(srv.maxBidAmount) {
		return domainerrors.ErrValidationFailed.WithDetails("amount must not exceed " + srv.maxBidAmount.StringFixed(2))
	}

	return nil
}

func (srv *auctionService) publish(ctx context.Context, msg *entity.AuctionEventMessage) {
	publishEvent(ctx, srv.publisher, srv.clock, srv.log(ctx), msg)
}

// publishEvent runs after commit. Failures are logged; the committed state stands.
func publishEvent(ctx context.Context, publisher service.EventPublisher, clock auction.Clock, logger *slog.Logger, msg *entity.AuctionEventMessage) {
	if publisher == nil {
		return
	}

	msg.ID = uuid.New()
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = clock.Now()
	}

	if err := publisher.PublishAuctionEvent(ctx, msg); err != nil {
		logger.Warn("Failed to publish auction event",
			slog.String("type", string(msg.Type)),
			slog.Any("auction_id", msg.AuctionEventID),
			slog.Any("error", err),
		)
	}
}
