package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type listingService struct {
	txManager   repository.TransactionManager
	itemRepo    repository.ItemRepository
	auctionRepo repository.AuctionRepository
	clock       auction.Clock
	logger      *slog.Logger
}

type ListingServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ItemRepo    repository.ItemRepository
	AuctionRepo repository.AuctionRepository
	Clock       auction.Clock
	Logger      *slog.Logger
}

func NewListingService(params ListingServiceParams) usecase.ListingUsecase {
	return &listingService{
		txManager:   params.TxManager,
		itemRepo:    params.ItemRepo,
		auctionRepo: params.AuctionRepo,
		clock:       params.Clock,
		logger:      params.Logger,
	}
}

func (srv *listingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *listingService) CreateListing(ctx context.Context, userID uuid.UUID, input *usecase.CreateListingInput) (*usecase.ListingOutput, error) {
	if err := validateItemInput(&input.Item); err != nil {
		return nil, err
	}
	if err := validateAuctionTerms(&input.Auction, srv.clock); err != nil {
		return nil, err
	}

	output := &usecase.ListingOutput{}
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		seller, err := repoFactory.SellerRepo().FindByUserID(ctx, userID)
		if err != nil {
			return translateRepoError(err, "failed to find seller profile")
		}

		if _, err := repoFactory.CategoryRepo().FindByID(ctx, input.Item.CategoryID); err != nil {
			return translateRepoError(err, "failed to find category")
		}

		item := &entity.Item{
			SellerID:    userID,
			CategoryID:  input.Item.CategoryID,
			Title:       strings.TrimSpace(input.Item.Title),
			Description: strings.TrimSpace(input.Item.Description),
			Condition:   input.Item.Condition,
			Status:      entity.ItemStatusRunning,
		}
		if err := repoFactory.ItemRepo().Create(ctx, item); err != nil {
			return translateRepoError(err, "failed to create item")
		}

		event := newAuctionEvent(item.ID, seller, &input.Auction)
		if err := repoFactory.AuctionRepo().Create(ctx, event); err != nil {
			return translateRepoError(err, "failed to create auction event")
		}

		output.Item, output.Event = item, event

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create listing", slog.Any("user_id", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create listing transaction")
	}
	srv.log(ctx).Info("Listing created",
		slog.Any("item_id", output.Item.ID),
		slog.Any("auction_id", output.Event.ID),
		slog.Time("end_time", output.Event.EndTime),
	)

	return output, nil
}

func (srv *listingService) ListExistingItem(ctx context.Context, userID, itemID uuid.UUID, input *usecase.AuctionTermsInput) (*usecase.ListingOutput, error) {
	if err := validateAuctionTerms(input, srv.clock); err != nil {
		return nil, err
	}

	output := &usecase.ListingOutput{}
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		seller, err := repoFactory.SellerRepo().FindByUserID(ctx, userID)
		if err != nil {
			return translateRepoError(err, "failed to find seller profile")
		}

		itemRepo := repoFactory.ItemRepo()
		item, err := itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return translateRepoError(err, "failed to find item")
		}
		if item.SellerID != userID {
			return errors.Wrap(domainerrors.ErrForbidden, "item belongs to another seller")
		}
		if !item.IsListable() {
			return errors.WithStack(domainerrors.ErrItemNotListable)
		}

		if err := itemRepo.UpdateStatus(ctx, item.ID, entity.ItemStatusIdle, entity.ItemStatusRunning); err != nil {
			if errors.Is(err, repository.ErrItemStatusConflict) {
				return errors.WithStack(domainerrors.ErrItemNotListable)
			}

			return errors.Wrap(err, "failed to start item auction")
		}
		item.Status = entity.ItemStatusRunning

		event := newAuctionEvent(item.ID, seller, input)
		if err := repoFactory.AuctionRepo().Create(ctx, event); err != nil {
			return translateRepoError(err, "failed to create auction event")
		}

		output.Item, output.Event = item, event

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute list item transaction")
	}
	srv.log(ctx).Info("Item listed", slog.Any("item_id", itemID), slog.Any("auction_id", output.Event.ID))

	return output, nil
}

func (srv *listingService) GetItem(ctx context.Context, itemID uuid.UUID) (*usecase.ItemView, error) {
	item, err := srv.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, translateRepoError(err, "failed to find item")
	}

	events, err := srv.auctionRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list item auctions")
	}

	return &usecase.ItemView{Item: item, Events: events}, nil
}

func (srv *listingService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input *usecase.ItemInput) (*entity.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	var updated *entity.Item
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		itemRepo := repoFactory.ItemRepo()

		item, err := itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return translateRepoError(err, "failed to find item")
		}
		if item.SellerID != userID {
			return errors.Wrap(domainerrors.ErrForbidden, "item belongs to another seller")
		}
		if !item.IsEditable() {
			return errors.WithStack(domainerrors.ErrItemNotEditable)
		}

		if item.CategoryID != input.CategoryID {
			if _, err := repoFactory.CategoryRepo().FindByID(ctx, input.CategoryID); err != nil {
				return translateRepoError(err, "failed to find category")
			}
		}

		item.CategoryID = input.CategoryID
		item.Title = strings.TrimSpace(input.Title)
		item.Description = strings.TrimSpace(input.Description)
		item.Condition = input.Condition
		if err := itemRepo.UpdateDetails(ctx, item); err != nil {
			return translateRepoError(err, "failed to update item")
		}
		updated = item

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute update item transaction")
	}

	return updated, nil
}

func validateItemInput(input *usecase.ItemInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("title is required")
	}
	if !input.Condition.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("condition")
	}

	return nil
}

func validateAuctionTerms(input *usecase.AuctionTermsInput, clock auction.Clock) error {
	if input.ShippingMethod != "" && !input.ShippingMethod.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("shipping_method")
	}

	return auction.ValidateTerms(auction.Terms{
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		StartingPrice: input.StartingPrice,
		ReservePrice:  input.ReservePrice,
		ShippingFee:   input.ShippingFee,
	}, clock.Now())
}

// newAuctionEvent fills blank shipping and payment terms from the seller profile.
func newAuctionEvent(itemID uuid.UUID, seller *entity.Seller, input *usecase.AuctionTermsInput) *entity.AuctionEvent {
	event := &entity.AuctionEvent{
		ItemID:         itemID,
		ShippingMethod: input.ShippingMethod,
		ShippingDetail: strings.TrimSpace(input.ShippingDetail),
		PaymentDetail:  strings.TrimSpace(input.PaymentDetail),
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		StartingPrice:  input.StartingPrice,
		ShippingFee:    input.ShippingFee,
		ReservePrice:   input.ReservePrice,
	}

	if event.ShippingMethod == "" {
		event.ShippingMethod = seller.DefaultShippingMethod
	}
	if event.ShippingDetail == "" {
		event.ShippingDetail = seller.DefaultShippingDetail
	}
	if event.PaymentDetail == "" {
		event.PaymentDetail = seller.DefaultPaymentDetail
	}

	return event
}
