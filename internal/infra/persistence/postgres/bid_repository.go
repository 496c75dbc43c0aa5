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
	"gorm.io/gorm/clause"
)

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) repository.BidRepository {
	return &bidRepository{db: db}
}

func (repo *bidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	bidM := fromBidDomain(bid)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(bidM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrAuctionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create bid")
	}

	bid.ID = bidM.ID
	bid.CreatedAt = bidM.CreatedAt

	return nil
}

func (repo *bidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*entity.Bid, error) {
	var models []model.BidModel
	err := repo.db.WithContext(ctx).
		Where("auction_event_id = ?", auctionID).
		Order("amount DESC").
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bids")
	}

	bids := make([]*entity.Bid, 0, len(models))
	for i := range models {
		bids = append(bids, toBidDomain(&models[i]))
	}

	return bids, nil
}

func toBidDomain(data *model.BidModel) *entity.Bid {
	return &entity.Bid{
		ID:             data.ID,
		AuctionEventID: data.AuctionEventID,
		BidderID:       data.BidderID,
		Amount:         data.Amount,
		CreatedAt:      data.CreatedAt,
	}
}

func fromBidDomain(data *entity.Bid) *model.BidModel {
	return &model.BidModel{
		ID:             data.ID,
		AuctionEventID: data.AuctionEventID,
		BidderID:       data.BidderID,
		Amount:         data.Amount,
		CreatedAt:      data.CreatedAt,
	}
}
