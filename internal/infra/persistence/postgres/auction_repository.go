package postgres

import (
	"context"
	"strings"
	"time"

	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/errors"
	"lebay/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// currentPriceSQL is the highest bid, or the starting price without bids.
const currentPriceSQL = "COALESCE((SELECT MAX(b.amount) FROM bids b WHERE b.auction_event_id = auction_events.id), auction_events.starting_price)"

type auctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) repository.AuctionRepository {
	return &auctionRepository{db: db}
}

func (repo *auctionRepository) Create(ctx context.Context, event *entity.AuctionEvent) error {
	eventM := fromAuctionEventDomain(event)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(eventM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrItemNotFound
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("invalid auction fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create auction event")
	}

	event.ID = eventM.ID
	event.CreatedAt = eventM.CreatedAt
	event.UpdatedAt = eventM.UpdatedAt

	return nil
}

func (repo *auctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Auction, error) {
	return repo.findAggregate(repo.db.WithContext(ctx), id)
}

// LockByID issues SELECT ... FOR UPDATE on the event row before loading the
// aggregate, so concurrent bidders on the same auction are serialized.
func (repo *auctionRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Auction, error) {
	db := repo.db.WithContext(ctx)

	var locked model.AuctionEventModel
	err := db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		Where("id = ?", id).
		Take(&locked).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAuctionNotFound
		}

		return nil, errors.Wrap(err, "failed to lock auction event")
	}

	return repo.findAggregate(db, id)
}

func (repo *auctionRepository) findAggregate(db *gorm.DB, id uuid.UUID) (*entity.Auction, error) {
	var eventM model.AuctionEventModel
	err := withItemAndSales(db).Where("auction_events.id = ?", id).First(&eventM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAuctionNotFound
		}

		return nil, errors.Wrap(err, "failed to find auction event")
	}

	auctions, err := attachBidStats(db, []model.AuctionEventModel{eventM})
	if err != nil {
		return nil, err
	}

	return auctions[0], nil
}

func (repo *auctionRepository) SetWinningBidder(ctx context.Context, id uuid.UUID, bidderID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AuctionEventModel{}).
		Where("id = ?", id).
		Update("winning_bidder_id", bidderID)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set winning bidder")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAuctionNotFound
	}

	return nil
}

func (repo *auctionRepository) ListCurrent(ctx context.Context, query repository.CurrentAuctionQuery) ([]*entity.Auction, int64, error) {
	db := repo.db.WithContext(ctx)

	base := db.Model(&model.AuctionEventModel{}).
		Joins("JOIN items ON items.id = auction_events.item_id").
		Where("items.status = ?", string(entity.ItemStatusRunning)).
		Where("auction_events.start_time <= ? AND auction_events.end_time > ?", query.Now, query.Now)

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := likePattern(search)
		base = base.Where("(items.title ILIKE ? OR items.description ILIKE ?)", pattern, pattern)
	}
	if query.CategoryID != nil {
		base = base.Where("items.category_id = ?", *query.CategoryID)
	}
	if query.ExcludeSellerID != nil {
		base = base.Where("items.seller_id <> ?", *query.ExcludeSellerID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count current auctions")
	}
	if total == 0 {
		return []*entity.Auction{}, 0, nil
	}

	page := base.Session(&gorm.Session{})
	for _, order := range auctionOrder(query.Sort) {
		page = page.Order(order)
	}
	if query.Limit > 0 {
		page = page.Limit(query.Limit)
	}
	if query.Offset > 0 {
		page = page.Offset(query.Offset)
	}

	var ids []uuid.UUID
	if err := page.Pluck("auction_events.id", &ids).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list current auctions")
	}

	auctions, err := loadAuctionsInOrder(db, ids)
	if err != nil {
		return nil, 0, err
	}

	return auctions, total, nil
}

func (repo *auctionRepository) ListEndedRunningIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	tx := repo.db.WithContext(ctx).
		Model(&model.AuctionEventModel{}).
		Joins("JOIN items ON items.id = auction_events.item_id").
		Where("items.status = ?", string(entity.ItemStatusRunning)).
		Where("auction_events.end_time <= ?", now).
		Order("auction_events.end_time ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var ids []uuid.UUID
	if err := tx.Pluck("auction_events.id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list ended auctions")
	}

	return ids, nil
}

func (repo *auctionRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, status entity.ItemStatus) ([]*entity.Auction, error) {
	db := repo.db.WithContext(ctx)

	tx := db.Model(&model.AuctionEventModel{}).
		Joins("JOIN items ON items.id = auction_events.item_id").
		Where("items.seller_id = ?", sellerID)
	if status != "" {
		tx = tx.Where("items.status = ?", string(status))
	}

	var ids []uuid.UUID
	if err := tx.Order("auction_events.end_time ASC").Pluck("auction_events.id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list seller auctions")
	}

	return loadAuctionsInOrder(db, ids)
}

func (repo *auctionRepository) ListWonBy(ctx context.Context, bidderID uuid.UUID) ([]*entity.Auction, error) {
	db := repo.db.WithContext(ctx)

	var ids []uuid.UUID
	err := db.Model(&model.AuctionEventModel{}).
		Joins("JOIN items ON items.id = auction_events.item_id").
		Where("auction_events.winning_bidder_id = ?", bidderID).
		Where("items.status = ?", string(entity.ItemStatusSold)).
		Order("auction_events.end_time DESC").
		Pluck("auction_events.id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list won auctions")
	}

	return loadAuctionsInOrder(db, ids)
}

func (repo *auctionRepository) ListByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.AuctionEvent, error) {
	var models []model.AuctionEventModel
	err := repo.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list item auctions")
	}

	events := make([]*entity.AuctionEvent, 0, len(models))
	for i := range models {
		events = append(events, toAuctionEventDomain(&models[i]))
	}

	return events, nil
}

func withItemAndSales(db *gorm.DB) *gorm.DB {
	return db.Preload("Item").
		Preload("Sales", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		})
}

// loadAuctionsInOrder loads aggregates for ids, keeping the order of ids.
func loadAuctionsInOrder(db *gorm.DB, ids []uuid.UUID) ([]*entity.Auction, error) {
	if len(ids) == 0 {
		return []*entity.Auction{}, nil
	}

	var models []model.AuctionEventModel
	if err := withItemAndSales(db).Where("auction_events.id IN ?", ids).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load auction events")
	}

	position := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		position[id] = i
	}
	ordered := make([]model.AuctionEventModel, len(ids))
	found := make([]bool, len(ids))
	for _, m := range models {
		if i, ok := position[m.ID]; ok {
			ordered[i] = m
			found[i] = true
		}
	}

	// drop ids deleted between the two queries
	kept := ordered[:0]
	for i := range ordered {
		if found[i] {
			kept = append(kept, ordered[i])
		}
	}

	return attachBidStats(db, kept)
}

type bidCountRow struct {
	AuctionEventID uuid.UUID
	BidCount       int64
}

// attachBidStats maps events to aggregates with their highest bid and bid count.
func attachBidStats(db *gorm.DB, models []model.AuctionEventModel) ([]*entity.Auction, error) {
	if len(models) == 0 {
		return []*entity.Auction{}, nil
	}

	ids := make([]uuid.UUID, 0, len(models))
	for i := range models {
		ids = append(ids, models[i].ID)
	}

	var counts []bidCountRow
	err := db.Model(&model.BidModel{}).
		Select("auction_event_id, COUNT(*) AS bid_count").
		Where("auction_event_id IN ?", ids).
		Group("auction_event_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count bids")
	}

	var top []model.BidModel
	err = db.Raw(
		"SELECT DISTINCT ON (auction_event_id) * FROM bids WHERE auction_event_id IN ? ORDER BY auction_event_id, amount DESC, created_at ASC",
		ids,
	).Scan(&top).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load highest bids")
	}

	countByID := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countByID[c.AuctionEventID] = c.BidCount
	}
	topByID := make(map[uuid.UUID]*model.BidModel, len(top))
	for i := range top {
		topByID[top[i].AuctionEventID] = &top[i]
	}

	auctions := make([]*entity.Auction, 0, len(models))
	for i := range models {
		m := &models[i]
		a := &entity.Auction{
			Event:    toAuctionEventDomain(m),
			Item:     toItemDomain(m.Item),
			BidCount: countByID[m.ID],
			Sales:    make([]*entity.Sale, 0, len(m.Sales)),
		}
		if b, ok := topByID[m.ID]; ok {
			a.HighestBid = toBidDomain(b)
		}
		for j := range m.Sales {
			a.Sales = append(a.Sales, toSaleDomain(&m.Sales[j]))
		}
		auctions = append(auctions, a)
	}

	return auctions, nil
}

func auctionOrder(sort repository.AuctionSort) []string {
	switch sort {
	case repository.AuctionSortTitle:
		return []string{"items.title ASC", "auction_events.id ASC"}
	case repository.AuctionSortPriceAsc:
		return []string{currentPriceSQL + " ASC", "auction_events.id ASC"}
	case repository.AuctionSortPriceDesc:
		return []string{currentPriceSQL + " DESC", "auction_events.id ASC"}
	case repository.AuctionSortEndingSoon:
		return []string{"auction_events.end_time ASC", "auction_events.id ASC"}
	case repository.AuctionSortNewest:
		return []string{"auction_events.created_at DESC", "auction_events.id ASC"}
	default:
		return []string{"auction_events.created_at ASC", "auction_events.id ASC"}
	}
}

// likePattern wraps s in % after escaping LIKE metacharacters.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return "%" + r.Replace(s) + "%"
}

func toAuctionEventDomain(data *model.AuctionEventModel) *entity.AuctionEvent {
	return &entity.AuctionEvent{
		ID:              data.ID,
		ItemID:          data.ItemID,
		ShippingMethod:  entity.ShippingMethod(data.ShippingMethod),
		ShippingDetail:  data.ShippingDetail,
		PaymentDetail:   data.PaymentDetail,
		StartTime:       data.StartTime,
		EndTime:         data.EndTime,
		StartingPrice:   data.StartingPrice,
		ShippingFee:     data.ShippingFee,
		ReservePrice:    data.ReservePrice,
		WinningBidderID: data.WinningBidderID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromAuctionEventDomain(data *entity.AuctionEvent) *model.AuctionEventModel {
	return &model.AuctionEventModel{
		ID:              data.ID,
		ItemID:          data.ItemID,
		ShippingMethod:  string(data.ShippingMethod),
		ShippingDetail:  data.ShippingDetail,
		PaymentDetail:   data.PaymentDetail,
		StartTime:       data.StartTime,
		EndTime:         data.EndTime,
		StartingPrice:   data.StartingPrice,
		ShippingFee:     data.ShippingFee,
		ReservePrice:    data.ReservePrice,
		WinningBidderID: data.WinningBidderID,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
