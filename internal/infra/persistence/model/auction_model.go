package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionEventModel mirrors the 'auction_events' table. Money columns are
// numeric(10,2).
type AuctionEventModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShippingMethod  string          `gorm:"type:varchar(20);not null"`
	ShippingDetail  string          `gorm:"type:varchar(255)"`
	PaymentDetail   string          `gorm:"type:varchar(255)"`
	StartTime       time.Time       `gorm:"not null;index"`
	EndTime         time.Time       `gorm:"not null;index"`
	StartingPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ShippingFee     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	ReservePrice    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	WinningBidderID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Item  *ItemModel  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Bids  []BidModel  `gorm:"foreignKey:AuctionEventID"`
	Sales []SaleModel `gorm:"foreignKey:AuctionEventID"`
}

// TableName explicitly sets the table name for GORM.
func (AuctionEventModel) TableName() string {
	return "auction_events"
}

// BidModel mirrors the 'bids' table. Rows are insert-only.
type BidModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid();<-:create"`
	AuctionEventID uuid.UUID       `gorm:"type:uuid;not null;index:idx_bids_auction_amount,priority:1;<-:create"`
	BidderID       uuid.UUID       `gorm:"type:uuid;not null;index;<-:create"`
	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null;index:idx_bids_auction_amount,priority:2,sort:desc;<-:create"`
	CreatedAt      time.Time       `gorm:"<-:create"`

	Bidder *UserModel `gorm:"foreignKey:BidderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (BidModel) TableName() string {
	return "bids"
}

// SaleModel mirrors the 'sales' table. The unique auction_event_id makes a
// second payment for the same auction fail at the database.
type SaleModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuctionEventID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	BuyerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PaypalEmail    string    `gorm:"type:varchar(255);not null"`
	PaymentStatus  string    `gorm:"type:varchar(20);not null;default:'processing'"`
	InvoiceNumber  string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Buyer *UserModel `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (SaleModel) TableName() string {
	return "sales"
}

// AllModels lists every model in migration order.
func AllModels() []any {
	return []any{
		&UserModel{},
		&SellerModel{},
		&AuthenticationModel{},
		&RefreshTokenModel{},
		&ItemCategoryModel{},
		&ItemModel{},
		&AuctionEventModel{},
		&BidModel{},
		&SaleModel{},
	}
}
