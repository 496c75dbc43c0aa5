package handler

import (
	"time"

	"lebay/internal/domain/entity"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddressView struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

type UserView struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Address   AddressView `json:"address"`
	Phone     string      `json:"phone,omitempty"`
	IsSeller  bool        `json:"is_seller"`
	Roles     []string    `json:"roles"`
	CreatedAt time.Time   `json:"created_at"`
}

// PublicUserView omits contact details.
type PublicUserView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	IsSeller bool      `json:"is_seller"`
}

type SellerView struct {
	ID                    uuid.UUID             `json:"id"`
	UserID                uuid.UUID             `json:"user_id"`
	PaypalEmail           string                `json:"paypal_email"`
	DefaultShippingMethod entity.ShippingMethod `json:"default_shipping_method"`
	DefaultShippingDetail string                `json:"default_shipping_detail"`
	DefaultPaymentDetail  string                `json:"default_payment_detail"`
}

type SessionView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CategoryView struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ParentID    *uuid.UUID      `json:"parent_id,omitempty"`
	Children    []*CategoryView `json:"children,omitempty"`
}

type ItemView struct {
	ID          uuid.UUID            `json:"id"`
	SellerID    uuid.UUID            `json:"seller_id"`
	CategoryID  uuid.UUID            `json:"category_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Condition   entity.ItemCondition `json:"condition"`
	Status      entity.ItemStatus    `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

type AuctionEventView struct {
	ID              uuid.UUID             `json:"id"`
	ItemID          uuid.UUID             `json:"item_id"`
	StartTime       time.Time             `json:"start_time"`
	EndTime         time.Time             `json:"end_time"`
	StartingPrice   decimal.Decimal       `json:"starting_price"`
	ReservePrice    decimal.Decimal       `json:"reserve_price"`
	ShippingFee     decimal.Decimal       `json:"shipping_fee"`
	ShippingMethod  entity.ShippingMethod `json:"shipping_method"`
	ShippingDetail  string                `json:"shipping_detail,omitempty"`
	PaymentDetail   string                `json:"payment_detail,omitempty"`
	WinningBidderID *uuid.UUID            `json:"winning_bidder_id,omitempty"`
}

type AuctionView struct {
	AuctionEventView
	Item              ItemView        `json:"item"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	BidCount          int64           `json:"bid_count"`
	HasStarted        bool            `json:"has_started"`
	HasEnded          bool            `json:"has_ended"`
	IsRunning         bool            `json:"is_running"`
	TimeRemaining     int64           `json:"time_remaining_seconds"`
	TimeRemainingText string          `json:"time_remaining"`
	PaymentStatus     string          `json:"payment_status"`
}

type AuctionPageView struct {
	Auctions []*AuctionView `json:"auctions"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
}

type BidView struct {
	ID        uuid.UUID       `json:"id"`
	AuctionID uuid.UUID       `json:"auction_id"`
	BidderID  uuid.UUID       `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type SaleView struct {
	ID            uuid.UUID            `json:"id"`
	AuctionID     uuid.UUID            `json:"auction_id"`
	BuyerID       uuid.UUID            `json:"buyer_id"`
	PaypalEmail   string               `json:"paypal_email"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	InvoiceNumber string               `json:"invoice_number"`
	CreatedAt     time.Time            `json:"created_at"`
}

func newUserView(u *entity.User) *UserView {
	return &UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address: AddressView{
			Line1:   u.Address.Line1,
			Line2:   u.Address.Line2,
			City:    u.Address.City,
			State:   u.Address.State,
			Zipcode: u.Address.Zipcode,
		},
		Phone:     u.Phone,
		IsSeller:  u.IsSeller(),
		Roles:     u.Roles().ToStrings(),
		CreatedAt: u.CreatedAt,
	}
}

func newPublicUserView(u *entity.User) *PublicUserView {
	return &PublicUserView{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
		IsSeller: u.IsSeller(),
	}
}

func newSellerView(s *entity.Seller) *SellerView {
	return &SellerView{
		ID:                    s.ID,
		UserID:                s.UserID,
		PaypalEmail:           s.PaypalEmail,
		DefaultShippingMethod: s.DefaultShippingMethod,
		DefaultShippingDetail: s.DefaultShippingDetail,
		DefaultPaymentDetail:  s.DefaultPaymentDetail,
	}
}

func newSessionViews(tokens []*entity.RefreshToken) []*SessionView {
	out := make([]*SessionView, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, &SessionView{ID: t.ID, CreatedAt: t.CreatedAt, ExpiresAt: t.ExpiresAt})
	}

	return out
}

func newCategoryView(c *entity.ItemCategory) *CategoryView {
	return &CategoryView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ParentID:    c.ParentID,
	}
}

func newCategoryTreeView(nodes []*entity.CategoryNode) []*CategoryView {
	out := make([]*CategoryView, 0, len(nodes))
	for _, n := range nodes {
		view := newCategoryView(&n.ItemCategory)
		if len(n.Children) > 0 {
			view.Children = newCategoryTreeView(n.Children)
		}
		out = append(out, view)
	}

	return out
}

func newItemView(i *entity.Item) ItemView {
	return ItemView{
		ID:          i.ID,
		SellerID:    i.SellerID,
		CategoryID:  i.CategoryID,
		Title:       i.Title,
		Description: i.Description,
		Condition:   i.Condition,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
	}
}

func newItemViews(items []*entity.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, i := range items {
		out = append(out, newItemView(i))
	}

	return out
}

func newAuctionEventView(e *entity.AuctionEvent) AuctionEventView {
	return AuctionEventView{
		ID:              e.ID,
		ItemID:          e.ItemID,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		StartingPrice:   e.StartingPrice,
		ReservePrice:    e.ReservePrice,
		ShippingFee:     e.ShippingFee,
		ShippingMethod:  e.ShippingMethod,
		ShippingDetail:  e.ShippingDetail,
		PaymentDetail:   e.PaymentDetail,
		WinningBidderID: e.WinningBidderID,
	}
}

func newAuctionEventViews(events []*entity.AuctionEvent) []AuctionEventView {
	out := make([]AuctionEventView, 0, len(events))
	for _, e := range events {
		out = append(out, newAuctionEventView(e))
	}

	return out
}

func newAuctionView(v *usecase.AuctionView) *AuctionView {
	return &AuctionView{
		AuctionEventView:  newAuctionEventView(v.Auction.Event),
		Item:              newItemView(v.Auction.Item),
		CurrentPrice:      v.CurrentPrice,
		BidCount:          v.Auction.BidCount,
		HasStarted:        v.HasStarted,
		HasEnded:          v.HasEnded,
		IsRunning:         v.IsRunning,
		TimeRemaining:     int64(v.TimeRemaining.Seconds()),
		TimeRemainingText: v.TimeRemainingText,
		PaymentStatus:     v.PaymentStatus,
	}
}

func newAuctionViews(views []*usecase.AuctionView) []*AuctionView {
	out := make([]*AuctionView, 0, len(views))
	for _, v := range views {
		out = append(out, newAuctionView(v))
	}

	return out
}

func newAuctionPageView(p *usecase.AuctionPage) *AuctionPageView {
	return &AuctionPageView{
		Auctions: newAuctionViews(p.Auctions),
		Total:    p.Total,
		Page:     p.Page,
		Limit:    p.Limit,
	}
}

func newBidView(b *entity.Bid) *BidView {
	return &BidView{
		ID:        b.ID,
		AuctionID: b.AuctionEventID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

func newSaleView(s *entity.Sale) *SaleView {
	return &SaleView{
		ID:            s.ID,
		AuctionID:     s.AuctionEventID,
		BuyerID:       s.BuyerID,
		PaypalEmail:   s.PaypalEmail,
		PaymentStatus: s.PaymentStatus,
		InvoiceNumber: s.InvoiceNumber,
		CreatedAt:     s.CreatedAt,
	}
}
