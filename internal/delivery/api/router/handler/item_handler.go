package handler

import (
	"net/http"
	"time"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/response"
	"lebay/internal/domain/entity"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type ItemHandlerParams struct {
	fx.In

	ListingUC usecase.ListingUsecase
}

// ItemHandler serves item listing and editing.
type ItemHandler struct {
	listingUC usecase.ListingUsecase
}

func NewItemHandler(params ItemHandlerParams) *ItemHandler {
	return &ItemHandler{listingUC: params.ListingUC}
}

type ItemRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Condition   string    `json:"condition" validate:"required,oneof=new like_new good acceptable for_parts"`
}

func (r *ItemRequest) toInput() *usecase.ItemInput {
	return &usecase.ItemInput{
		CategoryID:  r.CategoryID,
		Title:       r.Title,
		Description: r.Description,
		Condition:   entity.ItemCondition(r.Condition),
	}
}

// AuctionTermsRequest leaves shipping and payment fields empty to use the
// seller profile defaults.
type AuctionTermsRequest struct {
	StartTime      time.Time       `json:"start_time" validate:"required"`
	EndTime        time.Time       `json:"end_time" validate:"required"`
	StartingPrice  decimal.Decimal `json:"starting_price" validate:"dgt=0"`
	ReservePrice   decimal.Decimal `json:"reserve_price" validate:"dgte=0"`
	ShippingFee    decimal.Decimal `json:"shipping_fee" validate:"dgte=0"`
	ShippingMethod string          `json:"shipping_method" validate:"omitempty,oneof=usps ups fedex pickup other"`
	ShippingDetail string          `json:"shipping_detail" validate:"max=1000"`
	PaymentDetail  string          `json:"payment_detail" validate:"max=1000"`
}

func (r *AuctionTermsRequest) toInput() *usecase.AuctionTermsInput {
	return &usecase.AuctionTermsInput{
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		StartingPrice:  r.StartingPrice,
		ReservePrice:   r.ReservePrice,
		ShippingFee:    r.ShippingFee,
		ShippingMethod: entity.ShippingMethod(r.ShippingMethod),
		ShippingDetail: r.ShippingDetail,
		PaymentDetail:  r.PaymentDetail,
	}
}

type CreateListingRequest struct {
	Item    ItemRequest         `json:"item"`
	Auction AuctionTermsRequest `json:"auction"`
}

type ListingResponse struct {
	Item    ItemView         `json:"item"`
	Auction AuctionEventView `json:"auction"`
}

type ItemDetailResponse struct {
	Item     ItemView           `json:"item"`
	Auctions []AuctionEventView `json:"auctions"`
}

func newListingResponse(out *usecase.ListingOutput) *ListingResponse {
	return &ListingResponse{
		Item:    newItemView(out.Item),
		Auction: newAuctionEventView(out.Event),
	}
}

// CreateListing creates an item together with its first auction.
func (h *ItemHandler) CreateListing(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.listingUC.CreateListing(c.Request().Context(), userID, &usecase.CreateListingInput{
		Item:    *req.Item.toInput(),
		Auction: *req.Auction.toInput(),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newListingResponse(out))
}

// ListExistingItem starts a new auction for an idle item.
func (h *ItemHandler) ListExistingItem(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	itemID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid item ID")
	}

	var req AuctionTermsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid auction input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.listingUC.ListExistingItem(c.Request().Context(), userID, itemID, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newListingResponse(out))
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	itemID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid item ID")
	}

	view, err := h.listingUC.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &ItemDetailResponse{
		Item:     newItemView(view.Item),
		Auctions: newAuctionEventViews(view.Events),
	})
}

// UpdateItem edits an item that is not on auction.
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	itemID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid item ID")
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.listingUC.UpdateItem(c.Request().Context(), userID, itemID, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newItemView(item))
}
