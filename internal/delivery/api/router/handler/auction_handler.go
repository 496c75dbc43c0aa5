package handler

import (
	"log/slog"
	"net/http"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/response"
	"lebay/internal/domain/entity"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// AuctionHandlerParams holds dependencies for AuctionHandler, injected by Fx.
type AuctionHandlerParams struct {
	fx.In

	AuctionUC    usecase.AuctionUsecase
	SettlementUC usecase.SettlementUsecase
	Logger       *slog.Logger
}

// AuctionHandler serves browsing, bidding and settlement of auctions.
type AuctionHandler struct {
	auctionUC    usecase.AuctionUsecase
	settlementUC usecase.SettlementUsecase
	logger       *slog.Logger
}

func NewAuctionHandler(params AuctionHandlerParams) *AuctionHandler {
	return &AuctionHandler{
		auctionUC:    params.AuctionUC,
		settlementUC: params.SettlementUC,
		logger:       params.Logger,
	}
}

type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"dgt=0"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"max=200"`
}

type BidHistoryResponse struct {
	Auction    *AuctionView `json:"auction"`
	Bids       []*BidView   `json:"bids"`
	HighestBid *BidView     `json:"highest_bid,omitempty"`
}

type SettleResponse struct {
	AuctionID uuid.UUID         `json:"auction_id"`
	Status    entity.ItemStatus `json:"status"`
}

// Browse lists current auctions; a signed-in viewer does not see their own.
func (h *AuctionHandler) Browse(c echo.Context) error {
	var req BrowseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var viewerID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	page, err := h.auctionUC.Browse(c.Request().Context(), req.toInput(viewerID))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newAuctionPageView(page))
}

func (h *AuctionHandler) Search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	results, err := h.auctionUC.Search(c.Request().Context(), req.Query)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newAuctionViews(results))
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	auctionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid auction ID")
	}

	view, err := h.auctionUC.GetAuction(c.Request().Context(), auctionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newAuctionView(view))
}

// GetEndedAuction settles the auction if it is due and returns its outcome.
func (h *AuctionHandler) GetEndedAuction(c echo.Context) error {
	auctionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid auction ID")
	}

	view, err := h.settlementUC.GetEndedAuction(c.Request().Context(), auctionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newAuctionView(view))
}

func (h *AuctionHandler) Settle(c echo.Context) error {
	auctionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid auction ID")
	}

	status, err := h.settlementUC.Settle(c.Request().Context(), auctionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &SettleResponse{AuctionID: auctionID, Status: status})
}

func (h *AuctionHandler) GetBidHistory(c echo.Context) error {
	auctionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid auction ID")
	}

	history, err := h.auctionUC.GetBidHistory(c.Request().Context(), auctionID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	bids := make([]*BidView, 0, len(history.Bids))
	for _, b := range history.Bids {
		bids = append(bids, newBidView(b))
	}
	resp := &BidHistoryResponse{
		Auction: newAuctionView(history.Auction),
		Bids:    bids,
	}
	if history.HighestBid != nil {
		resp.HighestBid = newBidView(history.HighestBid)
	}

	return response.Success(c, http.StatusOK, resp)
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	auctionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid auction ID")
	}

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid bid input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	bid, err := h.auctionUC.PlaceBid(c.Request().Context(), auctionID, userID, req.Amount)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	h.logger.Info("Bid accepted",
		slog.String("auction_id", auctionID.String()),
		slog.String("bidder_id", userID.String()),
		slog.String("amount", bid.Amount.String()),
	)

	return response.Success(c, http.StatusCreated, newBidView(bid))
}
