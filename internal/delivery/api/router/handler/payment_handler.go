package handler

import (
	"net/http"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/response"
	"lebay/internal/domain/entity"
	"lebay/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type PaymentHandlerParams struct {
	fx.In

	PaymentUC usecase.PaymentUsecase
}

// PaymentHandler serves payments for won auctions and the seller's sales.
type PaymentHandler struct {
	paymentUC usecase.PaymentUsecase
}

func NewPaymentHandler(params PaymentHandlerParams) *PaymentHandler {
	return &PaymentHandler{paymentUC: params.PaymentUC}
}

type PayRequest struct {
	PaypalEmail string `json:"paypal_email" validate:"required,email,max=254"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=processing cleared refunded failed"`
}

// Pay records the winner's payment for an auction.
func (h *PaymentHandler) Pay(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	auctionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid auction ID")
	}

	var req PayRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sale, err := h.paymentUC.Pay(c.Request().Context(), auctionID, userID, &usecase.PayInput{PaypalEmail: req.PaypalEmail})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newSaleView(sale))
}

func (h *PaymentHandler) ListSales(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sales, err := h.paymentUC.ListSales(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	views := make([]*SaleView, 0, len(sales))
	for _, s := range sales {
		views = append(views, newSaleView(s))
	}

	return response.Success(c, http.StatusOK, views)
}

func (h *PaymentHandler) UpdatePaymentStatus(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	saleID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid sale ID")
	}

	var req UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sale, err := h.paymentUC.UpdatePaymentStatus(c.Request().Context(), userID, saleID, entity.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newSaleView(sale))
}

// GetInvoiceQR renders the sale's invoice number as a PNG QR code.
func (h *PaymentHandler) GetInvoiceQR(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	saleID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid sale ID")
	}

	png, err := h.paymentUC.GetInvoiceQR(c.Request().Context(), userID, saleID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
