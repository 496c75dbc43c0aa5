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

type SellerHandlerParams struct {
	fx.In

	SellerUC usecase.SellerUsecase
}

// SellerHandler manages the seller profile of the signed-in user.
type SellerHandler struct {
	sellerUC usecase.SellerUsecase
}

func NewSellerHandler(params SellerHandlerParams) *SellerHandler {
	return &SellerHandler{sellerUC: params.SellerUC}
}

type UpdateSellerRequest struct {
	PaypalEmail           *string `json:"paypal_email" validate:"omitempty,email,max=254"`
	DefaultShippingMethod *string `json:"default_shipping_method" validate:"omitempty,oneof=usps ups fedex pickup other"`
	DefaultShippingDetail *string `json:"default_shipping_detail" validate:"omitempty,max=1000"`
	DefaultPaymentDetail  *string `json:"default_payment_detail" validate:"omitempty,max=1000"`
}

// GetProfile returns the seller profile, creating it on first access.
func (h *SellerHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	seller, err := h.sellerUC.GetOrCreateProfile(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newSellerView(seller))
}

func (h *SellerHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req UpdateSellerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid seller profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.UpdateSellerInput{
		PaypalEmail:           req.PaypalEmail,
		DefaultShippingDetail: req.DefaultShippingDetail,
		DefaultPaymentDetail:  req.DefaultPaymentDetail,
	}
	if req.DefaultShippingMethod != nil {
		method := entity.ShippingMethod(*req.DefaultShippingMethod)
		input.DefaultShippingMethod = &method
	}

	seller, err := h.sellerUC.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newSellerView(seller))
}
