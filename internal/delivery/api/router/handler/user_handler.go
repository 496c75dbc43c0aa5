package handler

import (
	"log/slog"
	"net/http"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/response"
	"lebay/internal/domain/entity"
	"lebay/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler serves account and authentication endpoints.
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

type AddressRequest struct {
	Line1   string `json:"line1" validate:"required,max=255"`
	Line2   string `json:"line2" validate:"max=255"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Zipcode string `json:"zipcode" validate:"required,max=20"`
}

func (r *AddressRequest) toEntity() entity.Address {
	return entity.Address{
		Line1:   r.Line1,
		Line2:   r.Line2,
		City:    r.City,
		State:   r.State,
		Zipcode: r.Zipcode,
	}
}

// RegisterRequest represents the sign-up form.
type RegisterRequest struct {
	Username       string         `json:"username" validate:"required,min=3,max=150"`
	Email          string         `json:"email" validate:"required,email,max=254"`
	Password       string         `json:"password" validate:"required"`
	RetypePassword string         `json:"retype_password" validate:"required"`
	FirstName      string         `json:"first_name" validate:"max=100"`
	LastName       string         `json:"last_name" validate:"max=100"`
	Address        AddressRequest `json:"address" validate:"required"`
	Phone          string         `json:"phone" validate:"max=32"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	RetypePassword  string `json:"retype_password" validate:"required"`
}

// UpdateProfileRequest leaves omitted fields unchanged.
type UpdateProfileRequest struct {
	Email     *string         `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string         `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string         `json:"last_name" validate:"omitempty,max=100"`
	Address   *AddressRequest `json:"address" validate:"omitempty"`
	Phone     *string         `json:"phone" validate:"omitempty,max=32"`
}

type TokenPairResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	User         *UserView `json:"user,omitempty"`
}

type HomeResponse struct {
	User            *UserView      `json:"user"`
	RunningAuctions []*AuctionView `json:"running_auctions"`
	WonAuctions     []*AuctionView `json:"won_auctions"`
	ListableItems   []ItemView     `json:"listable_items"`
}

// Register handles account sign-up.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userUC.Register(c.Request().Context(), &usecase.RegisterUserInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		RetypePassword: req.RetypePassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Address:        req.Address.toEntity(),
		Phone:          req.Phone,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newUserView(user))
}

// Login authenticates by username or email.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.userUC.Login(c.Request().Context(), &usecase.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &TokenPairResponse{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    "Bearer",
		User:         newUserView(out.User),
	})
}

// RefreshToken rotates a refresh token into a new token pair.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.userUC.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &TokenPairResponse{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    "Bearer",
	})
}

// Logout revokes the given refresh token.
func (h *UserHandler) Logout(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userUC.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// ChangePassword handles password changes for the signed-in user.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.userUC.ChangePassword(c.Request().Context(), userID, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		RetypePassword:  req.RetypePassword,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// GetProfile returns the signed-in user's own profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	user, err := h.userUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserView(user))
}

// UpdateProfile edits the signed-in user's profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.UpdateProfileInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if req.Address != nil {
		address := req.Address.toEntity()
		input.Address = &address
	}

	user, err := h.userUC.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserView(user))
}

// GetHome returns the signed-in landing page.
func (h *UserHandler) GetHome(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	home, err := h.userUC.GetHome(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &HomeResponse{
		User:            newUserView(home.User),
		RunningAuctions: newAuctionViews(home.RunningAuctions),
		WonAuctions:     newAuctionViews(home.WonAuctions),
		ListableItems:   newItemViews(home.ListableItems),
	})
}

// GetPublicProfile returns another user's public profile.
func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	userID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	user, err := h.userUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newPublicUserView(user))
}
