// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterUserInput carries the sign-up form.
type RegisterUserInput struct {
	Username       string
	Email          string
	Password       string
	RetypePassword string
	FirstName      string
	LastName       string
	Address        entity.Address
	Phone          string
}

// LoginInput accepts a username or an email in Login.
type LoginInput struct {
	Login    string
	Password string
}

type RefreshTokenInput struct {
	RefreshToken string
}

type LogoutInput struct {
	RefreshToken string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	RetypePassword  string
}

// UpdateProfileInput leaves nil fields unchanged.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Address   *entity.Address
	Phone     *string
}

// --- Output DTOs ---

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput carries a rotated token pair.
type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// UserHome is the signed-in landing page.
type UserHome struct {
	User            *entity.User
	RunningAuctions []*AuctionView // The user's own auctions still running.
	WonAuctions     []*AuctionView
	ListableItems   []*entity.Item // Idle items that can be put up for auction.
}

// UserUsecase defines the account operations.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterUserInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	GetHome(ctx context.Context, userID uuid.UUID) (*UserHome, error)
}
