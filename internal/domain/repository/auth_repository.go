package repository

import (
	"context"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

// ErrAuthNotFound is returned when an authentication method is not found.
var ErrAuthNotFound = errors.New("authentication method not found")

// AuthRepository persists login credentials.
type AuthRepository interface {
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication looks a credential up by provider and provider-side id.
	FindAuthentication(ctx context.Context, provider string, providerUserID string) (*entity.Authentication, error)

	FindAuthenticationByUserID(ctx context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error)

	UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error
}
