package repository

import (
	"context"
	"time"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token is unknown or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository stores hashed refresh tokens, one per session.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash ignores tokens expired at now.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string, now time.Time) (*entity.RefreshToken, error)

	FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.RefreshToken, error)

	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error

	// DeleteRefreshTokenByID removes one session owned by userID.
	DeleteRefreshTokenByID(ctx context.Context, userID, id uuid.UUID) error

	// DeleteRefreshTokensByUserID ends every session of the user, e.g. after a password change.
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error

	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)

	CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
}
