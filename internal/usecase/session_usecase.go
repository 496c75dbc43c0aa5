package usecase

import (
	"context"

	"lebay/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase manages the refresh-token sessions of a user.
type SessionUsecase interface {
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error

	// CleanupExpiredSessions deletes expired refresh tokens and reports how many.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
