package impl

import (
	"context"
	"log/slog"

	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager repository.TransactionManager
	clock     auction.Clock
	logger    *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	txManager repository.TransactionManager,
	clock auction.Clock,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		txManager: txManager,
		clock:     clock,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetActiveSessions retrieves all unexpired sessions for a user.
func (srv *sessionService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	srv.log(ctx).Debug("Getting active sessions", slog.Any("user_id", userID))

	var sessions []*entity.RefreshToken

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, userID); err != nil {
			return translateRepoError(err, "failed to find user")
		}

		var err error
		sessions, err = repoFactory.RefreshTokenRepo().FindRefreshTokensByUserID(ctx, userID, srv.clock.Now())

		return errors.Wrap(err, "failed to find refresh tokens")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to get active sessions", slog.Any("user_id", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get active sessions")
	}

	return sessions, nil
}

// RevokeSession deletes one session. Sessions of other users look like missing ones.
func (srv *sessionService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to revoke session", slog.Any("user_id", userID), slog.Any("session_id", sessionID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.RefreshTokenRepo().DeleteRefreshTokenByID(ctx, userID, sessionID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return errors.Wrap(domainerrors.ErrNotFound, "session not found")
		}
		srv.log(ctx).Error("Failed to revoke session", slog.Any("user_id", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke session")
	}
	srv.log(ctx).Info("Successfully revoked session", slog.Any("user_id", userID), slog.Any("session_id", sessionID))

	return nil
}

// RevokeAllSessions logs the user out of every device.
func (srv *sessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to revoke all sessions", slog.Any("user_id", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().AcquireSessionMutex(ctx, userID); err != nil {
			return translateRepoError(err, "failed to lock user")
		}

		return errors.Wrap(repoFactory.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID), "failed to delete refresh tokens")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to revoke all sessions", slog.Any("user_id", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke all sessions")
	}
	srv.log(ctx).Info("Successfully revoked all sessions", slog.Any("user_id", userID))

	return nil
}

// CleanupExpiredSessions removes expired refresh tokens of every user.
func (srv *sessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	var deleted int64

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		deleted, err = repoFactory.RefreshTokenRepo().DeleteExpiredRefreshTokens(ctx, srv.clock.Now())

		return errors.Wrap(err, "failed to delete expired refresh tokens")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to clean up expired sessions", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to clean up expired sessions")
	}
	if deleted > 0 {
		srv.log(ctx).Info("Expired sessions cleaned up", slog.Int64("deleted", deleted))
	}

	return deleted, nil
}
