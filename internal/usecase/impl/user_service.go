// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"lebay/config"
	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/domain/service"
	"lebay/internal/errors"
	"lebay/internal/usecase"
	"lebay/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	authRepo          repository.AuthRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	itemRepo          repository.ItemRepository
	auctionRepo       repository.AuctionRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	clock             auction.Clock
	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	AuthRepo         repository.AuthRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ItemRepo         repository.ItemRepository
	AuctionRepo      repository.AuctionRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Clock            auction.Clock
	Config           *config.Config
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		authRepo:          params.AuthRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		itemRepo:          params.ItemRepo,
		auctionRepo:       params.AuctionRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		clock:             params.Clock,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account and its local credential in one transaction.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := util.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("username", username), slog.String("email", email))

	if input.Password != input.RetypePassword {
		return nil, errors.WithStack(domainerrors.ErrPasswordMismatch)
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	// Hash outside the transaction (bcrypt is CPU-bound).
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Username:  username,
		Email:     email,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Address:   input.Address,
		Phone:     strings.TrimSpace(input.Phone),
		IsActive:  true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if err := ensureAvailable(ctx, userRepo, username, email); err != nil {
			return err
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return translateRepoError(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeLocal,
			ProviderUserID: strings.ToLower(username),
			PasswordHash:   hashedPassword,
		}
		if err := repoFactory.AuthRepo().CreateAuthentication(ctx, newAuth); err != nil {
			return errors.Wrap(err, "failed to create authentication during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}
	srv.log(ctx).Info("User registered", slog.Any("userID", newUser.ID))

	return newUser, nil
}

func ensureAvailable(ctx context.Context, userRepo repository.UserRepository, username, email string) error {
	if _, err := userRepo.FindByUsername(ctx, username); err == nil {
		return domainerrors.ErrUserAlreadyExists.WithDetails("username")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check username")
	}

	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		return domainerrors.ErrUserAlreadyExists.WithDetails("email")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check email")
	}

	return nil
}

// Login accepts either the username or the email address.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("login", input.Login))

	loggedInUser, authRecord, err := srv.loadLoginAuth(ctx, input.Login)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("login", input.Login), slog.Any("error", err))

		return nil, errors.Wrap(err, "login failed")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("login", input.Login), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if !loggedInUser.IsActive {
		return nil, errors.Wrap(domainerrors.ErrAccountInactive, "login failed")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(loggedInUser.ID, loggedInUser.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.persistLoginRefreshToken(ctx, loggedInUser.ID, refreshTokenString); err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("login", input.Login), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create refresh token during login")
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         loggedInUser,
	}, nil
}

func (srv *userService) loadLoginAuth(ctx context.Context, login string) (*entity.User, *entity.Authentication, error) {
	var (
		loggedInUser *entity.User
		authRecord   *entity.Authentication
	)

	// Load from primary in a short transaction to avoid stale reads on replicas.
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var findErr error
		if strings.Contains(login, "@") {
			loggedInUser, findErr = userRepo.FindByEmail(ctx, util.NormalizeEmail(login))
		} else {
			loggedInUser, findErr = userRepo.FindByUsername(ctx, strings.TrimSpace(login))
		}
		if errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.WithStack(domainerrors.ErrInvalidCredentials)
		}
		if findErr != nil {
			return errors.Wrap(findErr, "failed to find user")
		}

		authRecord, findErr = repoFactory.AuthRepo().FindAuthenticationByUserID(ctx, loggedInUser.ID, entity.ProviderTypeLocal)
		if errors.Is(findErr, repository.ErrAuthNotFound) {
			return errors.WithStack(domainerrors.ErrInvalidCredentials)
		}

		return errors.Wrap(findErr, "failed to find authentication")
	})
	if err != nil {
		return nil, nil, err
	}

	return loggedInUser, authRecord, nil
}

func (srv *userService) persistLoginRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		// When session limit is enabled, keep lock/count/insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return srv.storeRefreshToken(ctx, repoFactory, userID, refreshTokenString)
		}); err != nil {
			return errors.Wrap(err, "failed to execute user login transaction")
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	return srv.storeRefreshTokenWithRepo(ctx, srv.refreshTokenRepo, userID, refreshTokenString)
}

func (srv *userService) storeRefreshToken(ctx context.Context, repoFactory repository.RepositoryFactory, userID uuid.UUID, refreshTokenString string) error {
	refreshRepo := repoFactory.RefreshTokenRepo()

	if err := repoFactory.UserRepo().AcquireSessionMutex(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to lock user row for session limit check")
	}

	activeSessions, err := refreshRepo.CountActiveSessionsByUserID(ctx, userID, srv.clock.Now())
	if err != nil {
		return errors.Wrap(err, "failed to count active sessions")
	}
	if activeSessions >= srv.maxActiveSessions {
		return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
	}

	return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, userID, refreshTokenString)
}

func (srv *userService) storeRefreshTokenWithRepo(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID, refreshTokenString string) error {
	newRefreshToken := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: util.HashToken(refreshTokenString),
		ExpiresAt: srv.clock.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// RefreshToken rotates the refresh token: the presented one is deleted and a
// new pair is issued, so a refresh token works exactly once.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil || claims.Type != service.TokenTypeRefresh {
		return nil, errors.WithStack(domainerrors.ErrRefreshTokenInvalid)
	}

	var output usecase.RefreshTokenOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()
		tokenHash := util.HashToken(input.RefreshToken)

		stored, err := refreshRepo.FindRefreshTokenByHash(ctx, tokenHash, srv.clock.Now())
		if err != nil {
			return translateRepoError(err, "refresh token not found or expired")
		}
		if stored.UserID != claims.UserID {
			return errors.WithStack(domainerrors.ErrRefreshTokenInvalid)
		}

		user, err := repoFactory.UserRepo().FindByID(ctx, stored.UserID)
		if err != nil {
			return translateRepoError(err, "failed to find user")
		}
		if !user.IsActive {
			return errors.WithStack(domainerrors.ErrAccountInactive)
		}

		output.AccessToken, output.RefreshToken, err = srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
		if err != nil {
			return errors.Wrap(err, "failed to generate tokens")
		}

		if err := refreshRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
			return errors.Wrap(err, "failed to delete rotated refresh token")
		}

		return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, user.ID, output.RefreshToken)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to refresh token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	return &output, nil
}

// Logout deletes the session of the presented refresh token. Unknown tokens are ignored.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, util.HashToken(input.RefreshToken))
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// ChangePassword replaces the password and ends every session of the user.
func (srv *userService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if input.NewPassword != input.RetypePassword {
		return errors.WithStack(domainerrors.ErrPasswordMismatch)
	}
	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return errors.Wrap(err, "password does not meet security requirements")
	}

	authRecord, err := srv.authRepo.FindAuthenticationByUserID(ctx, userID, entity.ProviderTypeLocal)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			return errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return errors.Wrap(err, "failed to find authentication")
	}
	if !srv.hasher.Check(input.CurrentPassword, authRecord.PasswordHash) {
		return errors.WithStack(domainerrors.ErrWrongCurrentPassword)
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.AuthRepo().UpdatePasswordHash(ctx, authRecord.ID, hashedPassword); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		return errors.Wrap(repoFactory.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID), "failed to end sessions")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to change password", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute change password transaction")
	}
	srv.log(ctx).Info("Password changed", slog.Any("userID", userID))

	return nil
}

func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translateRepoError(err, "failed to get profile")
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields. Username cannot change.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	var updated *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return translateRepoError(err, "failed to find user")
		}

		if input.Email != nil {
			email := util.NormalizeEmail(*input.Email)
			if email != user.Email {
				other, err := userRepo.FindByEmail(ctx, email)
				if err == nil && other.ID != user.ID {
					return domainerrors.ErrUserAlreadyExists.WithDetails("email")
				}
				if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
					return errors.Wrap(err, "failed to check email")
				}
				user.Email = email
			}
		}
		if input.FirstName != nil {
			user.FirstName = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil {
			user.LastName = strings.TrimSpace(*input.LastName)
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		if input.Phone != nil {
			user.Phone = strings.TrimSpace(*input.Phone)
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return translateRepoError(err, "failed to update user")
		}
		updated = user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute update profile transaction")
	}

	return updated, nil
}

// GetHome collects the user's running listings, won auctions and idle items.
func (srv *userService) GetHome(ctx context.Context, userID uuid.UUID) (*usecase.UserHome, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translateRepoError(err, "failed to find user")
	}

	running, err := srv.auctionRepo.ListBySeller(ctx, userID, entity.ItemStatusRunning)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list running auctions")
	}

	won, err := srv.auctionRepo.ListWonBy(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list won auctions")
	}

	listable, err := srv.itemRepo.ListBySeller(ctx, userID, entity.ItemStatusIdle)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list idle items")
	}

	now := srv.clock.Now()

	return &usecase.UserHome{
		User:            user,
		RunningAuctions: newAuctionViews(running, now),
		WonAuctions:     newAuctionViews(won, now),
		ListableItems:   listable,
	}, nil
}
