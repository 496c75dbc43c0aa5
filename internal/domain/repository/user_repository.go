// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"lebay/internal/domain/entity"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository persists accounts. Loaded users carry their Seller profile.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create assigns ID and timestamps. Duplicate username or email yields ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// Update saves profile fields. Username is immutable.
	Update(ctx context.Context, user *entity.User) error

	// AcquireSessionMutex row-locks the user until the surrounding transaction ends.
	AcquireSessionMutex(ctx context.Context, id uuid.UUID) error
}
