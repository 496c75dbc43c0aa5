package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderTypeLocal is the username/password credential provider.
const ProviderTypeLocal = "local"

// Authentication represents a single method of logging in (a credential).
type Authentication struct {
	ID             uuid.UUID // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID // Links this authentication method to the User it belongs to.
	Provider       string    // The authentication provider, currently always "local".
	ProviderUserID string    // Login identifier at the provider; the username for "local".
	PasswordHash   string    // bcrypt hash of the password.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new Access Token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token.
	ExpiresAt time.Time // The exact time when this refresh token will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}
