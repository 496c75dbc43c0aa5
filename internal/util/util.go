// Package util holds small helpers shared across layers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HashToken returns the hex SHA-256 of a raw token. Only hashes are stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// NewInvoiceNumber returns "INV-YYYYMMDD-<32 hex>". The suffix is a random
// (v4) UUID so numbers cannot be derived from auction or bidder ids.
func NewInvoiceNumber(now time.Time) string {
	id := uuid.New()

	return "INV-" + now.UTC().Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(id[:]))
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
