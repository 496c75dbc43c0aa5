// Package context carries per-request values between the echo layer and the
// use cases: the request id, a request-scoped logger and the caller identity.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type key string

const (
	keyRequestID key = "request_id"
	keyLogger    key = "logger"
	keyUserID    key = "user_id"

	// HeaderXRequestID is echoed back on every response.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID returns the id assigned by the request id middleware, or a
// fresh one when the middleware did not run.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(keyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID stores the request id on the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(keyRequestID), requestID)
}

// SetUserID records the authenticated caller on the echo context.
func SetUserID(c echo.Context, userID uuid.UUID) {
	c.Set(string(keyUserID), userID)
}

// GetUserID returns the authenticated caller, if any.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(string(keyUserID)).(uuid.UUID)

	return userID, ok && userID != uuid.Nil
}

// WithScope attaches a request id and its logger to ctx.
func WithScope(ctx context.Context, requestID string, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, keyRequestID, requestID)

	return context.WithValue(ctx, keyLogger, logger)
}

// GetRequestIDFromContext returns "" outside a request scope.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)

	return id
}

// GetLoggerOrDefault returns the request-scoped logger, falling back to the
// given logger outside a request scope.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}
