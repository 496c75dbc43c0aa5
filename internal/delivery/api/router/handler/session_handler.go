package handler

import (
	"net/http"

	"lebay/internal/delivery/api/middleware"
	"lebay/internal/delivery/api/response"
	"lebay/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type SessionHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
}

// SessionHandler lists and revokes refresh-token sessions.
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
}

func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{sessionUC: params.SessionUC}
}

func (h *SessionHandler) ListSessions(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessions, err := h.sessionUC.GetActiveSessions(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newSessionViews(sessions))
}

func (h *SessionHandler) RevokeSession(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessionID, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid session ID")
	}

	if err := h.sessionUC.RevokeSession(c.Request().Context(), userID, sessionID); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) RevokeAllSessions(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.sessionUC.RevokeAllSessions(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
