package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"lebay/config"
	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/constants"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// tokenValidator has the signature of idtoken.Validate.
type tokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// PushHandler settles auctions referenced by pushed auction events.
type PushHandler struct {
	verifyPushAuth bool
	pushAudience   string
	validateToken  tokenValidator
	logger         *slog.Logger
	settlementUC   usecase.SettlementUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	SettlementUC usecase.SettlementUsecase
}

// NewPushHandler creates a new Pub/Sub push handler. Google push requests
// must carry a Google-signed OIDC token everywhere except local environments.
func NewPushHandler(params PushHandlerParams) *PushHandler {
	h := &PushHandler{
		validateToken: idtoken.Validate,
		logger:        params.Logger,
		settlementUC:  params.SettlementUC,
	}

	if cfg := params.Config; cfg != nil && cfg.PubSub != nil {
		h.verifyPushAuth = cfg.PubSub.Provider == constants.PubSubProviderGoogle && cfg.Env.Env != constants.EnvLocal
		h.pushAudience = cfg.PubSub.PushAudience
	}

	return h
}

// HandlePush acknowledges malformed and permanently failing messages with a
// 2xx status and asks for a redelivery with 503 when settlement hit a
// transient error.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Settler] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Settler] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Settler] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event entity.AuctionEventMessage
	if err := json.Unmarshal(data, &event); err != nil || event.AuctionEventID == uuid.Nil {
		h.logger.Error("[Settler] Failed to parse auction event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithScope(ctx, requestID, reqLogger)

	if !triggersSettlement(event.Type) {
		reqLogger.Debug("[Settler] Event does not trigger settlement", slog.String("type", string(event.Type)))

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Settler] Processing auction event",
		slog.String("event_id", event.ID.String()),
		slog.String("type", string(event.Type)),
		slog.String("auction_id", event.AuctionEventID.String()),
	)

	status, err := h.settlementUC.Settle(ctx, event.AuctionEventID)
	if err != nil {
		retryable := !errors.Is(err, domainerrors.ErrAuctionNotFound)
		reqLogger.Error("[Settler] Failed to settle auction",
			slog.String("auction_id", event.AuctionEventID.String()),
			slog.Any("error", err),
			slog.Bool("retryable", retryable),
		)
		if retryable {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Settler] Auction event processed",
		slog.String("auction_id", event.AuctionEventID.String()),
		slog.String("item_status", status.String()),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers the publisher's request id so one bid can be
// traced from the API through settlement.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// triggersSettlement is true for bid events only. Settled and sale events are
// published after settlement already happened, so re-settling them is wasted
// work. A bid event delivered after the end time settles the auction before
// the next sweep.
func triggersSettlement(eventType entity.EventType) bool {
	return eventType == entity.EventBidPlaced
}

// verifyPubSubToken checks the OIDC token Pub/Sub attaches to authenticated
// push subscriptions.
func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	token, found := strings.CutPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return errors.New("missing bearer token")
	}

	audience := h.pushAudience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = scheme + "://" + req.Host + req.URL.Path
	}

	payload, err := h.validateToken(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return errors.New("email not verified")
	}

	return nil
}
