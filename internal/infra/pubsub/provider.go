// Package pubsub publishes auction domain events to the configured broker.
package pubsub

import (
	"context"
	"log/slog"

	"lebay/config"
	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/constants"
	"lebay/internal/domain/entity"
	"lebay/internal/domain/service"
	"lebay/internal/errors"

	"go.uber.org/fx"
)

// noopPublisher is used when no broker is configured.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishAuctionEvent(_ context.Context, event *entity.AuctionEventMessage) error {
	p.logger.Debug("[NoopPubSub] Event publishing disabled, skipping",
		slog.String("type", string(event.Type)),
		slog.String("auction_event_id", event.AuctionEventID.String()),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// NewNoopPublisher returns a publisher that only logs.
func NewNoopPublisher(logger *slog.Logger) service.EventPublisher {
	return &noopPublisher{logger: logger}
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher creates an EventPublisher based on configuration
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.PubSubProviderNoop {
		logger.Info("PubSub not configured, using no-op publisher")

		return NewNoopPublisher(logger), nil
	}

	var (
		publisher service.EventPublisher
		err       error
	)

	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		publisher = NewLocalHTTPPublisher(cfg.LocalEndpoint, logger)

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("project ID and topic ID are required for google provider")
		}
		publisher, err = NewGooglePubSubPublisher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)

	case constants.PubSubProviderNATS:
		if cfg.NATS.URL == "" || cfg.NATS.Stream == "" {
			return nil, errors.New("url and stream are required for nats provider")
		}
		prefix := cfg.NATS.SubjectPrefix
		if prefix == "" {
			prefix = "lebay"
		}
		publisher, err = NewNATSPublisher(params.Ctx, cfg.NATS.URL, cfg.NATS.Stream, prefix, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Event publisher ready", slog.String("provider", cfg.Provider))

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("Closing EventPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func eventAttributes(ctx context.Context, event *entity.AuctionEventMessage) map[string]string {
	attrs := map[string]string{
		"type":             string(event.Type),
		"auction_event_id": event.AuctionEventID.String(),
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		attrs["request_id"] = requestID
	}

	return attrs
}
