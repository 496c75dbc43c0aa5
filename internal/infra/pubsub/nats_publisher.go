package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"lebay/internal/domain/entity"
	"lebay/internal/domain/service"
	"lebay/internal/errors"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const natsStreamMaxAge = 7 * 24 * time.Hour

// natsPublisher writes events to a JetStream stream. Subjects are
// "<prefix>.<event type>", e.g. "lebay.auction.settled".
type natsPublisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	prefix string
	logger *slog.Logger
}

// NewNATSPublisher connects and makes sure the stream exists.
func NewNATSPublisher(ctx context.Context, url, stream, prefix string, logger *slog.Logger) (service.EventPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("lebay"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, errors.Wrap(err, "connect nats")
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "create jetstream context")
	}

	prefix = strings.Trim(prefix, ".")
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        stream,
		Description: "Auction domain events",
		Subjects:    []string{prefix + ".>"},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      natsStreamMaxAge,
	}); err != nil {
		conn.Close()

		return nil, errors.Wrapf(err, "create or update stream %s", stream)
	}

	logger.Info("NATS JetStream publisher initialized",
		slog.String("url", url),
		slog.String("stream", stream),
		slog.String("subject_prefix", prefix),
	)

	return &natsPublisher{conn: conn, js: js, prefix: prefix, logger: logger}, nil
}

func (p *natsPublisher) PublishAuctionEvent(ctx context.Context, event *entity.AuctionEventMessage) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	subject := p.prefix + "." + string(event.Type)
	// Msg ID lets JetStream drop duplicates of a retried publish.
	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ID.String()))
	if err != nil {
		return errors.Wrapf(err, "publish to %s", subject)
	}

	p.logger.Debug("[NATS] Event published",
		slog.String("subject", subject),
		slog.Uint64("seq", ack.Sequence),
	)

	return nil
}

func (p *natsPublisher) Close() error {
	if p.conn == nil {
		return nil
	}

	return errors.Wrap(p.conn.Drain(), "drain nats connection")
}
