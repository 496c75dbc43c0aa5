package service

import (
	"context"

	"lebay/internal/domain/entity"
)

// EventPublisher ships auction domain events to a message broker. Publishing
// happens after the originating transaction has committed.
type EventPublisher interface {
	PublishAuctionEvent(ctx context.Context, event *entity.AuctionEventMessage) error

	// Close releases any resources held by the publisher
	Close() error
}
