package service

import (
	"context"
	"time"
)

// CacheStore is a byte-oriented key/value cache.
type CacheStore interface {
	// Get reports found=false without error on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
