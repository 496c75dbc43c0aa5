// Package cache provides the CacheStore implementations selected by config.cache.
package cache

import (
	"context"
	"log/slog"

	"lebay/config"
	"lebay/internal/domain/constants"
	"lebay/internal/domain/lifecycle"
	"lebay/internal/domain/service"
	"lebay/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// StoreParams holds dependencies for the CacheStore, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewCacheStore returns the configured store; memory when unset.
func NewCacheStore(params StoreParams) (service.CacheStore, error) {
	cfg := params.Config.Cache
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.CacheProviderMemory {
		params.Logger.Info("Using in-memory cache store")

		return NewMemoryStore(), nil
	}

	if cfg.Provider != constants.CacheProviderRedis {
		return nil, errors.Errorf("unknown cache provider: %s", cfg.Provider)
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis addr is required for redis cache provider")
	}

	store := NewRedisStore(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := store.Ping(ctx); err != nil {
				return err
			}
			params.Logger.Info("Redis cache store connected", slog.String("addr", cfg.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}
