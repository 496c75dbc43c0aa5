package cache

import (
	"context"
	"time"

	"lebay/internal/errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a CacheStore shared across API replicas.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(opt *redis.Options) *RedisStore {
	return &RedisStore{client: redis.NewClient(opt)}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}

	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrapf(s.client.Set(ctx, key, value, ttl).Err(), "redis set %s", key)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(s.client.Del(ctx, key).Err(), "redis del %s", key)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx).Err(), "redis ping")
}

func (s *RedisStore) Close() error {
	return errors.WithStack(s.client.Close())
}
