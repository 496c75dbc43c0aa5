package cache

import (
	"context"
	"sync"
	"time"
)

type memItem struct {
	value   []byte
	expires time.Time
}

// MemoryStore is a process-local CacheStore. A zero expires never expires.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memItem{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !it.expires.IsZero() && s.now().After(it.expires) {
		s.mu.Lock()
		// re-check, a concurrent Set may have replaced it
		if cur, ok := s.items[key]; ok && cur.expires.Equal(it.expires) {
			delete(s.items, key)
		}
		s.mu.Unlock()

		return nil, false, nil
	}

	return clone(it.value), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := memItem{value: clone(value)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()

	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)

	return out
}
