package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local fixed-window counter. Suitable for
// single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]memoryWindow),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	current, ok := s.windows[key]
	if !ok || !now.Before(current.resetAt) {
		current = memoryWindow{resetAt: now.Add(window)}
	}
	current.count++
	s.windows[key] = current

	return current.count, current.resetAt.Sub(now), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = make(map[string]memoryWindow)
	return nil
}
