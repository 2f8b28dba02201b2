package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		store  Store
		config Config
	}{
		{name: "nil store", store: nil, config: Config{Limit: 1, Window: time.Second}},
		{name: "zero limit", store: NewMemoryStore(), config: Config{Window: time.Second}},
		{name: "zero window", store: NewMemoryStore(), config: Config{Limit: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.store, tc.config)
			assert.Error(t, err)
		})
	}
}

func TestLimiter_AllowsUpToLimitThenDenies(t *testing.T) {
	limiter, err := New(NewMemoryStore(), Config{Limit: 3, Window: time.Minute})
	require.NoError(t, err)

	ctx := context.Background()
	for i := int64(0); i < 3; i++ {
		result, err := limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, int64(3), result.Limit)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result, err := limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))

	// Other keys keep their own budget.
	other, err := limiter.Allow(ctx, "client-b")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestLimiter_WindowExpiryResetsBudget(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	limiter, err := New(store, Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	ctx := context.Background()
	result, err := limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, time.Minute, result.RetryAfter)

	current = current.Add(time.Minute)
	result, err = limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "a fresh window restores the budget")
}

func TestLimiter_OnLimitedFiresOnlyWhenDenied(t *testing.T) {
	var limitedKeys []string
	limiter, err := New(NewMemoryStore(), Config{
		Limit:  1,
		Window: time.Minute,
		OnLimited: func(_ context.Context, key string, _ Result) {
			limitedKeys = append(limitedKeys, key)
		},
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.Empty(t, limitedKeys)

	_, err = limiter.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"client-a"}, limitedKeys)
}

type brokenStore struct{}

func (brokenStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("connection refused")
}

func (brokenStore) Close() error { return nil }

func TestLimiter_PropagatesStoreErrors(t *testing.T) {
	limiter, err := New(brokenStore{}, Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "client-a")
	assert.ErrorContains(t, err, "store error")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMemoryStore().Incr(ctx, "client-a", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
