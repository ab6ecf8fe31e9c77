package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(clock *fakeClock) *MemoryStore {
	s := NewMemoryStore(0)
	s.now = clock.Now
	return s
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeClock())

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	got, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), got)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryStore_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := newTestStore(clock)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Second))

	clock.Advance(10*time.Second - time.Nanosecond)
	_, found, _ := s.Get(ctx, "k")
	assert.True(t, found, "entry must be live just before storedAt+ttl")

	clock.Advance(time.Nanosecond)
	_, found, _ = s.Get(ctx, "k")
	assert.False(t, found, "entry must be expired at storedAt+ttl")
}

func TestMemoryStore_NonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeClock())

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	_, found, _ := s.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeClock())

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "missing"))

	_, found, _ := s.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := newTestStore(clock)

	require.NoError(t, s.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "long", []byte("2"), time.Hour))

	clock.Advance(time.Minute)
	assert.Equal(t, 1, s.deleteExpired())

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryStore_JanitorStops(t *testing.T) {
	s := NewMemoryStore(time.Millisecond)
	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), time.Nanosecond))

	assert.Eventually(t, func() bool {
		return s.Stats().CurrentSize == 0
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
}
