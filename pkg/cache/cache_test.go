package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestMemory(clock *fakeClock, opts ...MemoryOption) *MemoryCache {
	opts = append([]MemoryOption{WithMemoryCleanup(0), WithMemoryClock(clock.Now)}, opts...)
	return NewMemoryCache(opts...)
}

func TestMemoryCacheRoundTripIsCopy(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(&fakeClock{t: time.Unix(0, 0)})
	defer mc.Close()

	in := payload{Name: "pune", Value: 27}
	require.NoError(t, mc.Set(ctx, "k", &in, time.Hour))
	in.Value = 99

	got, err := GetTyped[payload](ctx, mc, "k")
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "pune", Value: 27}, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	mc := newTestMemory(clock)

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	ok, _ := mc.Exists(ctx, "k")
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	mc := newTestMemory(clock, WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", 1, time.Hour))
	clock.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, time.Hour))
	clock.Advance(time.Second)

	var n int
	require.NoError(t, mc.Get(ctx, "a", &n)) // a is now more recent than b
	clock.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, time.Hour))

	assert.ErrorIs(t, mc.Get(ctx, "b", &n), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &n))
	assert.Equal(t, 1, n)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(&fakeClock{t: time.Unix(0, 0)})
	require.NoError(t, mc.Set(ctx, "k", "v", 0))
	require.NoError(t, mc.Delete(ctx, "k"))
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayeredCachePromotesFromL2(t *testing.T) {
	ctx := context.Background()
	l2 := newTestMemory(&fakeClock{t: time.Unix(0, 0)})
	lc := NewLayeredCache(l2)
	defer lc.Close()

	require.NoError(t, l2.Set(ctx, "k", payload{Name: "nagpur", Value: 31}, time.Hour))

	got, err := GetTyped[payload](ctx, lc, "k")
	require.NoError(t, err)
	assert.Equal(t, "nagpur", got.Name)

	// served from L1 even after L2 loses it
	require.NoError(t, l2.Delete(ctx, "k"))
	got, err = GetTyped[payload](ctx, lc, "k")
	require.NoError(t, err)
	assert.Equal(t, 31.0, got.Value)
}

func TestLayeredCacheWriteThroughAndDelete(t *testing.T) {
	ctx := context.Background()
	l2 := newTestMemory(&fakeClock{t: time.Unix(0, 0)})
	lc := NewLayeredCache(l2)

	require.NoError(t, lc.Set(ctx, "k", payload{Name: "x"}, time.Hour))
	ok, _ := l2.Exists(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, lc.Delete(ctx, "k"))
	var p payload
	assert.ErrorIs(t, lc.Get(ctx, "k", &p), ErrCacheMiss)
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "prediction:18.52_73.86", GenerateKey("prediction", "18.52_73.86"))
}
