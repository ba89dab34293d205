package cache

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxEntries int) (*Cache[string], *clockwork.FakeClock) {
	t.Helper()
	clk := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return New[string](10*time.Minute, maxEntries, WithClock(clk)), clk
}

func TestCache_BasicGetSet(t *testing.T) {
	c, _ := newTestCache(t, 3)

	c.Set("a", "alpha")
	c.Set("b", "bravo")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_Expiry(t *testing.T) {
	c, clk := newTestCache(t, 3)
	c.Set("a", "alpha")

	clk.Advance(9*time.Minute + 59*time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry is fresh just before the TTL")

	clk.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry expires exactly at the TTL")
	assert.Equal(t, 0, c.Len(), "an expired hit is dropped")
}

func TestCache_SetWithTTL(t *testing.T) {
	c, clk := newTestCache(t, 3)

	c.SetWithTTL("short", "s", time.Minute)
	c.Set("long", "l")
	clk.Advance(2 * time.Minute)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)

	c.SetWithTTL("long", "l", 0)
	_, ok = c.Get("long")
	assert.False(t, ok, "a non-positive TTL removes the key")
}

func TestCache_OverwriteRefreshesExpiry(t *testing.T) {
	c, clk := newTestCache(t, 3)
	c.Set("a", "v1")
	clk.Advance(8 * time.Minute)
	c.Set("a", "v2")
	clk.Advance(8 * time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, 2)

	c.Set("a", "alpha")
	c.Set("b", "bravo")
	c.Get("a") // b is now least recently used
	c.Set("c", "charlie")

	_, ok := c.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_MinimumCapacity(t *testing.T) {
	c, _ := newTestCache(t, 0)
	c.Set("a", "alpha")
	c.Set("b", "bravo")

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestCache_Purge(t *testing.T) {
	c, clk := newTestCache(t, 10)

	c.SetWithTTL("a", "alpha", time.Minute)
	c.SetWithTTL("b", "bravo", 5*time.Minute)
	c.SetWithTTL("c", "charlie", time.Minute)
	clk.Advance(2 * time.Minute)

	assert.Equal(t, 2, c.Purge())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)

	assert.Equal(t, 0, c.Purge())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, 50)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 200 {
				key := string(rune('a' + (i+j)%26))
				c.Set(key, j)
				c.Get(key)
			}
			c.Purge()
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 26)
}

func TestJanitor_Sweep(t *testing.T) {
	c, clk := newTestCache(t, 10)
	c.SetWithTTL("a", "alpha", time.Minute)
	c.Set("b", "bravo")
	clk.Advance(2 * time.Minute)

	j, err := NewJanitor("@every 1m", map[string]Purger{"test": c}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	j.sweep(map[string]Purger{"test": c})
	assert.Equal(t, 1, c.Len())

	j.Start()
	j.Stop()
}

func TestJanitor_InvalidSchedule(t *testing.T) {
	_, err := NewJanitor("every now and then", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule cache purge")
}
