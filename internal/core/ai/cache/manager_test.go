package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/infrastructure/config"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(ttl time.Duration, size int) (*Manager, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(ttl, size)
	m.now = c.now
	return m, c
}

func TestKeyDependsOnQueryAndContext(t *testing.T) {
	assert.Equal(t, Key("q", "ctx"), Key("q", "ctx"))
	assert.NotEqual(t, Key("q", "ctx"), Key("q", "ctx2"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestManagerGetSet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Minute, 10)

	_, ok := m.Get(ctx, "Comment faire un risotto ?", "- Risotto")
	assert.False(t, ok)

	m.Set(ctx, "Comment faire un risotto ?", "- Risotto", "Remuez souvent.")
	got, ok := m.Get(ctx, "Comment faire un risotto ?", "- Risotto")
	require.True(t, ok)
	assert.Equal(t, "Remuez souvent.", got)

	_, ok = m.Get(ctx, "Comment faire un risotto ?", "- Risotto\n- Tiramisu")
	assert.False(t, ok)

	st := m.Stats()
	assert.Equal(t, 1, st.Size)
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
}

func TestManagerExpires(t *testing.T) {
	ctx := context.Background()
	m, c := newTestManager(time.Minute, 10)

	m.Set(ctx, "q", "", "a")
	c.advance(59 * time.Second)
	_, ok := m.Get(ctx, "q", "")
	assert.True(t, ok)

	c.advance(2 * time.Second)
	_, ok = m.Get(ctx, "q", "")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Stats().Size)
	assert.Equal(t, int64(1), m.Stats().Evictions)
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m, c := newTestManager(time.Hour, 2)

	m.Set(ctx, "a", "", "1")
	c.advance(time.Second)
	m.Set(ctx, "b", "", "2")
	c.advance(time.Second)
	_, _ = m.Get(ctx, "a", "")

	m.Set(ctx, "c", "", "3")

	_, okA := m.Get(ctx, "a", "")
	_, okB := m.Get(ctx, "b", "")
	_, okC := m.Get(ctx, "c", "")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, m.Stats().Size)
}

func TestManagerPrefersExpiredOverLRU(t *testing.T) {
	ctx := context.Background()
	m, c := newTestManager(time.Minute, 2)

	m.Set(ctx, "old", "", "1")
	c.advance(50 * time.Second)
	m.Set(ctx, "new", "", "2")
	c.advance(20 * time.Second)

	m.Set(ctx, "newest", "", "3")

	_, okNew := m.Get(ctx, "new", "")
	assert.True(t, okNew)
	assert.Equal(t, 2, m.Stats().Size)
}

func TestNewManagerClose(t *testing.T) {
	m := NewManager(config.CacheConfig{
		Enabled:         true,
		TTL:             time.Minute,
		MaxSize:         5,
		CleanupInterval: 10 * time.Millisecond,
	})
	m.Set(context.Background(), "q", "", "a")

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Stats().Size)
}

func TestRedisUnavailableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedis(client, time.Minute)
	c.Set(context.Background(), "q", "", "a")

	_, ok := c.Get(context.Background(), "q", "")
	assert.False(t, ok)
}
