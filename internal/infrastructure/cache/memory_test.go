package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techchoose/backend/internal/domain"
)

// newTestCache returns a cache whose clock is controlled by the returned advance func
func newTestCache(t *testing.T) (*MemoryCache, func(time.Duration)) {
	t.Helper()

	c := NewMemoryCache(time.Hour)
	t.Cleanup(c.Close)

	var mu sync.Mutex
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(d)
	}
	return c, advance
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{name: "store and retrieve string", key: "k1", value: "v"},
		{name: "store and retrieve catalog", key: "catalog", value: domain.Catalog{{Name: "iPhone 15", Price: 999}}},
		{name: "store and retrieve empty catalog", key: "empty", value: domain.Catalog{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCache(t)

			require.NoError(t, c.Set(ctx, tt.key, tt.value, time.Minute))

			got, err := c.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c, advance := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "catalog", domain.Catalog{}, 60*time.Second))

	advance(59 * time.Second)
	_, err := c.Get(ctx, "catalog")
	assert.NoError(t, err, "entry should still be live before TTL")

	advance(2 * time.Second)
	_, err = c.Get(ctx, "catalog")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := c.Exists(ctx, "catalog")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "non-existent-key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "delete-test", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "delete-test"))

	_, err := c.Get(ctx, "delete-test")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Exists(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	exists, err := c.Exists(ctx, "exists-test")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "exists-test", "value", time.Minute))

	exists, err = c.Exists(ctx, "exists-test")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	c, advance := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, time.Second))
	require.NoError(t, c.Set(ctx, "long", 2, time.Hour))
	assert.Equal(t, 2, c.Size())

	advance(time.Minute)
	c.removeExpired()

	assert.Equal(t, 1, c.Size())
	_, err := c.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryCache_Clear(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Set(ctx, string(rune('a'+i)), i, time.Minute))
	}
	require.Equal(t, 5, c.Size())

	c.Clear()

	assert.Equal(t, 0, c.Size())
	for i := 0; i < 5; i++ {
		_, err := c.Get(ctx, string(rune('a'+i)))
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := string(rune('a' + id))
			if err := c.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("concurrent Set() error = %v", err)
			}
			if _, err := c.Get(ctx, key); err != nil {
				t.Errorf("concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Size())
}
