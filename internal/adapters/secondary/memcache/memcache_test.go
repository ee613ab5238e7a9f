package memcache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hijibiji-app/opencrm/internal/adapters/secondary/memcache"
)

func TestCache_SetGet(t *testing.T) {
	c := memcache.New()
	defer c.Close()

	t.Run("round trip", func(t *testing.T) {
		c.Set("minutes", 4200, time.Minute)

		got, ok := c.Get("minutes")
		assert.True(t, ok)
		assert.Equal(t, 4200, got)
	})

	t.Run("missing key", func(t *testing.T) {
		got, ok := c.Get("nope")
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("overwrite replaces the value and ttl", func(t *testing.T) {
		c.Set("key", "first", time.Minute)
		c.Set("key", "second", time.Minute)

		got, ok := c.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "second", got)
	})

	t.Run("non-positive ttl stores nothing", func(t *testing.T) {
		c.Set("zero", 1, 0)
		c.Set("negative", 1, -time.Second)

		_, ok := c.Get("zero")
		assert.False(t, ok)
		_, ok = c.Get("negative")
		assert.False(t, ok)
	})
}

func TestCache_Expiry(t *testing.T) {
	c := memcache.New()
	defer c.Close()

	c.Set("short", 7, 10*time.Millisecond)

	_, ok := c.Get("short")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	// Expired entries are invisible to Get even before the janitor sweeps.
	_, ok = c.Get("short")
	assert.False(t, ok)
}
