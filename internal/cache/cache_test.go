package cache

import (
	"context"
	"testing"
	"time"
)

type view struct {
	N int `json:"n"`
}

// A nil *ViewCache is the no-redis configuration: every Get misses and Set
// is a no-op, so callers never branch on whether a cache was wired.
func TestNilViewCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()

	var c *ViewCache[view]
	if v, ok := c.Get(ctx, "k"); ok || v != nil {
		t.Errorf("Get() on nil cache = (%v, %v), want (nil, false)", v, ok)
	}
	c.Set(ctx, "k", &view{N: 1}) // must not panic

	c = NewViewCache[view](nil, time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() on nil-client cache reported a hit")
	}
	c.Set(ctx, "k", &view{N: 1})
}
