// Package query caches fetch results by key and collapses concurrent requests
// for the same key into one upstream call.
package query

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/five82/skyline/internal/cache"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/logging"
)

// FetchFunc loads the envelope for a key.
type FetchFunc func(ctx context.Context) (*flight.Envelope, error)

// Client serves envelopes from cache while fresh and deduplicates misses.
type Client struct {
	cache cache.FlightCache
	ttl   time.Duration
	group singleflight.Group
}

// New returns a Client. A zero ttl disables caching but keeps
// deduplication.
func New(c cache.FlightCache, ttl time.Duration) *Client {
	return &Client{cache: c, ttl: ttl}
}

// Fetch returns the cached envelope for key or calls fetch. Concurrent
// callers for the same key share one fetch. A caller whose ctx is cancelled
// gets ctx.Err() and its share of the result is discarded.
func (c *Client) Fetch(ctx context.Context, key string, fetch FetchFunc) (*flight.Envelope, error) {
	if env, ok := c.lookup(ctx, key); ok {
		return env, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// The shared call outlives any single caller.
		fetchCtx := context.WithoutCancel(ctx)
		env, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(fetchCtx, key, env)
		return env, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("fetch %s: %w", key, res.Err)
		}
		env := res.Val.(*flight.Envelope).Clone()
		return &env, nil
	}
}

// Invalidate drops key from the cache so the next Fetch goes upstream.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	c.group.Forget(key)
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, key)
}

func (c *Client) lookup(ctx context.Context, key string) (*flight.Envelope, bool) {
	if c.cache == nil || c.ttl <= 0 {
		return nil, false
	}
	env, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logging.Warn("cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &env, true
}

func (c *Client) store(ctx context.Context, key string, env *flight.Envelope) {
	if c.cache == nil || c.ttl <= 0 || env == nil {
		return
	}
	if err := c.cache.Set(ctx, key, *env, c.ttl); err != nil {
		logging.Warn("cache store failed", "key", key, "error", err)
	}
}
