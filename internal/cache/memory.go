package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/five82/skyline/internal/flight"
)

// Memory is an in-process FlightCache.
type Memory struct {
	cache *gocache.Cache
}

var _ FlightCache = (*Memory)(nil)

// NewMemory returns an empty cache. defaultTTL applies when Set is given a
// zero ttl; expired entries are purged every cleanup.
func NewMemory(defaultTTL, cleanup time.Duration) *Memory {
	return &Memory{cache: gocache.New(defaultTTL, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string) (flight.Envelope, bool, error) {
	val, found := m.cache.Get(key)
	if !found {
		return flight.Envelope{}, false, nil
	}
	env, ok := val.(flight.Envelope)
	if !ok {
		m.cache.Delete(key)
		return flight.Envelope{}, false, nil
	}
	return env.Clone(), true, nil
}

func (m *Memory) Set(_ context.Context, key string, env flight.Envelope, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, env.Clone(), ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Len returns the number of unexpired entries.
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}

// Close is a no-op for the in-memory cache.
func (m *Memory) Close() error {
	return nil
}
