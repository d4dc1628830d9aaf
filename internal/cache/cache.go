// Package cache stores fetched flight envelopes for a bounded time, either
// in process memory or in Redis.
package cache

import (
	"context"
	"time"

	"github.com/five82/skyline/internal/flight"
)

// FlightCache keeps envelopes by key. Get reports a miss with ok == false and
// a nil error.
type FlightCache interface {
	Get(ctx context.Context, key string) (env flight.Envelope, ok bool, err error)
	Set(ctx context.Context, key string, env flight.Envelope, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FlightsKey is the cache key of the full flight list.
const FlightsKey = "cache:flights"
