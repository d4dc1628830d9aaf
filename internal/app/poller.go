package app

import (
	"context"
	"time"

	"github.com/five82/skyline/internal/cache"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/flightapi"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/query"
	"github.com/five82/skyline/internal/state"
)

const (
	defaultPollInterval = 5 * time.Minute
	retryInterval       = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures < 0 {
		failures = 0
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return min(backoff, maxBackoff)
}

// nextDelay is the wait before the next poll. After a failure the poller
// retries sooner than the revalidate interval, backing off per failure.
func nextDelay(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	return min(interval, calculateBackoff(failures-1, retryInterval))
}

// cachedFetcher routes fetches through the query layer so the poller and any
// other caller share one in-flight request and its cached result.
type cachedFetcher struct {
	query  *query.Client
	source flightapi.Fetcher
}

func (f cachedFetcher) FetchFlights(ctx context.Context) (*flight.Envelope, error) {
	return f.query.Fetch(ctx, cache.FlightsKey, f.source.FetchFlights)
}

// Invalidate drops the cached list so the next fetch goes to the API.
func (f cachedFetcher) Invalidate(ctx context.Context) error {
	return f.query.Invalidate(ctx, cache.FlightsKey)
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// StartPoller launches a background goroutine that refreshes the store at
// interval, retrying failures with backoff. It returns immediately. The
// returned function requests an immediate refetch that bypasses the cache;
// requests made while one is pending are merged.
func StartPoller(ctx context.Context, store *state.Store, fetcher flightapi.Fetcher, interval time.Duration) (refetch func()) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	kick := make(chan struct{}, 1)

	go func() {
		failures := 0
		for {
			if err := refresh(ctx, store, fetcher); err != nil {
				failures++
			} else {
				failures = 0
			}

			timer := time.NewTimer(nextDelay(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-kick:
				timer.Stop()
				if inv, ok := fetcher.(invalidator); ok {
					if err := inv.Invalidate(ctx); err != nil {
						logging.Warn("invalidate flights cache", "error", err)
					}
				}
			case <-timer.C:
			}
		}
	}()

	return func() {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

func refresh(ctx context.Context, store *state.Store, fetcher flightapi.Fetcher) error {
	if !store.Snapshot().HasData {
		store.SetLoading(true)
	}

	env, err := fetcher.FetchFlights(ctx)
	if ctx.Err() != nil {
		// Shutting down; the result belongs to nobody.
		return ctx.Err()
	}
	if err != nil {
		store.Update(nil, err)
		logging.Warn("flight poll failed", "error", err, "failures", store.Snapshot().ConsecutiveFailures)
		return err
	}

	store.Update(env, nil)
	logging.Debug("flights refreshed", "count", len(env.Data), "source", env.Source)
	return nil
}
