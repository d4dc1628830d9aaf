package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/five82/skyline/internal/cache"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/query"
)

//go:embed data/flights.json
var fallbackJSON []byte

// FallbackFlights decodes the bundled dataset.
func FallbackFlights() ([]flight.Flight, error) {
	var flights []flight.Flight
	if err := json.Unmarshal(fallbackJSON, &flights); err != nil {
		return nil, fmt.Errorf("decode bundled flights: %w", err)
	}
	return flights, nil
}

// Upstream fetches the live flight list.
type Upstream interface {
	FetchFlights(ctx context.Context) ([]flight.Flight, error)
}

const successMessage = "Successfully fetched from external API"

// Provider resolves the flight envelope served by /api/flights. Upstream
// successes are cached for the revalidate window; failures are answered from
// the bundled dataset and not cached, so the next request retries upstream.
type Provider struct {
	upstream Upstream
	query    *query.Client
	fallback []flight.Flight
	metrics  *Metrics
}

// NewProvider wires a Provider. metrics may be nil.
func NewProvider(upstream Upstream, q *query.Client, fallback []flight.Flight, metrics *Metrics) *Provider {
	return &Provider{upstream: upstream, query: q, fallback: fallback, metrics: metrics}
}

// Flights never fails: any upstream problem yields the fallback envelope.
func (p *Provider) Flights(ctx context.Context) flight.Envelope {
	env, err := p.query.Fetch(ctx, cache.FlightsKey, p.fetchUpstream)
	if err == nil {
		return *env
	}

	logging.Warn("serving bundled flights", "error", err)
	if p.metrics != nil {
		p.metrics.FallbackServedTotal.Inc()
	}
	return flight.Envelope{
		Data:    append([]flight.Flight(nil), p.fallback...),
		Source:  flight.SourceLocalFallback,
		Message: fmt.Sprintf("Using local flight data due to API failure %v", err),
	}
}

func (p *Provider) fetchUpstream(ctx context.Context) (*flight.Envelope, error) {
	start := time.Now()
	flights, err := p.upstream.FetchFlights(ctx)
	if p.metrics != nil {
		p.metrics.UpstreamFetchTime.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		p.metrics.UpstreamFetchTotal.WithLabelValues(result).Inc()
	}
	if err != nil {
		return nil, err
	}
	logging.Info("fetched upstream flights", "count", len(flights))
	return &flight.Envelope{
		Data:    flights,
		Source:  flight.SourceAPI,
		Message: successMessage,
	}, nil
}
