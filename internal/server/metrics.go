package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the skyline server. Each instance
// owns its registry so tests can build servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec
	RateLimitedTotal     prometheus.Counter

	// Data Metrics
	UpstreamFetchTotal  *prometheus.CounterVec
	UpstreamFetchTime   prometheus.Histogram
	FallbackServedTotal prometheus.Counter
	FlightsServed       prometheus.Gauge
}

// NewMetrics initializes and returns a new Metrics with all metrics registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyline_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skyline_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skyline_http_requests_in_flight",
				Help: "HTTP requests currently being served",
			},
			[]string{"endpoint"},
		),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "skyline_http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		}),
		UpstreamFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyline_upstream_fetch_total",
				Help: "Upstream flight list fetches by result",
			},
			[]string{"result"},
		),
		UpstreamFetchTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "skyline_upstream_fetch_duration_seconds",
			Help:    "Upstream flight list fetch latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		FallbackServedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "skyline_fallback_served_total",
			Help: "Responses served from the bundled flight dataset",
		}),
		FlightsServed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skyline_flights_served",
			Help: "Number of flights in the most recent response",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
