// Package server implements the HTTP data boundary: GET /api/flights with
// transparent fallback to bundled data, plus health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/five82/skyline/internal/logging"
)

// Options configures the HTTP surface.
type Options struct {
	Listen         string
	RateLimitRPS   float64
	RateLimitBurst int
	// LimitLoopback applies the rate limiter to 127.0.0.1 as well.
	LimitLoopback  bool
	AllowedOrigins []string
}

// Server serves the flight envelope.
type Server struct {
	provider *Provider
	metrics  *Metrics
	limiter  *RateLimiter
	opts     Options
	upSince  time.Time
}

// New returns a Server. metrics may be nil, in which case a private registry
// is created.
func New(provider *Provider, metrics *Metrics, opts Options) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"https://*", "http://*"}
	}
	limiter := NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, opts.LimitLoopback)
	limiter.rejected = metrics.RateLimitedTotal.Inc
	return &Server{
		provider: provider,
		metrics:  metrics,
		limiter:  limiter,
		opts:     opts,
		upSince:  time.Now(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(instrument(s.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Get("/flights", inFlight(s.metrics, "/api/flights", s.handleFlights))
	})

	return r
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", "addr", s.opts.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.opts.Listen, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info("server stopped")
	return nil
}

func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	env := s.provider.Flights(r.Context())
	s.metrics.FlightsServed.Set(float64(len(env.Data)))
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.upSince).Round(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warn("encode response", "error", err)
	}
}
