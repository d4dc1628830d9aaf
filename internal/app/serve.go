package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/skyline/internal/cache"
	"github.com/five82/skyline/internal/config"
	"github.com/five82/skyline/internal/flightapi"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/query"
	"github.com/five82/skyline/internal/server"
)

// ServeOptions configure the data server.
type ServeOptions struct {
	ConfigPath  string
	Listen      string // overrides listen from the config
	UpstreamURL string // overrides upstream_url from the config
	RedisAddr   string // overrides redis_addr from the config
	LogLevel    string
}

// Serve runs the /api/flights server until the context is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.UpstreamURL != "" {
		cfg.UpstreamURL = opts.UpstreamURL
	}
	if opts.RedisAddr != "" {
		cfg.RedisAddr = opts.RedisAddr
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	// The server owns no terminal, so it logs to stderr.
	if err := logging.Init(logging.Options{Level: cfg.LogLevel}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	upstream, err := flightapi.NewUpstream(cfg.UpstreamURL, cfg.FetchTimeout)
	if err != nil {
		return fmt.Errorf("init upstream: %w", err)
	}
	fallback, err := server.FallbackFlights()
	if err != nil {
		return err
	}

	flightCache, err := newFlightCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = flightCache.Close() }()

	metrics := server.NewMetrics()
	provider := server.NewProvider(upstream, query.New(flightCache, cfg.CacheTTL), fallback, metrics)
	srv := server.New(provider, metrics, server.Options{
		Listen:         cfg.Listen,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	logging.Info("skyline server starting",
		"listen", cfg.Listen,
		"upstream", upstream.URL(),
		"cache_ttl", cfg.CacheTTL.String(),
		"redis", cfg.RedisAddr != "",
		"fallback_flights", len(fallback),
	)
	return srv.Run(ctx)
}

// newFlightCache returns a Redis cache when redis_addr is set and reachable
// at startup, otherwise an in-process one.
func newFlightCache(ctx context.Context, cfg config.Config) (cache.FlightCache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.CacheTTL, 10*time.Minute), nil
	}

	rc := cache.NewRedis(cfg.RedisAddr, cfg.CacheTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	return rc, nil
}
