package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/skyline/internal/booking"
	"github.com/five82/skyline/internal/cache"
	"github.com/five82/skyline/internal/clock"
	"github.com/five82/skyline/internal/config"
	"github.com/five82/skyline/internal/flightapi"
	"github.com/five82/skyline/internal/listing"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/panel"
	"github.com/five82/skyline/internal/prefs"
	"github.com/five82/skyline/internal/query"
	"github.com/five82/skyline/internal/state"
	"github.com/five82/skyline/internal/ui"
)

// Options configure the Skyline terminal client.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/skyline/prefs.toml
	APIURL     string        // overrides api_url from the config
	PollEvery  time.Duration // zero uses refresh_seconds from the config
	LogLevel   string        // overrides log_level from the config
}

// Run boots the Skyline TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	if err := logging.Init(logging.Options{Level: cfg.LogLevel, Path: cfg.LogFile}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	referenceClock, err := newReferenceClock(cfg)
	if err != nil {
		return err
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Open(prefsPath)

	client, err := flightapi.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init flights client: %w", err)
	}

	interval := cfg.RefreshInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	// Cached results stay fresh for half a poll so every poll revalidates.
	memory := cache.NewMemory(interval/2, interval)
	defer func() { _ = memory.Close() }()
	fetcher := cachedFetcher{query: query.New(memory, interval/2), source: client}

	store := state.NewStore(userPrefs.Prefs().Filters, userPrefs)

	logging.Info("skyline starting",
		"api", cfg.APIURL,
		"poll", interval.String(),
		"reference_date", cfg.ReferenceDate,
		"prefs", prefsPath,
	)

	refetch := StartPoller(ctx, store, fetcher, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Panel:     panel.New(store, referenceClock, panel.DebounceWait),
		Lister:    listing.NewBuilder(referenceClock),
		Desk:      booking.Desk{Now: referenceClock.Now},
		Prefs:     userPrefs,
		Clock:     referenceClock,
		Refresh:   refetch,
		PollTick:  ui.DefaultUIInterval,
		ThemeName: userPrefs.Prefs().Theme,
		LogPath:   cfg.LogFile,
	})
}

// newReferenceClock returns the clock that decides which flights have
// already departed: the wall clock pinned to the configured date, or the
// wall clock itself when reference_date is "now".
func newReferenceClock(cfg config.Config) (clock.Clock, error) {
	date, live, err := cfg.ReferenceAnchor()
	if err != nil {
		return nil, fmt.Errorf("reference date: %w", err)
	}
	if live {
		return clock.Real(), nil
	}
	return clock.Anchored(clock.Real(), date), nil
}
