// Package app provides the orchestration layer for the Skyline terminal client.
//
// # Overview
//
// This package wires together configuration, logging, preferences, polling,
// state management and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         Read ~/.config/skyline/config.toml
//	       ├─────> logging.Init()        JSON logs to the configured file
//	       ├─────> prefs.Open()          Theme and persisted filters
//	       ├─────> flightapi.NewClient() HTTP client for /api/flights
//	       ├─────> query.New()           Cached, deduplicated fetches
//	       ├─────> state.NewStore()      Shared snapshot container
//	       ├─────> StartPoller()         Launch background updates
//	       └─────> ui.Run()              Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> query.Fetch("cache:flights")       │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller revalidates the flight list every refresh interval (default
// five minutes). A failed poll is retried after two seconds, doubling per
// consecutive failure up to thirty seconds. Failures are recorded in the
// store and shown in the header; the last good list stays on screen.
//
// # Reference Time
//
// Flights that have already departed are hidden. "Now" is the wall clock
// pinned to reference_date (2025-10-22 by default) so the bundled dataset
// stays browsable; reference_date = "now" uses the live date.
package app
