// Package config loads the Skyline configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/skyline/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8484"          # where the TUI fetches /api/flights
//	upstream_url = "https://flights.example"   # where `skyline serve` fetches from
//	listen = "127.0.0.1:8484"
//	log_file = "~/.local/state/skyline/skyline.log"
//	log_level = "info"
//	reference_date = "2025-10-22"              # or "now" for the live clock
//	fetch_timeout_seconds = 120
//	cache_ttl_seconds = 3600
//	redis_addr = ""                            # empty keeps the cache in memory
//	refresh_seconds = 300
//	rate_limit_rps = 10
//	rate_limit_burst = 20
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Reference Date
//
// Flights departing before "now" are hidden. By default "now" is the
// configured calendar date combined with the live time of day, so the bundled
// dataset stays browsable. Setting reference_date = "now" uses the wall clock.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML syntax errors and an unparseable reference_date
package config
