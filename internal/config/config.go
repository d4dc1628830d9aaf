package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings shared by the terminal client and the data server.
type Config struct {
	APIURL          string
	UpstreamURL     string
	Listen          string
	LogFile         string
	LogLevel        string
	ReferenceDate   string
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
	RedisAddr       string
	RefreshInterval time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// ReferenceLive disables the fixed calendar anchor for the "departs in the
// future" filter.
const ReferenceLive = "now"

const (
	defaultConfigPath      = "~/.config/skyline/config.toml"
	defaultAPIURL          = "http://127.0.0.1:8484"
	defaultListen          = "127.0.0.1:8484"
	defaultLogFile         = "~/.local/state/skyline/skyline.log"
	defaultLogLevel        = "info"
	defaultReferenceDate   = "2025-10-22"
	defaultFetchTimeout    = 120 * time.Second
	defaultCacheTTL        = time.Hour
	defaultRefreshInterval = 5 * time.Minute
	defaultRateLimitRPS    = 10
	defaultRateLimitBurst  = 20
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		Listen:          defaultListen,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
		ReferenceDate:   defaultReferenceDate,
		FetchTimeout:    defaultFetchTimeout,
		CacheTTL:        defaultCacheTTL,
		RefreshInterval: defaultRefreshInterval,
		RateLimitRPS:    defaultRateLimitRPS,
		RateLimitBurst:  defaultRateLimitBurst,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the skyline config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL              string  `toml:"api_url"`
		UpstreamURL         string  `toml:"upstream_url"`
		Listen              string  `toml:"listen"`
		LogFile             string  `toml:"log_file"`
		LogLevel            string  `toml:"log_level"`
		ReferenceDate       string  `toml:"reference_date"`
		FetchTimeoutSeconds int     `toml:"fetch_timeout_seconds"`
		CacheTTLSeconds     int     `toml:"cache_ttl_seconds"`
		RedisAddr           string  `toml:"redis_addr"`
		RefreshSeconds      int     `toml:"refresh_seconds"`
		RateLimitRPS        float64 `toml:"rate_limit_rps"`
		RateLimitBurst      int     `toml:"rate_limit_burst"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = orDefault(raw.APIURL, defaultAPIURL)
	cfg.UpstreamURL = strings.TrimRight(strings.TrimSpace(raw.UpstreamURL), "/")
	cfg.Listen = orDefault(raw.Listen, defaultListen)
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.ReferenceDate = strings.ToLower(orDefault(raw.ReferenceDate, defaultReferenceDate))
	cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)

	if raw.FetchTimeoutSeconds > 0 {
		cfg.FetchTimeout = time.Duration(raw.FetchTimeoutSeconds) * time.Second
	}
	if raw.CacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(raw.CacheTTLSeconds) * time.Second
	}
	if raw.RefreshSeconds > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshSeconds) * time.Second
	}
	if raw.RateLimitRPS > 0 {
		cfg.RateLimitRPS = raw.RateLimitRPS
	}
	if raw.RateLimitBurst > 0 {
		cfg.RateLimitBurst = raw.RateLimitBurst
	}

	if _, _, err := cfg.ReferenceAnchor(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ReferenceAnchor returns the calendar date that "now" is pinned to. live is
// true when reference_date is "now".
func (c Config) ReferenceAnchor() (date time.Time, live bool, err error) {
	value := strings.TrimSpace(c.ReferenceDate)
	if value == "" {
		value = defaultReferenceDate
	}
	if strings.EqualFold(value, ReferenceLive) {
		return time.Time{}, true, nil
	}
	date, err = time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reference_date %q: %w", value, err)
	}
	return date, false, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
