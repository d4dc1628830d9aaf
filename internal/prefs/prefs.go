// Package prefs handles Skyline user preferences persistence.
// Preferences are stored in ~/.config/skyline/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/state"
)

// Prefs holds user preferences for Skyline.
type Prefs struct {
	Theme   string        `toml:"theme"`
	Filters state.Filters `toml:"filters"`
}

const (
	defaultPrefsPath = "~/.config/skyline/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Filters: state.DefaultFilters()}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	prefs := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	var raw struct {
		Theme   string         `toml:"theme"`
		Filters *state.Filters `toml:"filters"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		prefs.Theme = theme
	}
	if raw.Filters != nil {
		filters := *raw.Filters
		if filters.PriceRange == (flight.Range{}) {
			filters.PriceRange = flight.DefaultPriceRange
		}
		if filters.DurationRange == (flight.Range{}) {
			filters.DurationRange = flight.DefaultDurationRange
		}
		prefs.Filters = filters.Normalize()
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// File keeps the loaded preferences in memory and writes them back on every
// change. It satisfies state.Persister.
type File struct {
	path string

	mu    sync.Mutex
	prefs Prefs
}

// Open loads the preferences at path. A missing or unreadable file yields
// defaults.
func Open(path string) *File {
	p, _ := Load(path)
	return &File{path: path, prefs: p}
}

// Prefs returns the current preferences.
func (f *File) Prefs() Prefs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs
}

// SaveFilters records the filter selection.
func (f *File) SaveFilters(filters state.Filters) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs.Filters = filters
	return Save(f.path, f.prefs)
}

// SaveTheme records the theme name.
func (f *File) SaveTheme(theme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs.Theme = theme
	return Save(f.path, f.prefs)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
