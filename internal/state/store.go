package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/skyline/internal/flight"
)

// Filters is the user's current filter and sort selection.
type Filters struct {
	SelectedAirlines []string       `toml:"selected_airlines"`
	PriceRange       flight.Range   `toml:"price_range"`
	DurationRange    flight.Range   `toml:"duration_range"`
	Sort             flight.SortKey `toml:"sort"`
}

// DefaultFilters selects every airline over the default ranges, sorted by
// recommendation.
func DefaultFilters() Filters {
	return Filters{
		SelectedAirlines: []string{},
		PriceRange:       flight.DefaultPriceRange,
		DurationRange:    flight.DefaultDurationRange,
		Sort:             flight.SortRecommendation,
	}
}

// Criteria converts the selection into filter criteria at reference time now.
func (f Filters) Criteria(now time.Time) flight.Criteria {
	return flight.Criteria{
		SelectedAirlines: slices.Clone(f.SelectedAirlines),
		PriceRange:       f.PriceRange,
		DurationRange:    f.DurationRange,
		Now:              now,
	}
}

// Normalize returns f with a known sort key, ordered ranges and a
// de-duplicated airline set.
func (f Filters) Normalize() Filters {
	f.Sort = flight.ParseSortKey(string(f.Sort))
	f.PriceRange = ordered(f.PriceRange)
	f.DurationRange = ordered(f.DurationRange)
	f.SelectedAirlines = uniqueCodes(f.SelectedAirlines)
	return f
}

func (f Filters) clone() Filters {
	f.SelectedAirlines = slices.Clone(f.SelectedAirlines)
	return f
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Envelope            flight.Envelope
	HasData             bool
	Loading             bool
	Busy                bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
	Filters             Filters

	// Version changes whenever Envelope or Filters change, so derived views
	// can be cached against it.
	Version uint64
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Persister stores the filter selection so it survives restarts.
type Persister interface {
	SaveFilters(Filters) error
}

// Store coordinates concurrent updates to the snapshot. Filters change only
// through Dispatch.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	persist  Persister
	now      func() time.Time
}

// NewStore returns a store seeded with initial filters. p may be nil.
func NewStore(initial Filters, p Persister) *Store {
	return &Store{
		snapshot: Snapshot{Filters: initial.Normalize().clone(), Loading: true},
		persist:  p,
		now:      time.Now,
	}
}

// Dispatch applies intent to the filters and persists the result. The new
// filters are applied even when persisting fails; the error is returned for
// reporting.
func (s *Store) Dispatch(intent Intent) error {
	s.mu.Lock()
	next := intent.apply(s.snapshot.Filters.clone()).Normalize()
	s.snapshot.Filters = next
	s.snapshot.Version++
	saved := next.clone()
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveFilters(saved); err != nil {
		return fmt.Errorf("persist filters: %w", err)
	}
	return nil
}

// Update records a fetch result. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(env *flight.Envelope, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Loading = false
	s.snapshot.LastUpdated = s.clock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if env != nil {
		s.snapshot.Envelope = env.Clone()
		s.snapshot.HasData = true
	} else {
		s.snapshot.Envelope = flight.Envelope{}
		s.snapshot.HasData = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Version++
}

// SetLoading marks a fetch as in flight.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = loading
}

// SetBusy toggles the filter busy indicator.
func (s *Store) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Busy = busy
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Envelope = s.snapshot.Envelope.Clone()
	snap.Filters = s.snapshot.Filters.clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Filters returns a copy of the current filter selection.
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Filters.clone()
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func ordered(r flight.Range) flight.Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

func uniqueCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != "" && !slices.Contains(out, code) {
			out = append(out, code)
		}
	}
	return out
}
