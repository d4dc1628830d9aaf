package state

import (
	"slices"

	"github.com/five82/skyline/internal/flight"
)

// Intent is a named mutation of Filters. The set of intents is closed.
type Intent interface {
	apply(Filters) Filters
	Name() string
}

// SetSelectedAirlines replaces the airline selection. An empty list selects
// every airline.
type SetSelectedAirlines struct {
	Codes []string
}

func (i SetSelectedAirlines) apply(f Filters) Filters {
	f.SelectedAirlines = slices.Clone(i.Codes)
	return f
}

func (SetSelectedAirlines) Name() string { return "set_selected_airlines" }

// SetPriceRange replaces the price range.
type SetPriceRange struct {
	Range flight.Range
}

func (i SetPriceRange) apply(f Filters) Filters {
	f.PriceRange = i.Range
	return f
}

func (SetPriceRange) Name() string { return "set_price_range" }

// SetDurationRange replaces the duration range.
type SetDurationRange struct {
	Range flight.Range
}

func (i SetDurationRange) apply(f Filters) Filters {
	f.DurationRange = i.Range
	return f
}

func (SetDurationRange) Name() string { return "set_duration_range" }

// SetSortKey selects the sort strategy.
type SetSortKey struct {
	Key flight.SortKey
}

func (i SetSortKey) apply(f Filters) Filters {
	f.Sort = i.Key
	return f
}

func (SetSortKey) Name() string { return "set_sort_key" }

// ResetFilters restores the selection and sort order. Zero ranges fall back
// to the package defaults. KeepSort leaves the sort key untouched.
type ResetFilters struct {
	Airlines      []string
	PriceRange    flight.Range
	DurationRange flight.Range
	KeepSort      bool
}

func (i ResetFilters) apply(cur Filters) Filters {
	f := DefaultFilters()
	if i.KeepSort {
		f.Sort = cur.Sort
	}
	f.SelectedAirlines = slices.Clone(i.Airlines)
	if i.PriceRange != (flight.Range{}) {
		f.PriceRange = i.PriceRange
	}
	if i.DurationRange != (flight.Range{}) {
		f.DurationRange = i.DurationRange
	}
	return f
}

func (ResetFilters) Name() string { return "reset_filters" }
