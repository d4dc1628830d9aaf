package flight

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Criteria selects which flights survive Filter.
type Criteria struct {
	SelectedAirlines []string // empty selects every airline
	PriceRange       Range
	DurationRange    Range
	Now              time.Time // reference instant; departures before it are dropped
}

// SortKey names a sort strategy.
type SortKey string

const (
	SortRecommendation SortKey = "recommendation"
	SortPrice          SortKey = "price"
	SortDuration       SortKey = "duration"
)

// SortKeys lists the strategies in display order.
var SortKeys = []SortKey{SortRecommendation, SortPrice, SortDuration}

// ParseSortKey maps a stored value onto a SortKey. Unknown values fall back
// to SortRecommendation.
func ParseSortKey(value string) SortKey {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(value))); key {
	case SortPrice, SortDuration:
		return key
	default:
		return SortRecommendation
	}
}

// Label returns the human readable option name.
func (k SortKey) Label() string {
	switch ParseSortKey(string(k)) {
	case SortPrice:
		return "Lowest Price"
	case SortDuration:
		return "Shortest Duration"
	default:
		return "Best Recommendation"
	}
}

// Next returns the strategy after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	idx := slices.Index(SortKeys, ParseSortKey(string(k)))
	return SortKeys[(idx+1)%len(SortKeys)]
}

// Filter returns the flights matching c in their original relative order.
// The input slice is never modified. A departure that cannot be parsed
// aborts the filter with a *ParseError.
func Filter(flights []Flight, c Criteria) ([]Flight, error) {
	loc := c.Now.Location()
	out := make([]Flight, 0, len(flights))
	for _, f := range flights {
		departure, err := ParseDeparture(f, loc)
		if err != nil {
			return nil, err
		}
		if departure.Before(c.Now) {
			continue
		}
		if len(c.SelectedAirlines) > 0 && !slices.Contains(c.SelectedAirlines, f.Airline.Code) {
			continue
		}
		if !c.PriceRange.Contains(f.Price.Amount) {
			continue
		}
		if !c.DurationRange.Contains(float64(f.Duration)) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Sort returns a new slice ordered by key. Ties keep their input order.
// Unknown keys sort by recommendation, which needs now to rank departures.
func Sort(flights []Flight, key SortKey, now time.Time) ([]Flight, error) {
	out := slices.Clone(flights)

	switch ParseSortKey(string(key)) {
	case SortPrice:
		slices.SortStableFunc(out, func(a, b Flight) int {
			return cmp.Compare(a.Price.Amount, b.Price.Amount)
		})
		return out, nil
	case SortDuration:
		slices.SortStableFunc(out, func(a, b Flight) int {
			return cmp.Compare(a.Duration, b.Duration)
		})
		return out, nil
	default:
		return sortByRecommendation(out, now)
	}
}

type ranked struct {
	flight         Flight
	untilDeparture time.Duration
	baggage        int
}

// sortByRecommendation orders by soonest departure, then cheapest, then
// shortest, then heaviest baggage allowance. flights is sorted in place.
func sortByRecommendation(flights []Flight, now time.Time) ([]Flight, error) {
	entries := make([]ranked, len(flights))
	for i, f := range flights {
		departure, err := ParseDeparture(f, now.Location())
		if err != nil {
			return nil, err
		}
		entries[i] = ranked{
			flight:         f,
			untilDeparture: departure.Sub(now),
			baggage:        ParseBaggageWeight(f.Baggage),
		}
	}

	slices.SortStableFunc(entries, func(a, b ranked) int {
		return cmp.Or(
			cmp.Compare(a.untilDeparture, b.untilDeparture),
			cmp.Compare(a.flight.Price.Amount, b.flight.Price.Amount),
			cmp.Compare(a.flight.Duration, b.flight.Duration),
			cmp.Compare(b.baggage, a.baggage),
		)
	})

	for i, e := range entries {
		flights[i] = e.flight
	}
	return flights, nil
}
