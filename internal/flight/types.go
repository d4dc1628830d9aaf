package flight

import (
	"fmt"
	"math"
	"slices"
)

// Flight mirrors a single record of the /api/flights payload. Values are
// treated as read-only once decoded; every transformation returns a new slice.
type Flight struct {
	ID           string   `json:"id"`
	Airline      Airline  `json:"airline"`
	FlightNumber string   `json:"flightNumber"`
	Departure    Endpoint `json:"departure"`
	Arrival      Endpoint `json:"arrival"`
	Duration     int      `json:"duration"` // minutes
	Baggage      string   `json:"baggage"`
	Price        Price    `json:"price"`
}

// Airline identifies the operating carrier.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Endpoint is one end of a flight: airport plus local wall-clock date and time.
type Endpoint struct {
	Airport string `json:"airport"`
	Time    string `json:"time"` // HH:MM
	Date    string `json:"date"` // YYYY-MM-DD
}

// Price is the per-person fare.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Source reports where a flight list came from.
type Source string

const (
	SourceAPI           Source = "api"
	SourceLocalFallback Source = "local_fallback"
)

// Envelope is the wire shape of GET /api/flights. Only Data is authoritative;
// Source and Message are diagnostics.
type Envelope struct {
	Data    []Flight `json:"data"`
	Source  Source   `json:"source"`
	Message string   `json:"message"`
}

// Clone returns a copy whose Data slice is independent of e.
func (e Envelope) Clone() Envelope {
	e.Data = slices.Clone(e.Data)
	return e
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits r to bounds and keeps Min <= Max.
func (r Range) Clamp(bounds Range) Range {
	r.Min = math.Max(bounds.Min, math.Min(r.Min, bounds.Max))
	r.Max = math.Max(bounds.Min, math.Min(r.Max, bounds.Max))
	if r.Min > r.Max {
		r.Min = r.Max
	}
	return r
}

// Width returns Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Default ranges used before any data has loaded.
var (
	DefaultPriceRange    = Range{Min: 0, Max: 1_000_000}
	DefaultDurationRange = Range{Min: 0, Max: 1440}
)
