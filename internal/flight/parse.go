package flight

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var departureLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseError reports a departure date/time that is not a valid local
// date-time.
type ParseError struct {
	FlightID string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("flight %s: invalid departure %q: %v", e.FlightID, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDeparture combines the departure date and time of f into one instant
// in loc. A nil loc means time.Local.
func ParseDeparture(f Flight, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := strings.TrimSpace(f.Departure.Date) + "T" + strings.TrimSpace(f.Departure.Time)

	var firstErr error
	for _, layout := range departureLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &ParseError{FlightID: f.ID, Value: value, Err: firstErr}
}

// ParseBaggageWeight turns a baggage descriptor into kilograms for
// tie-breaking. "20kg" and "30 KG" yield their digits; piece-based and
// unrecognised descriptors yield 0.
func ParseBaggageWeight(descriptor string) int {
	lower := strings.ToLower(descriptor)
	switch {
	case strings.Contains(lower, "kg"):
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) && r <= unicode.MaxASCII {
				return r
			}
			return -1
		}, lower)
		if digits == "" {
			return 0
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 {
			return 0
		}
		return n
	case strings.Contains(lower, "piece"):
		return 0
	default:
		return 0
	}
}
