// Package booking produces confirmation receipts for a selected flight. No
// reservation or payment takes place.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/skyline/internal/flight"
)

// ErrNoFlight is returned when Confirm is called without a flight.
var ErrNoFlight = errors.New("no flight selected")

// Confirmation is the receipt shown after the user accepts the dialog.
type Confirmation struct {
	Reference   string
	Flight      flight.Flight
	ConfirmedAt time.Time
}

// Route renders "CGK → DPS".
func (c Confirmation) Route() string {
	return fmt.Sprintf("%s → %s", c.Flight.Departure.Airport, c.Flight.Arrival.Airport)
}

// Total renders the fare in the flight's currency.
func (c Confirmation) Total() string {
	return flight.FormatPrice(c.Flight.Price.Amount, c.Flight.Price.Currency)
}

// Summary is a one-line description for status bars and logs.
func (c Confirmation) Summary() string {
	return fmt.Sprintf("%s %s %s %s", c.Reference, c.Flight.FlightNumber, c.Route(), c.Total())
}

// Desk issues confirmations. The zero value uses random references and the
// wall clock.
type Desk struct {
	NewID func() uuid.UUID
	Now   func() time.Time
}

// Confirm accepts f and returns a receipt with a short booking reference.
func (d Desk) Confirm(f flight.Flight) (Confirmation, error) {
	if strings.TrimSpace(f.ID) == "" {
		return Confirmation{}, ErrNoFlight
	}
	newID := d.NewID
	if newID == nil {
		newID = uuid.New
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return Confirmation{
		Reference:   Reference(newID()),
		Flight:      f,
		ConfirmedAt: now(),
	}, nil
}

// Reference derives the six character booking code shown to the user.
func Reference(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
}
