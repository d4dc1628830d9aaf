package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyline/internal/booking"
	"github.com/five82/skyline/internal/flight"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// bookedMsg reports a confirmed booking back to the model.
type bookedMsg struct {
	confirmation booking.Confirmation
}

// bookingModal asks the user to confirm the selected flight.
type bookingModal struct {
	flight flight.Flight
	desk   booking.Desk
	err    error
}

func newBookingModal(f flight.Flight, desk booking.Desk) bookingModal {
	return bookingModal{flight: f, desk: desk}
}

func (b bookingModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil, false
	}
	switch {
	case key.Matches(km, keys.Cancel):
		return b, nil, true
	case key.Matches(km, keys.Confirm):
		c, err := b.desk.Confirm(b.flight)
		if err != nil {
			b.err = err
			return b, nil, false
		}
		return b, func() tea.Msg { return bookedMsg{confirmation: c} }, true
	}
	return b, nil, false
}

func (b bookingModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	f := b.flight

	const labelWidth = 10
	row := func(label, value string, valueStyle lipgloss.Style) string {
		return styles.MutedText.Width(labelWidth).Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		styles.Text.Bold(true).Render("Confirm Booking"),
		styles.FaintText.Render(strings.Repeat("─", 36)),
		"",
		row("Airline", f.Airline.Name, styles.Text),
		row("Flight", f.FlightNumber, styles.Text),
		row("Route", fmt.Sprintf("%s → %s", f.Departure.Airport, f.Arrival.Airport), styles.Text),
		row("Departs", fmt.Sprintf("%s %s", f.Departure.Date, f.Departure.Time), styles.Text),
		row("Price", flight.FormatPrice(f.Price.Amount, f.Price.Currency), styles.PriceText),
		"",
	}
	if b.err != nil {
		lines = append(lines, styles.DangerText.Render(truncate(b.err.Error(), 36)), "")
	}
	lines = append(lines,
		styles.AccentText.Render("enter")+styles.MutedText.Render(" Confirm Booking   ")+
			styles.AccentText.Render("esc")+styles.MutedText.Render(" Cancel"),
	)

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(44).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
