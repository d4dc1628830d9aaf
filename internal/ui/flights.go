package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/listing"
	"github.com/five82/skyline/internal/panel"
)

// renderFlights renders the flight grid pane.
func (m Model) renderFlights(width, height int) string {
	focused := m.focus == focusFlights
	innerWidth, innerHeight := max(0, width-2), max(0, height-2)
	bgColor := m.paneBg(focused)
	styles := m.theme.Styles().WithBackground(bgColor)

	var content string
	switch {
	case m.page.Loading:
		content = m.renderSkeleton(innerWidth, innerHeight, bgColor)
	case m.page.Err != nil:
		msg := styles.DangerText.Render("Cannot display flights") + "\n\n" +
			styles.MutedText.Render(truncate(m.page.Err.Error(), innerWidth-4))
		content = lipgloss.Place(innerWidth, innerHeight, lipgloss.Center, lipgloss.Center, msg,
			lipgloss.WithWhitespaceBackground(lipgloss.Color(bgColor)))
	case m.page.Empty:
		content = lipgloss.Place(innerWidth, innerHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No flights available"),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(bgColor)))
	default:
		content = m.renderGrid(innerWidth, innerHeight, bgColor)
	}

	return m.renderTitledBox(m.flightsTitle(), content, width, height, focused)
}

// flightsTitle returns the pane title with result counts.
func (m Model) flightsTitle() string {
	switch {
	case m.page.Loading:
		return "Flights"
	case m.page.Err != nil:
		return "Flights (error)"
	default:
		return fmt.Sprintf("Flights (%d of %d)", len(m.page.Flights), m.page.Total)
	}
}

// renderGrid draws the visible window of cards plus a scrollbar column.
// Cards in a row share a top edge, so each row is assembled line by line and
// then clipped against the viewport.
func (m Model) renderGrid(width, height int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	cardsWidth := max(0, width-1)

	lines := make([]string, height)
	for i := range lines {
		lines[i] = bg.Spaces(cardsWidth)
	}

	items := m.page.Items
	for start := 0; start < len(items); {
		end := start
		for end < len(items) && items[end].Row == items[start].Row {
			end++
		}

		rowLines := make([]string, listing.ItemHeight)
		for _, item := range items[start:end] {
			card := m.renderCard(m.page.Flights[item.Index], item.Rect.Width, item.Index == m.selected, bgColor)
			for i := range rowLines {
				if item.Col > 0 {
					rowLines[i] += bg.Spaces(listing.Gap)
				}
				if i < len(card) {
					rowLines[i] += card[i]
				}
			}
		}

		top := items[start].Rect.Top - m.page.Offset
		for i, line := range rowLines {
			if y := top + i; y >= 0 && y < height {
				lines[y] = bg.FillLine(line, cardsWidth)
			}
		}
		start = end
	}

	thumbStart, thumbSize := scrollThumb(height, m.page.TotalExtent, m.page.Offset)
	track := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BorderMuted))
	thumb := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	for y := range lines {
		if y >= thumbStart && y < thumbStart+thumbSize {
			lines[y] += bg.Render("┃", thumb)
		} else {
			lines[y] += bg.Render("│", track)
		}
	}

	return strings.Join(lines, "\n")
}

// scrollThumb sizes and places the scrollbar thumb for a viewport over
// total rows. size is zero when everything fits.
func scrollThumb(viewport, total, offset int) (start, size int) {
	if viewport <= 0 || total <= viewport {
		return 0, 0
	}
	size = max(1, viewport*viewport/total)
	maxOffset := total - viewport
	offset = min(max(0, offset), maxOffset)
	start = (viewport - size) * offset / maxOffset
	return start, size
}

// renderCard renders one flight as listing.ItemHeight lines of exactly
// width columns.
func (m Model) renderCard(f flight.Flight, width int, selected bool, paneBg string) []string {
	cardBg := paneBg
	border := m.theme.Border
	if selected {
		cardBg = m.theme.SelectionBg
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles().WithBackground(cardBg)
	if selected {
		styles.Text = styles.Text.Foreground(lipgloss.Color(m.theme.SelectionText))
		styles.MutedText = styles.MutedText.Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	// Two border columns and one column of padding on each side.
	w := max(1, width-4)
	airline := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.airlineColor(f.Airline.Code))).
		Background(lipgloss.Color(cardBg)).
		Bold(true)

	price := flight.FormatPrice(f.Price.Amount, f.Price.Currency)
	name := truncate(f.Airline.Name+" "+f.FlightNumber, w-lipgloss.Width(price)-1)

	times := w - 12
	depTime, arrTime := padRight(f.Departure.Time, 5), f.Arrival.Time
	depAirport, arrAirport := padRight(f.Departure.Airport, 5), f.Arrival.Airport

	book := "[ Book ]"
	bookStyle := styles.FaintText
	if selected {
		book = "[ enter ▸ Book ]"
		bookStyle = styles.AccentText.Bold(true)
	}

	body := []string{
		spreadStyled(name, price, w, airline, styles.PriceText),
		styles.Text.Bold(true).Render(depTime) +
			styles.FaintText.Render(" "+rule(flight.FormatDuration(f.Duration), times)+" ") +
			styles.Text.Bold(true).Render(padLeft(arrTime, 5)),
		styles.MutedText.Render(depAirport) +
			styles.MutedText.Render(" "+center("Direct", times)+" ") +
			styles.MutedText.Render(padLeft(arrAirport, 5)),
		spreadStyled(formatDate(f.Departure.Date), baggageLabel(f.Baggage), w, styles.MutedText, styles.InfoText),
		spreadStyled("", book, w, styles.MutedText, bookStyle),
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		BorderBackground(lipgloss.Color(paneBg)).
		Background(lipgloss.Color(cardBg)).
		Padding(0, 1).
		Width(width - 2).
		MaxWidth(width).
		Height(listing.ItemHeight - 2).
		Render(strings.Join(body, "\n"))

	return strings.Split(card, "\n")
}

// renderSkeleton fills the pane with placeholder cards while the first
// fetch is in flight.
func (m Model) renderSkeleton(width, height int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	perRow := max(1, m.list.ItemsPerRow())
	cardWidth := listing.ItemWidth(max(0, width-1))
	if cardWidth <= 4 {
		return bg.FillLine("", width)
	}

	shade := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.BorderMuted)).
		Background(lipgloss.Color(bgColor))
	w := cardWidth - 4
	placeholder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderMuted)).
		BorderBackground(lipgloss.Color(bgColor)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(cardWidth - 2).
		Height(listing.ItemHeight - 2).
		Render(strings.Join([]string{
			shade.Render(strings.Repeat("░", w*2/3)),
			"",
			shade.Render(strings.Repeat("░", w)),
			"",
			shade.Render(strings.Repeat("░", w/3)),
		}, "\n"))

	cells := make([]string, 0, perRow*2-1)
	for i := range perRow {
		if i > 0 {
			cells = append(cells, bg.Spaces(listing.Gap))
		}
		cells = append(cells, placeholder)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	var lines []string
	for len(lines) < height {
		lines = append(lines, strings.Split(row, "\n")...)
		lines = append(lines, "")
	}
	for i := range lines[:height] {
		lines[i] = bg.FillLine(lines[i], width)
	}
	return strings.Join(lines[:height], "\n")
}

// airlineColor tints an airline by its position in the facets so the same
// carrier keeps its color while scrolling.
func (m Model) airlineColor(code string) string {
	i := slices.IndexFunc(m.filters.Airlines, func(a panel.AirlineOption) bool { return a.Code == code })
	return m.theme.AirlineColor(i)
}

// paneBg returns the pane background for the focus state.
func (m Model) paneBg(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Matches the frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := m.theme.Border
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bgColorStr := m.paneBg(focused)
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(0, width-2)
	title = truncate(title, max(0, innerWidth-4))
	titleLen := lipgloss.Width(title)
	leftPad := max(0, (innerWidth-titleLen-2)/2)
	rightPad := max(0, innerWidth-titleLen-2-leftPad)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(0, height-2)

	paddedLines := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// spreadStyled renders left and right at opposite ends of width columns
// using separate styles. Widths are measured before styling.
func spreadStyled(left, right string, width int, leftStyle, rightStyle lipgloss.Style) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = truncate(left, width-lipgloss.Width(right)-1)
		gap = max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	}
	return leftStyle.Render(left) + leftStyle.Render(strings.Repeat(" ", gap)) + rightStyle.Render(right)
}

// rule centers label on a horizontal line of width columns.
func rule(label string, width int) string {
	if width <= 0 {
		return ""
	}
	label = truncate(label, width)
	if width-lipgloss.Width(label) < 2 {
		return center(label, width)
	}
	side := width - lipgloss.Width(label) - 2
	left := side / 2
	return strings.Repeat("─", left) + " " + label + " " + strings.Repeat("─", side-left)
}

// padLeft right-aligns s in width columns.
func padLeft(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}

// formatDate renders an ISO date as "Sat, 25 Oct 2025", or the raw value if
// it does not parse.
func formatDate(value string) string {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return value
	}
	return d.Format("Mon, 02 Jan 2006")
}

// baggageLabel describes the checked baggage allowance.
func baggageLabel(descriptor string) string {
	if kg := flight.ParseBaggageWeight(descriptor); kg > 0 {
		return fmt.Sprintf("Baggage %dkg", kg)
	}
	if strings.TrimSpace(descriptor) == "" {
		return "No baggage info"
	}
	return "Baggage " + strings.TrimSpace(descriptor)
}
