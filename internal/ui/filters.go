package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyline/internal/flight"
)

// renderFilters renders the filter pane: airline checkboxes, the price and
// duration sliders, and the current sort.
func (m Model) renderFilters(width, height int) string {
	focused := m.focus == focusFilters
	bgColor := m.paneBg(focused)
	styles := m.theme.Styles().WithBackground(bgColor)
	w := max(1, width-4)
	v := m.filters

	var lines []string
	heading := func(title, note string) {
		lines = append(lines, spreadStyled(title, note, w, styles.AccentText.Bold(true), styles.FaintText))
	}
	cursorAt := func(row int) bool { return focused && m.cursor == row }

	if v.Loading && len(v.Airlines) == 0 {
		lines = append(lines, styles.MutedText.Render("Loading filters..."))
		return m.renderTitledBox("Filters", indent(lines), width, height, focused)
	}

	selected := 0
	for _, a := range v.Airlines {
		if a.Selected {
			selected++
		}
	}
	heading("Airlines", fmt.Sprintf("%d/%d", selected, len(v.Airlines)))
	for i, a := range v.Airlines {
		box := "[ ]"
		if a.Selected {
			box = "[x]"
		}
		line := padRight(truncate(fmt.Sprintf("%s %s", box, a.Name), w-2), w-2)
		if cursorAt(i) {
			lines = append(lines, styles.AccentText.Render("▸ ")+styles.Selected.Render(line))
			continue
		}
		nameStyle := styles.MutedText
		if a.Selected {
			nameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.AirlineColor(i))).
				Background(lipgloss.Color(bgColor))
		}
		lines = append(lines, styles.Text.Render("  ")+nameStyle.Render(line))
	}
	lines = append(lines, "")

	priceRow, durationRow := len(v.Airlines), len(v.Airlines)+1
	currency := m.currency()

	heading("Price", "")
	lines = append(lines, m.sliderLines(
		fmt.Sprintf("%s – %s", flight.FormatPrice(v.Price.Min, currency), flight.FormatPrice(v.Price.Max, currency)),
		v.PriceBounds, v.Price, w, cursorAt(priceRow), styles)...)
	lines = append(lines, "")

	heading("Duration", "")
	lines = append(lines, m.sliderLines(
		fmt.Sprintf("%s – %s", flight.FormatDuration(int(v.Duration.Min)), flight.FormatDuration(int(v.Duration.Max))),
		v.DurationBounds, v.Duration, w, cursorAt(durationRow), styles)...)
	lines = append(lines, "")

	heading("Sort", "s")
	lines = append(lines, styles.Text.Render("  "+m.snapshot.Filters.Sort.Label()))

	if m.snapshot.Busy || v.Pending {
		lines = append(lines, "", styles.WarningText.Render("Updating..."))
	}

	return m.renderTitledBox("Filters", indent(lines), width, height, focused)
}

// sliderLines renders the value label and the track for one range slider.
func (m Model) sliderLines(label string, bounds, r flight.Range, width int, active bool, styles Styles) []string {
	trackStyle := styles.FaintText
	labelStyle := styles.MutedText
	marker := "  "
	if active {
		trackStyle = styles.AccentText
		labelStyle = styles.Text
		marker = "▸ "
	}
	return []string{
		styles.AccentText.Render(marker) + labelStyle.Render(truncate(label, width-2)),
		styles.Text.Render("  ") + trackStyle.Render(slider(width-2, bounds, r)),
	}
}

// currency returns the currency of the loaded fares.
func (m Model) currency() string {
	if data := m.snapshot.Envelope.Data; len(data) > 0 {
		return data[0].Price.Currency
	}
	return "IDR"
}

// slider draws r within bounds as a track of width cells: '─' outside the
// range, '━' inside, and '●' on both handles.
func slider(width int, bounds, r flight.Range) string {
	if width <= 0 {
		return ""
	}
	pos := func(v float64) int {
		if bounds.Width() <= 0 {
			return 0
		}
		p := int(math.Round((v - bounds.Min) / bounds.Width() * float64(width-1)))
		return min(max(0, p), width-1)
	}
	lo, hi := pos(r.Min), pos(r.Max)
	if bounds.Width() <= 0 {
		hi = width - 1
	}

	var b strings.Builder
	for i := range width {
		switch {
		case i == lo || i == hi:
			b.WriteString("●")
		case i > lo && i < hi:
			b.WriteString("━")
		default:
			b.WriteString("─")
		}
	}
	return b.String()
}

// indent adds the pane's one-column left margin.
func indent(lines []string) string {
	for i, line := range lines {
		lines[i] = " " + line
	}
	return strings.Join(lines, "\n")
}
