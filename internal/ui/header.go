package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyline/internal/flight"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasData {
		return m.renderConnectingHeader(styles, bg)
	}

	content := m.buildStatusContent(styles, bg, time.Now())

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// renderConnectingHeader shows the loading or error state before the first
// flight list arrives.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}

		parts := []string{
			bg.Render("skyline", styles.Logo),
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		if m.logPath != "" {
			parts = append(parts,
				bg.Render("logs", styles.FaintText)+bg.Space()+
					bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("skyline", styles.Logo) + sep +
			bg.Render("Loading flights...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle, now time.Time) string {
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("skyline", styles.Logo))

	env := m.snapshot.Envelope
	switch env.Source {
	case flight.SourceLocalFallback:
		parts = append(parts, styles.BadgeStyle(m.theme.Warning).Render("● LOCAL"))
	default:
		parts = append(parts, styles.BadgeStyle(m.theme.Success).Render("● LIVE"))
	}
	if env.Message != "" && !compact {
		parts = append(parts, bg.Render(truncate(env.Message, 30), styles.FaintText))
	}

	parts = append(parts,
		bg.Pair("Flights:", fmt.Sprintf("%d/%d", len(m.page.Flights), m.page.Total), styles.MutedText, styles.Text),
		bg.Pair("Sort:", m.snapshot.Filters.Sort.Label(), styles.MutedText, styles.InfoText),
	)

	if m.snapshot.Busy || m.filters.Pending {
		parts = append(parts, bg.Render("Updating...", styles.WarningText))
	}

	if ts := formatTimestamp(m.snapshot.LastUpdated, now); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	// A failed refresh keeps the last good list on screen.
	if err := m.snapshot.LastError; err != nil {
		label := "ERROR"
		if m.snapshot.IsOffline() {
			label = "OFFLINE"
		}
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render(label, styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(err.Error(), maxErr), styles.DangerText),
		)
	}

	if m.notice != "" {
		style := styles.SuccessText
		if m.noticeBad {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.notice, 50), style))
	}

	return bg.Join(parts, bg.Spaces(2))
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(updated, now time.Time) string {
	if updated.IsZero() {
		return ""
	}

	since := now.Sub(updated)
	out := updated.Format("15:04:05")

	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the focused pane.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.focus {
	case focusFilters:
		commands = []cmd{
			{"j/k", "Rows"},
			{"Space", "Toggle"},
			{"←/→", "Min"},
			{"⇧←/⇧→", "Max"},
			{"a", "All"},
			{"r", "Reset"},
			{"Tab", "Flights"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"hjkl", "Move"},
			{"Enter", "Book"},
			{"s", "Sort"},
			{"r", "Reset"},
			{"Tab", "Filters"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
