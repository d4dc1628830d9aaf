package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutPanelMinWidth is the narrowest terminal that still shows the
	// filter pane next to the grid. Below it the pane replaces the grid
	// while focused.
	LayoutPanelMinWidth = 72
)

// Pane geometry.
const (
	// PanelWidth is the filter pane width including borders.
	PanelWidth = 34

	// chromeHeight covers the header and command bar.
	chromeHeight = 2
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model pulls a fresh snapshot.
	DefaultUIInterval = 250 * time.Millisecond
)
