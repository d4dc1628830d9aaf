// Package ui provides the terminal interface for Skyline.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns no flight data of its own: it
// pulls a state.Snapshot from the store on every tick and derives two views
// from it.
//
//   - panel.View: the airline checkboxes and the price and duration sliders
//   - listing.Page: the filtered, sorted flights and the window of cards
//     the virtual grid currently materializes
//
// Keys are translated into panel calls or state intents. The store is the
// only place filters change, so the next snapshot carries every edit back
// into both views.
//
// # Layout
//
//	┌ header ─────────────────────────────────────────┐
//	│ command bar                                     │
//	├ Filters ─────┬ Flights (n of m) ────────────────┤
//	│ airlines     │ card card card                 ┃ │
//	│ price        │ card card card                 │ │
//	│ duration     │                                │ │
//	└──────────────┴──────────────────────────────────┘
//
// Cards are three, two or one per row depending on the grid width. Below
// LayoutPanelMinWidth the filter pane replaces the grid while it has focus.
//
// # Key Bindings
//
//   - tab: Switch focus between flights and filters
//   - h/j/k/l, arrows: Move the selection or the filter cursor
//   - enter: Book the selected flight
//   - space: Toggle the airline under the cursor
//   - ←/→ and ⇧←/⇧→: Move the low and high slider handles
//   - s: Cycle sort order
//   - a / r: Select all airlines / reset filters
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Quit
package ui
