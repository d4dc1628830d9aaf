package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyline/internal/booking"
	"github.com/five82/skyline/internal/clock"
	"github.com/five82/skyline/internal/listing"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/panel"
	"github.com/five82/skyline/internal/state"
)

// focus selects the pane that receives navigation keys.
type focus int

const (
	focusFlights focus = iota
	focusFilters
)

// ThemeSaver persists the chosen theme.
type ThemeSaver interface {
	SaveTheme(name string) error
}

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	// Panel and Lister default to ones built from Store and Clock.
	Panel     *panel.Panel
	Lister    *listing.Builder
	Desk      booking.Desk
	Prefs     ThemeSaver
	Clock     clock.Clock
	// Refresh asks the poller for an immediate refetch. May be nil.
	Refresh   func()
	PollTick  time.Duration
	ThemeName string
	// LogPath is shown in the header while the API is unreachable.
	LogPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx      context.Context
	store    *state.Store
	panel    *panel.Panel
	list     *listing.Builder
	desk     booking.Desk
	prefs    ThemeSaver
	refresh  func()
	keys     keyMap
	pollTick time.Duration
	logPath  string

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	focus    focus
	showHelp bool
	modal    Modal

	// Data state
	snapshot state.Snapshot
	page     listing.Page
	filters  panel.View

	// Selection
	selected   int
	selectedID string
	cursor     int // filter pane row

	// Status line feedback
	notice    string
	noticeBad bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	store := opts.Store
	if store == nil {
		store = state.NewStore(state.DefaultFilters(), nil)
	}
	p := opts.Panel
	if p == nil {
		p = panel.New(store, c, 0)
	}
	list := opts.Lister
	if list == nil {
		list = listing.NewBuilder(c)
	}

	return Model{
		ctx:      ctx,
		store:    store,
		panel:    p,
		list:     list,
		desk:     opts.Desk,
		prefs:    opts.Prefs,
		refresh:  opts.Refresh,
		keys:     DefaultKeyMap(),
		pollTick: pollTick,
		logPath:  opts.LogPath,
		theme:    GetTheme(themeName),
		focus:    focusFlights,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchSnapshotCmd(m.store),
		tickCmd(m.pollTick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.rebuild()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case bookedMsg:
		c := msg.confirmation
		logging.Info("flight booked", "reference", c.Reference, "flight", c.Flight.FlightNumber, "route", c.Route())
		m.setNotice("Booked "+c.Summary(), false)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		// Commit any slider drag still waiting on its debounce.
		m.panel.Flush()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusFlights {
			m.focus = focusFilters
		} else {
			m.focus = focusFlights
		}
		m.layout()
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.focus = focusFlights
		m.layout()
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil {
			m.refresh()
			m.setNotice("Refreshing flights...", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		next := m.snapshot.Filters.Sort.Next()
		m.report(m.store.Dispatch(state.SetSortKey{Key: next}))
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.SelectAll):
		m.report(m.panel.SelectAll())
		m.filters = m.panel.View()
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.Reset):
		m.report(m.panel.Reset())
		m.filters = m.panel.View()
		return m, fetchSnapshotCmd(m.store)
	}

	if m.focus == focusFilters {
		return m.handleFilterKey(msg)
	}
	return m.handleFlightKey(msg)
}

// handleFlightKey moves the grid selection or opens the booking dialog.
func (m Model) handleFlightKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.page.Flights)
	if count == 0 {
		return m, nil
	}
	perRow := max(1, m.page.ItemsPerRow)
	page := perRow * m.list.RowsPerPage()

	switch {
	case key.Matches(msg, m.keys.Book):
		m.modal = newBookingModal(m.page.Flights[m.selected], m.desk)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-perRow)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(perRow)
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-page)
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(page)
	case key.Matches(msg, m.keys.Top):
		m.list.ScrollToTop()
		m.moveSelection(-count)
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(count)
	default:
		return m, nil
	}
	return m, nil
}

// handleMouse scrolls the grid with the wheel. The selection stays put and
// may leave the viewport.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil || m.showHelp || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	row := listing.ItemHeight + listing.Gap
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.list.ScrollBy(-row)
	case tea.MouseButtonWheelDown:
		m.list.ScrollBy(row)
	default:
		return m, nil
	}
	m.page = m.list.Build(m.snapshot)
	return m, nil
}

// handleFilterKey drives the filter pane: the cursor walks airline rows and
// then the price and duration sliders.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	airlines := len(m.filters.Airlines)
	priceRow, durationRow := airlines, airlines+1

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(0, m.cursor-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(durationRow, m.cursor+1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = durationRow
		return m, nil
	case key.Matches(msg, m.keys.ToggleAirline):
		if m.cursor < airlines {
			m.report(m.panel.Toggle(m.filters.Airlines[m.cursor].Code))
		}
	case key.Matches(msg, m.keys.MaxLeft):
		m.nudge(priceRow, durationRow, panel.High, -1)
	case key.Matches(msg, m.keys.MaxRight):
		m.nudge(priceRow, durationRow, panel.High, 1)
	case key.Matches(msg, m.keys.Left):
		m.nudge(priceRow, durationRow, panel.Low, -1)
	case key.Matches(msg, m.keys.Right):
		m.nudge(priceRow, durationRow, panel.Low, 1)
	case key.Matches(msg, m.keys.Book):
		m.focus = focusFlights
		m.layout()
		m.rebuild()
		return m, nil
	default:
		return m, nil
	}

	m.filters = m.panel.View()
	return m, fetchSnapshotCmd(m.store)
}

func (m *Model) nudge(priceRow, durationRow int, h panel.Handle, steps int) {
	switch m.cursor {
	case priceRow:
		m.panel.NudgePrice(h, steps)
	case durationRow:
		m.panel.NudgeDuration(h, steps)
	}
}

// moveSelection shifts the selected card by delta, clamped to the list, and
// scrolls it into view.
func (m *Model) moveSelection(delta int) {
	count := len(m.page.Flights)
	if count == 0 {
		return
	}
	m.selected = min(max(0, m.selected+delta), count-1)
	m.selectedID = m.page.Flights[m.selected].ID
	m.list.EnsureVisible(m.selected)
	m.page = m.list.Build(m.snapshot)
}

// cycleTheme switches to the next theme and remembers it.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SaveTheme(m.theme.Name); err != nil {
		logging.Warn("save theme", "theme", m.theme.Name, "error", err)
		m.setNotice("Theme not saved", true)
	}
}

// report surfaces a failed filter commit. The change itself is kept.
func (m *Model) report(err error) {
	if err != nil {
		m.setNotice(fmt.Sprintf("Filters not saved: %v", err), true)
	}
}

func (m *Model) setNotice(text string, bad bool) {
	m.notice = text
	m.noticeBad = bad
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.ctx.Err() != nil {
		m.panel.Flush()
		return m, tea.Quit
	}
	return m, tea.Batch(
		fetchSnapshotCmd(m.store),
		tickCmd(m.pollTick),
	)
}

// applySnapshot refreshes every derived view from snap.
func (m *Model) applySnapshot(snap state.Snapshot) {
	seeded, err := m.panel.Sync(snap)
	m.report(err)
	if seeded {
		snap = m.store.Snapshot()
	}
	m.snapshot = snap
	m.filters = m.panel.View()
	m.cursor = min(m.cursor, len(m.filters.Airlines)+1)
	m.rebuild()
}

// rebuild recomputes the page, keeping the selected flight by ID when it is
// still in the results. The viewport only follows the selection when the
// selection moved, so wheel scrolling survives refreshes.
func (m *Model) rebuild() {
	m.page = m.list.Build(m.snapshot)
	count := len(m.page.Flights)
	if count == 0 {
		m.selected = 0
		return
	}

	prev, found := m.selected, false
	if m.selectedID != "" {
		for i, f := range m.page.Flights {
			if f.ID == m.selectedID {
				m.selected = i
				found = true
				break
			}
		}
	}
	if !found {
		m.selected = min(m.selected, count-1)
	}
	m.selectedID = m.page.Flights[m.selected].ID
	if !found || m.selected != prev {
		m.list.EnsureVisible(m.selected)
		m.page = m.list.Build(m.snapshot)
	}
}

// paneLayout is the width of each pane for the current terminal size.
type paneLayout struct {
	panelWidth int
	gridWidth  int
	height     int
}

func (m Model) panes() paneLayout {
	pl := paneLayout{height: max(0, m.height-chromeHeight)}
	switch {
	case m.width >= LayoutPanelMinWidth:
		pl.panelWidth = PanelWidth
		pl.gridWidth = m.width - PanelWidth
	case m.focus == focusFilters:
		pl.panelWidth = m.width
	default:
		pl.gridWidth = m.width
	}
	return pl
}

// layout sizes the grid to the space left by the chrome and the filter pane.
func (m *Model) layout() {
	pl := m.panes()
	// Borders take two columns, the scrollbar one more.
	m.list.Resize(max(0, pl.gridWidth-3), max(0, pl.height-2))
	m.list.EnsureVisible(m.selected)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	pl := m.panes()

	var panes []string
	if pl.panelWidth > 0 {
		panes = append(panes, m.renderFilters(pl.panelWidth, pl.height))
	}
	if pl.gridWidth > 0 {
		panes = append(panes, m.renderFlights(pl.gridWidth, pl.height))
	}

	return m.renderHeader() + "\n" +
		m.renderCommandBar() + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		// Cancelled by signal; not an error.
		return nil
	}
	return err
}
