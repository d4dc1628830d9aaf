package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/five82/skyline/internal/booking"
	"github.com/five82/skyline/internal/clock"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/listing"
	"github.com/five82/skyline/internal/state"
)

var testNow = time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)

func testFlights() []flight.Flight {
	mk := func(id, code, name, number, depTime string, duration int, price float64) flight.Flight {
		return flight.Flight{
			ID:           id,
			Airline:      flight.Airline{Code: code, Name: name},
			FlightNumber: number,
			Departure:    flight.Endpoint{Airport: "CGK", Date: "2025-10-23", Time: depTime},
			Arrival:      flight.Endpoint{Airport: "DPS", Date: "2025-10-23", Time: "12:00"},
			Duration:     duration,
			Baggage:      "20kg",
			Price:        flight.Price{Amount: price, Currency: "IDR"},
		}
	}
	return []flight.Flight{
		mk("GA-1", "GA", "Garuda Indonesia", "GA 402", "07:00", 170, 1_450_000),
		mk("JT-1", "JT", "Lion Air", "JT 34", "08:30", 110, 650_000),
		mk("QZ-1", "QZ", "AirAsia", "QZ 7510", "10:15", 105, 720_000),
	}
}

type recordingSaver struct {
	saved []string
	err   error
}

func (s *recordingSaver) SaveTheme(name string) error {
	s.saved = append(s.saved, name)
	return s.err
}

type testApp struct {
	m     Model
	store *state.Store
	saver *recordingSaver
}

func newTestApp(t *testing.T, width, height int) *testApp {
	t.Helper()
	store := state.NewStore(state.DefaultFilters(), nil)
	c := clock.Fake(testNow)
	saver := &recordingSaver{}
	m := New(Options{
		Store: store,
		Clock: c,
		Desk: booking.Desk{
			NewID: func() uuid.UUID { return uuid.MustParse("abcdef12-3456-7890-abcd-ef1234567890") },
			Now:   c.Now,
		},
		Prefs: saver,
	})
	app := &testApp{m: m, store: store, saver: saver}
	app.send(tea.WindowSizeMsg{Width: width, Height: height})
	return app
}

// load delivers the fixture; the first snapshot seeds the filters.
func (a *testApp) load(env flight.Envelope) {
	a.store.Update(&env, nil)
	a.refresh()
}

func (a *testApp) refresh() {
	a.send(snapshotMsg(a.store.Snapshot()))
}

func (a *testApp) send(msg tea.Msg) tea.Cmd {
	next, cmd := a.m.Update(msg)
	a.m = next.(Model)
	return cmd
}

func (a *testApp) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = a.send(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func apiEnvelope() flight.Envelope {
	return flight.Envelope{Data: testFlights(), Source: flight.SourceAPI}
}

func TestModel_RendersLoadingThenFlights(t *testing.T) {
	app := newTestApp(t, 160, 40)

	if view := app.m.View(); !strings.Contains(view, "Loading flights...") {
		t.Fatalf("view before data = %q, want loading header", view)
	}

	app.load(apiEnvelope())

	if got := len(app.m.page.Flights); got != 3 {
		t.Fatalf("page has %d flights, want 3", got)
	}
	view := app.m.View()
	for _, want := range []string{"Flights (3 of 3)", "● LIVE", "Garuda Indonesia", "IDR 650,000", "Filters"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_HeaderShowsFallbackSource(t *testing.T) {
	app := newTestApp(t, 160, 40)
	env := apiEnvelope()
	env.Source = flight.SourceLocalFallback
	app.load(env)

	if view := app.m.View(); !strings.Contains(view, "● LOCAL") {
		t.Fatalf("view missing fallback badge")
	}
}

func TestModel_HeaderShowsConnectionError(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.store.Update(nil, errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"))
	app.refresh()

	if view := app.m.View(); !strings.Contains(view, "API OFFLINE") {
		t.Fatalf("view missing connection error, got %q", view)
	}
}

func TestModel_SelectionMovesAcrossGrid(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	if got := app.m.page.ItemsPerRow; got != 2 {
		t.Fatalf("ItemsPerRow = %d, want 2", got)
	}

	steps := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, 2},
		{tea.KeyMsg{Type: tea.KeyRight}, 2},
		{tea.KeyMsg{Type: tea.KeyLeft}, 1},
		{runes("g"), 0},
		{runes("G"), 2},
		{tea.KeyMsg{Type: tea.KeyUp}, 0},
	}
	for _, step := range steps {
		app.press(step.key)
		if app.m.selected != step.want {
			t.Fatalf("after %q selected = %d, want %d", step.key.String(), app.m.selected, step.want)
		}
	}
}

func TestModel_CycleSortKeepsSelection(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	app.press(tea.KeyMsg{Type: tea.KeyRight})
	id := app.m.selectedID

	app.press(runes("s"))
	app.refresh()

	if got := app.store.Filters().Sort; got != flight.SortPrice {
		t.Fatalf("sort = %q, want %q", got, flight.SortPrice)
	}
	if got := app.m.page.Flights[app.m.selected].ID; got != id {
		t.Fatalf("selected flight = %q after re-sort, want %q", got, id)
	}
	if first := app.m.page.Flights[0].ID; first != "JT-1" {
		t.Fatalf("cheapest flight first = %q, want JT-1", first)
	}
}

func TestModel_BookingFlow(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	app.press(tea.KeyMsg{Type: tea.KeyEnter})
	if app.m.modal == nil {
		t.Fatalf("enter did not open the booking dialog")
	}
	if view := app.m.View(); !strings.Contains(view, "Confirm Booking") {
		t.Fatalf("dialog view missing title")
	}

	cmd := app.press(tea.KeyMsg{Type: tea.KeyEnter})
	if app.m.modal != nil {
		t.Fatalf("dialog still open after confirm")
	}
	if cmd == nil {
		t.Fatalf("confirm returned no command")
	}
	msg, ok := cmd().(bookedMsg)
	if !ok {
		t.Fatalf("confirm command produced %T, want bookedMsg", cmd())
	}
	if msg.confirmation.Reference != "ABCDEF" {
		t.Fatalf("reference = %q, want ABCDEF", msg.confirmation.Reference)
	}

	app.send(msg)
	if !strings.HasPrefix(app.m.notice, "Booked ABCDEF") || app.m.noticeBad {
		t.Fatalf("notice = %q (bad=%v), want booking confirmation", app.m.notice, app.m.noticeBad)
	}
}

func TestModel_EscapeCancelsBooking(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	app.press(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd := app.press(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Fatalf("cancel returned a command")
	}
	if app.m.modal != nil {
		t.Fatalf("dialog still open after esc")
	}
	if app.m.notice != "" {
		t.Fatalf("notice = %q after cancel, want empty", app.m.notice)
	}
}

func TestModel_FilterPaneTogglesAirline(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	app.press(tea.KeyMsg{Type: tea.KeyTab})
	if app.m.focus != focusFilters {
		t.Fatalf("tab did not focus filters")
	}

	if !app.m.filters.AllSelected {
		t.Fatalf("filter pane not seeded with every airline: %+v", app.m.filters.Airlines)
	}

	app.press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if app.m.filters.AllSelected || app.m.filters.Airlines[0].Selected {
		t.Fatalf("filter pane did not follow the toggle: %+v", app.m.filters.Airlines)
	}
	app.refresh()

	for _, code := range app.store.Filters().SelectedAirlines {
		if code == "GA" {
			t.Fatalf("GA still selected after toggle")
		}
	}
	for _, f := range app.m.page.Flights {
		if f.Airline.Code == "GA" {
			t.Fatalf("GA flight %s still listed", f.ID)
		}
	}
	if got := app.m.page.Total; got != 3 {
		t.Fatalf("Total = %d, want 3", got)
	}
}

func TestModel_FilterPaneNudgesPrice(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	app.press(tea.KeyMsg{Type: tea.KeyTab})
	for range app.m.filters.Airlines {
		app.press(tea.KeyMsg{Type: tea.KeyDown})
	}
	app.press(tea.KeyMsg{Type: tea.KeyRight})
	if !app.m.filters.Pending {
		t.Fatalf("nudge did not leave a pending draft")
	}

	// Quitting commits the draft without waiting for the debounce.
	cmd := app.press(runes("q"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
	if got := app.store.Filters().PriceRange.Min; got <= 650_000 {
		t.Fatalf("price min = %v, want above the lower bound", got)
	}
}

func TestModel_ResetRestoresSort(t *testing.T) {
	app := newTestApp(t, 160, 40)
	app.load(apiEnvelope())

	app.press(runes("s"))
	app.press(tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	app.press(runes("r"))

	f := app.store.Filters()
	if f.Sort != flight.SortRecommendation {
		t.Fatalf("sort = %q after reset, want recommendation", f.Sort)
	}
	if len(f.SelectedAirlines) != 3 {
		t.Fatalf("selected airlines = %v after reset, want all three", f.SelectedAirlines)
	}
}

func TestModel_CycleThemeSaves(t *testing.T) {
	app := newTestApp(t, 160, 40)

	app.press(runes("T"))
	if app.m.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", app.m.theme.Name)
	}
	if len(app.saver.saved) != 1 || app.saver.saved[0] != "Nightfox" {
		t.Fatalf("saved = %v, want [Nightfox]", app.saver.saved)
	}

	app.saver.err = errors.New("read-only file system")
	app.press(runes("T"))
	if !app.m.noticeBad {
		t.Fatalf("failed save did not raise a notice")
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	app := newTestApp(t, 160, 40)

	app.press(runes("?"))
	if !strings.Contains(app.m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	app.press(runes("j"))
	if app.m.showHelp {
		t.Fatalf("help still shown")
	}
}

func TestModel_NarrowLayoutSwapsPanes(t *testing.T) {
	app := newTestApp(t, 60, 30)
	app.load(apiEnvelope())

	if pl := app.m.panes(); pl.panelWidth != 0 || pl.gridWidth != 60 {
		t.Fatalf("flights focus layout = %+v", pl)
	}
	app.press(tea.KeyMsg{Type: tea.KeyTab})
	if pl := app.m.panes(); pl.panelWidth != 60 || pl.gridWidth != 0 {
		t.Fatalf("filters focus layout = %+v", pl)
	}
	if view := app.m.View(); strings.Contains(view, "Flights (") {
		t.Fatalf("grid rendered while filters replace it")
	}
}

func TestModel_TickSchedulesRefresh(t *testing.T) {
	app := newTestApp(t, 160, 40)
	if cmd := app.send(tickMsg(testNow)); cmd == nil {
		t.Fatalf("tick returned no command")
	}
}

func TestModel_TickQuitsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(Options{Context: ctx, Clock: clock.Fake(testNow)})

	_, cmd := m.Update(tickMsg(testNow))
	if cmd == nil {
		t.Fatalf("tick returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("tick after cancel did not quit")
	}
}

func manyFlights(n int) []flight.Flight {
	base := testFlights()[1]
	out := make([]flight.Flight, n)
	for i := range out {
		f := base
		f.ID = fmt.Sprintf("JT-%d", i)
		f.Price.Amount = 600_000 + float64(i)*10_000
		out[i] = f
	}
	return out
}

func TestModel_WheelScrollsWithoutMovingSelection(t *testing.T) {
	app := newTestApp(t, 160, 20)
	app.load(flight.Envelope{Data: manyFlights(12), Source: flight.SourceAPI})

	app.send(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	row := listing.ItemHeight + listing.Gap
	if app.m.page.Offset != row {
		t.Fatalf("Offset = %d after wheel, want %d", app.m.page.Offset, row)
	}
	if app.m.selected != 0 {
		t.Fatalf("selected = %d after wheel, want 0", app.m.selected)
	}

	// A background refresh does not snap the viewport back.
	app.refresh()
	if app.m.page.Offset != row {
		t.Fatalf("Offset = %d after refresh, want %d", app.m.page.Offset, row)
	}

	app.send(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if app.m.page.Offset != 0 {
		t.Fatalf("Offset = %d after wheel up, want 0", app.m.page.Offset)
	}
}

func TestModel_RefreshKeyRequestsRefetch(t *testing.T) {
	app := newTestApp(t, 160, 40)
	calls := 0
	app.m.refresh = func() { calls++ }

	app.press(runes("R"))
	if calls != 1 {
		t.Fatalf("refresh called %d times, want 1", calls)
	}
	if app.m.notice == "" {
		t.Fatalf("no notice after refresh")
	}
}
