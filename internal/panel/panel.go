// Package panel is the view-model behind the filter panel: airline choices,
// price and duration sliders, and the reset action.
//
// Airline changes and resets are committed to the store immediately. Slider
// movement updates a local draft right away and reaches the store through a
// trailing debounce, so dragging a handle produces one commit per pause
// instead of one per keystroke.
package panel

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/five82/skyline/internal/clock"
	"github.com/five82/skyline/internal/debounce"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/state"
)

// DebounceWait is the quiet window before a slider draft is committed.
const DebounceWait = 100 * time.Millisecond

const (
	// priceSteps is the number of keyboard steps across the price bounds.
	priceSteps = 20
	// DurationStep is one keyboard step on the duration slider, in minutes.
	DurationStep = 15
)

// Handle selects the end of a range slider.
type Handle int

const (
	Low Handle = iota
	High
)

// Store is the subset of *state.Store the panel needs.
type Store interface {
	Filters() state.Filters
	Dispatch(state.Intent) error
	SetBusy(bool)
}

// AirlineOption is one checkbox row.
type AirlineOption struct {
	flight.Airline
	Selected bool
}

// View is everything the filter pane renders.
type View struct {
	Loading        bool
	Airlines       []AirlineOption
	AllSelected    bool
	PriceBounds    flight.Range
	DurationBounds flight.Range
	Price          flight.Range
	Duration       flight.Range
	// Pending is true while a slider draft waits for its commit.
	Pending bool
}

type draft struct {
	r  flight.Range
	ok bool
}

// Panel derives facets from the loaded flights and turns user gestures into
// store intents. It is safe for concurrent use; debounced commits run on
// timer goroutines.
type Panel struct {
	store    Store
	price    *debounce.Debouncer[flight.Range]
	duration *debounce.Debouncer[flight.Range]

	mu            sync.Mutex
	facets        flight.Facets
	version       uint64
	synced        bool
	seeded        bool
	loading       bool
	draftPrice    draft
	draftDuration draft
}

// New returns a Panel bound to store. A nil clock uses the wall clock and a
// non-positive wait uses DebounceWait.
func New(store Store, c clock.Clock, wait time.Duration) *Panel {
	if wait <= 0 {
		wait = DebounceWait
	}
	p := &Panel{
		store:   store,
		facets:  flight.FacetsOf(nil),
		loading: true,
	}
	p.price = debounce.New(c, wait, p.commitPrice)
	p.duration = debounce.New(c, wait, p.commitDuration)
	return p
}

// Sync refreshes facets from snap. The first time snap carries loaded data,
// the selection is reset to every airline over the full bounds; the sort key
// is left alone so a persisted sort survives startup. seeded reports that
// reset, after which snap is stale. err is a failed save of the seed.
func (p *Panel) Sync(snap state.Snapshot) (seeded bool, err error) {
	data := snap.Envelope.Data

	p.mu.Lock()
	if !p.synced || snap.Version != p.version {
		p.facets = flight.FacetsOf(data)
		p.version = snap.Version
		p.synced = true
	}
	p.loading = snap.Loading || snap.Busy || len(data) == 0
	seed := !p.seeded && snap.HasData && !snap.Loading && len(data) > 0
	if seed {
		p.seeded = true
	}
	facets := p.facets
	p.mu.Unlock()

	if seed {
		logging.Debug("seeding filters from facets", "airlines", len(facets.Airlines))
		return true, p.reset(facets, true)
	}
	return false, nil
}

// Facets returns the facets from the last Sync.
func (p *Panel) Facets() flight.Facets {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.facets
}

// View returns the render state. Committed filters are read from the store,
// so the view follows commits without waiting for the next Sync. Draft
// slider values take precedence over the committed ones.
func (p *Panel) View() View {
	filters := p.store.Filters()
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Loading:        p.loading,
		PriceBounds:    p.facets.PriceBounds,
		DurationBounds: p.facets.DurationBounds,
		Price:          p.current(p.draftPrice, filters.PriceRange, p.facets.PriceBounds),
		Duration:       p.current(p.draftDuration, filters.DurationRange, p.facets.DurationBounds),
		Pending:        p.draftPrice.ok || p.draftDuration.ok,
		AllSelected:    len(p.facets.Airlines) > 0,
	}
	for _, a := range p.facets.Airlines {
		selected := slices.Contains(filters.SelectedAirlines, a.Code)
		v.AllSelected = v.AllSelected && selected
		v.Airlines = append(v.Airlines, AirlineOption{Airline: a, Selected: selected})
	}
	return v
}

// ToggleAirline adds or removes code from the selection.
func (p *Panel) ToggleAirline(code string, checked bool) error {
	codes := slices.DeleteFunc(p.store.Filters().SelectedAirlines, func(c string) bool {
		return c == code
	})
	if checked {
		codes = append(codes, code)
	}
	return p.commit(state.SetSelectedAirlines{Codes: codes})
}

// Toggle flips the checkbox for code.
func (p *Panel) Toggle(code string) error {
	checked := slices.Contains(p.store.Filters().SelectedAirlines, code)
	return p.ToggleAirline(code, !checked)
}

// SelectAll checks every airline.
func (p *Panel) SelectAll() error {
	return p.commit(state.SetSelectedAirlines{Codes: p.Facets().AirlineCodes()})
}

// Reset selects every airline over the full bounds and restores the default
// sort. Pending slider drafts are discarded.
func (p *Panel) Reset() error {
	return p.reset(p.Facets(), false)
}

// ChangePrice sets the price draft and schedules its commit.
func (p *Panel) ChangePrice(r flight.Range) {
	p.mu.Lock()
	r = r.Clamp(p.facets.PriceBounds)
	p.draftPrice = draft{r: r, ok: true}
	p.mu.Unlock()
	p.price.Call(r)
}

// ChangeDuration sets the duration draft and schedules its commit.
func (p *Panel) ChangeDuration(r flight.Range) {
	p.mu.Lock()
	r = r.Clamp(p.facets.DurationBounds)
	p.draftDuration = draft{r: r, ok: true}
	p.mu.Unlock()
	p.duration.Call(r)
}

// NudgePrice moves one handle of the price slider by steps. The handle
// stops at the bounds and never crosses the other handle.
func (p *Panel) NudgePrice(h Handle, steps int) {
	committed := p.store.Filters().PriceRange
	p.mu.Lock()
	bounds := p.facets.PriceBounds
	cur := p.current(p.draftPrice, committed, bounds)
	p.mu.Unlock()

	step := max(1, math.Round(bounds.Width()/priceSteps))
	p.ChangePrice(nudge(cur, bounds, h, float64(steps)*step))
}

// NudgeDuration moves one handle of the duration slider by steps of
// DurationStep minutes.
func (p *Panel) NudgeDuration(h Handle, steps int) {
	committed := p.store.Filters().DurationRange
	p.mu.Lock()
	bounds := p.facets.DurationBounds
	cur := p.current(p.draftDuration, committed, bounds)
	p.mu.Unlock()

	p.ChangeDuration(nudge(cur, bounds, h, float64(steps*DurationStep)))
}

// Flush commits pending slider drafts immediately.
func (p *Panel) Flush() {
	p.price.Flush()
	p.duration.Flush()
}

func (p *Panel) reset(facets flight.Facets, keepSort bool) error {
	p.price.Stop()
	p.duration.Stop()
	p.mu.Lock()
	p.draftPrice, p.draftDuration = draft{}, draft{}
	p.mu.Unlock()

	return p.commit(state.ResetFilters{
		Airlines:      facets.AirlineCodes(),
		PriceRange:    facets.PriceBounds,
		DurationRange: facets.DurationBounds,
		KeepSort:      keepSort,
	})
}

// commit dispatches intent with the busy flag raised. The flag is cleared
// even if Dispatch panics.
func (p *Panel) commit(intent state.Intent) error {
	p.store.SetBusy(true)
	defer p.store.SetBusy(false)

	if err := p.store.Dispatch(intent); err != nil {
		logging.Warn("filter change not saved", "intent", intent.Name(), "error", err)
		return err
	}
	return nil
}

func (p *Panel) commitPrice(r flight.Range) {
	if err := p.store.Dispatch(state.SetPriceRange{Range: r}); err != nil {
		logging.Warn("filter change not saved", "intent", "set_price_range", "error", err)
	}
	p.mu.Lock()
	if p.draftPrice.r == r {
		p.draftPrice = draft{}
	}
	p.mu.Unlock()
}

func (p *Panel) commitDuration(r flight.Range) {
	if err := p.store.Dispatch(state.SetDurationRange{Range: r}); err != nil {
		logging.Warn("filter change not saved", "intent", "set_duration_range", "error", err)
	}
	p.mu.Lock()
	if p.draftDuration.r == r {
		p.draftDuration = draft{}
	}
	p.mu.Unlock()
}

// current returns the draft when one is pending, else committed limited to
// bounds. Callers hold p.mu.
func (p *Panel) current(d draft, committed, bounds flight.Range) flight.Range {
	if d.ok {
		return d.r
	}
	return committed.Clamp(bounds)
}

func nudge(r, bounds flight.Range, h Handle, delta float64) flight.Range {
	switch h {
	case Low:
		r.Min = min(max(r.Min+delta, bounds.Min), r.Max)
	case High:
		r.Max = max(min(r.Max+delta, bounds.Max), r.Min)
	}
	return r
}
