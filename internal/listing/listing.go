// Package listing turns a store snapshot into the page of flight cards the
// grid pane draws: filter, then sort, then lay out the visible window.
package listing

import (
	"time"

	"github.com/five82/skyline/internal/clock"
	"github.com/five82/skyline/internal/flight"
	"github.com/five82/skyline/internal/grid"
	"github.com/five82/skyline/internal/logging"
	"github.com/five82/skyline/internal/state"
)

// Card geometry in terminal cells.
const (
	ItemHeight = 7
	Gap        = 1
)

// Column breakpoints.
const (
	threeColumnWidth = 150
	twoColumnWidth   = 100
)

// ItemWidth returns the card width for a container: three cards per row from
// 150 columns, two from 100, otherwise one.
func ItemWidth(containerWidth int) int {
	switch {
	case containerWidth >= threeColumnWidth:
		return (containerWidth - 2*Gap) / 3
	case containerWidth >= twoColumnWidth:
		return (containerWidth - Gap) / 2
	default:
		return max(0, containerWidth)
	}
}

// Page is one rendered frame of the list.
type Page struct {
	// Flights is the full filtered and sorted result; Items index into it.
	Flights     []flight.Flight
	Items       []grid.Item
	TotalExtent int
	ItemsPerRow int
	Offset      int
	Viewport    int
	// Total counts the unfiltered flights.
	Total int
	// Loading is set until the first data arrives.
	Loading bool
	// Empty is a loaded result with no matches.
	Empty bool
	// Err is set when the data cannot be filtered, typically a
	// *flight.ParseError. No flights are returned with it.
	Err error
}

type resultKey struct {
	version uint64
	minute  int64
}

// Builder composes the list. Filter and sort results are cached per
// snapshot version and reference minute, so scrolling only redoes the grid
// window. A Builder is not safe for concurrent use; it belongs to the UI
// goroutine.
type Builder struct {
	clock clock.Clock
	virt  *grid.Virtualizer

	key     resultKey
	cached  bool
	flights []flight.Flight
	err     error
}

// NewBuilder returns a Builder whose future-only filter uses c. A nil clock
// uses the wall clock.
func NewBuilder(c clock.Clock) *Builder {
	if c == nil {
		c = clock.Real()
	}
	return &Builder{
		clock: c,
		virt:  grid.NewVirtualizer(grid.Spec{ItemHeight: ItemHeight, Gap: Gap}),
	}
}

// Resize sets the pane size and picks the card width for it.
func (b *Builder) Resize(width, height int) {
	spec := b.virt.Spec()
	spec.ItemWidth = ItemWidth(width)
	b.virt.SetSpec(spec)
	b.virt.Resize(width, height)
}

// ScrollBy moves the viewport by delta cells.
func (b *Builder) ScrollBy(delta int) { b.virt.ScrollBy(delta) }

// ScrollToTop jumps to the first row.
func (b *Builder) ScrollToTop() { b.virt.ScrollTo(0) }

// EnsureVisible scrolls until card index is fully shown.
func (b *Builder) EnsureVisible(index int) { b.virt.EnsureVisible(index) }

// ItemsPerRow reports the current column count.
func (b *Builder) ItemsPerRow() int { return b.virt.Spec().ItemsPerRow() }

// RowsPerPage is how many full card rows fit in the viewport.
func (b *Builder) RowsPerPage() int {
	return max(1, b.virt.Viewport()/max(1, b.virt.Spec().RowSize()))
}

// Build produces the page for snap.
func (b *Builder) Build(snap state.Snapshot) Page {
	page := Page{
		Total:    len(snap.Envelope.Data),
		Loading:  !snap.HasData && (snap.Loading || snap.LastError == nil),
		Viewport: b.virt.Viewport(),
	}
	if page.Loading {
		return page
	}

	flights, err := b.results(snap)
	if err != nil {
		b.virt.SetCount(0)
		page.Err = err
		return page
	}

	b.virt.SetCount(len(flights))
	page.Flights = flights
	page.Items = b.virt.Items()
	page.TotalExtent = b.virt.TotalExtent()
	page.ItemsPerRow = b.virt.Spec().ItemsPerRow()
	page.Offset = b.virt.Offset()
	page.Empty = len(flights) == 0
	return page
}

func (b *Builder) results(snap state.Snapshot) ([]flight.Flight, error) {
	now := b.clock.Now()
	key := resultKey{version: snap.Version, minute: now.Truncate(time.Minute).Unix()}
	if b.cached && key == b.key {
		return b.flights, b.err
	}

	flights, err := flight.Filter(snap.Envelope.Data, snap.Filters.Criteria(now))
	if err == nil {
		flights, err = flight.Sort(flights, snap.Filters.Sort, now)
	}
	if err != nil {
		logging.Warn("flight list unavailable", "error", err)
		flights = nil
	}

	b.key, b.cached, b.flights, b.err = key, true, flights, err
	return flights, err
}
