// Package grid maps a linear list of uniformly sized items onto a responsive
// grid and reports only the rows that intersect the scroll viewport (plus an
// overscan margin). All units are terminal cells.
package grid

// DefaultOverscan is the number of extra rows materialized above and below
// the viewport.
const DefaultOverscan = 3

// Spec describes the grid geometry.
type Spec struct {
	Count          int
	ItemWidth      int
	ItemHeight     int
	Gap            int
	ContainerWidth int
	Overscan       int
}

// Rect is an absolute placement inside the scrollable content area.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Item is one materialized cell of the grid.
type Item struct {
	Index int
	Row   int
	Col   int
	Rect  Rect
}

// ItemsPerRow is max(1, floor((ContainerWidth+Gap)/(ItemWidth+Gap))).
func (s Spec) ItemsPerRow() int {
	stride := s.ItemWidth + s.Gap
	if stride <= 0 || s.ContainerWidth <= 0 {
		return 1
	}
	return max(1, (s.ContainerWidth+s.Gap)/stride)
}

// RowCount is ceil(Count/ItemsPerRow).
func (s Spec) RowCount() int {
	if s.Count <= 0 {
		return 0
	}
	perRow := s.ItemsPerRow()
	return (s.Count + perRow - 1) / perRow
}

// RowSize is the vertical stride of one row.
func (s Spec) RowSize() int {
	return s.ItemHeight + s.Gap
}

// TotalExtent is the height of the full content area.
func (s Spec) TotalExtent() int {
	return max(0, s.RowCount()*s.RowSize())
}

// RowItems returns how many items row holds; only the last row may be
// partial.
func (s Spec) RowItems(row int) int {
	rows := s.RowCount()
	if row < 0 || row >= rows {
		return 0
	}
	perRow := s.ItemsPerRow()
	if row < rows-1 {
		return perRow
	}
	return s.Count - perRow*(rows-1)
}

// Position returns the row and column of item index.
func (s Spec) Position(index int) (row, col int) {
	perRow := s.ItemsPerRow()
	return index / perRow, index % perRow
}

// MaxOffset is the largest scroll offset that still fills the viewport.
func (s Spec) MaxOffset(viewport int) int {
	return max(0, s.TotalExtent()-max(0, viewport))
}

// VisibleRows returns the inclusive row window intersecting
// [offset, offset+viewport) widened by the overscan margin. ok is false when
// there are no rows.
func (s Spec) VisibleRows(offset, viewport int) (first, last int, ok bool) {
	rows := s.RowCount()
	if rows == 0 {
		return 0, 0, false
	}
	stride := max(1, s.RowSize())
	offset = min(max(0, offset), s.MaxOffset(viewport))
	overscan := max(0, s.Overscan)

	firstVisible := offset / stride
	lastVisible := firstVisible
	if viewport > 0 {
		lastVisible = (offset + viewport - 1) / stride
	}
	first = max(0, firstVisible-overscan)
	last = min(rows-1, lastVisible+overscan)
	return first, last, true
}

// Items materializes the cells of the visible row window. Work is
// proportional to the window, not to Count.
func (s Spec) Items(offset, viewport int) []Item {
	first, last, ok := s.VisibleRows(offset, viewport)
	if !ok {
		return nil
	}
	perRow := s.ItemsPerRow()
	stride := s.ItemWidth + s.Gap
	items := make([]Item, 0, (last-first+1)*perRow)
	for row := first; row <= last; row++ {
		start := row * perRow
		top := row * s.RowSize()
		for col := 0; col < s.RowItems(row); col++ {
			items = append(items, Item{
				Index: start + col,
				Row:   row,
				Col:   col,
				Rect: Rect{
					Left:   col * stride,
					Top:    top,
					Width:  s.ItemWidth,
					Height: s.ItemHeight,
				},
			})
		}
	}
	return items
}
