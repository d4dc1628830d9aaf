package grid

// Virtualizer tracks the scroll position over a Spec and caches the
// materialized items for the current window. Only the window is ever
// stored; nothing is sized to the total item count.
type Virtualizer struct {
	spec     Spec
	offset   int
	viewport int

	items []Item
	valid bool
}

// NewVirtualizer returns a Virtualizer for spec. A zero Overscan is replaced
// by DefaultOverscan.
func NewVirtualizer(spec Spec) *Virtualizer {
	if spec.Overscan == 0 {
		spec.Overscan = DefaultOverscan
	}
	return &Virtualizer{spec: spec}
}

// Spec returns the current geometry.
func (v *Virtualizer) Spec() Spec { return v.spec }

// Offset returns the current scroll offset.
func (v *Virtualizer) Offset() int { return v.offset }

// Viewport returns the current viewport height.
func (v *Virtualizer) Viewport() int { return v.viewport }

// TotalExtent returns the full content height.
func (v *Virtualizer) TotalExtent() int { return v.spec.TotalExtent() }

// SetSpec replaces the geometry. The cache is kept when nothing changed, so
// redundant calls from resize handlers are cheap.
func (v *Virtualizer) SetSpec(spec Spec) {
	if spec == v.spec {
		return
	}
	v.spec = spec
	v.offset = v.clamp(v.offset)
	v.valid = false
}

// SetCount updates the item count.
func (v *Virtualizer) SetCount(count int) {
	spec := v.spec
	spec.Count = max(0, count)
	v.SetSpec(spec)
}

// Resize updates the container width and viewport height.
func (v *Virtualizer) Resize(containerWidth, viewport int) {
	spec := v.spec
	spec.ContainerWidth = containerWidth
	viewport = max(0, viewport)
	if viewport != v.viewport {
		v.viewport = viewport
		v.valid = false
	}
	v.SetSpec(spec)
	v.offset = v.clamp(v.offset)
}

// ScrollTo moves the viewport to offset, clamped to the content.
func (v *Virtualizer) ScrollTo(offset int) {
	offset = v.clamp(offset)
	if offset == v.offset {
		return
	}
	v.offset = offset
	v.valid = false
}

// ScrollBy moves the viewport by delta cells.
func (v *Virtualizer) ScrollBy(delta int) {
	v.ScrollTo(v.offset + delta)
}

// ScrollToRow aligns the top of row with the top of the viewport.
func (v *Virtualizer) ScrollToRow(row int) {
	v.ScrollTo(row * v.spec.RowSize())
}

// EnsureVisible scrolls the minimum amount needed to show item index fully.
func (v *Virtualizer) EnsureVisible(index int) {
	if index < 0 || index >= v.spec.Count {
		return
	}
	row, _ := v.spec.Position(index)
	top := row * v.spec.RowSize()
	bottom := top + v.spec.ItemHeight
	switch {
	case top < v.offset:
		v.ScrollTo(top)
	case bottom > v.offset+v.viewport:
		v.ScrollTo(bottom - v.viewport)
	}
}

// Items returns the cached window, recomputing it only after a change.
// Callers must not modify the returned slice.
func (v *Virtualizer) Items() []Item {
	if !v.valid {
		v.items = v.spec.Items(v.offset, v.viewport)
		v.valid = true
	}
	return v.items
}

func (v *Virtualizer) clamp(offset int) int {
	return min(max(0, offset), v.spec.MaxOffset(v.viewport))
}
