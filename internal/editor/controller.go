package editor

import (
	"easel/internal/domain"
	"easel/internal/scene"
)

// Pointer gesture interpretation. One gesture is active at a time: a
// pointer-up is always preceded by its matching pointer-down, and there is
// no interleaving across gestures.

type gestureState int

const (
	stateIdle gestureState = iota
	stateDragging
	stateResizing // size being dragged out from the creation point
)

// PointerDown begins a gesture at (x, y).
//
// With the select tool, a hit selects the topmost visible element and
// starts dragging it; a miss clears the selection. With a shape or text
// tool, a new element is created at the pointer, selected, and enters the
// resize gesture — and the tool snaps back to select, making creation a
// one-shot gesture.
func (e *Editor) PointerDown(x, y float64) {
	e.anchorX, e.anchorY = x, y
	e.lastX, e.lastY = x, y

	if e.tool == ToolSelect {
		hit, ok := e.store.TopmostAt(x, y)
		if !ok {
			e.store.ClearSelection()
			e.state = stateIdle
			return
		}
		e.store.Select(hit.ID)
		e.state = stateDragging
		return
	}

	el := e.store.Create(domain.ElementKind(e.tool), x, y)
	e.store.Select(el.ID)
	e.state = stateResizing
	e.tool = ToolSelect
}

// PointerMove advances the active gesture to (x, y). Idle moves are ignored.
func (e *Editor) PointerMove(x, y float64) {
	id := e.store.SelectedID()
	if id == "" {
		e.state = stateIdle
		return
	}

	switch e.state {
	case stateDragging:
		// Incremental delta since the previous move event, not
		// delta-from-gesture-start: repeated updates must not drift.
		dx, dy := x-e.lastX, y-e.lastY
		el, ok := e.store.Get(id)
		if ok {
			nx, ny := el.X+dx, el.Y+dy
			e.store.Update(id, scene.Patch{X: &nx, Y: &ny})
		}
	case stateResizing:
		// Absolute distance from the creation anchor lets the user drag
		// out the shape in any of the four directions. Normalized on every
		// move so the host can render mid-gesture without seeing a
		// degenerate size.
		w, h := domain.NormalizeSize(x-e.anchorX, y-e.anchorY)
		e.store.Update(id, scene.Patch{Width: &w, Height: &h})
	}
	e.lastX, e.lastY = x, y
}

// PointerUp completes the gesture. Drag and resize gestures commit exactly
// one history snapshot; an idle pointer-up commits nothing. Sizes were
// normalized per move, so the committed snapshot is already well-formed.
func (e *Editor) PointerUp() {
	switch e.state {
	case stateDragging, stateResizing:
		e.commit()
	}
	e.state = stateIdle
}
