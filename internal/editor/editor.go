package editor

import (
	"image"

	"easel/internal/domain"
	"easel/internal/render"
	"easel/internal/scene"
)

// ─────────────────────────────────────────────────────────────
// Editor — the engine facade consumed by the host UI
// ─────────────────────────────────────────────────────────────

// Tool is the active interaction tool. The select tool manipulates existing
// elements; each element kind doubles as a one-shot creation tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolText      Tool = Tool(domain.KindText)
	ToolRectangle Tool = Tool(domain.KindRectangle)
	ToolCircle    Tool = Tool(domain.KindCircle)
	ToolTriangle  Tool = Tool(domain.KindTriangle)
)

// Editor ties the element store, history and pointer controller together
// behind the command surface the host consumes. All methods are total:
// invalid input degrades to a no-op rather than an error. The editor is
// single-threaded by construction; the host drives it from one event loop.
type Editor struct {
	store    *scene.Store
	history  *History
	renderer *render.Renderer

	background string
	tool       Tool

	// pointer gesture state, owned by controller.go
	state          gestureState
	anchorX, lastX float64
	anchorY, lastY float64
}

// New returns an editor over an empty scene with the given background color.
func New(background string) *Editor {
	return &Editor{
		store:      scene.NewStore(),
		history:    NewHistory(),
		renderer:   render.New(),
		background: background,
		tool:       ToolSelect,
	}
}

// SetActiveTool switches the active tool. Unknown values fall back to select.
func (e *Editor) SetActiveTool(t Tool) {
	switch t {
	case ToolSelect, ToolText, ToolRectangle, ToolCircle, ToolTriangle:
		e.tool = t
	default:
		e.tool = ToolSelect
	}
}

// ActiveTool returns the current tool.
func (e *Editor) ActiveTool() Tool { return e.tool }

// Elements returns the live ordered element sequence as a read-only view.
func (e *Editor) Elements() []domain.Element { return e.store.Elements() }

// SelectedID returns the selected element id, or "".
func (e *Editor) SelectedID() string { return e.store.SelectedID() }

// Select sets the selection directly (used by the host's layer list).
func (e *Editor) Select(id string) { e.store.Select(id) }

// HistoryDepth returns the number of snapshots in the undo log.
func (e *Editor) HistoryDepth() int { return e.history.Depth() }

// HistoryPos returns the history cursor position.
func (e *Editor) HistoryPos() int { return e.history.Pos() }

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// SetDefaultFontSize adjusts the size used for newly created text elements.
func (e *Editor) SetDefaultFontSize(size float64) {
	e.store.SetDefaultFontSize(size)
}

// UpdateSelectedProperties applies a partial update to the selected element
// and commits one history entry. With no selection it is a no-op.
func (e *Editor) UpdateSelectedProperties(p scene.Patch) {
	id := e.store.SelectedID()
	if id == "" {
		return
	}
	if p.Width != nil || p.Height != nil {
		el, ok := e.store.Get(id)
		if ok {
			w, h := el.Width, el.Height
			if p.Width != nil {
				w = *p.Width
			}
			if p.Height != nil {
				h = *p.Height
			}
			w, h = domain.NormalizeSize(w, h)
			p.Width, p.Height = &w, &h
		}
	}
	e.store.Update(id, p)
	e.commit()
}

// DeleteSelected removes the selected element and commits. No-op without a
// selection.
func (e *Editor) DeleteSelected() {
	id := e.store.SelectedID()
	if id == "" {
		return
	}
	e.store.Remove(id)
	e.commit()
}

// DuplicateSelected clones the selected element, selects the copy, and
// commits.
func (e *Editor) DuplicateSelected() {
	id := e.store.SelectedID()
	if id == "" {
		return
	}
	dup, ok := e.store.Duplicate(id)
	if !ok {
		return
	}
	e.store.Select(dup.ID)
	e.commit()
}

// Reorder moves the selected element one step in z-order and commits.
// Boundary moves are no-ops and do not commit.
func (e *Editor) Reorder(dir scene.Direction) {
	id := e.store.SelectedID()
	if id == "" {
		return
	}
	before := e.store.Snapshot()
	e.store.Reorder(id, dir)
	if before.Equal(e.store.Snapshot()) {
		return
	}
	e.commit()
}

// Undo restores the previous snapshot. At the floor it is a no-op.
func (e *Editor) Undo() {
	if snap, ok := e.history.Undo(); ok {
		e.store.Restore(snap)
	}
}

// Redo restores the next snapshot. With no redo history it is a no-op.
func (e *Editor) Redo() {
	if snap, ok := e.history.Redo(); ok {
		e.store.Restore(snap)
	}
}

// Snapshot returns a deep copy of the current scene and selection, suitable
// for persistence or for reading from another goroutine without tearing
// against an in-progress drag.
func (e *Editor) Snapshot() domain.Snapshot {
	return e.store.Snapshot()
}

// LoadSnapshot replaces the scene with the snapshot and resets history so
// the loaded state becomes the new undo floor.
func (e *Editor) LoadSnapshot(snap domain.Snapshot) {
	e.store.Restore(snap)
	e.history = &History{snaps: []domain.Snapshot{e.store.Snapshot()}}
	e.state = stateIdle
}

// Background returns the document background color.
func (e *Editor) Background() string { return e.background }

// SetBackground changes the document background color.
func (e *Editor) SetBackground(bg string) { e.background = bg }

// RenderTo draws the current scene into img: full clear, back-to-front
// element pass, then the selection indicator. Pure with respect to engine
// state — safe to call after every mutation.
func (e *Editor) RenderTo(img *image.RGBA) {
	e.renderer.Render(img, e.store.Elements(), e.store.SelectedID(), e.background)
}

func (e *Editor) commit() {
	e.history.Commit(e.store.Snapshot())
}
