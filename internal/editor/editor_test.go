package editor

import (
	"testing"

	"easel/internal/domain"
	"easel/internal/scene"
)

func newTestEditor() *Editor { return New("#ffffff") }

// Drag out a new element of the given kind from (x, y) to (x2, y2).
func create(e *Editor, tool Tool, x, y, x2, y2 float64) domain.Element {
	e.SetActiveTool(tool)
	e.PointerDown(x, y)
	e.PointerMove(x2, y2)
	e.PointerUp()
	els := e.Elements()
	return els[len(els)-1]
}

func TestCreateResizeUndoRedo(t *testing.T) {
	e := newTestEditor()
	el := create(e, ToolRectangle, 10, 10, 60, 50)

	if el.X != 10 || el.Y != 10 {
		t.Fatalf("element anchored at (%v, %v), want (10, 10)", el.X, el.Y)
	}
	if el.Width != 50 || el.Height != 40 {
		t.Fatalf("dragged-out size %vx%v, want 50x40", el.Width, el.Height)
	}
	if e.SelectedID() != el.ID {
		t.Fatal("the created element should be selected")
	}

	e.Undo()
	if len(e.Elements()) != 0 {
		t.Fatal("undoing creation should return to the empty scene")
	}

	e.Redo()
	els := e.Elements()
	if len(els) != 1 || els[0].ID != el.ID {
		t.Fatal("redo should restore the created element with its id")
	}
	if els[0].Width != 50 || els[0].Height != 40 {
		t.Fatal("redo should restore the element at its final size")
	}
}

func TestCreationToolIsOneShot(t *testing.T) {
	e := newTestEditor()
	create(e, ToolCircle, 0, 0, 30, 30)
	if e.ActiveTool() != ToolSelect {
		t.Fatalf("tool should snap back to select, got %q", e.ActiveTool())
	}

	// The next click on empty canvas must select (nothing), not create.
	e.PointerDown(500, 500)
	e.PointerUp()
	if len(e.Elements()) != 1 {
		t.Fatal("a second click must not create another element")
	}
}

func TestCreationGestureIsOneCommit(t *testing.T) {
	e := newTestEditor()
	e.SetActiveTool(ToolRectangle)
	e.PointerDown(0, 0)
	e.PointerMove(20, 20)
	e.PointerMove(40, 40)
	e.PointerMove(60, 60)
	e.PointerUp()

	e.Undo()
	if len(e.Elements()) != 0 {
		t.Fatal("one undo should unwind the whole creation gesture")
	}
}

func TestResizeIsNormalizedMidGesture(t *testing.T) {
	e := newTestEditor()
	e.SetActiveTool(ToolRectangle)
	e.PointerDown(10, 10)
	e.PointerMove(10, 10) // zero drag, before pointer-up

	els := e.Elements()
	if els[0].Width < domain.MinSize || els[0].Height < domain.MinSize {
		t.Fatalf("mid-gesture size %vx%v below the minimum; a render here would see it",
			els[0].Width, els[0].Height)
	}
	e.PointerUp()
}

func TestDegenerateCreateClampsSize(t *testing.T) {
	e := newTestEditor()
	el := create(e, ToolRectangle, 10, 10, 10, 10)
	if el.Width < domain.MinSize || el.Height < domain.MinSize {
		t.Fatalf("zero-drag creation left a degenerate size %vx%v", el.Width, el.Height)
	}
}

func TestDragAccumulatesIncrementally(t *testing.T) {
	e := newTestEditor()
	el := create(e, ToolRectangle, 10, 10, 110, 110)

	e.PointerDown(50, 50) // inside the element
	e.PointerMove(60, 55)
	e.PointerMove(70, 60)
	e.PointerMove(80, 70)
	e.PointerUp()

	got, _ := elementByID(e, el.ID)
	if got.X != 40 || got.Y != 30 {
		t.Fatalf("drag landed at (%v, %v), want (40, 30)", got.X, got.Y)
	}

	// The whole drag is a single history step.
	e.Undo()
	got, _ = elementByID(e, el.ID)
	if got.X != 10 || got.Y != 10 {
		t.Fatalf("one undo should unwind the whole drag, got (%v, %v)", got.X, got.Y)
	}
}

func TestClickEmptyCanvasClearsSelection(t *testing.T) {
	e := newTestEditor()
	create(e, ToolRectangle, 10, 10, 60, 60)
	if e.SelectedID() == "" {
		t.Fatal("creation should leave the element selected")
	}
	e.PointerDown(500, 500)
	e.PointerUp()
	if e.SelectedID() != "" {
		t.Fatal("clicking empty canvas must clear the selection")
	}
}

func TestSelectClickPicksTopmost(t *testing.T) {
	e := newTestEditor()
	create(e, ToolRectangle, 0, 0, 100, 100)
	top := create(e, ToolCircle, 0, 0, 100, 100)

	e.PointerDown(50, 50)
	e.PointerUp()
	if e.SelectedID() != top.ID {
		t.Fatal("click should select the front-most element under the pointer")
	}
}

func TestCommitAfterUndoDiscardsRedo(t *testing.T) {
	e := newTestEditor()
	a := create(e, ToolRectangle, 0, 0, 50, 50)
	create(e, ToolCircle, 200, 200, 250, 250)

	e.Undo() // back to just A
	if len(e.Elements()) != 1 {
		t.Fatal("undo should remove the second element")
	}

	create(e, ToolTriangle, 400, 400, 450, 450)
	if e.CanRedo() {
		t.Fatal("a new commit after undo must discard the redo branch")
	}

	e.Undo()
	els := e.Elements()
	if len(els) != 1 || els[0].ID != a.ID {
		t.Fatal("undo should land on the shared past with only the first element")
	}
}

func TestReorderScenario(t *testing.T) {
	e := newTestEditor()
	a := create(e, ToolRectangle, 0, 0, 50, 50)
	b := create(e, ToolCircle, 0, 0, 50, 50)

	// B is front-most; bring A forward past it.
	e.Select(a.ID)
	e.Reorder(scene.Forward)

	els := e.Elements()
	if els[0].ID != b.ID || els[1].ID != a.ID {
		t.Fatal("forward reorder should put the first element on top")
	}

	// A is now front-most; a further forward move does nothing and leaves
	// no history entry.
	pos := e.HistoryPos()
	e.Reorder(scene.Forward)
	if e.HistoryPos() != pos {
		t.Fatal("a boundary reorder must not commit")
	}

	e.Undo()
	els = e.Elements()
	if els[0].ID != a.ID || els[1].ID != b.ID {
		t.Fatal("undo should restore the original stacking order")
	}
}

func TestUpdateSelectedPropertiesNormalizesSize(t *testing.T) {
	e := newTestEditor()
	create(e, ToolRectangle, 0, 0, 50, 50)

	w, h := -20.0, 0.0
	e.UpdateSelectedProperties(scene.Patch{Width: &w, Height: &h})

	els := e.Elements()
	if els[0].Width != 20 || els[0].Height != domain.MinSize {
		t.Fatalf("size should normalize to (20, %v), got (%v, %v)",
			domain.MinSize, els[0].Width, els[0].Height)
	}
}

func TestUpdateWithoutSelectionIsNoop(t *testing.T) {
	e := newTestEditor()
	create(e, ToolRectangle, 0, 0, 50, 50)
	e.Select("")
	pos := e.HistoryPos()

	x := 99.0
	e.UpdateSelectedProperties(scene.Patch{X: &x})
	if e.HistoryPos() != pos {
		t.Fatal("property update without a selection must not commit")
	}
}

func TestDeleteAndDuplicateSelected(t *testing.T) {
	e := newTestEditor()
	el := create(e, ToolRectangle, 10, 10, 60, 60)

	e.DuplicateSelected()
	els := e.Elements()
	if len(els) != 2 {
		t.Fatal("duplicate should add one element")
	}
	dup := els[1]
	if dup.ID == el.ID {
		t.Fatal("duplicate must carry a fresh id")
	}
	if e.SelectedID() != dup.ID {
		t.Fatal("the duplicate should become the selection")
	}

	e.DeleteSelected()
	if len(e.Elements()) != 1 || e.SelectedID() != "" {
		t.Fatal("delete should remove the duplicate and clear selection")
	}

	e.Undo()
	if len(e.Elements()) != 2 {
		t.Fatal("undo should bring the duplicate back")
	}
}

func TestLoadSnapshotResetsHistoryFloor(t *testing.T) {
	e := newTestEditor()
	create(e, ToolRectangle, 0, 0, 50, 50)
	snap := e.Snapshot()

	e2 := newTestEditor()
	e2.LoadSnapshot(snap)
	if e2.CanUndo() {
		t.Fatal("a loaded document must start with no undo history")
	}
	e2.Undo()
	if len(e2.Elements()) != 1 {
		t.Fatal("undo on a loaded document must not fall through to an empty scene")
	}
}

func TestUnknownToolFallsBackToSelect(t *testing.T) {
	e := newTestEditor()
	e.SetActiveTool(Tool("lasso"))
	if e.ActiveTool() != ToolSelect {
		t.Fatalf("unknown tool should degrade to select, got %q", e.ActiveTool())
	}
}

func elementByID(e *Editor, id string) (domain.Element, bool) {
	for _, el := range e.Elements() {
		if el.ID == id {
			return el, true
		}
	}
	return domain.Element{}, false
}
