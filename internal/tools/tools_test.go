package tools

import (
	"testing"

	"image-annotator/internal/annotation"
	"image-annotator/internal/store"
	"image-annotator/pkg/geometry"
)

func newTestStore() *store.Store {
	s := store.New("test")
	s.SetImageSize(1000, 800)
	return s
}

func addBox(t *testing.T, st *store.Store, x, y, w, h float64) *annotation.Annotation {
	t.Helper()
	a := annotation.New(annotation.TypeBBox, geometry.Rect{X: x, Y: y, Width: w, Height: h})
	if err := st.Add(a); err != nil {
		t.Fatal(err)
	}
	return st.Get(a.ID)
}

func press(tl Tool, x, y float64) {
	tl.OnPointerDown(PointerEvent{Position: geometry.Point{X: x, Y: y}})
}

func moveTo(tl Tool, x, y float64) {
	tl.OnPointerMove(PointerEvent{Position: geometry.Point{X: x, Y: y}})
}

func release(tl Tool, x, y float64) {
	tl.OnPointerUp(PointerEvent{Position: geometry.Point{X: x, Y: y}})
}

func TestBBoxDrawCommits(t *testing.T) {
	st := newTestStore()
	var created *annotation.Annotation
	tool := NewBoundingBoxTool(st, Callbacks{
		OnCreate: func(a *annotation.Annotation) { created = a },
	})
	tool.OnActivate()

	press(tool, 100, 100)
	moveTo(tool, 150, 130)
	release(tool, 200, 160)

	if st.Len() != 1 {
		t.Fatalf("annotations = %d, want 1", st.Len())
	}
	a := st.Annotations()[0]
	want := geometry.Rect{X: 100, Y: 100, Width: 100, Height: 60}
	if a.Bounds != want {
		t.Errorf("bounds = %v, want %v", a.Bounds, want)
	}
	if created == nil || created.ID != a.ID {
		t.Error("OnCreate not called with the committed annotation")
	}
	// The new box becomes the selection.
	if sel := st.Selected(); sel == nil || sel.ID != a.ID {
		t.Error("new box not selected")
	}
	// The drawing preview is gone.
	if c := st.Canvas(); c.Drawing || c.Mode != store.ModeView {
		t.Errorf("canvas after commit = %+v", c)
	}
}

func TestBBoxDrawUpLeftCommitsNormalized(t *testing.T) {
	st := newTestStore()
	tool := NewBoundingBoxTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 200, 160)
	release(tool, 100, 100)

	if st.Len() != 1 {
		t.Fatalf("annotations = %d", st.Len())
	}
	want := geometry.Rect{X: 100, Y: 100, Width: 100, Height: 60}
	if got := st.Annotations()[0].Bounds; got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestBBoxDrawTooSmallIsDiscarded(t *testing.T) {
	st := newTestStore()
	tool := NewBoundingBoxTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 100, 100)
	release(tool, 105, 105)

	if st.Len() != 0 {
		t.Errorf("tiny box committed, annotations = %d", st.Len())
	}
	if st.CanUndo() {
		t.Error("discarded draw logged an action")
	}
	if c := st.Canvas(); c.Drawing {
		t.Error("drawing preview still set")
	}
}

func TestBBoxDrawClampsToImage(t *testing.T) {
	st := newTestStore()
	tool := NewBoundingBoxTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 950, 750)
	release(tool, 1200, 1000)

	if st.Len() != 1 {
		t.Fatalf("annotations = %d", st.Len())
	}
	want := geometry.Rect{X: 950, Y: 750, Width: 50, Height: 50}
	if got := st.Annotations()[0].Bounds; got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestBBoxDrawPreview(t *testing.T) {
	st := newTestStore()
	tool := NewBoundingBoxTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 100, 100)
	moveTo(tool, 180, 150)

	c := st.Canvas()
	if !c.Drawing || c.Mode != store.ModeDraw {
		t.Fatalf("canvas = %+v", c)
	}
	if c.DrawStart == nil || c.DrawCurrent == nil {
		t.Fatal("preview points not set")
	}
	if *c.DrawStart != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("start = %v", *c.DrawStart)
	}
	if *c.DrawCurrent != (geometry.Point{X: 180, Y: 150}) {
		t.Errorf("current = %v", *c.DrawCurrent)
	}
}

func TestBBoxEscapeCancelsDrawing(t *testing.T) {
	st := newTestStore()
	tool := NewBoundingBoxTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 100, 100)
	moveTo(tool, 200, 200)
	tool.OnKeyDown(KeyEvent{Key: KeyEscape})

	if c := st.Canvas(); c.Drawing || c.Mode != store.ModeView {
		t.Errorf("canvas = %+v", c)
	}

	// The release that follows the cancelled gesture commits nothing.
	release(tool, 200, 200)
	if st.Len() != 0 {
		t.Errorf("annotations = %d", st.Len())
	}
}

func TestDragCommitsSingleMoveAction(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 120, 120)
	moveTo(tool, 140, 130)
	moveTo(tool, 170, 150)
	release(tool, 170, 150)

	got := st.Get(a.ID)
	want := geometry.Rect{X: 150, Y: 130, Width: 50, Height: 50}
	if got.Bounds != want {
		t.Errorf("bounds = %v, want %v", got.Bounds, want)
	}

	// One add plus one move, despite two intermediate pointer moves.
	history, idx := st.History()
	if len(history) != 2 || idx != 1 {
		t.Fatalf("history len=%d idx=%d", len(history), idx)
	}
	if history[1].Type != store.ActionMove {
		t.Errorf("logged %v, want move", history[1].Type)
	}

	st.Undo()
	if got := st.Get(a.ID).Bounds; got != (geometry.Rect{X: 100, Y: 100, Width: 50, Height: 50}) {
		t.Errorf("bounds after undo = %v", got)
	}
}

func TestDragSelects(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	var selected *annotation.Annotation
	tool := NewSelectTool(st, Callbacks{
		OnSelect: func(x *annotation.Annotation) { selected = x },
	})
	tool.OnActivate()

	press(tool, 120, 120)
	if sel := st.Selected(); sel == nil || sel.ID != a.ID {
		t.Error("press on body did not select")
	}
	if selected == nil || selected.ID != a.ID {
		t.Error("OnSelect not called")
	}
	release(tool, 120, 120)
}

func TestClickWithoutMoveLogsNothing(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	addBox(t, st, 300, 300, 50, 50)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	// Undo the second add so a redo branch exists.
	st.Undo()
	if !st.CanRedo() {
		t.Fatal("no redo branch after undo")
	}

	press(tool, 120, 120)
	release(tool, 120, 120)

	if sel := st.Selected(); sel == nil || sel.ID != a.ID {
		t.Error("click did not select")
	}
	history, idx := st.History()
	if len(history) != 2 || idx != 0 {
		t.Errorf("history len=%d idx=%d after plain click", len(history), idx)
	}
	if !st.CanRedo() {
		t.Fatal("plain click dropped the redo branch")
	}
	st.Redo()
	if st.Len() != 2 {
		t.Error("redo after click did not restore the undone add")
	}
	if got := st.Get(a.ID); got.Dragging {
		t.Error("drag flag not cleared after click")
	}
}

func TestResizeGrabWithoutMoveLogsNothing(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	// Grab the se handle and let go without pulling.
	press(tool, 150, 150)
	release(tool, 150, 150)

	if history, _ := st.History(); len(history) != 1 {
		t.Errorf("history len = %d, want 1", len(history))
	}
	if got := st.Get(a.ID); got.ResizeHandle != geometry.HandleNone || got.Editing {
		t.Error("resize flags not cleared")
	}
}

func TestResizeCommitsSingleResizeAction(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	// Grab the se corner and pull it out.
	press(tool, 150, 150)
	moveTo(tool, 180, 170)
	moveTo(tool, 200, 190)
	release(tool, 200, 190)

	got := st.Get(a.ID)
	want := geometry.Rect{X: 100, Y: 100, Width: 100, Height: 90}
	if got.Bounds != want {
		t.Errorf("bounds = %v, want %v", got.Bounds, want)
	}

	history, _ := st.History()
	if last := history[len(history)-1]; last.Type != store.ActionResize {
		t.Errorf("logged %v, want resize", last.Type)
	}
	if got.ResizeHandle != geometry.HandleNone || got.Editing {
		t.Error("resize flags not cleared after release")
	}

	st.Undo()
	if got := st.Get(a.ID).Bounds; got != (geometry.Rect{X: 100, Y: 100, Width: 50, Height: 50}) {
		t.Errorf("bounds after undo = %v", got)
	}
}

func TestResizeRespectsMinimum(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	// Drag the se corner through the opposite corner.
	press(tool, 150, 150)
	moveTo(tool, 90, 90)
	release(tool, 90, 90)

	got := st.Get(a.ID).Bounds
	if got.Width != MinBoxSize || got.Height != MinBoxSize {
		t.Errorf("bounds = %v, want %vx%v", got, MinBoxSize, MinBoxSize)
	}
}

func TestResizeOnlyOnSelection(t *testing.T) {
	st := newTestStore()
	addBox(t, st, 100, 100, 50, 50)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	// Nothing selected, so a press on the corner starts a drag, not a resize.
	press(tool, 150, 150)
	if c := tool.Cursor(); c != "move" {
		t.Errorf("cursor = %q, want move", c)
	}
	release(tool, 150, 150)
}

func TestSelectEmptySpaceClears(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	press(tool, 500, 500)
	if st.Selected() != nil {
		t.Error("press on empty space kept the selection")
	}
	release(tool, 500, 500)
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	var deleted string
	tool := NewSelectTool(st, Callbacks{
		OnDelete: func(id string) { deleted = id },
	})
	tool.OnActivate()

	tool.OnKeyDown(KeyEvent{Key: KeyDelete})
	if st.Len() != 0 {
		t.Error("selection not deleted")
	}
	if deleted != a.ID {
		t.Errorf("OnDelete got %q, want %q", deleted, a.ID)
	}

	// Backspace behaves like delete.
	b := addBox(t, st, 100, 100, 50, 50)
	st.Select(b.ID)
	tool.OnKeyDown(KeyEvent{Key: KeyBackspace})
	if st.Get(b.ID) != nil {
		t.Error("backspace did not delete")
	}
}

func TestDeleteKeyWithoutSelection(t *testing.T) {
	st := newTestStore()
	addBox(t, st, 100, 100, 50, 50)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	tool.OnKeyDown(KeyEvent{Key: KeyDelete})
	if st.Len() != 1 {
		t.Error("delete without selection removed an annotation")
	}
}

func TestEscapeClearsSelection(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	tool.OnKeyDown(KeyEvent{Key: KeyEscape})
	if st.Selected() != nil {
		t.Error("escape kept the selection")
	}
}

func TestHoverTracking(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	moveTo(tool, 120, 120)
	if got := st.Canvas().HoveredID; got != a.ID {
		t.Errorf("hovered = %q, want %q", got, a.ID)
	}

	moveTo(tool, 500, 500)
	if got := st.Canvas().HoveredID; got != "" {
		t.Errorf("hovered = %q, want empty", got)
	}
}

func TestHoverCursorOverHandle(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	st.Select(a.ID)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	moveTo(tool, 150, 150)
	if got := tool.Cursor(); got != "nwse-resize" {
		t.Errorf("cursor over se handle = %q", got)
	}

	moveTo(tool, 125, 125)
	if got := tool.Cursor(); got != "move" {
		t.Errorf("cursor over body = %q", got)
	}

	moveTo(tool, 500, 500)
	if got := tool.Cursor(); got != "default" {
		t.Errorf("cursor over empty space = %q", got)
	}
}

func TestTopmostAnnotationWins(t *testing.T) {
	st := newTestStore()
	addBox(t, st, 100, 100, 100, 100)
	top := addBox(t, st, 150, 150, 100, 100)
	tool := NewSelectTool(st, Callbacks{})
	tool.OnActivate()

	// The overlap region belongs to the annotation added last.
	press(tool, 175, 175)
	if sel := st.Selected(); sel == nil || sel.ID != top.ID {
		t.Error("overlapping press did not pick the topmost annotation")
	}
	release(tool, 175, 175)
}

func TestManagerActivate(t *testing.T) {
	st := newTestStore()
	m := NewManager(st, Callbacks{})

	if m.Active().Kind() != store.ToolSelect {
		t.Fatalf("initial tool = %v", m.Active().Kind())
	}

	m.Activate(store.ToolBBox)
	if m.Active().Kind() != store.ToolBBox {
		t.Errorf("active = %v", m.Active().Kind())
	}
	if st.Canvas().ActiveTool != store.ToolBBox {
		t.Error("store not told about the tool switch")
	}

	// Reserved kinds are ignored.
	m.Activate(store.ToolPolygon)
	if m.Active().Kind() != store.ToolBBox {
		t.Error("reserved tool kind changed the active tool")
	}
	m.Activate(store.ToolKind("laser"))
	if m.Active().Kind() != store.ToolBBox {
		t.Error("unknown tool kind changed the active tool")
	}
}

func TestManagerKeyboardSwitching(t *testing.T) {
	st := newTestStore()
	m := NewManager(st, Callbacks{})

	m.KeyDown(KeyEvent{Key: "b"})
	if m.Active().Kind() != store.ToolBBox {
		t.Errorf("after b: %v", m.Active().Kind())
	}
	m.KeyDown(KeyEvent{Key: "V"})
	if m.Active().Kind() != store.ToolSelect {
		t.Errorf("after V: %v", m.Active().Kind())
	}
}

func TestManagerSwitchCancelsGesture(t *testing.T) {
	st := newTestStore()
	m := NewManager(st, Callbacks{})
	m.Activate(store.ToolBBox)

	m.PointerDown(PointerEvent{Position: geometry.Point{X: 100, Y: 100}})
	m.PointerMove(PointerEvent{Position: geometry.Point{X: 200, Y: 200}})
	m.Activate(store.ToolSelect)

	if c := st.Canvas(); c.Drawing {
		t.Error("drawing preview survived the tool switch")
	}
	if st.Len() != 0 {
		t.Error("tool switch committed the unfinished draw")
	}
}

func TestSwitchCancelsDragMidGesture(t *testing.T) {
	st := newTestStore()
	a := addBox(t, st, 100, 100, 50, 50)
	m := NewManager(st, Callbacks{})

	m.PointerDown(PointerEvent{Position: geometry.Point{X: 120, Y: 120}})
	m.PointerMove(PointerEvent{Position: geometry.Point{X: 300, Y: 300}})
	m.Activate(store.ToolBBox)

	// The cancel restores the starting bounds and logs nothing beyond the add.
	got := st.Get(a.ID)
	if got.Bounds != (geometry.Rect{X: 100, Y: 100, Width: 50, Height: 50}) {
		t.Errorf("bounds = %v", got.Bounds)
	}
	if history, _ := st.History(); len(history) != 1 {
		t.Errorf("history len = %d, want 1", len(history))
	}
}
