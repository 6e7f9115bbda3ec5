package tools

import (
	"image-annotator/internal/store"
)

// SelectTool selects, moves, and resizes existing annotations. It shares
// the drag and resize state machine with BoundingBoxTool but never creates
// annotations, so it can be offered as a pure editing mode.
type SelectTool struct {
	editGesture
	cb     Callbacks
	active bool
	cursor string
}

// NewSelectTool creates the select tool bound to a store.
func NewSelectTool(st *store.Store, cb Callbacks) *SelectTool {
	return &SelectTool{
		editGesture: editGesture{st: st},
		cb:          cb,
		cursor:      "default",
	}
}

// Kind returns the tool identifier.
func (t *SelectTool) Kind() store.ToolKind {
	return store.ToolSelect
}

// OnActivate marks the tool live.
func (t *SelectTool) OnActivate() {
	t.active = true
	t.cursor = "default"
	t.st.SetActiveTool(store.ToolSelect)
}

// OnDeactivate cancels any in-flight gesture.
func (t *SelectTool) OnDeactivate() {
	t.cancel()
	t.active = false
}

// Active reports whether the tool is live.
func (t *SelectTool) Active() bool {
	return t.active
}

// OnPointerDown selects and begins dragging the annotation under the
// pointer, begins resizing when a handle of the selection is hit, or
// clears the selection on empty space.
func (t *SelectTool) OnPointerDown(ev PointerEvent) {
	if !t.active || t.phase != phaseIdle {
		return
	}
	p := ev.Position

	if t.beginResize(p) {
		t.cursor = t.handle.Cursor()
		return
	}
	if a := t.beginDrag(p); a != nil {
		t.cursor = "move"
		if t.cb.OnSelect != nil {
			t.cb.OnSelect(a)
		}
		return
	}

	t.st.Select("")
	if t.cb.OnSelect != nil {
		t.cb.OnSelect(nil)
	}
}

// OnPointerMove advances the in-flight gesture or tracks hover state.
func (t *SelectTool) OnPointerMove(ev PointerEvent) {
	if !t.active {
		return
	}
	p := ev.Position

	switch t.phase {
	case phaseDragging, phaseResizing:
		t.move(p)
	default:
		if a := annotationAt(t.st, p); a != nil {
			t.st.Hover(a.ID)
		} else {
			t.st.Hover("")
		}
		t.cursor = t.hoverCursor(p, "default")
	}
}

// OnPointerUp commits the in-flight gesture.
func (t *SelectTool) OnPointerUp(ev PointerEvent) {
	if !t.active {
		return
	}
	if t.phase == phaseDragging || t.phase == phaseResizing {
		t.finish()
		t.cursor = "default"
	}
}

// OnKeyDown handles deletion of the selection and escape.
func (t *SelectTool) OnKeyDown(ev KeyEvent) {
	if !t.active {
		return
	}
	switch ev.Key {
	case KeyDelete, KeyBackspace:
		t.deleteSelection(t.cb)
		if t.cb.OnSelect != nil {
			t.cb.OnSelect(nil)
		}
	case KeyEscape:
		t.st.Select("")
		if t.cb.OnSelect != nil {
			t.cb.OnSelect(nil)
		}
	}
}

// Cursor returns the cursor for the tool's current state.
func (t *SelectTool) Cursor() string {
	switch t.phase {
	case phaseDragging:
		return "move"
	case phaseResizing:
		return t.handle.Cursor()
	default:
		return t.cursor
	}
}
