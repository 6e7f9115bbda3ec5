package tools

import (
	"image-annotator/internal/annotation"
	"image-annotator/internal/store"
	"image-annotator/pkg/geometry"
)

// BoundingBoxTool draws new bounding boxes and moves or resizes existing
// ones.
//
// States: idle, drawing, dragging, resizing. A pointer-down on empty space
// starts a drawing gesture; on a handle of the selection, a resize; on an
// annotation body, a drag. Drawing commits only when the normalized,
// clamped rectangle is at least MinBoxSize in both dimensions.
type BoundingBoxTool struct {
	editGesture
	cb     Callbacks
	active bool

	start   geometry.Point
	current geometry.Point
	cursor  string
}

// NewBoundingBoxTool creates the bounding-box tool bound to a store.
func NewBoundingBoxTool(st *store.Store, cb Callbacks) *BoundingBoxTool {
	return &BoundingBoxTool{
		editGesture: editGesture{st: st},
		cb:          cb,
		cursor:      "crosshair",
	}
}

// Kind returns the tool identifier.
func (t *BoundingBoxTool) Kind() store.ToolKind {
	return store.ToolBBox
}

// OnActivate marks the tool live and resets the canvas mode.
func (t *BoundingBoxTool) OnActivate() {
	t.active = true
	t.cursor = "crosshair"
	t.st.SetActiveTool(store.ToolBBox)
}

// OnDeactivate cancels any in-flight gesture.
func (t *BoundingBoxTool) OnDeactivate() {
	t.cancelDrawing()
	t.cancel()
	t.active = false
}

// Active reports whether the tool is live.
func (t *BoundingBoxTool) Active() bool {
	return t.active
}

// OnPointerDown starts a resize, drag, or drawing gesture depending on
// what lies under the pointer.
func (t *BoundingBoxTool) OnPointerDown(ev PointerEvent) {
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
		return
	}

	// Empty space: begin drawing a new box.
	t.phase = phaseDrawing
	t.start = p
	t.current = p
	t.st.Select("")
	t.st.SetMode(store.ModeDraw)
	start, current := t.start, t.current
	t.st.SetDrawing(&start, &current)
	t.cursor = "crosshair"
}

// OnPointerMove updates the drawing preview or the in-flight gesture; when
// idle it tracks hover state and the cursor.
func (t *BoundingBoxTool) OnPointerMove(ev PointerEvent) {
	if !t.active {
		return
	}
	p := ev.Position

	switch t.phase {
	case phaseDrawing:
		t.current = p
		start, current := t.start, t.current
		t.st.SetDrawing(&start, &current)
	case phaseDragging, phaseResizing:
		t.move(p)
	default:
		if a := annotationAt(t.st, p); a != nil {
			t.st.Hover(a.ID)
		} else {
			t.st.Hover("")
		}
		t.cursor = t.hoverCursor(p, "crosshair")
	}
}

// OnPointerUp completes the current gesture. A finished drawing gesture
// commits a new annotation when the resulting rectangle is large enough
// and is silently discarded otherwise.
func (t *BoundingBoxTool) OnPointerUp(ev PointerEvent) {
	if !t.active {
		return
	}
	switch t.phase {
	case phaseDrawing:
		// Clamp both corners so a draw past the image border clips the
		// box in place instead of sliding it back inside.
		canvas := t.st.Canvas()
		rect := geometry.RectFromPoints(
			t.start.Clamp(canvas.ImageWidth, canvas.ImageHeight),
			ev.Position.Clamp(canvas.ImageWidth, canvas.ImageHeight),
		)
		t.clearDrawing()
		if rect.Width >= MinBoxSize && rect.Height >= MinBoxSize {
			a := annotation.New(annotation.TypeBBox, rect)
			if err := t.st.Add(a); err == nil {
				t.st.Select(a.ID)
				if t.cb.OnCreate != nil {
					t.cb.OnCreate(t.st.Get(a.ID))
				}
			}
		}
	case phaseDragging, phaseResizing:
		t.finish()
		t.cursor = "crosshair"
	}
}

// OnKeyDown handles deletion of the selection and escape.
func (t *BoundingBoxTool) OnKeyDown(ev KeyEvent) {
	if !t.active {
		return
	}
	switch ev.Key {
	case KeyDelete, KeyBackspace:
		t.deleteSelection(t.cb)
	case KeyEscape:
		if t.phase == phaseDrawing {
			t.cancelDrawing()
		} else {
			t.st.Select("")
		}
	}
}

// Cursor returns the cursor for the tool's current state.
func (t *BoundingBoxTool) Cursor() string {
	switch t.phase {
	case phaseDrawing:
		return "crosshair"
	case phaseDragging:
		return "move"
	case phaseResizing:
		return t.handle.Cursor()
	default:
		return t.cursor
	}
}

// clearDrawing ends the drawing gesture without touching the selection.
func (t *BoundingBoxTool) clearDrawing() {
	if t.phase != phaseDrawing {
		return
	}
	t.phase = phaseIdle
	t.st.SetDrawing(nil, nil)
	t.st.SetMode(store.ModeView)
}

// cancelDrawing abandons an in-progress drawing gesture.
func (t *BoundingBoxTool) cancelDrawing() {
	t.clearDrawing()
}
