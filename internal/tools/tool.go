// Package tools implements the pointer/keyboard state machines for the
// editing tools. A tool receives events in image coordinates, computes new
// bounds with the geometry helpers, and requests every mutation through
// the store; it never edits annotations in place.
package tools

import (
	"image-annotator/internal/annotation"
	"image-annotator/internal/store"
	"image-annotator/pkg/geometry"
)

const (
	// HandleTolerance is the hit radius around a resize handle, in image
	// pixels.
	HandleTolerance = 8.0
	// MinBoxSize is the minimum width and height of a committed box.
	MinBoxSize = 10.0
)

// Key names dispatched to tools. The host UI translates its own key event
// type into these.
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// PointerEvent is a pointer event in image coordinates.
type PointerEvent struct {
	Position geometry.Point
}

// KeyEvent is a keyboard event dispatched to the active tool.
type KeyEvent struct {
	Key string
}

// Tool is one editing mode: a pointer/keyboard state machine.
type Tool interface {
	Kind() store.ToolKind
	OnPointerDown(PointerEvent)
	OnPointerMove(PointerEvent)
	OnPointerUp(PointerEvent)
	OnKeyDown(KeyEvent)
	OnActivate()
	OnDeactivate()
	Cursor() string
	Active() bool
}

// Callbacks notify the host about tool results, beyond the store mutations
// the tool performs itself. All fields are optional.
type Callbacks struct {
	OnCreate func(*annotation.Annotation)
	OnSelect func(*annotation.Annotation)
	OnDelete func(id string)
}

// phase is the gesture phase of a tool's state machine.
type phase int

const (
	phaseIdle phase = iota
	phaseDrawing
	phaseDragging
	phaseResizing
)

// annotationAt returns the topmost annotation whose bounds contain p.
// Later annotations draw on top, so the list is scanned back to front.
func annotationAt(st *store.Store, p geometry.Point) *annotation.Annotation {
	list := st.Annotations()
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Bounds.Contains(p) {
			return list[i]
		}
	}
	return nil
}

// editGesture carries the drag/resize state machine shared by the select
// and bounding-box tools.
type editGesture struct {
	st    *store.Store
	phase phase

	id          string
	startBounds geometry.Rect
	dragOffset  geometry.Point
	handle      geometry.Handle
}

// beginResize starts a resize gesture on the selected annotation if p hits
// one of its handles.
func (g *editGesture) beginResize(p geometry.Point) bool {
	sel := g.st.Selected()
	if sel == nil {
		return false
	}
	h := geometry.HandleAt(p, sel.Bounds, HandleTolerance)
	if h == geometry.HandleNone {
		return false
	}
	g.phase = phaseResizing
	g.id = sel.ID
	g.startBounds = sel.Bounds
	g.handle = h
	g.st.MarkResizing(sel.ID, h)
	g.st.SetMode(store.ModeEdit)
	return true
}

// beginDrag starts a drag gesture if p lands on an annotation body. The
// annotation becomes selected.
func (g *editGesture) beginDrag(p geometry.Point) *annotation.Annotation {
	a := annotationAt(g.st, p)
	if a == nil {
		return nil
	}
	g.phase = phaseDragging
	g.id = a.ID
	g.startBounds = a.Bounds
	g.dragOffset = p.Sub(a.Bounds.Origin())
	g.st.Select(a.ID)
	g.st.MarkDragging(a.ID, true)
	g.st.SetMode(store.ModeEdit)
	return a
}

// move applies the in-flight gesture at pointer position p via transient
// (unlogged) bounds updates.
func (g *editGesture) move(p geometry.Point) {
	switch g.phase {
	case phaseResizing:
		bounds := geometry.ApplyResize(g.startBounds, g.handle, p, MinBoxSize)
		g.st.SetBounds(g.id, bounds)
	case phaseDragging:
		origin := p.Sub(g.dragOffset)
		g.st.SetBounds(g.id, geometry.Rect{
			X: origin.X, Y: origin.Y,
			Width: g.startBounds.Width, Height: g.startBounds.Height,
		})
	}
}

// finish commits the gesture as a single logged move or resize action and
// returns the tool to idle. A gesture that left the bounds where they
// started logs nothing, so a plain click never disturbs the redo stack.
func (g *editGesture) finish() {
	switch g.phase {
	case phaseResizing:
		if a := g.st.Get(g.id); a != nil {
			g.st.MarkResizing(g.id, geometry.HandleNone)
			if a.Bounds != g.startBounds {
				g.st.Resize(g.id, g.startBounds, a.Bounds)
			}
		}
		g.st.SetMode(store.ModeView)
	case phaseDragging:
		if a := g.st.Get(g.id); a != nil {
			g.st.MarkDragging(g.id, false)
			if a.Bounds.Origin() != g.startBounds.Origin() {
				g.st.Move(g.id, g.startBounds.Origin(), a.Bounds.Origin())
			}
		}
		g.st.SetMode(store.ModeView)
	}
	g.phase = phaseIdle
	g.id = ""
	g.handle = geometry.HandleNone
}

// cancel abandons the gesture, restoring the annotation's starting bounds.
func (g *editGesture) cancel() {
	switch g.phase {
	case phaseResizing:
		g.st.MarkResizing(g.id, geometry.HandleNone)
		g.st.SetBounds(g.id, g.startBounds)
		g.st.SetMode(store.ModeView)
	case phaseDragging:
		g.st.MarkDragging(g.id, false)
		g.st.SetBounds(g.id, g.startBounds)
		g.st.SetMode(store.ModeView)
	}
	g.phase = phaseIdle
	g.id = ""
	g.handle = geometry.HandleNone
}

// hoverCursor returns the cursor for an idle pointer position: a resize
// cursor over a handle of the selection, move over a body, fallback
// otherwise.
func (g *editGesture) hoverCursor(p geometry.Point, fallback string) string {
	if sel := g.st.Selected(); sel != nil {
		if h := geometry.HandleAt(p, sel.Bounds, HandleTolerance); h != geometry.HandleNone {
			return h.Cursor()
		}
	}
	if annotationAt(g.st, p) != nil {
		return "move"
	}
	return fallback
}

// deleteSelection deletes the selected annotation, if any.
func (g *editGesture) deleteSelection(cb Callbacks) {
	sel := g.st.Selected()
	if sel == nil {
		return
	}
	id := sel.ID
	g.st.Delete(id)
	g.st.Select("")
	if cb.OnDelete != nil {
		cb.OnDelete(id)
	}
}
