// Package store holds the canonical annotation list, the canvas state, and
// the action-logged undo/redo history. It is the only place mutations are
// committed; tools request changes through it and never edit annotations
// in place.
package store

import (
	"fmt"
	"sync"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// EventType identifies store change events.
type EventType int

const (
	EventAnnotationsChanged EventType = iota
	EventSelectionChanged
	EventHoverChanged
	EventHistoryChanged
	EventCanvasChanged
	EventToolChanged
	EventError
)

// Listener is called when an event occurs.
type Listener func(data interface{})

// Store is the single source of truth for the annotation editor.
type Store struct {
	mu sync.RWMutex

	id          string
	annotations []*annotation.Annotation
	canvas      CanvasState

	history      []Action
	historyIndex int
	maxHistory   int

	lastError string
	listeners map[EventType][]Listener
}

// New creates an empty store identified by id (used as the local
// persistence key).
func New(id string) *Store {
	return &Store{
		id:           id,
		canvas:       defaultCanvasState(),
		historyIndex: -1,
		maxHistory:   DefaultMaxHistory,
		listeners:    make(map[EventType][]Listener),
	}
}

// ID returns the store's persistence key.
func (s *Store) ID() string {
	return s.id
}

// SetMaxHistory overrides the history bound. Values below 1 are ignored.
func (s *Store) SetMaxHistory(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	s.maxHistory = n
	s.mu.Unlock()
}

// On registers an event listener for the specified event type.
func (s *Store) On(event EventType, listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Store) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Annotations returns a snapshot of the annotation list. The annotations
// themselves are shared; callers must not mutate them.
func (s *Store) Annotations() []*annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*annotation.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.annotations)
}

// Get returns the annotation with the given id, or nil.
func (s *Store) Get(id string) *annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// Selected returns the currently selected annotation, or nil.
func (s *Store) Selected() *annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.canvas.SelectedID == "" {
		return nil
	}
	return s.findLocked(s.canvas.SelectedID)
}

// Add validates and commits a new annotation, logging an add action.
func (s *Store) Add(a *annotation.Annotation) error {
	s.mu.Lock()
	if err := a.Validate(s.canvas.ImageWidth, s.canvas.ImageHeight); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("add annotation: %w", err)
	}
	committed := a.Clone()
	s.annotations = append(s.annotations, committed)
	s.record(Action{Type: ActionAdd, ID: committed.ID, Annotation: committed.Clone()})
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	return nil
}

// Update applies a partial patch to an annotation, logging an update
// action that also captures the prior values so the update can be undone.
// Updating a nonexistent id is a no-op.
func (s *Store) Update(id string, patch annotation.Patch) error {
	if patch.Empty() {
		return nil
	}
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return nil
	}
	if patch.Bounds != nil {
		probe := a.Clone()
		probe.Bounds = *patch.Bounds
		if err := probe.Validate(s.canvas.ImageWidth, s.canvas.ImageHeight); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("update annotation: %w", err)
		}
	}
	before := a.Inverse(patch)
	a.Apply(patch)
	s.record(Action{Type: ActionUpdate, ID: id, Patch: &patch, Before: &before})
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	return nil
}

// Delete removes an annotation, logging a delete action carrying the
// removed snapshot. Deleting a nonexistent id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return
	}
	snapshot := a.Clone()
	s.removeLocked(id)
	s.record(Action{Type: ActionDelete, ID: id, Annotation: snapshot})
	changedSelection := snapshot.Selected
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	if changedSelection {
		s.Emit(EventSelectionChanged, nil)
	}
}

// Move commits a completed move gesture: the annotation's origin travels
// from oldPos to newPos, clamped to the image, in one logged action.
func (s *Store) Move(id string, oldPos, newPos geometry.Point) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return
	}
	clamped := geometry.Rect{X: newPos.X, Y: newPos.Y, Width: a.Bounds.Width, Height: a.Bounds.Height}.
		ClampToImage(s.canvas.ImageWidth, s.canvas.ImageHeight)
	newPos = clamped.Origin()
	a.Bounds.X = newPos.X
	a.Bounds.Y = newPos.Y
	s.record(Action{Type: ActionMove, ID: id, OldPosition: &oldPos, NewPosition: &newPos})
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// Resize commits a completed resize gesture from oldBounds to newBounds,
// clamped to the image, in one logged action.
func (s *Store) Resize(id string, oldBounds, newBounds geometry.Rect) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return
	}
	newBounds = newBounds.Normalize().ClampToImage(s.canvas.ImageWidth, s.canvas.ImageHeight)
	a.Bounds = newBounds
	s.record(Action{Type: ActionResize, ID: id, OldBounds: &oldBounds, NewBounds: &newBounds})
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// SetBounds applies transient bounds during a live drag or resize gesture.
// No history entry is logged; the gesture's end commits a single Move or
// Resize action instead.
func (s *Store) SetBounds(id string, bounds geometry.Rect) {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return
	}
	a.Bounds = bounds.Normalize().ClampToImage(s.canvas.ImageWidth, s.canvas.ImageHeight)
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
}

// Select marks the annotation with the given id as selected, clearing any
// previous selection first so at most one annotation is ever selected.
// An empty id clears the selection.
func (s *Store) Select(id string) {
	s.mu.Lock()
	if s.canvas.SelectedID == id {
		s.mu.Unlock()
		return
	}
	if prev := s.findLocked(s.canvas.SelectedID); prev != nil {
		prev.Selected = false
	}
	s.canvas.SelectedID = ""
	if a := s.findLocked(id); a != nil {
		a.Selected = true
		s.canvas.SelectedID = id
	}
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, nil)
}

// Hover marks the annotation under the pointer. An empty id clears it.
func (s *Store) Hover(id string) {
	s.mu.Lock()
	if s.canvas.HoveredID == id {
		s.mu.Unlock()
		return
	}
	s.canvas.HoveredID = id
	s.mu.Unlock()

	s.Emit(EventHoverChanged, nil)
}

// MarkDragging flags an annotation as being dragged and mirrors the flag
// on the canvas state.
func (s *Store) MarkDragging(id string, dragging bool) {
	s.mu.Lock()
	if a := s.findLocked(id); a != nil {
		a.Dragging = dragging
	}
	s.canvas.Dragging = dragging
	s.mu.Unlock()
}

// MarkResizing records the handle an annotation is being resized by.
// HandleNone ends the resize.
func (s *Store) MarkResizing(id string, h geometry.Handle) {
	s.mu.Lock()
	if a := s.findLocked(id); a != nil {
		a.ResizeHandle = h
		a.Editing = h != geometry.HandleNone
	}
	s.mu.Unlock()
}

// Stats summarizes the annotation list.
type Stats struct {
	Total    int
	Selected int
	WithText int
	WithTags int
}

// GetStats returns counts over the current annotation list.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Stats
	st.Total = len(s.annotations)
	for _, a := range s.annotations {
		if a.Selected {
			st.Selected++
		}
		if a.Body.Text != "" {
			st.WithText++
		}
		if len(a.Body.Tags) > 0 {
			st.WithTags++
		}
	}
	return st
}

// Export strips transient fields from every annotation, returning the
// persisted shape handed to the save collaborator.
func (s *Store) Export() []annotation.Exported {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]annotation.Exported, len(s.annotations))
	for i, a := range s.annotations {
		out[i] = a.Export()
	}
	return out
}

// Clear deletes every annotation as individual delete actions, so undo
// restores them one at a time.
func (s *Store) Clear() {
	for _, a := range s.Annotations() {
		s.Delete(a.ID)
	}
}

// Load replaces the annotation list with a bulk-loaded set, clearing the
// history and selection. Used when loading a task from the backend or a
// local snapshot.
func (s *Store) Load(list []*annotation.Annotation) {
	s.mu.Lock()
	s.annotations = make([]*annotation.Annotation, 0, len(list))
	for _, a := range list {
		s.annotations = append(s.annotations, a.Clone())
	}
	s.history = nil
	s.historyIndex = -1
	s.canvas.SelectedID = ""
	s.canvas.HoveredID = ""
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	s.Emit(EventSelectionChanged, nil)
}

// Reset empties the store entirely: annotations, history, and error.
func (s *Store) Reset() {
	s.mu.Lock()
	s.annotations = nil
	s.history = nil
	s.historyIndex = -1
	s.canvas = defaultCanvasState()
	s.lastError = ""
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	s.Emit(EventSelectionChanged, nil)
}

// Canvas returns a copy of the canvas state.
func (s *Store) Canvas() CanvasState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canvas
}

// SetImageSize records the dimensions of the loaded image.
func (s *Store) SetImageSize(width, height float64) {
	s.mu.Lock()
	s.canvas.ImageWidth = width
	s.canvas.ImageHeight = height
	s.mu.Unlock()
	s.Emit(EventCanvasChanged, nil)
}

// SetCanvasSize records the viewport dimensions.
func (s *Store) SetCanvasSize(width, height float64) {
	s.mu.Lock()
	s.canvas.CanvasWidth = width
	s.canvas.CanvasHeight = height
	s.mu.Unlock()
	s.Emit(EventCanvasChanged, nil)
}

// SetViewport records the zoom and pan applied by the renderer.
func (s *Store) SetViewport(zoom, panX, panY float64) {
	s.mu.Lock()
	s.canvas.Zoom = zoom
	s.canvas.PanX = panX
	s.canvas.PanY = panY
	s.mu.Unlock()
	s.Emit(EventCanvasChanged, nil)
}

// SetActiveTool switches the active tool and resets the mode to the tool's
// resting state.
func (s *Store) SetActiveTool(kind ToolKind) {
	s.mu.Lock()
	s.canvas.ActiveTool = kind
	if kind == ToolSelect {
		s.canvas.Mode = ModeSelect
	} else {
		s.canvas.Mode = ModeView
	}
	s.canvas.Drawing = false
	s.canvas.DrawStart = nil
	s.canvas.DrawCurrent = nil
	s.mu.Unlock()
	s.Emit(EventToolChanged, nil)
}

// SetMode records the interaction mode derived from the active gesture.
func (s *Store) SetMode(mode Mode) {
	s.mu.Lock()
	s.canvas.Mode = mode
	s.mu.Unlock()
	s.Emit(EventCanvasChanged, nil)
}

// SetDrawing records the in-progress drawing preview. Passing nil points
// clears it.
func (s *Store) SetDrawing(start, current *geometry.Point) {
	s.mu.Lock()
	s.canvas.Drawing = start != nil && current != nil
	s.canvas.DrawStart = start
	s.canvas.DrawCurrent = current
	s.mu.Unlock()
	s.Emit(EventCanvasChanged, nil)
}

// SetError records a human-readable, non-fatal error for the host UI.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
	if msg != "" {
		s.Emit(EventError, msg)
	}
}

// Error returns the last recorded error string, empty if none.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// findLocked returns the annotation with the given id. Callers hold the lock.
func (s *Store) findLocked(id string) *annotation.Annotation {
	if id == "" {
		return nil
	}
	for _, a := range s.annotations {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// removeLocked deletes the annotation with the given id, clearing the
// selection if it was selected. Callers hold the lock.
func (s *Store) removeLocked(id string) {
	for i, a := range s.annotations {
		if a.ID == id {
			s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
			if s.canvas.SelectedID == id {
				s.canvas.SelectedID = ""
			}
			if s.canvas.HoveredID == id {
				s.canvas.HoveredID = ""
			}
			return
		}
	}
}
