package store

import (
	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// ActionType identifies the kind of store mutation an Action records.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
	ActionMove   ActionType = "move"
	ActionResize ActionType = "resize"
)

// Action is one invertible history entry. Exactly the fields needed to
// undo and redo its action type are populated:
//
//	Add:    Annotation (the committed snapshot)
//	Update: Patch (forward) and Before (the prior values of patched fields)
//	Delete: Annotation (the removed snapshot, for reinsertion)
//	Move:   OldPosition and NewPosition
//	Resize: OldBounds and NewBounds
type Action struct {
	Type ActionType `json:"type"`
	ID   string     `json:"id"`

	Annotation *annotation.Annotation `json:"annotation,omitempty"`
	Patch      *annotation.Patch      `json:"patch,omitempty"`
	Before     *annotation.Patch      `json:"before,omitempty"`

	OldPosition *geometry.Point `json:"old_position,omitempty"`
	NewPosition *geometry.Point `json:"new_position,omitempty"`
	OldBounds   *geometry.Rect  `json:"old_bounds,omitempty"`
	NewBounds   *geometry.Rect  `json:"new_bounds,omitempty"`
}

// DefaultMaxHistory is the default bound on the undo log. When the log is
// full the oldest entry is evicted first.
const DefaultMaxHistory = 50

// record truncates any stale redo branch, appends the action, and evicts
// the oldest entry once the log exceeds its bound. Callers hold the lock.
func (s *Store) record(a Action) {
	s.history = append(s.history[:s.historyIndex+1], a)
	s.historyIndex++
	if len(s.history) > s.maxHistory {
		s.history = s.history[1:]
		s.historyIndex--
	}
}

// CanUndo reports whether an action is available to undo.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historyIndex >= 0
}

// CanRedo reports whether an undone action is available to redo.
func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historyIndex < len(s.history)-1
}

// Undo inverts the action at the history cursor and moves the cursor back.
// It is a no-op at the beginning of history.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if s.historyIndex < 0 {
		s.mu.Unlock()
		return false
	}
	act := s.history[s.historyIndex]
	s.historyIndex--
	s.invert(act)
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	return true
}

// Redo re-applies the action after the history cursor. It is a no-op at
// the end of history.
func (s *Store) Redo() bool {
	s.mu.Lock()
	if s.historyIndex >= len(s.history)-1 {
		s.mu.Unlock()
		return false
	}
	s.historyIndex++
	act := s.history[s.historyIndex]
	s.apply(act)
	s.mu.Unlock()

	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	return true
}

// invert reverses one action. Callers hold the lock.
func (s *Store) invert(act Action) {
	switch act.Type {
	case ActionAdd:
		s.removeLocked(act.ID)
	case ActionDelete:
		if act.Annotation != nil {
			s.annotations = append(s.annotations, resurrect(act.Annotation))
		}
	case ActionUpdate:
		if a := s.findLocked(act.ID); a != nil && act.Before != nil {
			a.Apply(*act.Before)
		}
	case ActionMove:
		if a := s.findLocked(act.ID); a != nil && act.OldPosition != nil {
			a.Bounds.X = act.OldPosition.X
			a.Bounds.Y = act.OldPosition.Y
		}
	case ActionResize:
		if a := s.findLocked(act.ID); a != nil && act.OldBounds != nil {
			a.Bounds = *act.OldBounds
		}
	}
}

// apply re-applies one action. Callers hold the lock.
func (s *Store) apply(act Action) {
	switch act.Type {
	case ActionAdd:
		if act.Annotation != nil {
			s.annotations = append(s.annotations, resurrect(act.Annotation))
		}
	case ActionDelete:
		s.removeLocked(act.ID)
	case ActionUpdate:
		if a := s.findLocked(act.ID); a != nil && act.Patch != nil {
			a.Apply(*act.Patch)
		}
	case ActionMove:
		if a := s.findLocked(act.ID); a != nil && act.NewPosition != nil {
			a.Bounds.X = act.NewPosition.X
			a.Bounds.Y = act.NewPosition.Y
		}
	case ActionResize:
		if a := s.findLocked(act.ID); a != nil && act.NewBounds != nil {
			a.Bounds = *act.NewBounds
		}
	}
}

// resurrect clones a logged snapshot with its transient UI flags cleared,
// so reinsertion never resurrects stale selection or gesture state.
func resurrect(a *annotation.Annotation) *annotation.Annotation {
	out := a.Clone()
	out.Selected = false
	out.Editing = false
	out.Dragging = false
	out.ResizeHandle = geometry.HandleNone
	return out
}

// History returns a snapshot of the action log and the history cursor.
func (s *Store) History() ([]Action, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Action, len(s.history))
	copy(out, s.history)
	return out, s.historyIndex
}

// RestoreHistory replaces the action log, used when restoring a local
// auto-save snapshot. The cursor is clamped to the valid range.
func (s *Store) RestoreHistory(actions []Action, index int) {
	s.mu.Lock()
	s.history = append([]Action(nil), actions...)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	if index > len(s.history)-1 {
		index = len(s.history) - 1
	}
	if index < -1 {
		index = -1
	}
	s.historyIndex = index
	s.mu.Unlock()
	s.Emit(EventHistoryChanged, nil)
}
