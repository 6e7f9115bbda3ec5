package store

import (
	"testing"

	"image-annotator/pkg/geometry"
)

func TestHistoryEviction(t *testing.T) {
	s := newTestStore()
	s.SetMaxHistory(5)

	ids := make([]string, 8)
	for i := range ids {
		a := newBox(float64(i*10), 10, 50, 50)
		if err := s.Add(a); err != nil {
			t.Fatal(err)
		}
		ids[i] = a.ID
	}

	history, idx := s.History()
	if len(history) != 5 {
		t.Fatalf("history len = %d, want 5", len(history))
	}
	if idx != 4 {
		t.Fatalf("history index = %d, want 4", idx)
	}
	// The oldest entries were evicted; the log starts at the fourth add.
	if history[0].ID != ids[3] {
		t.Errorf("oldest logged action is %q, want %q", history[0].ID, ids[3])
	}

	// Only the five logged adds can be undone; the first three are permanent.
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 5 {
		t.Errorf("undid %d actions, want 5", undone)
	}
	if s.Len() != 3 {
		t.Errorf("%d annotations remain, want 3", s.Len())
	}
}

func TestSetMaxHistoryIgnoresInvalid(t *testing.T) {
	s := newTestStore()
	s.SetMaxHistory(0)
	s.SetMaxHistory(-3)
	for i := 0; i < 3; i++ {
		if err := s.Add(newBox(float64(i*10), 10, 50, 50)); err != nil {
			t.Fatal(err)
		}
	}
	if history, _ := s.History(); len(history) != 3 {
		t.Errorf("history len = %d", len(history))
	}
}

func TestRedoBranchTruncation(t *testing.T) {
	s := newTestStore()
	a := newBox(10, 10, 50, 50)
	b := newBox(100, 10, 50, 50)
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b); err != nil {
		t.Fatal(err)
	}

	s.Undo()
	if !s.CanRedo() {
		t.Fatal("expected a redoable action")
	}

	// A new action while undone discards the redo branch.
	c := newBox(200, 10, 50, 50)
	if err := s.Add(c); err != nil {
		t.Fatal(err)
	}
	if s.CanRedo() {
		t.Error("redo branch survived a new action")
	}

	history, idx := s.History()
	if len(history) != 2 || idx != 1 {
		t.Errorf("history len=%d idx=%d, want 2/1", len(history), idx)
	}
	if s.Get(b.ID) != nil {
		t.Error("undone annotation still present")
	}
	if s.Get(c.ID) == nil {
		t.Error("new annotation missing")
	}
}

func TestUndoRedoInterleaved(t *testing.T) {
	s := newTestStore()
	a := newBox(10, 10, 50, 50)
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	s.Move(a.ID, geometry.Point{X: 10, Y: 10}, geometry.Point{X: 200, Y: 200})
	s.Resize(a.ID, geometry.Rect{X: 200, Y: 200, Width: 50, Height: 50},
		geometry.Rect{X: 200, Y: 200, Width: 80, Height: 90})

	// Walk all the way back and forward again.
	for s.Undo() {
	}
	if s.Len() != 0 {
		t.Fatalf("annotations after full undo = %d", s.Len())
	}
	for s.Redo() {
	}
	got := s.Get(a.ID)
	if got == nil {
		t.Fatal("annotation missing after full redo")
	}
	want := geometry.Rect{X: 200, Y: 200, Width: 80, Height: 90}
	if got.Bounds != want {
		t.Errorf("bounds after full redo = %v, want %v", got.Bounds, want)
	}
}

func TestRestoreHistory(t *testing.T) {
	s := newTestStore()
	a := newBox(10, 10, 50, 50)
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	saved, savedIdx := s.History()

	s2 := newTestStore()
	s2.Load(s.Annotations())
	s2.RestoreHistory(saved, savedIdx)

	history, idx := s2.History()
	if len(history) != 1 || idx != 0 {
		t.Fatalf("restored history len=%d idx=%d", len(history), idx)
	}
	if !s2.CanUndo() {
		t.Error("restored history not undoable")
	}
	s2.Undo()
	if s2.Len() != 0 {
		t.Error("undo of restored add did not remove")
	}
}

func TestRestoreHistoryClampsIndex(t *testing.T) {
	s := newTestStore()
	actions := []Action{
		{Type: ActionAdd, ID: "x", Annotation: newBox(10, 10, 50, 50)},
	}

	s.RestoreHistory(actions, 99)
	if _, idx := s.History(); idx != 0 {
		t.Errorf("index clamped to %d, want 0", idx)
	}

	s.RestoreHistory(actions, -42)
	if _, idx := s.History(); idx != -1 {
		t.Errorf("index clamped to %d, want -1", idx)
	}
}

func TestRestoreHistoryTruncatesToBound(t *testing.T) {
	s := newTestStore()
	s.SetMaxHistory(3)

	actions := make([]Action, 6)
	for i := range actions {
		actions[i] = Action{Type: ActionAdd, ID: string(rune('a' + i))}
	}
	s.RestoreHistory(actions, 5)

	history, idx := s.History()
	if len(history) != 3 {
		t.Fatalf("history len = %d, want 3", len(history))
	}
	if idx != 2 {
		t.Errorf("index = %d, want 2", idx)
	}
	// The newest entries are the ones kept.
	if history[0].ID != "d" {
		t.Errorf("oldest kept entry = %q, want d", history[0].ID)
	}
}
