// Package session coordinates one editing session: the in-memory store,
// the backend task service, and the local auto-save snapshots.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"image-annotator/internal/backend"
	"image-annotator/internal/persist"
	"image-annotator/internal/store"
	"image-annotator/pkg/timeutil"
)

// AutoSaveDelay is how long the session waits after the last mutation
// before writing a local snapshot.
const AutoSaveDelay = 500 * time.Millisecond

// Session owns the store for one task and keeps it persisted.
type Session struct {
	st    *store.Store
	svc   backend.Service
	local *persist.Store
	saver *timeutil.Debouncer

	// mu guards taskID and imageID, which the auto-save timer goroutine
	// reads while the UI goroutine writes them.
	mu      sync.Mutex
	taskID  string
	imageID string

	// loadGen discards responses of superseded loads, saveGen makes the
	// last snapshot win when saves race.
	loadGen atomic.Uint64
	saveGen atomic.Uint64
}

// New creates a session around an existing store. svc and local may be
// nil, in which case remote loading and auto-save are disabled.
func New(st *store.Store, svc backend.Service, local *persist.Store) *Session {
	s := &Session{
		st:    st,
		svc:   svc,
		local: local,
	}
	if local != nil {
		s.saver = timeutil.NewDebouncer(AutoSaveDelay, s.writeSnapshot)
		for _, ev := range []store.EventType{
			store.EventAnnotationsChanged,
			store.EventHistoryChanged,
			store.EventCanvasChanged,
		} {
			st.On(ev, func(interface{}) {
				s.saver.Call()
			})
		}
	}
	return s
}

// Store returns the session's store.
func (s *Session) Store() *store.Store {
	return s.st
}

// TaskID returns the loaded task id, or "" before LoadTask.
func (s *Session) TaskID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskID
}

// SetImage records the image id used in snapshots.
func (s *Session) SetImage(imageID string) {
	s.mu.Lock()
	s.imageID = imageID
	s.mu.Unlock()
}

// LoadTask fetches the task's annotations and replaces the store content.
// When a newer LoadTask starts before this one returns, the stale response
// is discarded.
func (s *Session) LoadTask(ctx context.Context, taskID string) error {
	if s.svc == nil {
		return fmt.Errorf("load task %s: no backend configured", taskID)
	}
	gen := s.loadGen.Add(1)

	annotations, err := s.svc.LoadTaskAnnotations(ctx, taskID)
	if err != nil {
		s.st.SetError(err.Error())
		return err
	}
	if s.loadGen.Load() != gen {
		log.Printf("session: discarding stale load of task %s", taskID)
		return nil
	}

	s.mu.Lock()
	s.taskID = taskID
	s.mu.Unlock()
	s.st.Load(annotations)
	return nil
}

// SaveTask pushes the current annotations to the backend and clears the
// local snapshot on success.
func (s *Session) SaveTask(ctx context.Context) error {
	if s.svc == nil {
		return fmt.Errorf("save task: no backend configured")
	}
	taskID := s.TaskID()
	if taskID == "" {
		return fmt.Errorf("save task: no task loaded")
	}
	if err := s.svc.SaveTaskAnnotations(ctx, taskID, s.st.Export()); err != nil {
		s.st.SetError(err.Error())
		return err
	}
	if s.local != nil {
		if err := s.local.Clear(s.snapshotID()); err != nil {
			log.Printf("session: clear snapshot: %v", err)
		}
	}
	return nil
}

// RestoreLocal loads the auto-save snapshot for the given task, if one is
// still valid, and replaces the store content with it. It reports whether
// a snapshot was restored.
func (s *Session) RestoreLocal(taskID string) (bool, error) {
	if s.local == nil {
		return false, nil
	}
	s.mu.Lock()
	s.taskID = taskID
	s.mu.Unlock()

	saved, err := s.local.Load(s.snapshotID(), 0)
	if err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}
	if saved == nil {
		return false, nil
	}

	s.mu.Lock()
	s.imageID = saved.ImageID
	s.mu.Unlock()
	s.st.Load(saved.Annotations)
	s.st.RestoreHistory(saved.History, saved.HistoryIndex)
	s.st.SetViewport(saved.Canvas.Zoom, saved.Canvas.PanX, saved.Canvas.PanY)
	s.st.SetActiveTool(saved.Canvas.ActiveTool)
	return true, nil
}

// Flush writes any pending auto-save immediately.
func (s *Session) Flush() {
	if s.saver != nil {
		s.saver.Flush()
	}
}

// Close stops the auto-saver after flushing pending work.
func (s *Session) Close() {
	if s.saver != nil {
		s.saver.Flush()
		s.saver.Stop()
	}
}

// writeSnapshot captures the current state and writes it locally. Snapshot
// generations make the last capture win when writes overlap.
func (s *Session) writeSnapshot() {
	gen := s.saveGen.Add(1)

	s.mu.Lock()
	taskID, imageID := s.taskID, s.imageID
	s.mu.Unlock()

	history, index := s.st.History()
	canvas := s.st.Canvas()
	state := &persist.SavedState{
		TaskID:       taskID,
		ImageID:      imageID,
		Annotations:  s.st.Annotations(),
		History:      history,
		HistoryIndex: index,
		Canvas: persist.CanvasSnapshot{
			Zoom:       canvas.Zoom,
			PanX:       canvas.PanX,
			PanY:       canvas.PanY,
			ActiveTool: canvas.ActiveTool,
			Mode:       canvas.Mode,
		},
	}

	if s.saveGen.Load() != gen {
		return
	}
	if err := s.local.Save(s.snapshotID(), state); err != nil {
		log.Printf("session: auto-save: %v", err)
		s.st.SetError(fmt.Sprintf("auto-save failed: %v", err))
	}
}

func (s *Session) snapshotID() string {
	if id := s.TaskID(); id != "" {
		return id
	}
	return "untitled"
}
