// Package persist provides the local auto-save adapter: versioned,
// TTL-guarded JSON snapshots of the editing state, keyed by store id.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"image-annotator/internal/annotation"
	"image-annotator/internal/store"
)

// SchemaVersion is bumped whenever the snapshot layout changes; snapshots
// with a different version are discarded on load.
const SchemaVersion = 1

// DefaultTTL is how long a snapshot stays restorable.
const DefaultTTL = 7 * 24 * time.Hour

// CanvasSnapshot is the subset of canvas state worth restoring.
type CanvasSnapshot struct {
	Zoom       float64        `json:"zoom"`
	PanX       float64        `json:"pan_x"`
	PanY       float64        `json:"pan_y"`
	ActiveTool store.ToolKind `json:"active_tool"`
	Mode       store.Mode     `json:"mode"`
}

// SavedState is one auto-save snapshot.
type SavedState struct {
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`

	TaskID  string `json:"task_id"`
	ImageID string `json:"image_id"`

	Annotations  []*annotation.Annotation `json:"annotations"`
	History      []store.Action           `json:"history"`
	HistoryIndex int                      `json:"history_index"`

	Canvas     CanvasSnapshot  `json:"canvas"`
	PanelsOpen map[string]bool `json:"panels_open,omitempty"`
}

// Store reads and writes snapshots in a directory, one file per store id.
type Store struct {
	dir string
}

// DefaultDir returns the snapshot directory under the user config dir.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "image-annotator", "autosave")
}

// NewStore creates a snapshot store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the snapshot for the given store id, stamping the schema
// version and save time.
func (s *Store) Save(id string, state *SavedState) error {
	state.SchemaVersion = SchemaVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	return os.WriteFile(s.path(id), data, 0o644)
}

// Load returns the snapshot for the given store id, or nil when none
// exists, the schema version does not match, or the snapshot is older
// than ttl. A ttl of zero uses DefaultTTL.
func (s *Store) Load(id string, ttl time.Duration) (*SavedState, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var state SavedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.SchemaVersion != SchemaVersion {
		return nil, nil
	}
	if time.Since(state.SavedAt) > ttl {
		return nil, nil
	}
	return &state, nil
}

// Clear removes the snapshot for the given store id, if present.
func (s *Store) Clear(id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, "state_"+sanitize(id)+".json")
}

// sanitize keeps snapshot file names filesystem-safe.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
