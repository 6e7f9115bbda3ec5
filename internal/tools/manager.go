package tools

import (
	"image-annotator/internal/store"
)

// Manager owns the closed set of tools and dispatches events to the one
// that is active. Exactly one tool is live at a time.
type Manager struct {
	st     *store.Store
	sel    *SelectTool
	bbox   *BoundingBoxTool
	active Tool
}

// NewManager creates the tool set with the select tool active.
func NewManager(st *store.Store, cb Callbacks) *Manager {
	m := &Manager{
		st:   st,
		sel:  NewSelectTool(st, cb),
		bbox: NewBoundingBoxTool(st, cb),
	}
	m.active = m.sel
	m.sel.OnActivate()
	return m
}

// Activate switches the active tool. Unknown kinds (including the reserved
// polygon and point kinds) are ignored.
func (m *Manager) Activate(kind store.ToolKind) {
	var next Tool
	switch kind {
	case store.ToolSelect:
		next = m.sel
	case store.ToolBBox:
		next = m.bbox
	default:
		return
	}
	if next == m.active {
		return
	}
	m.active.OnDeactivate()
	m.active = next
	m.active.OnActivate()
}

// Active returns the live tool.
func (m *Manager) Active() Tool {
	return m.active
}

// PointerDown forwards a pointer-down event to the active tool.
func (m *Manager) PointerDown(ev PointerEvent) {
	m.active.OnPointerDown(ev)
}

// PointerMove forwards a pointer-move event to the active tool.
func (m *Manager) PointerMove(ev PointerEvent) {
	m.active.OnPointerMove(ev)
}

// PointerUp forwards a pointer-up event to the active tool.
func (m *Manager) PointerUp(ev PointerEvent) {
	m.active.OnPointerUp(ev)
}

// KeyDown handles the tool-switching shortcuts and forwards everything
// else to the active tool.
func (m *Manager) KeyDown(ev KeyEvent) {
	switch ev.Key {
	case "v", "V":
		m.Activate(store.ToolSelect)
	case "b", "B":
		m.Activate(store.ToolBBox)
	default:
		m.active.OnKeyDown(ev)
	}
}

// Cursor returns the active tool's cursor.
func (m *Manager) Cursor() string {
	return m.active.Cursor()
}
