// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"image-annotator/internal/store"
	"image-annotator/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	st        *store.Store
	canvas    *canvas.AnnotationCanvas
	container *container.AppTabs

	annotationsPanel *AnnotationsPanel
	historyPanel     *HistoryPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(st *store.Store, cvs *canvas.AnnotationCanvas) *SidePanel {
	sp := &SidePanel{
		st:     st,
		canvas: cvs,
	}

	sp.annotationsPanel = NewAnnotationsPanel(st)
	sp.historyPanel = NewHistoryPanel(st)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Annotations", sp.annotationsPanel.Container()),
		container.NewTabItem("History", sp.historyPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.annotationsPanel.SetWindow(w)
}

// describeAction formats a history action for display.
func describeAction(a store.Action) string {
	switch a.Type {
	case store.ActionAdd:
		return "Add " + shortID(a.ID)
	case store.ActionDelete:
		return "Delete " + shortID(a.ID)
	case store.ActionMove:
		return "Move " + shortID(a.ID)
	case store.ActionResize:
		return "Resize " + shortID(a.ID)
	case store.ActionUpdate:
		return "Update " + shortID(a.ID)
	default:
		return fmt.Sprintf("%s %s", a.Type, shortID(a.ID))
	}
}

// shortID trims the id to something readable in a list row.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "…"
}
