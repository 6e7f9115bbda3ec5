package panels

import (
	"fmt"

	"image-annotator/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// HistoryPanel shows the action log with undo/redo controls.
type HistoryPanel struct {
	st        *store.Store
	container fyne.CanvasObject

	list     *widget.List
	undoBtn  *widget.Button
	redoBtn  *widget.Button
	posLabel *widget.Label

	actions []store.Action
	index   int
}

// NewHistoryPanel creates the history panel.
func NewHistoryPanel(st *store.Store) *HistoryPanel {
	hp := &HistoryPanel{st: st, index: -1}

	hp.list = widget.NewList(
		func() int {
			return len(hp.actions)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if i < 0 || i >= len(hp.actions) {
				label.SetText("")
				return
			}
			text := describeAction(hp.actions[i])
			if i == hp.index {
				text = "> " + text
			}
			label.SetText(text)
		},
	)

	hp.undoBtn = widget.NewButton("Undo", func() {
		hp.st.Undo()
	})
	hp.redoBtn = widget.NewButton("Redo", func() {
		hp.st.Redo()
	})
	hp.posLabel = widget.NewLabel("")

	controls := container.NewHBox(hp.undoBtn, hp.redoBtn, hp.posLabel)
	hp.container = container.NewBorder(
		controls, // top
		nil, nil, nil,
		hp.list,
	)

	st.On(store.EventHistoryChanged, func(interface{}) {
		hp.refresh()
	})

	hp.refresh()
	return hp
}

// Container returns the panel container.
func (hp *HistoryPanel) Container() fyne.CanvasObject {
	return hp.container
}

// refresh reloads the action log and button states.
func (hp *HistoryPanel) refresh() {
	hp.actions, hp.index = hp.st.History()
	hp.list.Refresh()

	if hp.st.CanUndo() {
		hp.undoBtn.Enable()
	} else {
		hp.undoBtn.Disable()
	}
	if hp.st.CanRedo() {
		hp.redoBtn.Enable()
	} else {
		hp.redoBtn.Disable()
	}
	hp.posLabel.SetText(fmt.Sprintf("%d/%d", hp.index+1, len(hp.actions)))
}
