package panels

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"image-annotator/internal/annotation"
	"image-annotator/internal/store"
	"image-annotator/pkg/timeutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// editCommitDelay is the typing quiet period before entry edits are
// committed to the store as one logged update.
const editCommitDelay = 400 * time.Millisecond

// AnnotationsPanel lists the annotations and edits the selected one.
type AnnotationsPanel struct {
	st        *store.Store
	window    fyne.Window
	container fyne.CanvasObject

	list       *widget.List
	textEntry  *widget.Entry
	tagsEntry  *widget.Entry
	statsLabel *widget.Label

	// ids mirrors the list rows; rebuilt on every refresh.
	ids []string

	// updating suppresses entry callbacks while the panel itself writes
	// the entry contents.
	updating bool

	// commit batches keystrokes into one logged update per quiet period.
	// pendingMu guards the staged values the timer goroutine reads.
	commit      *timeutil.Debouncer
	pendingMu   sync.Mutex
	pendingID   string
	pendingText string
	pendingTags string
}

// NewAnnotationsPanel creates the annotations panel.
func NewAnnotationsPanel(st *store.Store) *AnnotationsPanel {
	ap := &AnnotationsPanel{st: st}
	ap.commit = timeutil.NewDebouncer(editCommitDelay, ap.commitEdits)

	ap.statsLabel = widget.NewLabel("No annotations")

	ap.list = widget.NewList(
		func() int {
			return len(ap.ids)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if i < 0 || i >= len(ap.ids) {
				label.SetText("")
				return
			}
			a := ap.st.Get(ap.ids[i])
			if a == nil {
				label.SetText("")
				return
			}
			label.SetText(ap.rowText(a))
		},
	)
	ap.list.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && i < len(ap.ids) {
			ap.st.Select(ap.ids[i])
		}
	}
	ap.list.OnUnselected = func(widget.ListItemID) {}

	ap.textEntry = widget.NewEntry()
	ap.textEntry.SetPlaceHolder("Text")
	ap.textEntry.OnChanged = func(text string) {
		if ap.updating {
			return
		}
		if sel := ap.st.Selected(); sel != nil {
			ap.stage(sel.ID, text, ap.tagsEntry.Text)
		}
	}

	ap.tagsEntry = widget.NewEntry()
	ap.tagsEntry.SetPlaceHolder("Tags (comma separated)")
	ap.tagsEntry.OnChanged = func(text string) {
		if ap.updating {
			return
		}
		if sel := ap.st.Selected(); sel != nil {
			ap.stage(sel.ID, ap.textEntry.Text, text)
		}
	}

	deleteBtn := widget.NewButton("Delete", func() {
		if sel := ap.st.Selected(); sel != nil {
			ap.st.Delete(sel.ID)
		}
	})

	editor := container.NewVBox(
		widget.NewLabel("Selected annotation"),
		ap.textEntry,
		ap.tagsEntry,
		deleteBtn,
	)

	ap.container = container.NewBorder(
		nil,                                  // top
		container.NewVBox(editor, ap.statsLabel), // bottom
		nil, nil,
		ap.list,
	)

	st.On(store.EventAnnotationsChanged, func(interface{}) {
		ap.refresh()
	})
	st.On(store.EventSelectionChanged, func(interface{}) {
		ap.syncSelection()
	})

	ap.refresh()
	return ap
}

// Container returns the panel container.
func (ap *AnnotationsPanel) Container() fyne.CanvasObject {
	return ap.container
}

// SetWindow sets the parent window for dialogs.
func (ap *AnnotationsPanel) SetWindow(w fyne.Window) {
	ap.window = w
}

// stage records the entry contents for the debounced commit.
func (ap *AnnotationsPanel) stage(id, text, tags string) {
	ap.pendingMu.Lock()
	ap.pendingID = id
	ap.pendingText = text
	ap.pendingTags = tags
	ap.pendingMu.Unlock()
	ap.commit.Call()
}

// commitEdits writes the staged entry contents to the store as a single
// logged update.
func (ap *AnnotationsPanel) commitEdits() {
	ap.pendingMu.Lock()
	id, text, tags := ap.pendingID, ap.pendingText, ap.pendingTags
	ap.pendingID = ""
	ap.pendingMu.Unlock()

	if id == "" || ap.st.Get(id) == nil {
		return
	}
	tagList := splitTags(tags)
	_ = ap.st.Update(id, annotation.Patch{Text: &text, Tags: &tagList})
}

// rowText formats one list row.
func (ap *AnnotationsPanel) rowText(a *annotation.Annotation) string {
	text := a.Body.Text
	if text == "" {
		text = "(no text)"
	}
	return fmt.Sprintf("%s  %s", a.Type, text)
}

// refresh rebuilds the row id slice and the stats line.
func (ap *AnnotationsPanel) refresh() {
	annotations := ap.st.Annotations()
	ap.ids = ap.ids[:0]
	for _, a := range annotations {
		ap.ids = append(ap.ids, a.ID)
	}
	ap.list.Refresh()

	stats := ap.st.GetStats()
	if stats.Total == 0 {
		ap.statsLabel.SetText("No annotations")
	} else {
		ap.statsLabel.SetText(fmt.Sprintf("%d annotations, %d with text, %d tagged",
			stats.Total, stats.WithText, stats.WithTags))
	}
}

// syncSelection mirrors the store selection into the list and entries. Any
// edit still pending for the previous selection is committed first.
func (ap *AnnotationsPanel) syncSelection() {
	ap.commit.Flush()
	sel := ap.st.Selected()

	ap.updating = true
	if sel == nil {
		ap.list.UnselectAll()
		ap.textEntry.SetText("")
		ap.tagsEntry.SetText("")
	} else {
		for i, id := range ap.ids {
			if id == sel.ID {
				ap.list.Select(i)
				break
			}
		}
		ap.textEntry.SetText(sel.Body.Text)
		ap.tagsEntry.SetText(strings.Join(sel.Body.Tags, ", "))
	}
	ap.updating = false
}

// splitTags parses a comma separated tag list, dropping empty entries.
func splitTags(text string) []string {
	parts := strings.Split(text, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
