// Package dialogs provides modal dialogs for the application.
package dialogs

import (
	"strings"

	"image-annotator/internal/annotation"
	"image-annotator/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowEditAnnotation opens a form dialog editing the annotation's text and
// tags. Both fields are committed as a single update when confirmed.
func ShowEditAnnotation(win fyne.Window, st *store.Store, id string) {
	a := st.Get(id)
	if a == nil {
		return
	}

	textEntry := widget.NewEntry()
	textEntry.SetText(a.Body.Text)

	tagsEntry := widget.NewEntry()
	tagsEntry.SetText(strings.Join(a.Body.Tags, ", "))
	tagsEntry.SetPlaceHolder("comma separated")

	items := []*widget.FormItem{
		widget.NewFormItem("Text", textEntry),
		widget.NewFormItem("Tags", tagsEntry),
	}

	dialog.ShowForm("Edit Annotation", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		text := textEntry.Text
		tags := parseTags(tagsEntry.Text)
		patch := annotation.Patch{Text: &text, Tags: &tags}
		_ = st.Update(id, patch)
	}, win)
}

// parseTags splits a comma separated tag list, dropping empty entries.
func parseTags(text string) []string {
	parts := strings.Split(text, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
