// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"image-annotator/internal/annotation"
	annotimage "image-annotator/internal/image"
	"image-annotator/internal/ocr"
	"image-annotator/internal/session"
	"image-annotator/internal/store"
	"image-annotator/internal/suggest"
	"image-annotator/internal/tools"
	"image-annotator/internal/version"
	"image-annotator/ui/canvas"
	"image-annotator/ui/dialogs"
	"image-annotator/ui/panels"
	"image-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	loadTimeout = 30 * time.Second
	saveTimeout = 30 * time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	sess      *session.Session
	st        *store.Store
	tools     *tools.Manager
	prefs     *prefs.Prefs
	canvas    *canvas.AnnotationCanvas
	sidePanel *panels.SidePanel
	split     *container.Split
	statusBar *widget.Label
	zoomLabel *widget.Label

	selectBtn *widget.Button
	bboxBtn   *widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, sess *session.Session, tm *tools.Manager, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Image Annotator")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		sess:   sess,
		st:     sess.Store(),
		tools:  tm,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restoreLastImage()

	if tool := p.String(prefs.KeyActiveTool, ""); tool != "" {
		mw.activateTool(store.ToolKind(tool))
	}

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewAnnotationCanvas(mw.st, mw.tools)

	mw.sidePanel = panels.NewSidePanel(mw.st, mw.canvas)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")

	toolbar := mw.createToolbar()

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
		mw.prefs.SetFloat(prefs.KeyZoom, zoom)
	})

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas.Container(),
	)

	mw.split = container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	mw.split.SetOffset(0.25)
	if !mw.prefs.Bool(prefs.KeySidebarOpen, true) {
		mw.split.SetOffset(0)
	}

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		mw.split,
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.selectBtn = widget.NewButton("Select (V)", func() {
		mw.activateTool(store.ToolSelect)
	})
	mw.bboxBtn = widget.NewButton("Box (B)", func() {
		mw.activateTool(store.ToolBBox)
	})

	undoBtn := widget.NewButton("Undo", mw.onUndo)
	redoBtn := widget.NewButton("Redo", mw.onRedo)

	zoomOutBtn := widget.NewButton("-", func() {
		mw.canvas.ZoomOut()
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.canvas.ZoomIn()
	})
	fitBtn := widget.NewButton("Fit", func() {
		mw.canvas.FitToWindow()
	})
	actualBtn := widget.NewButton("1:1", func() {
		mw.canvas.SetZoom(1.0)
	})

	return container.NewHBox(
		mw.selectBtn,
		mw.bboxBtn,
		widget.NewSeparator(),
		undoBtn,
		redoBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		mw.zoomLabel,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Task...", mw.onLoadTask),
		fyne.NewMenuItem("Save to Server", mw.onSave),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Edit Annotation...", mw.onEditAnnotation),
		fyne.NewMenuItem("Delete Annotation", mw.onDeleteAnnotation),
		fyne.NewMenuItem("Clear All", mw.onClearAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Sidebar", mw.onToggleSidebar),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Select Tool", func() { mw.activateTool(store.ToolSelect) }),
		fyne.NewMenuItem("Box Tool", func() { mw.activateTool(store.ToolBBox) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Suggest Boxes", mw.onSuggestBoxes),
		fyne.NewMenuItem("Recognize Text", mw.onRecognizeText),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupShortcuts registers keyboard shortcuts.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(mw.canvas.TypedKey)

	ctrlZ := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(ctrlZ, func(fyne.Shortcut) {
		mw.onUndo()
	})

	ctrlShiftZ := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}
	mw.Canvas().AddShortcut(ctrlShiftZ, func(fyne.Shortcut) {
		mw.onRedo()
	})

	ctrlY := &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(ctrlY, func(fyne.Shortcut) {
		mw.onRedo()
	})

	ctrlS := &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(ctrlS, func(fyne.Shortcut) {
		mw.onSave()
	})
}

// setupEventHandlers registers for store events.
func (mw *MainWindow) setupEventHandlers() {
	mw.st.On(store.EventToolChanged, func(interface{}) {
		mw.syncToolButtons()
		mw.prefs.SetString(prefs.KeyActiveTool, string(mw.st.Canvas().ActiveTool))
	})

	mw.st.On(store.EventSelectionChanged, func(interface{}) {
		if sel := mw.st.Selected(); sel != nil {
			mw.updateStatus("Selected " + sel.ID)
		}
	})

	mw.st.On(store.EventError, func(data interface{}) {
		if msg, ok := data.(string); ok && msg != "" {
			mw.updateStatus("Error: " + msg)
		}
	})
}

// activateTool switches the active tool and updates the toolbar.
func (mw *MainWindow) activateTool(kind store.ToolKind) {
	mw.tools.Activate(kind)
	mw.syncToolButtons()
}

// syncToolButtons highlights the active tool button.
func (mw *MainWindow) syncToolButtons() {
	switch mw.st.Canvas().ActiveTool {
	case store.ToolBBox:
		mw.bboxBtn.Importance = widget.HighImportance
		mw.selectBtn.Importance = widget.MediumImportance
	default:
		mw.selectBtn.Importance = widget.HighImportance
		mw.bboxBtn.Importance = widget.MediumImportance
	}
	mw.selectBtn.Refresh()
	mw.bboxBtn.Refresh()
}

// onToggleSidebar collapses or restores the side panel.
func (mw *MainWindow) onToggleSidebar() {
	open := mw.split.Offset > 0.01
	if open {
		mw.split.SetOffset(0)
	} else {
		mw.split.SetOffset(0.25)
	}
	mw.prefs.SetBool(prefs.KeySidebarOpen, !open)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// restoreLastImage reopens the previously annotated image and any
// unsaved local state.
func (mw *MainWindow) restoreLastImage() {
	path := mw.prefs.String(prefs.KeyLastImage, "")
	if path == "" {
		return
	}
	if err := mw.loadImage(path); err != nil {
		log.Printf("restore last image: %v", err)
		return
	}
	if restored, err := mw.sess.RestoreLocal(mw.prefs.String(prefs.KeyLastTask, "")); err != nil {
		log.Printf("restore local state: %v", err)
	} else if restored {
		mw.updateStatus("Restored unsaved work")
	}
}

// loadImage decodes an image file and installs it on the canvas.
func (mw *MainWindow) loadImage(path string) error {
	src, err := annotimage.Load(path)
	if err != nil {
		return err
	}
	mw.canvas.SetImage(src.Image)
	mw.sess.SetImage(src.ID)
	mw.SetTitle("Image Annotator - " + filepath.Base(path))
	mw.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", filepath.Base(path), src.Width(), src.Height()))
	return nil
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.loadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastImage, path)
		mw.st.Load(nil)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(annotimage.SupportedFormats()))
	fd.Show()
}

// onLoadTask asks for a task id and replaces the store content with that
// task's annotations from the backend.
func (mw *MainWindow) onLoadTask() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Task ID")
	entry.SetText(mw.prefs.String(prefs.KeyLastTask, ""))
	items := []*widget.FormItem{widget.NewFormItem("Task ID", entry)}
	dialog.ShowForm("Load Task", "Load", "Cancel", items, func(ok bool) {
		if !ok || entry.Text == "" {
			return
		}
		taskID := entry.Text
		mw.updateStatus("Loading task " + taskID + "...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			if err := mw.sess.LoadTask(ctx, taskID); err != nil {
				mw.updateStatus("Load failed: " + err.Error())
				return
			}
			mw.prefs.SetString(prefs.KeyLastTask, taskID)
			mw.updateStatus(fmt.Sprintf("Loaded task %s (%d annotations)", taskID, mw.st.Len()))
		}()
	}, mw.Window)
}

func (mw *MainWindow) onSave() {
	mw.updateStatus("Saving...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := mw.sess.SaveTask(ctx); err != nil {
			mw.updateStatus("Save failed: " + err.Error())
		} else {
			mw.updateStatus("Saved")
		}
	}()
}

func (mw *MainWindow) onUndo() {
	if mw.st.Undo() {
		mw.updateStatus("Undo")
	}
}

func (mw *MainWindow) onRedo() {
	if mw.st.Redo() {
		mw.updateStatus("Redo")
	}
}

func (mw *MainWindow) onEditAnnotation() {
	if sel := mw.st.Selected(); sel != nil {
		dialogs.ShowEditAnnotation(mw.Window, mw.st, sel.ID)
	}
}

func (mw *MainWindow) onDeleteAnnotation() {
	if sel := mw.st.Selected(); sel != nil {
		mw.st.Delete(sel.ID)
	}
}

func (mw *MainWindow) onClearAll() {
	if mw.st.Len() == 0 {
		return
	}
	dialog.ShowConfirm("Clear All", "Delete all annotations?", func(ok bool) {
		if ok {
			mw.st.Clear()
		}
	}, mw.Window)
}

// onSuggestBoxes runs contour-based box proposals on the current image and
// adds the results as tagged annotations.
func (mw *MainWindow) onSuggestBoxes() {
	img := mw.canvas.Image()
	if img == nil {
		mw.updateStatus("No image loaded")
		return
	}
	mw.updateStatus("Detecting boxes...")

	go func() {
		proposals, err := suggest.BoxesFromImage(img, suggest.DefaultOptions())
		if err != nil {
			mw.updateStatus("Detection failed: " + err.Error())
			return
		}
		added := 0
		for _, p := range proposals {
			a := annotation.New(annotation.TypeBBox, p.Bounds)
			a.Body.Tags = []string{"suggested"}
			if err := mw.st.Add(a); err == nil {
				added++
			}
		}
		mw.updateStatus(fmt.Sprintf("Added %d suggested boxes", added))
	}()
}

// onRecognizeText OCRs the selected annotation's region and stores the
// result as its text.
func (mw *MainWindow) onRecognizeText() {
	sel := mw.st.Selected()
	if sel == nil {
		mw.updateStatus("No annotation selected")
		return
	}
	img := mw.canvas.Image()
	if img == nil {
		mw.updateStatus("No image loaded")
		return
	}
	id := sel.ID
	bounds := sel.Bounds
	mw.updateStatus("Recognizing text...")

	go func() {
		engine, err := ocr.NewEngine()
		if err != nil {
			mw.updateStatus("OCR unavailable: " + err.Error())
			return
		}
		defer engine.Close()

		text, err := engine.RecognizeInImage(img, bounds)
		if err != nil {
			mw.updateStatus("OCR failed: " + err.Error())
			return
		}
		if text == "" {
			mw.updateStatus("No text found")
			return
		}
		_ = mw.st.Update(id, annotation.Patch{Text: &text})
		mw.updateStatus("Recognized: " + text)
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Image Annotator",
		fmt.Sprintf("Image Annotator v%s\n\n"+
			"A desktop tool for drawing and editing image annotations.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
