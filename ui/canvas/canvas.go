// Package canvas provides the annotation canvas with pan, zoom, and
// pointer-driven editing.
package canvas

import (
	"image"

	"image-annotator/internal/store"
	"image-annotator/internal/tools"
	"image-annotator/internal/transform"
	"image-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// AnnotationCanvas displays the image being annotated and routes pointer
// input to the active tool.
type AnnotationCanvas struct {
	widget.BaseWidget

	st    *store.Store
	tools *tools.Manager
	tr    *transform.Transformer

	img image.Image

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Container
	scroll  *zoomScroll
	content *annotationContent
	imgSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
}

// NewAnnotationCanvas creates the canvas bound to a store and tool manager.
func NewAnnotationCanvas(st *store.Store, tm *tools.Manager) *AnnotationCanvas {
	ac := &AnnotationCanvas{
		st:      st,
		tools:   tm,
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}
	ac.tr = transform.New(ac)

	// Create the raster for drawing
	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)

	// Wrap raster in content widget for mouse events
	ac.content = newAnnotationContent(ac, ac.raster)

	// Zoomable scroll container (wheel = zoom)
	ac.scroll = newZoomScroll(ac.content, ac)

	for _, ev := range []store.EventType{
		store.EventAnnotationsChanged,
		store.EventSelectionChanged,
		store.EventHoverChanged,
		store.EventCanvasChanged,
		store.EventHistoryChanged,
	} {
		st.On(ev, func(interface{}) {
			ac.Refresh()
		})
	}

	ac.ExtendBaseWidget(ac)
	return ac
}

// Stage implementation used by the coordinate transformer. Pointer events
// arrive in content coordinates, so only the zoom matters.

func (ac *AnnotationCanvas) X() float64      { return 0 }
func (ac *AnnotationCanvas) Y() float64      { return 0 }
func (ac *AnnotationCanvas) ScaleX() float64 { return ac.zoom }
func (ac *AnnotationCanvas) ScaleY() float64 { return ac.zoom }

// Container returns the canvas container for embedding in layouts.
func (ac *AnnotationCanvas) Container() fyne.CanvasObject {
	return ac.scroll
}

// SetImage sets the image being annotated and resets the viewport.
func (ac *AnnotationCanvas) SetImage(img image.Image) {
	ac.img = img
	if img != nil {
		b := img.Bounds()
		ac.st.SetImageSize(float64(b.Dx()), float64(b.Dy()))
	} else {
		ac.st.SetImageSize(0, 0)
	}
	ac.updateContentSize()
}

// Image returns the current image.
func (ac *AnnotationCanvas) Image() image.Image {
	return ac.img
}

// SetZoom sets the zoom level.
func (ac *AnnotationCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ac.zoom = zoom
	canvas := ac.st.Canvas()
	ac.st.SetViewport(zoom, canvas.PanX, canvas.PanY)
	ac.updateContentSize()

	if ac.onZoomChange != nil {
		ac.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (ac *AnnotationCanvas) Zoom() float64 {
	return ac.zoom
}

// ZoomIn increases the zoom level.
func (ac *AnnotationCanvas) ZoomIn() {
	ac.SetZoom(ac.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ac *AnnotationCanvas) ZoomOut() {
	ac.SetZoom(ac.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the whole image is visible.
func (ac *AnnotationCanvas) FitToWindow() {
	if ac.img == nil {
		return
	}
	bounds := ac.img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	viewSize := ac.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}

	ac.SetZoom(zoom * 0.95) // Leave a small margin
}

// OnZoomChange sets a callback for zoom changes.
func (ac *AnnotationCanvas) OnZoomChange(callback func(zoom float64)) {
	ac.onZoomChange = callback
}

// TypedKey forwards key presses to the tool manager.
func (ac *AnnotationCanvas) TypedKey(ev *fyne.KeyEvent) {
	key := string(ev.Name)
	if ev.Name == fyne.KeyBackspace {
		key = tools.KeyBackspace
	}
	ac.tools.KeyDown(tools.KeyEvent{Key: key})
}

// Refresh refreshes the canvas display.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
}

// updateContentSize updates the content size based on image and zoom.
func (ac *AnnotationCanvas) updateContentSize() {
	if ac.img == nil {
		ac.imgSize = fyne.NewSize(400, 300)
	} else {
		bounds := ac.img.Bounds()
		width := float32(float64(bounds.Dx()) * ac.zoom)
		height := float32(float64(bounds.Dy()) * ac.zoom)
		ac.imgSize = fyne.NewSize(width, height)
	}

	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	if ac.content != nil {
		ac.content.Resize(ac.imgSize)
		ac.content.Refresh()
	}
	ac.raster.Refresh()
	if ac.scroll != nil {
		ac.scroll.Refresh()
	}
}

// pointerEvent converts a content-relative position to image coordinates.
func (ac *AnnotationCanvas) pointerEvent(pos fyne.Position) tools.PointerEvent {
	p := ac.tr.ScreenToImage(geometry.Point{X: float64(pos.X), Y: float64(pos.Y)})
	return tools.PointerEvent{Position: p}
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &annotationCanvasRenderer{canvas: ac}
}

type annotationCanvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *annotationCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *annotationCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *annotationCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *annotationCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *annotationCanvasRenderer) Destroy() {}

// zoomScroll wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *AnnotationCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *AnnotationCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// annotationContent wraps the raster to route mouse events to the tools.
type annotationContent struct {
	widget.BaseWidget
	canvas *AnnotationCanvas
	raster *fynecanvas.Raster

	pressed bool
}

var _ desktop.Mouseable = (*annotationContent)(nil)
var _ desktop.Hoverable = (*annotationContent)(nil)
var _ desktop.Cursorable = (*annotationContent)(nil)
var _ fyne.Draggable = (*annotationContent)(nil)

func newAnnotationContent(ac *AnnotationCanvas, raster *fynecanvas.Raster) *annotationContent {
	c := &annotationContent{
		canvas: ac,
		raster: raster,
	}
	c.ExtendBaseWidget(c)
	return c
}

func (c *annotationContent) CreateRenderer() fyne.WidgetRenderer {
	return &annotationContentRenderer{content: c}
}

func (c *annotationContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// MouseDown starts a tool gesture at the pointer position.
func (c *annotationContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.pressed = true
	c.canvas.tools.PointerDown(c.canvas.pointerEvent(ev.Position))
	c.canvas.Refresh()
}

// MouseUp finishes the tool gesture.
func (c *annotationContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.pressed = false
	c.canvas.tools.PointerUp(c.canvas.pointerEvent(ev.Position))
	c.canvas.Refresh()
}

// Dragged advances the gesture while the button is held.
func (c *annotationContent) Dragged(ev *fyne.DragEvent) {
	c.canvas.tools.PointerMove(c.canvas.pointerEvent(ev.Position))
	c.canvas.Refresh()
}

// DragEnd is handled by MouseUp.
func (c *annotationContent) DragEnd() {}

// MouseMoved tracks hover state while no button is held.
func (c *annotationContent) MouseMoved(ev *desktop.MouseEvent) {
	if c.pressed {
		return
	}
	c.canvas.tools.PointerMove(c.canvas.pointerEvent(ev.Position))
}

func (c *annotationContent) MouseIn(ev *desktop.MouseEvent) {}

func (c *annotationContent) MouseOut() {
	c.canvas.st.Hover("")
}

// Cursor maps the active tool's cursor to a desktop cursor.
func (c *annotationContent) Cursor() desktop.Cursor {
	switch c.canvas.tools.Cursor() {
	case "crosshair":
		return desktop.CrosshairCursor
	case "move":
		return desktop.PointerCursor
	case "ns-resize":
		return desktop.VResizeCursor
	case "ew-resize":
		return desktop.HResizeCursor
	case "nwse-resize", "nesw-resize":
		return desktop.PointerCursor
	default:
		return desktop.DefaultCursor
	}
}

type annotationContentRenderer struct {
	content *annotationContent
}

func (r *annotationContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *annotationContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *annotationContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *annotationContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *annotationContentRenderer) Destroy() {}
