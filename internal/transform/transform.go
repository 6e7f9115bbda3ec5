// Package transform maps between the editor's coordinate spaces: screen
// (widget pixels), canvas (scrolled/zoomed content pixels), and image
// (source pixels).
package transform

import "image-annotator/pkg/geometry"

// Stage is a live handle onto the rendered viewport: its pan offset and
// zoom scale. A Fyne scroll container, or any test double, can provide one.
type Stage interface {
	X() float64
	Y() float64
	ScaleX() float64
	ScaleY() float64
}

// Transformer converts points between coordinate spaces. With a nil stage
// every conversion is the identity, which is what headless tests use.
//
// The image is rendered at canvas-native resolution, so canvas and image
// space coincide and CanvasToImage/ImageToCanvas are identity as well.
type Transformer struct {
	stage Stage
}

// New creates a Transformer for the given stage handle. stage may be nil.
func New(stage Stage) *Transformer {
	return &Transformer{stage: stage}
}

// SetStage replaces the stage handle.
func (t *Transformer) SetStage(stage Stage) {
	t.stage = stage
}

// ScreenToCanvas converts a screen point to canvas coordinates.
func (t *Transformer) ScreenToCanvas(p geometry.Point) geometry.Point {
	if t == nil || t.stage == nil {
		return p
	}
	return geometry.Point{
		X: (p.X - t.stage.X()) / nonZero(t.stage.ScaleX()),
		Y: (p.Y - t.stage.Y()) / nonZero(t.stage.ScaleY()),
	}
}

// CanvasToScreen converts a canvas point to screen coordinates.
func (t *Transformer) CanvasToScreen(p geometry.Point) geometry.Point {
	if t == nil || t.stage == nil {
		return p
	}
	return geometry.Point{
		X: p.X*nonZero(t.stage.ScaleX()) + t.stage.X(),
		Y: p.Y*nonZero(t.stage.ScaleY()) + t.stage.Y(),
	}
}

// CanvasToImage converts a canvas point to image coordinates.
func (t *Transformer) CanvasToImage(p geometry.Point) geometry.Point {
	return p
}

// ImageToCanvas converts an image point to canvas coordinates.
func (t *Transformer) ImageToCanvas(p geometry.Point) geometry.Point {
	return p
}

// ScreenToImage converts a screen point to image coordinates.
func (t *Transformer) ScreenToImage(p geometry.Point) geometry.Point {
	return t.CanvasToImage(t.ScreenToCanvas(p))
}

// ImageToScreen converts an image point to screen coordinates.
func (t *Transformer) ImageToScreen(p geometry.Point) geometry.Point {
	return t.CanvasToScreen(t.ImageToCanvas(p))
}

// nonZero guards against a degenerate zero scale.
func nonZero(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}
