package store

import "image-annotator/pkg/geometry"

// Mode is the derived canvas interaction mode. It always reflects the
// active tool's gesture phase and is never set independently of a
// transition.
type Mode string

const (
	ModeView   Mode = "view"
	ModeDraw   Mode = "draw"
	ModeEdit   Mode = "edit"
	ModeSelect Mode = "select"
)

// ToolKind identifies one of the closed set of editing tools. Polygon and
// point are reserved for future tools and are not selectable upstream.
type ToolKind string

const (
	ToolSelect  ToolKind = "select"
	ToolBBox    ToolKind = "bbox"
	ToolPolygon ToolKind = "polygon"
	ToolPoint   ToolKind = "point"
)

// CanvasState holds the viewport and gesture state shared between the
// tools and the renderer.
type CanvasState struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`

	ImageWidth   float64 `json:"image_width"`
	ImageHeight  float64 `json:"image_height"`
	CanvasWidth  float64 `json:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height"`

	Mode       Mode     `json:"mode"`
	ActiveTool ToolKind `json:"active_tool"`

	Dragging   bool   `json:"-"`
	SelectedID string `json:"-"`
	HoveredID  string `json:"-"`

	Drawing     bool            `json:"-"`
	DrawStart   *geometry.Point `json:"-"`
	DrawCurrent *geometry.Point `json:"-"`
}

func defaultCanvasState() CanvasState {
	return CanvasState{
		Zoom:       1.0,
		Mode:       ModeView,
		ActiveTool: ToolSelect,
	}
}
