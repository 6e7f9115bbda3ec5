package geometry

import "math"

// Handle identifies one of the eight resize grab-points on a selected
// rectangle: four corners and four edge midlines.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
	HandleN
	HandleS
	HandleW
	HandleE
)

// String returns the compass name of the handle.
func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleNE:
		return "ne"
	case HandleSW:
		return "sw"
	case HandleSE:
		return "se"
	case HandleN:
		return "n"
	case HandleS:
		return "s"
	case HandleW:
		return "w"
	case HandleE:
		return "e"
	default:
		return "none"
	}
}

// Corner reports whether the handle is one of the four corner handles.
func (h Handle) Corner() bool {
	switch h {
	case HandleNW, HandleNE, HandleSW, HandleSE:
		return true
	}
	return false
}

// Cursor returns the cursor direction for the handle. Diagonal pairs share
// one cursor (nw/se, ne/sw), as do the axis pairs (n/s, e/w).
func (h Handle) Cursor() string {
	switch h {
	case HandleNW, HandleSE:
		return "nwse-resize"
	case HandleNE, HandleSW:
		return "nesw-resize"
	case HandleN, HandleS:
		return "ns-resize"
	case HandleW, HandleE:
		return "ew-resize"
	default:
		return "default"
	}
}

// Anchor returns the position of the handle on rect r: the corner point
// for corner handles, the edge midpoint for edge handles.
func (h Handle) Anchor(r Rect) Point {
	left, top := r.X, r.Y
	right, bottom := r.X+r.Width, r.Y+r.Height
	midX, midY := r.X+r.Width/2, r.Y+r.Height/2

	switch h {
	case HandleNW:
		return Point{X: left, Y: top}
	case HandleNE:
		return Point{X: right, Y: top}
	case HandleSW:
		return Point{X: left, Y: bottom}
	case HandleSE:
		return Point{X: right, Y: bottom}
	case HandleN:
		return Point{X: midX, Y: top}
	case HandleS:
		return Point{X: midX, Y: bottom}
	case HandleW:
		return Point{X: left, Y: midY}
	case HandleE:
		return Point{X: right, Y: midY}
	default:
		return Point{X: midX, Y: midY}
	}
}

// HandleAt returns the resize handle of r hit by p, or HandleNone.
// The four corners are tested before the four edges, so a point within
// tolerance of both a corner and an edge always resolves to the corner.
func HandleAt(p Point, r Rect, tolerance float64) Handle {
	left, top := r.X, r.Y
	right, bottom := r.X+r.Width, r.Y+r.Height

	corners := []struct {
		h    Handle
		x, y float64
	}{
		{HandleNW, left, top},
		{HandleNE, right, top},
		{HandleSW, left, bottom},
		{HandleSE, right, bottom},
	}
	for _, c := range corners {
		if math.Abs(p.X-c.x) <= tolerance && math.Abs(p.Y-c.y) <= tolerance {
			return c.h
		}
	}

	withinX := p.X >= left-tolerance && p.X <= right+tolerance
	withinY := p.Y >= top-tolerance && p.Y <= bottom+tolerance

	switch {
	case math.Abs(p.Y-top) <= tolerance && withinX:
		return HandleN
	case math.Abs(p.Y-bottom) <= tolerance && withinX:
		return HandleS
	case math.Abs(p.X-left) <= tolerance && withinY:
		return HandleW
	case math.Abs(p.X-right) <= tolerance && withinY:
		return HandleE
	}
	return HandleNone
}

// ApplyResize returns the bounds that result from dragging the given handle
// of rect to point. Dimensions are always recomputed from the original
// rectangle's opposite edge, never incrementally, and never fall below
// minSize. Handles on the north or west side reposition the origin so the
// opposite edge stays anchored.
func ApplyResize(rect Rect, handle Handle, point Point, minSize float64) Rect {
	right := rect.X + rect.Width
	bottom := rect.Y + rect.Height
	out := rect

	switch handle {
	case HandleE, HandleNE, HandleSE:
		out.Width = math.Max(minSize, point.X-rect.X)
	case HandleW, HandleNW, HandleSW:
		out.Width = math.Max(minSize, right-point.X)
		out.X = right - out.Width
	}

	switch handle {
	case HandleS, HandleSW, HandleSE:
		out.Height = math.Max(minSize, point.Y-rect.Y)
	case HandleN, HandleNW, HandleNE:
		out.Height = math.Max(minSize, bottom-point.Y)
		out.Y = bottom - out.Height
	}

	return out
}
