package geometry

import "testing"

func TestHandleAt(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 40}
	const tol = 8.0

	tests := []struct {
		name string
		p    Point
		want Handle
	}{
		{"exact nw corner", Point{X: 100, Y: 100}, HandleNW},
		{"near ne corner", Point{X: 153, Y: 97}, HandleNE},
		{"exact sw corner", Point{X: 100, Y: 140}, HandleSW},
		{"near se corner", Point{X: 155, Y: 145}, HandleSE},
		{"north edge midpoint", Point{X: 125, Y: 100}, HandleN},
		{"south edge within tolerance", Point{X: 125, Y: 146}, HandleS},
		{"west edge", Point{X: 102, Y: 120}, HandleW},
		{"east edge", Point{X: 148, Y: 120}, HandleE},
		{"corner wins over edge", Point{X: 104, Y: 104}, HandleNW},
		{"interior misses all handles", Point{X: 125, Y: 120}, HandleNone},
		{"far outside", Point{X: 200, Y: 200}, HandleNone},
		{"beyond edge extent", Point{X: 170, Y: 100}, HandleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandleAt(tt.p, r, tol); got != tt.want {
				t.Errorf("HandleAt(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestApplyResize(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 40}
	const minSize = 10.0

	tests := []struct {
		name   string
		handle Handle
		point  Point
		want   Rect
	}{
		{
			name:   "east grows width, origin fixed",
			handle: HandleE,
			point:  Point{X: 180, Y: 999},
			want:   Rect{X: 100, Y: 100, Width: 80, Height: 40},
		},
		{
			name:   "west moves origin, right edge anchored",
			handle: HandleW,
			point:  Point{X: 80, Y: 0},
			want:   Rect{X: 80, Y: 100, Width: 70, Height: 40},
		},
		{
			name:   "north moves origin, bottom edge anchored",
			handle: HandleN,
			point:  Point{X: 0, Y: 90},
			want:   Rect{X: 100, Y: 90, Width: 50, Height: 50},
		},
		{
			name:   "south grows height",
			handle: HandleS,
			point:  Point{X: 0, Y: 170},
			want:   Rect{X: 100, Y: 100, Width: 50, Height: 70},
		},
		{
			name:   "se corner resizes both axes",
			handle: HandleSE,
			point:  Point{X: 170, Y: 180},
			want:   Rect{X: 100, Y: 100, Width: 70, Height: 80},
		},
		{
			name:   "nw corner repositions both axes",
			handle: HandleNW,
			point:  Point{X: 90, Y: 80},
			want:   Rect{X: 90, Y: 80, Width: 60, Height: 60},
		},
		{
			name:   "east past minimum clamps width",
			handle: HandleE,
			point:  Point{X: 90, Y: 0},
			want:   Rect{X: 100, Y: 100, Width: 10, Height: 40},
		},
		{
			name:   "west past right edge clamps at right minus min",
			handle: HandleW,
			point:  Point{X: 300, Y: 0},
			want:   Rect{X: 140, Y: 100, Width: 10, Height: 40},
		},
		{
			name:   "north past bottom clamps at bottom minus min",
			handle: HandleN,
			point:  Point{X: 0, Y: 300},
			want:   Rect{X: 100, Y: 130, Width: 50, Height: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyResize(r, tt.handle, tt.point, minSize)
			if got != tt.want {
				t.Errorf("ApplyResize(%v, %v) = %v, want %v", tt.handle, tt.point, got, tt.want)
			}
		})
	}
}

func TestApplyResizeAnchorsOppositeEdge(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 50, Height: 40}
	// Dragging the west handle must leave the right edge where it was,
	// whatever the pointer does.
	for _, x := range []float64{0, 50, 120, 145, 500} {
		got := ApplyResize(r, HandleW, Point{X: x, Y: 0}, 10)
		if right := got.X + got.Width; right != 150 {
			t.Errorf("right edge moved to %v for pointer x=%v", right, x)
		}
	}
	// Same for the north handle and the bottom edge.
	for _, y := range []float64{0, 90, 135, 500} {
		got := ApplyResize(r, HandleN, Point{X: 0, Y: y}, 10)
		if bottom := got.Y + got.Height; bottom != 140 {
			t.Errorf("bottom edge moved to %v for pointer y=%v", bottom, y)
		}
	}
}

func TestHandleCursor(t *testing.T) {
	tests := []struct {
		h    Handle
		want string
	}{
		{HandleNW, "nwse-resize"},
		{HandleSE, "nwse-resize"},
		{HandleNE, "nesw-resize"},
		{HandleSW, "nesw-resize"},
		{HandleN, "ns-resize"},
		{HandleS, "ns-resize"},
		{HandleW, "ew-resize"},
		{HandleE, "ew-resize"},
		{HandleNone, "default"},
	}
	for _, tt := range tests {
		if got := tt.h.Cursor(); got != tt.want {
			t.Errorf("%v.Cursor() = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestHandleAnchor(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 60}
	tests := []struct {
		h    Handle
		want Point
	}{
		{HandleNW, Point{X: 0, Y: 0}},
		{HandleNE, Point{X: 100, Y: 0}},
		{HandleSW, Point{X: 0, Y: 60}},
		{HandleSE, Point{X: 100, Y: 60}},
		{HandleN, Point{X: 50, Y: 0}},
		{HandleS, Point{X: 50, Y: 60}},
		{HandleW, Point{X: 0, Y: 30}},
		{HandleE, Point{X: 100, Y: 30}},
		{HandleNone, Point{X: 50, Y: 30}},
	}
	for _, tt := range tests {
		if got := tt.h.Anchor(r); got != tt.want {
			t.Errorf("%v.Anchor() = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestHandleCorner(t *testing.T) {
	corners := []Handle{HandleNW, HandleNE, HandleSW, HandleSE}
	for _, h := range corners {
		if !h.Corner() {
			t.Errorf("%v.Corner() = false", h)
		}
	}
	edges := []Handle{HandleN, HandleS, HandleW, HandleE, HandleNone}
	for _, h := range edges {
		if h.Corner() {
			t.Errorf("%v.Corner() = true", h)
		}
	}
}
