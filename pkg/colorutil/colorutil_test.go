package colorutil

import (
	"image/color"
	"testing"
)

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		name    string
		opacity float64
		want    uint8
	}{
		{"full", 1.0, 255},
		{"half", 0.5, 127},
		{"zero", 0, 0},
		{"clamped high", 2.5, 255},
		{"clamped low", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithAlpha(White, tt.opacity)
			if got.A != tt.want {
				t.Errorf("alpha = %d, want %d", got.A, tt.want)
			}
			if got.R != 255 || got.G != 255 || got.B != 255 {
				t.Errorf("color channels changed: %v", got)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	// Fully opaque source replaces the destination.
	got := Blend(Black, White)
	if got.R != 255 || got.G != 255 || got.B != 255 {
		t.Errorf("opaque blend = %v", got)
	}

	// Fully transparent source leaves the destination.
	got = Blend(Green, color.RGBA{R: 255, A: 0})
	if got.R != 0 || got.G != 255 || got.B != 0 {
		t.Errorf("transparent blend = %v", got)
	}

	// Half-alpha red over black gives half red.
	got = Blend(Black, color.RGBA{R: 255, A: 128})
	if got.R < 126 || got.R > 130 {
		t.Errorf("half blend red = %d", got.R)
	}

	// The result is always opaque.
	if got.A != 255 {
		t.Errorf("blend alpha = %d", got.A)
	}
}

func TestDim(t *testing.T) {
	got := Dim(White, 0.5)
	if got.R != 127 || got.G != 127 || got.B != 127 {
		t.Errorf("Dim(White, 0.5) = %v", got)
	}
	if got.A != 255 {
		t.Errorf("Dim changed alpha: %d", got.A)
	}

	if got := Dim(White, 0); got.R != 0 {
		t.Errorf("Dim to zero = %v", got)
	}
	if got := Dim(White, 5); got.R != 255 {
		t.Errorf("Dim clamps factor, got %v", got)
	}
}
