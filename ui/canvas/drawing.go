// Package canvas provides drawing primitives for the annotation canvas.
package canvas

import (
	"image"
	"image/color"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/colorutil"
	"image-annotator/pkg/geometry"
)

// handleDrawSize is the side length of a resize handle square in canvas
// pixels, independent of zoom.
const handleDrawSize = 8

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters A-Z and common symbols.
// Each letter is represented as 5 rows of 3 bits.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'*': {0b000, 0b101, 0b010, 0b101, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	// Convert lowercase to uppercase
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{} // Empty pattern for unsupported characters
}

// draw is the raster drawing function.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Fill with black background (set alpha channel)
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if ac.img != nil {
		ac.drawImage(output, w, h)
	}

	canvas := ac.st.Canvas()
	selectedID := canvas.SelectedID
	hoveredID := canvas.HoveredID

	for _, a := range ac.st.Annotations() {
		ac.drawAnnotation(output, a, a.ID == selectedID, a.ID == hoveredID)
	}

	if sel := ac.st.Selected(); sel != nil {
		ac.drawHandles(output, sel.Bounds)
	}

	// Drawing preview while a new box is dragged out
	if canvas.Drawing && canvas.DrawStart != nil && canvas.DrawCurrent != nil {
		preview := geometry.RectFromPoints(*canvas.DrawStart, *canvas.DrawCurrent)
		ac.drawDashedRect(output, preview, colorutil.Yellow)
	}

	return output
}

// drawImage renders the source image scaled by the current zoom.
func (ac *AnnotationCanvas) drawImage(output *image.RGBA, w, h int) {
	src := ac.img
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Convert canvas coords to image coords
			srcX := int(float64(x)/ac.zoom) + srcBounds.Min.X
			srcY := int(float64(y)/ac.zoom) + srcBounds.Min.Y

			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X ||
				srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
				continue
			}
			output.Set(x, y, src.At(srcX, srcY))
		}
	}
}

// drawAnnotation renders one annotation: translucent fill, outline, and
// the text label when present.
func (ac *AnnotationCanvas) drawAnnotation(output *image.RGBA, a *annotation.Annotation, selected, hovered bool) {
	style := annotation.StyleFor(a.Type, selected, hovered)

	x1 := int(a.Bounds.X * ac.zoom)
	y1 := int(a.Bounds.Y * ac.zoom)
	x2 := int((a.Bounds.X + a.Bounds.Width) * ac.zoom)
	y2 := int((a.Bounds.Y + a.Bounds.Height) * ac.zoom)

	bounds := output.Bounds()

	// Translucent fill
	fill := colorutil.WithAlpha(style.Fill, style.FillOpacity)
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), fill))
		}
	}

	// Outline
	col := style.Stroke
	for t := 0; t < style.StrokeWidth; t++ {
		// Top edge
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y1+t >= bounds.Min.Y && y1+t < bounds.Max.Y {
				output.Set(x, y1+t, col)
			}
		}
		// Bottom edge
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y2-t >= bounds.Min.Y && y2-t < bounds.Max.Y {
				output.Set(x, y2-t, col)
			}
		}
		// Left edge
		for y := y1; y <= y2; y++ {
			if x1+t >= bounds.Min.X && x1+t < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x1+t, y, col)
			}
		}
		// Right edge
		for y := y1; y <= y2; y++ {
			if x2-t >= bounds.Min.X && x2-t < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x2-t, y, col)
			}
		}
	}

	if a.Body.Text != "" {
		ac.drawLabel(output, a.Body.Text, x1, y1, x2, y2, colorutil.White)
	}
}

// drawHandles draws the eight resize handles of the selected annotation.
func (ac *AnnotationCanvas) drawHandles(output *image.RGBA, r geometry.Rect) {
	for _, h := range []geometry.Handle{
		geometry.HandleNW, geometry.HandleNE, geometry.HandleSW, geometry.HandleSE,
		geometry.HandleN, geometry.HandleS, geometry.HandleW, geometry.HandleE,
	} {
		p := h.Anchor(r)
		cx := int(p.X * ac.zoom)
		cy := int(p.Y * ac.zoom)
		ac.drawHandleSquare(output, cx, cy)
	}
}

// drawHandleSquare draws one white handle square with a black border.
func (ac *AnnotationCanvas) drawHandleSquare(output *image.RGBA, cx, cy int) {
	bounds := output.Bounds()
	half := handleDrawSize / 2

	for y := cy - half; y <= cy+half; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			onBorder := x == cx-half || x == cx+half || y == cy-half || y == cy+half
			if onBorder {
				output.Set(x, y, colorutil.Black)
			} else {
				output.Set(x, y, colorutil.White)
			}
		}
	}
}

// drawDashedRect draws a dashed rectangle in canvas coordinates scaled
// from an image-space rect.
func (ac *AnnotationCanvas) drawDashedRect(output *image.RGBA, r geometry.Rect, col color.RGBA) {
	x1 := int(r.X * ac.zoom)
	y1 := int(r.Y * ac.zoom)
	x2 := int((r.X + r.Width) * ac.zoom)
	y2 := int((r.Y + r.Height) * ac.zoom)

	bounds := output.Bounds()

	// Dashed outline (alternate pixel runs)
	// Top edge
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			output.Set(x, y1, col)
		}
	}
	// Bottom edge
	for x := x1; x <= x2; x++ {
		if (x+y2)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			output.Set(x, y2, col)
		}
	}
	// Left edge
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x1, y, col)
		}
	}
	// Right edge
	for y := y1; y <= y2; y++ {
		if (x2+y)%4 < 2 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x2, y, col)
		}
	}
}

// drawLabel draws a centered label inside a rectangle.
func (ac *AnnotationCanvas) drawLabel(output *image.RGBA, label string, x1, y1, x2, y2 int, col color.RGBA) {
	// Calculate scale based on zoom (base scale is 2 pixels per font pixel at zoom 1.0)
	scale := int(ac.zoom * 2)
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	// Character cell metrics (3 pixels per glyph + 1 pixel spacing)
	charWidth := 3 * scale
	spacing := scale

	runes := []rune(label)
	labelWidth := len(runes)*charWidth + (len(runes)-1)*spacing

	// Truncate labels wider than the box
	maxWidth := x2 - x1 - 2*spacing
	if labelWidth > maxWidth && maxWidth > 0 {
		fit := (maxWidth + spacing) / (charWidth + spacing)
		if fit < 1 {
			return
		}
		runes = runes[:fit]
		labelWidth = len(runes)*charWidth + (len(runes)-1)*spacing
	}

	centerX := (x1 + x2) / 2
	startX := centerX - labelWidth/2
	startY := y1 + spacing

	bounds := output.Bounds()

	for i, ch := range runes {
		pattern := getCharPattern(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) != 0 {
					// Draw a scaled pixel block
					for dy := 0; dy < scale; dy++ {
						for dx := 0; dx < scale; dx++ {
							px := charX + c*scale + dx
							py := startY + row*scale + dy
							if px >= bounds.Min.X && px < bounds.Max.X &&
								py >= bounds.Min.Y && py < bounds.Max.Y {
								output.Set(px, py, col)
							}
						}
					}
				}
			}
		}
	}
}
