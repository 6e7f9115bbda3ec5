package geometry

// PercentToPixels converts a rectangle expressed in percent of the image
// dimensions (0-100 per axis) to pixel coordinates.
func PercentToPixels(r Rect, imageWidth, imageHeight float64) Rect {
	return Rect{
		X:      r.X * imageWidth / 100,
		Y:      r.Y * imageHeight / 100,
		Width:  r.Width * imageWidth / 100,
		Height: r.Height * imageHeight / 100,
	}
}

// PixelsToPercent converts a pixel rectangle to percent of the image
// dimensions. It is the exact inverse of PercentToPixels up to
// floating-point rounding.
func PixelsToPercent(r Rect, imageWidth, imageHeight float64) Rect {
	return Rect{
		X:      r.X / imageWidth * 100,
		Y:      r.Y / imageHeight * 100,
		Width:  r.Width / imageWidth * 100,
		Height: r.Height / imageHeight * 100,
	}
}

// PointPercentToPixels converts a point in percent coordinates to pixels.
func PointPercentToPixels(p Point, imageWidth, imageHeight float64) Point {
	return Point{X: p.X * imageWidth / 100, Y: p.Y * imageHeight / 100}
}

// PointPixelsToPercent converts a pixel point to percent coordinates.
func PointPixelsToPercent(p Point, imageWidth, imageHeight float64) Point {
	return Point{X: p.X / imageWidth * 100, Y: p.Y / imageHeight * 100}
}
