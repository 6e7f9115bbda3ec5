package annotation

import (
	"image/color"

	"image-annotator/pkg/colorutil"
)

// Style holds the render attributes for one annotation state.
type Style struct {
	Fill        color.RGBA
	FillOpacity float64
	Stroke      color.RGBA
	StrokeWidth int
}

// styleTable is the fixed base/selected/hover style set per annotation type.
var styleTable = map[Type]struct{ base, selected, hover Style }{
	TypeBBox: {
		base:     Style{Fill: colorutil.Green, FillOpacity: 0.12, Stroke: colorutil.Green, StrokeWidth: 2},
		selected: Style{Fill: colorutil.Yellow, FillOpacity: 0.18, Stroke: colorutil.Yellow, StrokeWidth: 3},
		hover:    Style{Fill: colorutil.Cyan, FillOpacity: 0.15, Stroke: colorutil.Cyan, StrokeWidth: 2},
	},
	TypePolygon: {
		base:     Style{Fill: colorutil.Blue, FillOpacity: 0.12, Stroke: colorutil.Blue, StrokeWidth: 2},
		selected: Style{Fill: colorutil.Yellow, FillOpacity: 0.18, Stroke: colorutil.Yellow, StrokeWidth: 3},
		hover:    Style{Fill: colorutil.Cyan, FillOpacity: 0.15, Stroke: colorutil.Cyan, StrokeWidth: 2},
	},
	TypePoint: {
		base:     Style{Fill: colorutil.Magenta, FillOpacity: 0.5, Stroke: colorutil.Magenta, StrokeWidth: 2},
		selected: Style{Fill: colorutil.Yellow, FillOpacity: 0.6, Stroke: colorutil.Yellow, StrokeWidth: 3},
		hover:    Style{Fill: colorutil.Cyan, FillOpacity: 0.5, Stroke: colorutil.Cyan, StrokeWidth: 2},
	},
}

// StyleFor returns the render style for an annotation type and state.
// Selection takes precedence over hover.
func StyleFor(t Type, selected, hovered bool) Style {
	entry, ok := styleTable[t]
	if !ok {
		entry = styleTable[TypeBBox]
	}
	switch {
	case selected:
		return entry.selected
	case hovered:
		return entry.hover
	default:
		return entry.base
	}
}
