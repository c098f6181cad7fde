package geoplot

import (
	"image"
	"image/color"
)

// Polyline is a connected line strip in projected coordinates.
type Polyline [][2]float64

// Axis identifies one side of the plot box.
type Axis int

const (
	AxisBottom Axis = iota
	AxisLeft
	AxisTop
	AxisRight
)

func (a Axis) String() string {
	switch a {
	case AxisBottom:
		return "bottom"
	case AxisLeft:
		return "left"
	case AxisTop:
		return "top"
	case AxisRight:
		return "right"
	}
	return "unknown"
}

// Tick is one labeled graduation on a side of the plot box. Pos is the
// projected coordinate along that side: x for bottom and top, y for left
// and right.
type Tick struct {
	Axis  Axis
	Pos   float64
	Label string
}

// Surface is the drawing backend a Plot forwards to. It keeps a scene of
// artists in projected coordinates: plot-content calls append artists,
// Graticule and Frame replace their layer, SetView moves the visible
// window over the scene. Rasterization to pixels happens outside the
// Plot, in the surface's own rendering path.
type Surface interface {
	SetView(view Rect)
	Coast(polys []CoastPolygon, water, land color.Color, style CoastStyle)
	Graticule(lines []Polyline, style LineStyle)
	Frame(ticks []Tick, style LineStyle)
	Markers(points [][2]float64, style MarkerStyle)
	Arrows(origins, dirs [][2]float64, values []float64, style ArrowStyle)
	Streamlines(x, y []float64, u, v, width, values [][]float64, style StreamStyle)
	Raster(z [][]float64, xlim, ylim [2]float64, style RasterStyle)
	Clear()
}

// ImageRenderer is implemented by surfaces that rasterize their scene.
// The Plot widget renders through it when available; a Surface without it
// can still record and export.
type ImageRenderer interface {
	Render(w, h int) image.Image
}
