package geoplot

import "image/color"

// Style structs enumerate the drawing options each plot kind understands.
// Zero-valued fields keep the surface defaults. ZOrder 0 means the kind's
// default paint layer. Extra carries options only a particular Surface
// implementation understands and is forwarded untouched.

// Default paint layers, bottom to top. Rasters paint under coastlines
// under field lines under point data unless a style says otherwise.
const (
	zRaster  = 10
	zCoast   = 20
	zStream  = 40
	zQuiver  = 50
	zScatter = 60
)

// LineStyle strokes plain lines such as the graticule and the frame.
type LineStyle struct {
	Color  color.Color
	Width  float64
	ZOrder int
	Extra  map[string]any
}

// CoastStyle shades shorelines. Water and Land, when set, replace the
// plot-wide fill colors for this and every later coastline pass.
type CoastStyle struct {
	Water     color.Color
	Land      color.Color
	LineColor color.Color
	LineWidth float64
	ZOrder    int
	Extra     map[string]any
}

// MarkerStyle draws scatter points.
type MarkerStyle struct {
	Color  color.Color
	Size   float64 // marker diameter in device pixels
	Marker byte    // 'o' dot, 's' square, 'x' cross, '+' plus, '^' triangle
	ZOrder int
	Extra  map[string]any
}

// ArrowStyle draws quiver arrows.
type ArrowStyle struct {
	Color    color.Color // constant arrow color when no value vector is given
	Colormap string      // ramp for value-colored arrows
	Scale    float64     // projected units per unit of vector magnitude
	Width    float64     // shaft width in device pixels
	ZOrder   int
	Extra    map[string]any
}

// StreamStyle traces and strokes stream lines. LineWidth is the stroke
// width, or the maximum width when the plot modulates widths per node.
type StreamStyle struct {
	Color     color.Color // constant color; value-colored plots override it
	Colormap  string
	Density   float64 // seed density, 1 matches the default seed grid
	LineWidth float64
	ZOrder    int
	Extra     map[string]any
}

// RasterStyle colors gridded fields. VMin == VMax means the color range
// spans the data.
type RasterStyle struct {
	Colormap      string
	Alpha         float64 // 0 means opaque
	Interpolation string  // "bilinear" (default) or "nearest"
	VMin, VMax    float64
	ZOrder        int
	Extra         map[string]any
}
