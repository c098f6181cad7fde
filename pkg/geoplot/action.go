package geoplot

// Action is one deferred plotting request. Facade methods append actions
// to the pending list; a flush pass forwards each exactly once to the
// Surface, lowest z-order first, oldest first within a layer.
type Action interface {
	Kind() string
	ZOrder() int
	// Executed reports whether a flush pass has already forwarded this
	// action to the surface.
	Executed() bool

	mark()
}

type baseAction struct {
	z    int
	done bool
}

func (b *baseAction) ZOrder() int {
	return b.z
}

func (b *baseAction) Executed() bool {
	return b.done
}

func (b *baseAction) mark() {
	b.done = true
}

// CoastlineAction requests shorelines up to Level from the plot's
// coastline source.
type CoastlineAction struct {
	baseAction
	Level int
	Style CoastStyle
}

func (*CoastlineAction) Kind() string { return "coastline" }

// ScatterAction plots markers at geodetic positions.
type ScatterAction struct {
	baseAction
	Lon, Lat []float64
	Style    MarkerStyle

	px, py []float64 // projected during the flush pre-pass
}

func (*ScatterAction) Kind() string { return "scatter" }

// QuiverAction plots arrows at geodetic positions. U and V are the vector
// components along +x and +y of the projected plane; C optionally colors
// each arrow by value.
type QuiverAction struct {
	baseAction
	Lon, Lat []float64
	U, V     []float64
	C        []float64
	Style    ArrowStyle

	px, py []float64
}

func (*QuiverAction) Kind() string { return "quiver" }

// StreamlineAction traces stream lines over a regular grid. X and Y are
// the grid axes, U and V the field components indexed [y][x]. Width and
// Values, when non-nil, modulate stroke width and color per grid node.
// Geodetic marks the axes as lon/lat; such grids can only be drawn when
// the projection maps axes separably, and are skipped with a warning
// otherwise.
type StreamlineAction struct {
	baseAction
	X, Y     []float64
	U, V     [][]float64
	Width    [][]float64
	Values   [][]float64
	Geodetic bool
	Style    StreamStyle

	px, py []float64 // per-axis projection of geodetic axes
}

func (*StreamlineAction) Kind() string { return "streamline" }

// RasterAction shades a gridded field over a projected extent.
type RasterAction struct {
	baseAction
	Z          [][]float64
	XLim, YLim [2]float64
	Style      RasterStyle
}

func (*RasterAction) Kind() string { return "raster" }
