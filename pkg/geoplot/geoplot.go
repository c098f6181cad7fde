package geoplot

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/projection"
)

var _ fyne.Widget = (*Plot)(nil)

// TickMode selects which graduations go on which side of the plot box.
type TickMode int

const (
	// TicksSignificant puts on each side whichever of lon or lat
	// produces more graduations there.
	TicksSignificant TickMode = iota
	// TicksBoth puts lon and lat graduations on every side.
	TicksBoth
	// TicksLonLat puts lon on bottom and top, lat on left and right.
	TicksLonLat
	// TicksLatLon is TicksLonLat reversed.
	TicksLatLon
)

func (m TickMode) String() string {
	switch m {
	case TicksSignificant:
		return "significant"
	case TicksBoth:
		return "both"
	case TicksLonLat:
		return "lonlat"
	case TicksLatLon:
		return "latlon"
	}
	return "unknown"
}

// ParseTickMode resolves the config-file names of the tick modes.
func ParseTickMode(s string) (TickMode, error) {
	for _, m := range []TickMode{TicksSignificant, TicksBoth, TicksLonLat, TicksLatLon} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown tick mode %q", s)
}

// GridConfig is the graticule configuration. Each Grid call replaces it
// wholesale.
type GridConfig struct {
	On        bool
	Spacing   float64 // degrees between graticule lines
	AnchorLon float64 // a meridian the spacing is anchored to
	AnchorLat float64
	Style     LineStyle
}

// Plot is a deferred geospatial plotting widget. Plot methods never draw:
// they validate, append a pending action and schedule a flush. The flush
// runs once axis limits are known, projecting pending data through the
// projection and forwarding everything to the Surface exactly once.
//
// Plot methods are meant for a single goroutine; the internal lock only
// separates them from the render-driven flush.
type Plot struct {
	widget.BaseWidget

	proj  projection.Projection
	surf  Surface
	coast CoastSource

	mu      sync.Mutex
	actions []Action

	userXLim, userYLim [2]float64
	hasXLim, hasYLim   bool
	dataRect           Rect
	hasData            bool
	view               Rect
	hasView            bool

	grid       GridConfig
	tickMode   TickMode
	waterColor color.Color
	landColor  color.Color
	verbose    int

	dirty    bool
	schedule func()
}

// Option configures a Plot during New.
type Option func(*Plot) error

// WithLimits sets both user view limits up front, like passing limits to
// the constructor of a figure.
func WithLimits(xlim, ylim [2]float64) Option {
	return func(p *Plot) error {
		if xlim[1] <= xlim[0] || ylim[1] <= ylim[0] {
			return fmt.Errorf("limits: empty range %v %v", xlim, ylim)
		}
		p.userXLim, p.hasXLim = xlim, true
		p.userYLim, p.hasYLim = ylim, true
		return nil
	}
}

// WithCoastlines attaches the shoreline source Coastline draws from.
func WithCoastlines(src CoastSource) Option {
	return func(p *Plot) error {
		p.coast = src
		return nil
	}
}

func WithTickMode(m TickMode) Option {
	return func(p *Plot) error {
		if m < TicksSignificant || m > TicksLatLon {
			return fmt.Errorf("unknown tick mode %d", m)
		}
		p.tickMode = m
		return nil
	}
}

func WithWaterColor(c color.Color) Option {
	return func(p *Plot) error {
		p.waterColor = c
		return nil
	}
}

func WithLandColor(c color.Color) Option {
	return func(p *Plot) error {
		p.landColor = c
		return nil
	}
}

// WithVerbose raises the log level; 0 is quiet.
func WithVerbose(v int) Option {
	return func(p *Plot) error {
		p.verbose = v
		return nil
	}
}

// WithScheduleFunc replaces the flush trigger, which is Refresh by
// default. Mostly for driving the plot outside a Fyne app.
func WithScheduleFunc(f func()) Option {
	return func(p *Plot) error {
		if f == nil {
			return errors.New("nil schedule func")
		}
		p.schedule = f
		return nil
	}
}

// New builds a plot drawing onto surf through proj. Both are required;
// everything else has defaults: significant ticks, a 1° graticule,
// lightblue water on white land.
func New(surf Surface, proj projection.Projection, options ...Option) (*Plot, error) {
	if surf == nil {
		return nil, errors.New("geoplot: nil surface")
	}
	if proj == nil {
		return nil, errors.New("geoplot: nil projection")
	}
	p := &Plot{
		proj:       proj,
		surf:       surf,
		tickMode:   TicksSignificant,
		waterColor: colors.GetColor("lightblue"),
		landColor:  colors.GetColor("white"),
		grid: GridConfig{
			On:      true,
			Spacing: 1.0,
			Style:   LineStyle{Width: 0.5},
		},
	}
	p.ExtendBaseWidget(p)
	p.schedule = p.Refresh

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	if p.hasXLim || p.hasYLim {
		p.markDirty()
	}
	return p, nil
}

// MinSize returns the smallest useful canvas for a plot.
func (p *Plot) MinSize() fyne.Size {
	return fyne.NewSize(160, 120)
}

// Projection returns the projection the plot was built with.
func (p *Plot) Projection() projection.Projection {
	return p.proj
}

// Pending returns a snapshot of the scheduled actions, oldest first.
func (p *Plot) Pending() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

// Dirty reports whether scheduled work awaits a flush.
func (p *Plot) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// DataLimits returns the extent claimed by data-plotting calls so far.
func (p *Plot) DataLimits() (xlim, ylim [2]float64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasData {
		return xlim, ylim, false
	}
	return [2]float64{p.dataRect.X0, p.dataRect.X1}, [2]float64{p.dataRect.Y0, p.dataRect.Y1}, true
}

// View returns the projected window resolved by the last flush.
func (p *Plot) View() (Rect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.hasView
}

// GridConfig returns the current graticule configuration.
func (p *Plot) GridConfig() GridConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid
}

// SetXLim sets the user x view bounds in projected coordinates.
func (p *Plot) SetXLim(lo, hi float64) error {
	if hi <= lo {
		return fmt.Errorf("xlim: empty range [%g, %g]", lo, hi)
	}
	p.mu.Lock()
	p.userXLim = [2]float64{lo, hi}
	p.hasXLim = true
	p.mu.Unlock()
	p.markDirty()
	return nil
}

// SetYLim sets the user y view bounds in projected coordinates.
func (p *Plot) SetYLim(lo, hi float64) error {
	if hi <= lo {
		return fmt.Errorf("ylim: empty range [%g, %g]", lo, hi)
	}
	p.mu.Lock()
	p.userYLim = [2]float64{lo, hi}
	p.hasYLim = true
	p.mu.Unlock()
	p.markDirty()
	return nil
}

// SetCoastSource replaces the shoreline source for later Coastline
// calls. Already scheduled coastline actions keep the polygons they
// were read with.
func (p *Plot) SetCoastSource(src CoastSource) {
	p.mu.Lock()
	p.coast = src
	p.mu.Unlock()
}

// SetTickMode changes which graduations the next flush puts on the box.
func (p *Plot) SetTickMode(m TickMode) error {
	if m < TicksSignificant || m > TicksLatLon {
		return fmt.Errorf("unknown tick mode %d", m)
	}
	p.mu.Lock()
	p.tickMode = m
	p.mu.Unlock()
	p.markDirty()
	return nil
}

// Coastline schedules shorelines up to level (1 land .. 4 pond). Style
// water and land colors, when set, replace the plot-wide fill colors.
// Without a coastline source the call fails with ErrNoCoastlines no
// matter the arguments.
func (p *Plot) Coastline(level int, style *CoastStyle) error {
	st := CoastStyle{}
	if style != nil {
		st = *style
	}
	p.mu.Lock()
	if p.coast == nil {
		p.mu.Unlock()
		return ErrNoCoastlines
	}
	if st.Water != nil {
		p.waterColor = st.Water
	}
	if st.Land != nil {
		p.landColor = st.Land
	}
	if st.ZOrder == 0 {
		st.ZOrder = zCoast
	}
	p.appendLocked(&CoastlineAction{baseAction: baseAction{z: st.ZOrder}, Level: level, Style: st})
	p.mu.Unlock()
	p.schedule()
	return nil
}

// Grid replaces the graticule configuration. spacing is the line distance
// in degrees, anchored at (anchorLon, anchorLat). An unset style width
// falls back to 0.5.
func (p *Plot) Grid(on bool, spacing, anchorLon, anchorLat float64, style *LineStyle) error {
	if spacing <= 0 {
		return fmt.Errorf("grid: spacing must be positive, got %g", spacing)
	}
	st := LineStyle{}
	if style != nil {
		st = *style
	}
	if st.Width == 0 {
		st.Width = 0.5
	}
	p.mu.Lock()
	p.grid = GridConfig{On: on, Spacing: spacing, AnchorLon: anchorLon, AnchorLat: anchorLat, Style: st}
	p.mu.Unlock()
	p.markDirty()
	return nil
}

// Scatter schedules markers at the geodetic positions. The slices are
// retained, not copied.
func (p *Plot) Scatter(lon, lat []float64, style *MarkerStyle) error {
	if len(lon) == 0 || len(lon) != len(lat) {
		return fmt.Errorf("scatter: got %d longitudes and %d latitudes", len(lon), len(lat))
	}
	st := MarkerStyle{}
	if style != nil {
		st = *style
	}
	if st.ZOrder == 0 {
		st.ZOrder = zScatter
	}
	p.mu.Lock()
	p.appendLocked(&ScatterAction{baseAction: baseAction{z: st.ZOrder}, Lon: lon, Lat: lat, Style: st})
	p.mu.Unlock()
	p.schedule()
	return nil
}

// Quiver schedules arrows anchored at the geodetic positions. u and v are
// the components along +x and +y of the projected plane; c optionally
// colors each arrow by value.
func (p *Plot) Quiver(lon, lat, u, v []float64, c []float64, style *ArrowStyle) error {
	n := len(lon)
	if n == 0 || len(lat) != n || len(u) != n || len(v) != n {
		return fmt.Errorf("quiver: got %d/%d positions and %d/%d components",
			len(lon), len(lat), len(u), len(v))
	}
	if c != nil && len(c) != n {
		return fmt.Errorf("quiver: got %d color values for %d arrows", len(c), n)
	}
	st := ArrowStyle{}
	if style != nil {
		st = *style
	}
	if st.ZOrder == 0 {
		st.ZOrder = zQuiver
	}
	p.mu.Lock()
	p.appendLocked(&QuiverAction{
		baseAction: baseAction{z: st.ZOrder},
		Lon:        lon, Lat: lat, U: u, V: v, C: c,
		Style: st,
	})
	p.mu.Unlock()
	p.schedule()
	return nil
}

// StreamplotProjected schedules stream lines over a regular grid given in
// projected coordinates. u and v are indexed [y][x].
func (p *Plot) StreamplotProjected(x, y []float64, u, v [][]float64, style *StreamStyle) error {
	if err := checkGrid(x, y, u, v); err != nil {
		return fmt.Errorf("streamplot: %w", err)
	}
	st := StreamStyle{}
	if style != nil {
		st = *style
	}
	if st.ZOrder == 0 {
		st.ZOrder = zStream
	}
	p.mu.Lock()
	p.appendLocked(&StreamlineAction{
		baseAction: baseAction{z: st.ZOrder},
		X:          x, Y: y, U: u, V: v,
		Style: st,
	})
	p.mu.Unlock()
	p.schedule()
	return nil
}

// Streamplot would trace stream lines over a geodetic grid. Interpolating
// such a grid onto the projected plane was never built, so the call
// always fails with ErrNotImplemented.
func (p *Plot) Streamplot(lon, lat []float64, u, v [][]float64, style *StreamStyle) error {
	return ErrNotImplemented
}

// TensorField samples a symmetric 2x2 tensor on a regular grid. Exactly
// one of the axis pairs (Lon, Lat) or (X, Y) must be set. T1, T2 and
// Angle hold the principal components and the first axis bearing in
// degrees from north, row-major with rows along the second axis.
type TensorField struct {
	Lon, Lat []float64
	X, Y     []float64
	T1, T2   []float64
	Angle    []float64
}

// TensorfieldSymmetric2D visualizes a symmetric tensor field with stream
// lines: line direction follows the first principal axis, stroke width
// the component difference t1-t2, color the first component. A style
// color is overridden by the computed values with a logged warning.
//
// A geodetic grid schedules fine but is drawn only when the projection
// maps lon and lat separably; otherwise the flush skips it with a
// warning.
func (p *Plot) TensorfieldSymmetric2D(f TensorField, style *StreamStyle) error {
	lonSet, latSet := len(f.Lon) > 0, len(f.Lat) > 0
	xSet, ySet := len(f.X) > 0, len(f.Y) > 0
	if lonSet != latSet || xSet != ySet || lonSet == xSet {
		return fmt.Errorf("tensor field: exactly one of the pairs (lon, lat) or (x, y) must be given: %w", ErrTensorInput)
	}
	if len(f.T1) == 0 || len(f.T2) == 0 || len(f.Angle) == 0 {
		return fmt.Errorf("tensor field: t1, t2 and angle must be given: %w", ErrTensorInput)
	}
	ax, ay := f.X, f.Y
	geodetic := lonSet
	if geodetic {
		ax, ay = f.Lon, f.Lat
	}
	nx, ny := len(ax), len(ay)
	if len(f.T1) != nx*ny || len(f.T2) != nx*ny || len(f.Angle) != nx*ny {
		return fmt.Errorf("tensor field: %d tensor samples on a %dx%d grid: %w",
			len(f.T1), nx, ny, ErrTensorInput)
	}

	st := StreamStyle{}
	if style != nil {
		st = *style
	}
	if st.Color != nil {
		log.Printf("geoplot: tensor field overrides the configured stream color with computed values")
		st.Color = nil
	}
	if st.LineWidth == 0 {
		st.LineWidth = 1.0
	}
	if st.ZOrder == 0 {
		st.ZOrder = zStream
	}

	// Direction from the bearing, widths from the component difference
	// normalized to [0, LineWidth], color values from t1. A flat width
	// field normalizes to zero rather than dividing by zero.
	wmin, wmax := math.Inf(1), math.Inf(-1)
	for i := range f.T1 {
		w := f.T1[i] - f.T2[i]
		wmin = math.Min(wmin, w)
		wmax = math.Max(wmax, w)
	}
	u := make([][]float64, ny)
	v := make([][]float64, ny)
	width := make([][]float64, ny)
	values := make([][]float64, ny)
	for j := 0; j < ny; j++ {
		u[j] = make([]float64, nx)
		v[j] = make([]float64, nx)
		width[j] = make([]float64, nx)
		values[j] = make([]float64, nx)
		for i := 0; i < nx; i++ {
			k := j*nx + i
			rad := f.Angle[k] * math.Pi / 180.0
			u[j][i] = math.Sin(rad)
			v[j][i] = math.Cos(rad)
			if wmax > wmin {
				width[j][i] = st.LineWidth * (f.T1[k] - f.T2[k] - wmin) / (wmax - wmin)
			}
			values[j][i] = f.T1[k]
		}
	}

	p.mu.Lock()
	p.appendLocked(&StreamlineAction{
		baseAction: baseAction{z: st.ZOrder},
		X:          ax, Y: ay, U: u, V: v,
		Width: width, Values: values,
		Geodetic: geodetic,
		Style:    st,
	})
	p.mu.Unlock()
	p.schedule()
	return nil
}

// ImshowProjected schedules a gridded field covering the projected extent
// xlim x ylim. The extent widens the plot's data limits immediately;
// data limits only ever grow.
func (p *Plot) ImshowProjected(z [][]float64, xlim, ylim [2]float64, style *RasterStyle) error {
	if len(z) == 0 || len(z[0]) == 0 {
		return errors.New("imshow: empty grid")
	}
	for _, row := range z {
		if len(row) != len(z[0]) {
			return fmt.Errorf("imshow: ragged grid, row of %d in a grid of %d columns", len(row), len(z[0]))
		}
	}
	if xlim[1] <= xlim[0] || ylim[1] <= ylim[0] {
		return fmt.Errorf("imshow: empty extent %v %v", xlim, ylim)
	}
	st := RasterStyle{}
	if style != nil {
		st = *style
	}
	if st.ZOrder == 0 {
		st.ZOrder = zRaster
	}
	p.mu.Lock()
	p.widenDataLocked(Rect{X0: xlim[0], Y0: ylim[0], X1: xlim[1], Y1: ylim[1]})
	p.appendLocked(&RasterAction{
		baseAction: baseAction{z: st.ZOrder},
		Z:          z, XLim: xlim, YLim: ylim,
		Style: st,
	})
	p.mu.Unlock()
	p.schedule()
	return nil
}

func checkGrid(x, y []float64, u, v [][]float64) error {
	if len(x) == 0 || len(y) == 0 {
		return errors.New("empty grid axes")
	}
	if len(u) != len(y) || len(v) != len(y) {
		return fmt.Errorf("got %d/%d field rows for %d y nodes", len(u), len(v), len(y))
	}
	for j := range u {
		if len(u[j]) != len(x) || len(v[j]) != len(x) {
			return fmt.Errorf("row %d: got %d/%d components for %d x nodes", j, len(u[j]), len(v[j]), len(x))
		}
	}
	return nil
}

// appendLocked adds an action and marks the plot dirty. Callers hold mu
// and invoke the schedule callback after unlocking.
func (p *Plot) appendLocked(a Action) {
	p.actions = append(p.actions, a)
	p.dirty = true
}

func (p *Plot) widenDataLocked(r Rect) {
	if !p.hasData {
		p.dataRect = r
		p.hasData = true
		return
	}
	p.dataRect = p.dataRect.Union(r)
}

func (p *Plot) markDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
	p.schedule()
}
