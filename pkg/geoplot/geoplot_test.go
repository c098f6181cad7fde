package geoplot_test

import (
	"bytes"
	"errors"
	"log"
	"math"
	"os"
	"testing"

	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/projection"
)

func newTestPlot(t *testing.T, opts ...geoplot.Option) (*geoplot.Plot, *fakeSurface) {
	t.Helper()
	surf := &fakeSurface{}
	opts = append([]geoplot.Option{geoplot.WithScheduleFunc(func() {})}, opts...)
	p, err := geoplot.New(surf, projection.NewPlateCarree(0), opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return p, surf
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		surf geoplot.Surface
		proj projection.Projection
		opts []geoplot.Option
	}{
		{
			name: "nil surface",
			surf: nil,
			proj: projection.NewPlateCarree(0),
		},
		{
			name: "nil projection",
			surf: &fakeSurface{},
			proj: nil,
		},
		{
			name: "empty limits",
			surf: &fakeSurface{},
			proj: projection.NewPlateCarree(0),
			opts: []geoplot.Option{geoplot.WithLimits([2]float64{1, 1}, [2]float64{0, 1})},
		},
		{
			name: "nil schedule func",
			surf: &fakeSurface{},
			proj: projection.NewPlateCarree(0),
			opts: []geoplot.Option{geoplot.WithScheduleFunc(nil)},
		},
		{
			name: "unknown tick mode",
			surf: &fakeSurface{},
			proj: projection.NewPlateCarree(0),
			opts: []geoplot.Option{geoplot.WithTickMode(geoplot.TickMode(99))},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := geoplot.New(tt.surf, tt.proj, tt.opts...); err == nil {
				t.Fatal("New() succeeded unexpectedly")
			}
		})
	}
}

func TestScatterSchedules(t *testing.T) {
	calls := 0
	surf := &fakeSurface{}
	p, err := geoplot.New(surf, projection.NewPlateCarree(0),
		geoplot.WithScheduleFunc(func() { calls++ }))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := p.Scatter([]float64{1, 2}, []float64{3, 4}, nil); err != nil {
		t.Fatalf("Scatter() failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("schedule callback ran %d times, want 1", calls)
	}
	if !p.Dirty() {
		t.Error("Dirty() = false after Scatter")
	}
	pending := p.Pending()
	if len(pending) != 1 {
		t.Fatalf("Pending() returned %d actions, want 1", len(pending))
	}
	if pending[0].Kind() != "scatter" {
		t.Errorf("Kind() = %q, want scatter", pending[0].Kind())
	}
	if pending[0].Executed() {
		t.Error("Executed() = true before any flush")
	}
	if len(surf.seq) != 0 {
		t.Errorf("surface touched before flush: %v", surf.seq)
	}
}

func TestScatterValidation(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		lon  []float64
		lat  []float64
	}{
		{
			name: "empty",
			lon:  nil,
			lat:  nil,
		},
		{
			name: "length mismatch",
			lon:  []float64{1, 2},
			lat:  []float64{3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPlot(t)
			if err := p.Scatter(tt.lon, tt.lat, nil); err == nil {
				t.Fatal("Scatter() succeeded unexpectedly")
			}
			if len(p.Pending()) != 0 {
				t.Error("rejected call still scheduled an action")
			}
		})
	}
}

func TestQuiverValidation(t *testing.T) {
	tests := []struct {
		name              string // description of this test case
		lon, lat, u, v, c []float64
		wantErr           bool
	}{
		{
			name: "valid",
			lon:  []float64{1}, lat: []float64{2}, u: []float64{3}, v: []float64{4},
		},
		{
			name: "valid with colors",
			lon:  []float64{1}, lat: []float64{2}, u: []float64{3}, v: []float64{4}, c: []float64{5},
		},
		{
			name: "component mismatch",
			lon:  []float64{1}, lat: []float64{2}, u: []float64{3, 4}, v: []float64{4},
			wantErr: true,
		},
		{
			name: "color mismatch",
			lon:  []float64{1}, lat: []float64{2}, u: []float64{3}, v: []float64{4}, c: []float64{5, 6},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPlot(t)
			gotErr := p.Quiver(tt.lon, tt.lat, tt.u, tt.v, tt.c, nil)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Quiver() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Quiver() succeeded unexpectedly")
			}
		})
	}
}

func TestCoastlineWithoutSource(t *testing.T) {
	p, _ := newTestPlot(t)
	err := p.Coastline(1, nil)
	if !errors.Is(err, geoplot.ErrNoCoastlines) {
		t.Fatalf("Coastline() = %v, want ErrNoCoastlines", err)
	}
}

func TestStreamplotNotImplemented(t *testing.T) {
	p, _ := newTestPlot(t)
	err := p.Streamplot([]float64{0, 1}, []float64{0, 1},
		[][]float64{{1, 1}, {1, 1}}, [][]float64{{0, 0}, {0, 0}}, nil)
	if !errors.Is(err, geoplot.ErrNotImplemented) {
		t.Fatalf("Streamplot() = %v, want ErrNotImplemented", err)
	}
	if len(p.Pending()) != 0 {
		t.Error("Streamplot scheduled an action")
	}
}

func TestStreamplotProjectedValidation(t *testing.T) {
	tests := []struct {
		name    string // description of this test case
		x, y    []float64
		u, v    [][]float64
		wantErr bool
	}{
		{
			name: "valid",
			x:    []float64{0, 1}, y: []float64{0, 1, 2},
			u: [][]float64{{1, 1}, {1, 1}, {1, 1}},
			v: [][]float64{{0, 0}, {0, 0}, {0, 0}},
		},
		{
			name: "empty axes",
			x:    nil, y: []float64{0},
			u: [][]float64{{1}}, v: [][]float64{{1}},
			wantErr: true,
		},
		{
			name: "row count mismatch",
			x:    []float64{0, 1}, y: []float64{0, 1, 2},
			u: [][]float64{{1, 1}, {1, 1}},
			v: [][]float64{{0, 0}, {0, 0}, {0, 0}},
			wantErr: true,
		},
		{
			name: "row length mismatch",
			x:    []float64{0, 1}, y: []float64{0, 1},
			u: [][]float64{{1, 1}, {1}},
			v: [][]float64{{0, 0}, {0, 0}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPlot(t)
			gotErr := p.StreamplotProjected(tt.x, tt.y, tt.u, tt.v, nil)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("StreamplotProjected() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("StreamplotProjected() succeeded unexpectedly")
			}
		})
	}
}

func TestImshowWidensDataLimits(t *testing.T) {
	p, _ := newTestPlot(t)
	z := [][]float64{{1, 2}, {3, 4}}

	if err := p.ImshowProjected(z, [2]float64{0, 10}, [2]float64{0, 5}, nil); err != nil {
		t.Fatalf("ImshowProjected() failed: %v", err)
	}
	xlim, ylim, ok := p.DataLimits()
	if !ok {
		t.Fatal("DataLimits() not set after ImshowProjected")
	}
	if xlim != [2]float64{0, 10} || ylim != [2]float64{0, 5} {
		t.Fatalf("DataLimits() = %v %v, want [0 10] [0 5]", xlim, ylim)
	}

	// A second extent only ever widens, never shrinks.
	if err := p.ImshowProjected(z, [2]float64{-5, 3}, [2]float64{2, 8}, nil); err != nil {
		t.Fatalf("ImshowProjected() failed: %v", err)
	}
	xlim, ylim, _ = p.DataLimits()
	if xlim != [2]float64{-5, 10} || ylim != [2]float64{0, 8} {
		t.Fatalf("DataLimits() = %v %v, want [-5 10] [0 8]", xlim, ylim)
	}
}

func TestImshowValidation(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		z    [][]float64
		xlim [2]float64
		ylim [2]float64
	}{
		{
			name: "empty grid",
			z:    nil,
			xlim: [2]float64{0, 1}, ylim: [2]float64{0, 1},
		},
		{
			name: "ragged grid",
			z:    [][]float64{{1, 2}, {3}},
			xlim: [2]float64{0, 1}, ylim: [2]float64{0, 1},
		},
		{
			name: "empty x extent",
			z:    [][]float64{{1}},
			xlim: [2]float64{2, 2}, ylim: [2]float64{0, 1},
		},
		{
			name: "inverted y extent",
			z:    [][]float64{{1}},
			xlim: [2]float64{0, 1}, ylim: [2]float64{1, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPlot(t)
			if err := p.ImshowProjected(tt.z, tt.xlim, tt.ylim, nil); err == nil {
				t.Fatal("ImshowProjected() succeeded unexpectedly")
			}
		})
	}
}

func TestSetLimitsValidation(t *testing.T) {
	p, _ := newTestPlot(t)
	if err := p.SetXLim(2, 2); err == nil {
		t.Error("SetXLim(2, 2) succeeded unexpectedly")
	}
	if err := p.SetYLim(3, 1); err == nil {
		t.Error("SetYLim(3, 1) succeeded unexpectedly")
	}
	if err := p.SetXLim(-1, 1); err != nil {
		t.Errorf("SetXLim(-1, 1) failed: %v", err)
	}
}

func TestTensorFieldSinglePoint(t *testing.T) {
	p, _ := newTestPlot(t)
	f := geoplot.TensorField{
		Lon:   []float64{0},
		Lat:   []float64{0},
		T1:    []float64{2},
		T2:    []float64{1},
		Angle: []float64{0},
	}
	if err := p.TensorfieldSymmetric2D(f, nil); err != nil {
		t.Fatalf("TensorfieldSymmetric2D() failed: %v", err)
	}
	pending := p.Pending()
	if len(pending) != 1 {
		t.Fatalf("Pending() returned %d actions, want 1", len(pending))
	}
	sa, ok := pending[0].(*geoplot.StreamlineAction)
	if !ok {
		t.Fatalf("scheduled a %T, want *StreamlineAction", pending[0])
	}
	if !sa.Geodetic {
		t.Error("lon/lat input did not set Geodetic")
	}
	if got := sa.U[0][0]; math.Abs(got) > 1e-15 {
		t.Errorf("U[0][0] = %g, want 0 for a northward bearing", got)
	}
	if got := sa.V[0][0]; math.Abs(got-1) > 1e-15 {
		t.Errorf("V[0][0] = %g, want 1 for a northward bearing", got)
	}
	// A single sample has a flat width field; it normalizes to zero
	// instead of dividing by zero.
	if got := sa.Width[0][0]; got != 0 {
		t.Errorf("Width[0][0] = %g, want 0", got)
	}
	if got := sa.Values[0][0]; got != 2 {
		t.Errorf("Values[0][0] = %g, want t1", got)
	}
}

func TestTensorFieldWidthNormalization(t *testing.T) {
	p, _ := newTestPlot(t)
	f := geoplot.TensorField{
		X:     []float64{0, 1},
		Y:     []float64{0},
		T1:    []float64{5, 9},
		T2:    []float64{1, 1},
		Angle: []float64{90, 90},
	}
	if err := p.TensorfieldSymmetric2D(f, &geoplot.StreamStyle{LineWidth: 3}); err != nil {
		t.Fatalf("TensorfieldSymmetric2D() failed: %v", err)
	}
	sa := p.Pending()[0].(*geoplot.StreamlineAction)
	if sa.Geodetic {
		t.Error("x/y input set Geodetic")
	}
	// Differences 4 and 8 span [4, 8], so widths map to 0 and LineWidth.
	if got := sa.Width[0][0]; got != 0 {
		t.Errorf("Width[0][0] = %g, want 0", got)
	}
	if got := sa.Width[0][1]; got != 3 {
		t.Errorf("Width[0][1] = %g, want 3", got)
	}
	if got := sa.U[0][0]; math.Abs(got-1) > 1e-15 {
		t.Errorf("U[0][0] = %g, want 1 for an eastward bearing", got)
	}
	if got := sa.V[0][0]; math.Abs(got) > 1e-15 {
		t.Errorf("V[0][0] = %g, want 0 for an eastward bearing", got)
	}
}

func TestTensorFieldValidation(t *testing.T) {
	grid := geoplot.TensorField{
		T1:    []float64{1},
		T2:    []float64{0},
		Angle: []float64{0},
	}
	tests := []struct {
		name  string // description of this test case
		field func() geoplot.TensorField
	}{
		{
			name: "both coordinate pairs",
			field: func() geoplot.TensorField {
				f := grid
				f.Lon, f.Lat = []float64{0}, []float64{0}
				f.X, f.Y = []float64{0}, []float64{0}
				return f
			},
		},
		{
			name: "no coordinate pair",
			field: func() geoplot.TensorField {
				return grid
			},
		},
		{
			name: "half a pair",
			field: func() geoplot.TensorField {
				f := grid
				f.Lon = []float64{0}
				return f
			},
		},
		{
			name: "mixed halves",
			field: func() geoplot.TensorField {
				f := grid
				f.Lon, f.Y = []float64{0}, []float64{0}
				return f
			},
		},
		{
			name: "missing tensor",
			field: func() geoplot.TensorField {
				return geoplot.TensorField{Lon: []float64{0}, Lat: []float64{0}}
			},
		},
		{
			name: "sample count mismatch",
			field: func() geoplot.TensorField {
				f := grid
				f.Lon, f.Lat = []float64{0, 1}, []float64{0}
				return f
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPlot(t)
			err := p.TensorfieldSymmetric2D(tt.field(), nil)
			if !errors.Is(err, geoplot.ErrTensorInput) {
				t.Fatalf("TensorfieldSymmetric2D() = %v, want ErrTensorInput", err)
			}
		})
	}
}

func TestTensorFieldColorOverride(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	p, _ := newTestPlot(t)
	f := geoplot.TensorField{
		Lon:   []float64{0},
		Lat:   []float64{0},
		T1:    []float64{1},
		T2:    []float64{0},
		Angle: []float64{0},
	}
	style := &geoplot.StreamStyle{Color: colors.GetColor("red")}
	if err := p.TensorfieldSymmetric2D(f, style); err != nil {
		t.Fatalf("TensorfieldSymmetric2D() failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("overrides")) {
		t.Errorf("no override warning logged, got %q", buf.String())
	}
	sa := p.Pending()[0].(*geoplot.StreamlineAction)
	if sa.Style.Color != nil {
		t.Error("configured color survived; computed values should win")
	}
}

func TestGridConfigReplacement(t *testing.T) {
	p, _ := newTestPlot(t)
	cfg := p.GridConfig()
	if !cfg.On || cfg.Spacing != 1.0 || cfg.Style.Width != 0.5 {
		t.Fatalf("default grid = %+v, want on, 1 degree, width 0.5", cfg)
	}

	if err := p.Grid(true, 15, 7.5, 0, nil); err != nil {
		t.Fatalf("Grid() failed: %v", err)
	}
	cfg = p.GridConfig()
	if cfg.Spacing != 15 || cfg.AnchorLon != 7.5 {
		t.Errorf("grid = %+v, want spacing 15 anchored at 7.5", cfg)
	}
	if cfg.Style.Width != 0.5 {
		t.Errorf("grid width = %g, want the 0.5 fallback", cfg.Style.Width)
	}

	if err := p.Grid(true, 15, 0, 0, &geoplot.LineStyle{Width: 2}); err != nil {
		t.Fatalf("Grid() failed: %v", err)
	}
	if got := p.GridConfig().Style.Width; got != 2 {
		t.Errorf("grid width = %g, want 2", got)
	}

	if err := p.Grid(true, 0, 0, 0, nil); err == nil {
		t.Error("Grid() with zero spacing succeeded unexpectedly")
	}
}

func TestParseTickMode(t *testing.T) {
	tests := []struct {
		name    string // description of this test case
		in      string
		want    geoplot.TickMode
		wantErr bool
	}{
		{
			name: "significant",
			in:   "significant",
			want: geoplot.TicksSignificant,
		},
		{
			name: "both",
			in:   "both",
			want: geoplot.TicksBoth,
		},
		{
			name: "lonlat",
			in:   "lonlat",
			want: geoplot.TicksLonLat,
		},
		{
			name: "latlon",
			in:   "latlon",
			want: geoplot.TicksLatLon,
		},
		{
			name:    "unknown",
			in:      "sideways",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := geoplot.ParseTickMode(tt.in)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("ParseTickMode() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("ParseTickMode() succeeded unexpectedly")
			}
			if got != tt.want {
				t.Errorf("ParseTickMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
