package surface_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/surface"
)

// Render geometry used throughout: at 316x246 the margins leave a
// 200x200 inner area, so a square view maps the plot box to
// (60,20)-(260,220) at 20 px per projected unit.
const (
	testW = 316
	testH = 246
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

func wantPixel(t *testing.T, img image.Image, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.At(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestRenderWithoutView(t *testing.T) {
	s, err := surface.New(surface.WithBackground(black))
	if err != nil {
		t.Fatal(err)
	}
	img := s.Render(testW, testH)
	wantPixel(t, img, 160, 120, black)
	wantPixel(t, img, 2, 2, black)
}

func TestViewFillsPlotBox(t *testing.T) {
	s, err := surface.New(surface.WithBackground(black))
	if err != nil {
		t.Fatal(err)
	}
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	img := s.Render(testW, testH)

	// Inside the box the default water fill shows, outside the figure
	// background.
	wantPixel(t, img, 160, 120, white)
	wantPixel(t, img, 2, 2, black)
	wantPixel(t, img, 30, 120, black)
	wantPixel(t, img, 300, 120, black)
}

func TestLetterboxKeepsAspect(t *testing.T) {
	s, err := surface.New(surface.WithBackground(black))
	if err != nil {
		t.Fatal(err)
	}
	// A 10x5 view in a square inner area: the box shrinks to 200x100 and
	// centers vertically at (60,70)-(260,170).
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 5})
	img := s.Render(testW, testH)

	wantPixel(t, img, 160, 120, white)
	wantPixel(t, img, 160, 30, black)
	wantPixel(t, img, 160, 200, black)
}

func TestCoastFillsByLevel(t *testing.T) {
	s, err := surface.New()
	if err != nil {
		t.Fatal(err)
	}
	water := color.RGBA{R: 10, G: 20, B: 200, A: 255}
	land := color.RGBA{G: 150, A: 255}
	polys := []geoplot.CoastPolygon{
		// The lake is listed first to prove painting goes by level, not
		// input order.
		{Level: 2, XY: [][2]float64{{2, 2}, {8, 2}, {8, 8}, {2, 8}}},
		{Level: 1, XY: [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
	}
	s.Coast(polys, water, land, geoplot.CoastStyle{})
	s.SetView(geoplot.Rect{X0: -5, Y0: -5, X1: 15, Y1: 15})
	img := s.Render(testW, testH)

	wantPixel(t, img, 80, 199, water)  // open water at (-3,-3)
	wantPixel(t, img, 120, 159, land)  // land at (1,1)
	wantPixel(t, img, 160, 119, water) // lake interior at (5,5)
}

func TestMarkersClipToBox(t *testing.T) {
	s, err := surface.New(surface.WithBackground(black))
	if err != nil {
		t.Fatal(err)
	}
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	s.Markers([][2]float64{{5, 5}, {12, 5}}, geoplot.MarkerStyle{Color: red})
	img := s.Render(testW, testH)

	wantPixel(t, img, 160, 119, red)
	// The point at x=12 projects into the right margin and must not
	// paint there.
	wantPixel(t, img, 300, 119, black)
}

func TestRasterNearestSplitsTheBox(t *testing.T) {
	s, err := surface.New()
	if err != nil {
		t.Fatal(err)
	}
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	s.Raster(
		[][]float64{{0, 1}},
		[2]float64{0, 10}, [2]float64{0, 10},
		geoplot.RasterStyle{Colormap: "grayscale", Interpolation: "nearest"},
	)
	img := s.Render(testW, testH)

	// Grayscale endpoints are exact, so the left half of the box is
	// black and the right half white.
	wantPixel(t, img, 70, 119, black)
	wantPixel(t, img, 250, 119, white)
}

func TestFrameBoxTicksAndLabels(t *testing.T) {
	s, err := surface.New()
	if err != nil {
		t.Fatal(err)
	}
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	s.Frame([]geoplot.Tick{
		{Axis: geoplot.AxisBottom, Pos: 5, Label: "5°E"},
		{Axis: geoplot.AxisLeft, Pos: 5, Label: "5°N"},
	}, geoplot.LineStyle{Width: 1})
	img := s.Render(testW, testH)

	// Box corners.
	wantPixel(t, img, 60, 20, black)
	wantPixel(t, img, 259, 219, black)
	// Tick marks poke outward from the box edge.
	wantPixel(t, img, 160, 221, black)
	wantPixel(t, img, 58, 119, black)

	// The bottom label renders under its tick; any dark pixel in that
	// strip will do.
	found := false
	for y := 224; y < 240 && !found; y++ {
		for x := 145; x < 176 && !found; x++ {
			if img.At(x, y) == black {
				found = true
			}
		}
	}
	if !found {
		t.Error("no label pixels under the bottom tick")
	}
}

func TestClearDropsScene(t *testing.T) {
	s, err := surface.New()
	if err != nil {
		t.Fatal(err)
	}
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	s.Markers([][2]float64{{5, 5}}, geoplot.MarkerStyle{Color: red})
	s.Clear()
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	img := s.Render(testW, testH)
	wantPixel(t, img, 160, 119, white)
}

func TestWritePNG(t *testing.T) {
	s, err := surface.New()
	if err != nil {
		t.Fatal(err)
	}
	s.SetView(geoplot.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	var buf bytes.Buffer
	if err := s.WritePNG(&buf, testW, testH); err != nil {
		t.Fatal(err)
	}
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if !bytes.HasPrefix(buf.Bytes(), sig) {
		t.Errorf("output does not start with the PNG signature: % x", buf.Bytes()[:8])
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := surface.New(surface.WithBackground(nil)); err == nil {
		t.Error("nil background accepted")
	}
}
