package plotview

import (
	"image"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestDrawGuardsDegenerateSizes(t *testing.T) {
	test.NewApp()
	p := New(nil)
	img := p.draw(0, 0)
	if img == nil {
		t.Fatal("draw(0, 0) = nil, want a placeholder image")
	}

	p = New(func(w, h int) image.Image {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	})
	img = p.draw(320, 240)
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("draw(320, 240) bounds = %v, want 320x240", b)
	}
}

func TestPanReportsViewFractions(t *testing.T) {
	test.NewApp()
	var gotX, gotY []float64
	p := New(nil, WithPanZoom(func(dx, dy float64) {
		gotX = append(gotX, dx)
		gotY = append(gotY, dy)
	}, nil))

	p.PanEast()
	p.PanWest()
	p.PanNorth()
	p.PanSouth()

	wantX := []float64{0.25, -0.25, 0, 0}
	wantY := []float64{0, 0, 0.25, -0.25}
	for i := range wantX {
		if gotX[i] != wantX[i] || gotY[i] != wantY[i] {
			t.Errorf("pan %d = (%g, %g), want (%g, %g)", i, gotX[i], gotY[i], wantX[i], wantY[i])
		}
	}
}

func TestZoomSteps(t *testing.T) {
	test.NewApp()
	var got []int
	p := New(nil, WithPanZoom(nil, func(step int) {
		got = append(got, step)
	}))

	p.ZoomIn()
	p.ZoomOut()
	if len(got) != 2 || got[0] != 1 || got[1] != -1 {
		t.Errorf("zoom steps = %v, want [1 -1]", got)
	}
}

func TestMissingCallbacksHideControls(t *testing.T) {
	test.NewApp()
	p := New(nil)
	if !p.hideMoveButtons || !p.hideZoomButtons {
		t.Error("controls shown without callbacks to drive them")
	}
}
