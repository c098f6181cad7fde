package legend

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestItemTappedTogglesLayer(t *testing.T) {
	test.NewApp()
	var got []bool
	it := NewItem("Coastline", color.RGBA{0, 150, 0, 255}, func(enabled bool) {
		got = append(got, enabled)
	}, nil)

	it.Tapped(nil)
	if it.Enabled() {
		t.Fatal("first tap left the row enabled, want disabled")
	}
	if it.text.Color != disabledColor {
		t.Errorf("disabled text color = %v, want %v", it.text.Color, disabledColor)
	}
	if !it.text.TextStyle.Italic {
		t.Error("disabled row is not italic")
	}

	it.Tapped(nil)
	if !it.Enabled() {
		t.Fatal("second tap did not re-enable the row")
	}
	if it.text.Color != color.Color(color.RGBA{0, 150, 0, 255}) {
		t.Errorf("enabled text color = %v, want the layer color", it.text.Color)
	}

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("tap reports = %v, want [false true]", got)
	}
}

func TestItemSetSuffix(t *testing.T) {
	test.NewApp()
	it := NewItem("Track", color.White, nil, nil)

	it.SetSuffix("57.70N 11.90E")
	if it.text.Text != "Track: 57.70N 11.90E" {
		t.Errorf("text = %q, want the name with the readout", it.text.Text)
	}

	it.SetSuffix("")
	if it.text.Text != "Track" {
		t.Errorf("text = %q, want the bare name back", it.text.Text)
	}
}

func TestLegendAddRemove(t *testing.T) {
	test.NewApp()
	l := New()
	l.Add("Coastline", color.RGBA{0, 150, 0, 255}, nil, nil)
	l.Add("Graticule", color.RGBA{160, 160, 160, 255}, nil, nil)

	if l.Item("Coastline") == nil {
		t.Fatal("Item(Coastline) = nil after Add")
	}
	if n := len(l.box.Objects); n != 2 {
		t.Fatalf("legend rows = %d, want 2", n)
	}

	l.Remove("Coastline")
	if l.Item("Coastline") != nil {
		t.Error("Item(Coastline) still set after Remove")
	}
	if n := len(l.box.Objects); n != 1 {
		t.Errorf("legend rows = %d, want 1", n)
	}

	// Removing an absent row is a no-op.
	l.Remove("Coastline")
}
