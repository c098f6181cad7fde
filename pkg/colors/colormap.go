package colors

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Map is a named color ramp built from evenly spaced gradient stops.
type Map struct {
	name  string
	stops []color.RGBA
}

func (m Map) String() string {
	return m.name
}

// At returns the ramp color at t. t is clamped to [0, 1]; NaN maps to a
// neutral gray so holes in data stay visible without blowing up.
func (m Map) At(t float64) color.RGBA {
	if math.IsNaN(t) {
		return color.RGBA{128, 128, 128, 255}
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if len(m.stops) == 1 {
		return m.stops[0]
	}
	seg := t * float64(len(m.stops)-1)
	i := int(seg)
	if i >= len(m.stops)-1 {
		i = len(m.stops) - 2
	}
	return lerpColor(m.stops[i], m.stops[i+1], seg-float64(i))
}

// Sample maps value's position within [min, max] onto the ramp.
func (m Map) Sample(min, max, value float64) color.RGBA {
	return m.At((value - min) / (max - min))
}

// lerp helper
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// linear interpolation between two colors
func lerpColor(c1, c2 color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(lerp(float64(c1.R), float64(c2.R), t)),
		G: uint8(lerp(float64(c1.G), float64(c2.G), t)),
		B: uint8(lerp(float64(c1.B), float64(c2.B), t)),
		A: 255,
	}
}

var (
	// Viridis is the default ramp for value-colored data.
	Viridis = Map{name: "viridis", stops: []color.RGBA{
		{68, 1, 84, 255}, {72, 40, 120, 255}, {62, 74, 137, 255},
		{49, 104, 142, 255}, {38, 130, 142, 255}, {31, 158, 137, 255},
		{53, 183, 121, 255}, {109, 205, 89, 255}, {180, 222, 44, 255},
		{253, 231, 37, 255},
	}}

	// Grayscale suits print output.
	Grayscale = Map{name: "grayscale", stops: []color.RGBA{
		{0, 0, 0, 255}, {255, 255, 255, 255},
	}}

	// Traffic is the classic green over yellow to red ramp.
	Traffic = Map{name: "traffic", stops: []color.RGBA{
		{0, 255, 0, 255}, {255, 255, 0, 255}, {255, 0, 0, 255},
	}}

	// Universal reads for all common color vision deficiencies.
	Universal = Map{name: "universal", stops: []color.RGBA{
		{33, 102, 172, 255}, {247, 247, 247, 255}, {255, 165, 0, 255},
	}}

	// Protanopia avoids the red band entirely.
	Protanopia = Map{name: "protanopia", stops: []color.RGBA{
		{5, 113, 176, 255}, {247, 247, 247, 255}, {150, 75, 0, 255},
	}}

	// Tritanopia runs teal over gray to red.
	Tritanopia = Map{name: "tritanopia", stops: []color.RGBA{
		{0, 128, 128, 255}, {247, 247, 247, 255}, {215, 48, 39, 255},
	}}

	// Deuteranomaly runs blue over beige to brown.
	Deuteranomaly = Map{name: "deuteranomaly", stops: []color.RGBA{
		{0x4A, 0x90, 0xE2, 255}, {0xF5, 0xE6, 0xB3, 255}, {0x8B, 0x45, 0x13, 255},
	}}
)

// Maps lists the selectable ramps in menu order.
func Maps() []Map {
	return []Map{Viridis, Grayscale, Traffic, Universal, Protanopia, Tritanopia, Deuteranomaly}
}

// ByName finds a ramp by its name, case-insensitively.
func ByName(name string) (Map, error) {
	for _, m := range Maps() {
		if strings.EqualFold(m.name, name) {
			return m, nil
		}
	}
	return Map{}, fmt.Errorf("unknown colormap %q", name)
}
