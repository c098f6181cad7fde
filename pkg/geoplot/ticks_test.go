package geoplot_test

import (
	"testing"

	"github.com/tectonix/geoplot/pkg/geoplot"
)

func TestFormatLon(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		deg  float64
		want string
	}{
		{
			name: "prime meridian",
			deg:  0,
			want: "0°",
		},
		{
			name: "east",
			deg:  15,
			want: "15°E",
		},
		{
			name: "west",
			deg:  -122.5,
			want: "122.5°W",
		},
		{
			name: "date line",
			deg:  180,
			want: "180°",
		},
		{
			name: "wraps past the date line",
			deg:  190,
			want: "170°W",
		},
		{
			name: "full turn",
			deg:  375,
			want: "15°E",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geoplot.FormatLon(tt.deg); got != tt.want {
				t.Errorf("FormatLon(%g) = %q, want %q", tt.deg, got, tt.want)
			}
		})
	}
}

func TestFormatLat(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		deg  float64
		want string
	}{
		{
			name: "equator",
			deg:  0,
			want: "0°",
		},
		{
			name: "north",
			deg:  45,
			want: "45°N",
		},
		{
			name: "south",
			deg:  -33.5,
			want: "33.5°S",
		},
		{
			name: "pole",
			deg:  90,
			want: "90°N",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geoplot.FormatLat(tt.deg); got != tt.want {
				t.Errorf("FormatLat(%g) = %q, want %q", tt.deg, got, tt.want)
			}
		})
	}
}
