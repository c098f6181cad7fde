package geoplot

import (
	"fmt"
	"math"

	"github.com/tectonix/geoplot/pkg/projection"
)

const (
	edgeSamples      = 192 // inverse-projection samples per box side
	graticuleSamples = 128 // vertices per graticule line
	maxGraticule     = 1200
)

// FormatLon renders a longitude as a graduation label, "15°E" style.
func FormatLon(deg float64) string {
	deg = projection.NormalizeLon(deg)
	switch {
	case deg == 0:
		return "0°"
	case deg == -180:
		return "180°"
	case deg > 0:
		return fmt.Sprintf("%g°E", deg)
	default:
		return fmt.Sprintf("%g°W", -deg)
	}
}

// FormatLat renders a latitude as a graduation label, "45°S" style.
func FormatLat(deg float64) string {
	switch {
	case deg == 0:
		return "0°"
	case deg > 0:
		return fmt.Sprintf("%g°N", deg)
	default:
		return fmt.Sprintf("%g°S", -deg)
	}
}

// geodeticBounds estimates the lon/lat ranges covered by the projected
// window by inverse-projecting a lattice over it. Longitudes come back in
// whichever of the ranges [-180,180) or [0,360) spans the window more
// tightly, so a window across the date line still yields one contiguous
// range.
func geodeticBounds(proj projection.Projection, view Rect) (lonMin, lonMax, latMin, latMax float64) {
	const lattice = 24
	lonMinN, lonMaxN := math.Inf(1), math.Inf(-1)
	lonMinP, lonMaxP := math.Inf(1), math.Inf(-1)
	latMin, latMax = math.Inf(1), math.Inf(-1)
	for j := 0; j <= lattice; j++ {
		y := view.Y0 + view.Height()*float64(j)/lattice
		for i := 0; i <= lattice; i++ {
			x := view.X0 + view.Width()*float64(i)/lattice
			lon, lat := proj.Inverse(x, y)
			if math.IsNaN(lon) || math.IsNaN(lat) {
				continue
			}
			n := projection.NormalizeLon(lon)
			p := n
			if p < 0 {
				p += 360
			}
			lonMinN = math.Min(lonMinN, n)
			lonMaxN = math.Max(lonMaxN, n)
			lonMinP = math.Min(lonMinP, p)
			lonMaxP = math.Max(lonMaxP, p)
			latMin = math.Min(latMin, lat)
			latMax = math.Max(latMax, lat)
		}
	}
	lonMin, lonMax = lonMinN, lonMaxN
	if lonMaxP-lonMinP < lonMaxN-lonMinN {
		lonMin, lonMax = lonMinP, lonMaxP
	}
	latMin = math.Max(latMin, -90)
	latMax = math.Min(latMax, 90)
	return lonMin, lonMax, latMin, latMax
}

// graticuleLines samples the meridians and parallels at multiples of the
// grid spacing crossing the window, projected into plot coordinates.
func graticuleLines(proj projection.Projection, view Rect, cfg GridConfig) []Polyline {
	lonMin, lonMax, latMin, latMax := geodeticBounds(proj, view)
	if lonMin > lonMax || latMin > latMax {
		return nil
	}
	meridians := (lonMax - lonMin) / cfg.Spacing
	parallels := (latMax - latMin) / cfg.Spacing
	if meridians+parallels > maxGraticule {
		// A spacing far below the window span would sample millions of
		// vertices; drop the graticule instead.
		return nil
	}

	var lines []Polyline
	for m := firstMultiple(cfg.AnchorLon, cfg.Spacing, lonMin); m <= lonMax; m += cfg.Spacing {
		line := make(Polyline, 0, graticuleSamples+1)
		for k := 0; k <= graticuleSamples; k++ {
			lat := latMin + (latMax-latMin)*float64(k)/graticuleSamples
			x, y := proj.Project(m, lat)
			line = append(line, [2]float64{x, y})
		}
		lines = append(lines, line)
	}
	for q := firstMultiple(cfg.AnchorLat, cfg.Spacing, latMin); q <= latMax; q += cfg.Spacing {
		line := make(Polyline, 0, graticuleSamples+1)
		for k := 0; k <= graticuleSamples; k++ {
			lon := lonMin + (lonMax-lonMin)*float64(k)/graticuleSamples
			x, y := proj.Project(lon, q)
			line = append(line, [2]float64{x, y})
		}
		lines = append(lines, line)
	}
	return lines
}

// firstMultiple returns the smallest anchor+n*spacing not below lo.
func firstMultiple(anchor, spacing, lo float64) float64 {
	return anchor + spacing*math.Ceil((lo-anchor)/spacing)
}

// computeTicks walks each side of the window, inverse-projects it and
// places a graduation wherever the longitude or latitude crosses a
// multiple of the grid spacing. The tick mode then picks which family
// each side keeps.
func computeTicks(proj projection.Projection, view Rect, cfg GridConfig, mode TickMode) []Tick {
	var ticks []Tick
	for _, axis := range []Axis{AxisBottom, AxisLeft, AxisTop, AxisRight} {
		lonTicks := edgeCrossings(proj, view, axis, cfg.AnchorLon, cfg.Spacing, true)
		latTicks := edgeCrossings(proj, view, axis, cfg.AnchorLat, cfg.Spacing, false)
		switch mode {
		case TicksBoth:
			ticks = append(ticks, lonTicks...)
			ticks = append(ticks, latTicks...)
		case TicksLonLat:
			if axis == AxisBottom || axis == AxisTop {
				ticks = append(ticks, lonTicks...)
			} else {
				ticks = append(ticks, latTicks...)
			}
		case TicksLatLon:
			if axis == AxisBottom || axis == AxisTop {
				ticks = append(ticks, latTicks...)
			} else {
				ticks = append(ticks, lonTicks...)
			}
		default: // TicksSignificant
			switch {
			case len(lonTicks) > len(latTicks):
				ticks = append(ticks, lonTicks...)
			case len(latTicks) > len(lonTicks):
				ticks = append(ticks, latTicks...)
			case axis == AxisBottom || axis == AxisTop:
				ticks = append(ticks, lonTicks...)
			default:
				ticks = append(ticks, latTicks...)
			}
		}
	}
	return ticks
}

// edgeCrossings finds where one geodetic coordinate crosses multiples of
// spacing along one side of the window.
func edgeCrossings(proj projection.Projection, view Rect, axis Axis, anchor, spacing float64, useLon bool) []Tick {
	var ticks []Tick
	prevPos, prevVal := math.NaN(), math.NaN()
	for k := 0; k <= edgeSamples; k++ {
		t := float64(k) / edgeSamples
		var x, y, pos float64
		switch axis {
		case AxisBottom:
			x, y = view.X0+view.Width()*t, view.Y0
			pos = x
		case AxisTop:
			x, y = view.X0+view.Width()*t, view.Y1
			pos = x
		case AxisLeft:
			x, y = view.X0, view.Y0+view.Height()*t
			pos = y
		case AxisRight:
			x, y = view.X1, view.Y0+view.Height()*t
			pos = y
		}
		lon, lat := proj.Inverse(x, y)
		val := lat
		if useLon {
			val = projection.NormalizeLon(lon)
		}
		if math.IsNaN(val) {
			prevVal = math.NaN()
			continue
		}
		if !math.IsNaN(prevVal) && val != prevVal {
			a, b := prevVal, val
			if useLon {
				// Unwrap across the date line so the sweep stays
				// contiguous and the 180° graduation is not lost.
				for b-a > 180 {
					b -= 360
				}
				for b-a < -180 {
					b += 360
				}
			}
			n1 := math.Floor((a - anchor) / spacing)
			n2 := math.Floor((b - anchor) / spacing)
			lo, hi := math.Min(n1, n2), math.Max(n1, n2)
			for n := lo + 1; n <= hi; n++ {
				cross := anchor + n*spacing
				frac := (cross - a) / (b - a)
				if frac < 0 || frac > 1 {
					continue
				}
				label := FormatLat(cross)
				if useLon {
					label = FormatLon(cross)
				}
				ticks = append(ticks, Tick{
					Axis:  axis,
					Pos:   prevPos + frac*(pos-prevPos),
					Label: label,
				})
			}
		}
		prevPos, prevVal = pos, val
	}
	return ticks
}
