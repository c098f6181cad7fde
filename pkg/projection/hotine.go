package projection

import (
	"fmt"
	"math"
)

var _ Projection = (*HotineObliqueMercator)(nil)

// HotineObliqueMercator is the spherical oblique Mercator projection. The
// cylinder is wrapped around the great circle through (lon0, lat0) at the
// given azimuth (degrees east of north), so a slanted study region can lie
// along the x axis. x and y are shifted so the central point maps to (0,0).
type HotineObliqueMercator struct {
	lon0, lat0 float64
	azimuth    float64
	k0         float64

	sinp, cosp float64 // oblique pole latitude
	lam0       float64 // longitude of the transformed origin, radians
	x0, y0     float64
}

func NewHotineObliqueMercator(lon0, lat0, azimuth, k0 float64) *HotineObliqueMercator {
	h := &HotineObliqueMercator{
		lon0:    NormalizeLon(lon0),
		lat0:    lat0,
		azimuth: azimuth,
		k0:      k0,
	}
	if h.k0 == 0 {
		h.k0 = 1
	}
	phiz := h.lat0 * math.Pi / 180.0
	lamz := h.lon0 * math.Pi / 180.0
	gamma := h.azimuth * math.Pi / 180.0
	phip := math.Asin(math.Cos(phiz) * math.Sin(gamma))
	lamp := math.Atan2(-math.Cos(gamma), -math.Sin(phiz)*math.Sin(gamma)) + lamz
	h.sinp = math.Sin(phip)
	h.cosp = math.Cos(phip)
	h.lam0 = lamp + math.Pi/2.0
	h.x0, h.y0 = h.raw(h.lon0, h.lat0)
	return h
}

func (h *HotineObliqueMercator) raw(lon, lat float64) (float64, float64) {
	phi := lat * math.Pi / 180.0
	lam := lon*math.Pi/180.0 - h.lam0
	// wrap the transformed longitude into (-pi, pi]
	lam = math.Atan2(math.Sin(lam), math.Cos(lam))
	sinl, cosl := math.Sincos(lam)
	a := h.sinp*math.Sin(phi) - h.cosp*math.Cos(phi)*sinl
	if a > 1.0-1e-12 {
		a = 1.0 - 1e-12
	} else if a < -1.0+1e-12 {
		a = -1.0 + 1e-12
	}
	x := h.k0 * math.Atan2(math.Tan(phi)*h.cosp+h.sinp*sinl, cosl)
	y := h.k0 * math.Atanh(a)
	return x, y
}

func (h *HotineObliqueMercator) Project(lon, lat float64) (float64, float64) {
	x, y := h.raw(lon, lat)
	return x - h.x0, y - h.y0
}

func (h *HotineObliqueMercator) Inverse(x, y float64) (lon, lat float64) {
	xr := (x + h.x0) / h.k0
	yr := (y + h.y0) / h.k0
	sinx, cosx := math.Sincos(xr)
	phi := math.Asin(h.sinp*math.Tanh(yr) + h.cosp*sinx/math.Cosh(yr))
	lam := h.lam0 + math.Atan2(h.sinp*sinx-h.cosp*math.Sinh(yr), cosx)
	return NormalizeLon(lam * 180.0 / math.Pi), phi * 180.0 / math.Pi
}

func (h *HotineObliqueMercator) Identifier() string {
	return fmt.Sprintf("hotine:lon0=%g,lat0=%g,azimuth=%g,k0=%g", h.lon0, h.lat0, h.azimuth, h.k0)
}
