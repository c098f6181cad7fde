package projection

import (
	"fmt"
	"math"
)

// Web Mercator's valid latitude range; beyond it y runs off to infinity.
const maxMercatorLat = 85.05112878

var _ Projection = (*Mercator)(nil)
var _ AxisSeparable = (*Mercator)(nil)

// Mercator is the spherical Mercator projection on the unit sphere.
// x is the longitude in radians relative to lon0, y grows without bound
// towards the poles, so latitudes are clamped like slippy-map tiles do.
type Mercator struct {
	lon0 float64
}

func NewMercator(lon0 float64) *Mercator {
	return &Mercator{lon0: NormalizeLon(lon0)}
}

func (m *Mercator) Project(lon, lat float64) (float64, float64) {
	return m.ProjectLon(lon), m.ProjectLat(lat)
}

func (m *Mercator) ProjectLon(lon float64) float64 {
	return NormalizeLon(lon-m.lon0) * math.Pi / 180.0
}

func (m *Mercator) ProjectLat(lat float64) float64 {
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	} else if lat < -maxMercatorLat {
		lat = -maxMercatorLat
	}
	latRad := lat * math.Pi / 180.0
	return math.Log(math.Tan(latRad) + 1.0/math.Cos(latRad))
}

func (m *Mercator) Inverse(x, y float64) (lon, lat float64) {
	lon = NormalizeLon(x*180.0/math.Pi + m.lon0)
	lat = math.Atan(math.Sinh(y)) * 180.0 / math.Pi
	return lon, lat
}

func (m *Mercator) Identifier() string {
	if m.lon0 == 0 {
		return "mercator"
	}
	return fmt.Sprintf("mercator:lon0=%g", m.lon0)
}
