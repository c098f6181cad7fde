package projection

import "fmt"

var _ Projection = (*PlateCarree)(nil)
var _ AxisSeparable = (*PlateCarree)(nil)

// PlateCarree maps longitude and latitude straight to x and y in degrees.
type PlateCarree struct {
	lon0 float64
}

func NewPlateCarree(lon0 float64) *PlateCarree {
	return &PlateCarree{lon0: NormalizeLon(lon0)}
}

func (p *PlateCarree) Project(lon, lat float64) (float64, float64) {
	return p.ProjectLon(lon), p.ProjectLat(lat)
}

func (p *PlateCarree) ProjectLon(lon float64) float64 {
	return NormalizeLon(lon - p.lon0)
}

func (p *PlateCarree) ProjectLat(lat float64) float64 {
	return lat
}

func (p *PlateCarree) Inverse(x, y float64) (lon, lat float64) {
	return NormalizeLon(x + p.lon0), y
}

func (p *PlateCarree) Identifier() string {
	if p.lon0 == 0 {
		return "platecarree"
	}
	return fmt.Sprintf("platecarree:lon0=%g", p.lon0)
}
