package geoplot

import "github.com/tectonix/geoplot/pkg/projection"

// CoastPolygon is one closed shoreline ring projected onto the plot plane.
// Levels alternate wet and dry: land rings are filled with the land color,
// lake rings with the water color, and so on down.
type CoastPolygon struct {
	Level int
	XY    [][2]float64
	Area  float64 // km², for culling specks at coarse zoom
}

// CoastSource supplies projected shoreline polygons up to a GSHHG level.
// Implementations own reading and caching; see pkg/geocache.
type CoastSource interface {
	Coast(proj projection.Projection, maxLevel int) ([]CoastPolygon, error)
}
