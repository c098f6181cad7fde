package geoplot

import "errors"

var (
	// ErrNoCoastlines is returned by Coastline when the plot was built
	// without a coastline source.
	ErrNoCoastlines = errors.New("no coastline source configured")

	// ErrTensorInput is returned by TensorfieldSymmetric2D when the
	// coordinate pairs or tensor components are missing or inconsistent.
	ErrTensorInput = errors.New("invalid tensor field input")

	// ErrNotImplemented is returned by Streamplot. Interpolating a
	// geodetic grid onto the projected plane was never built; use
	// StreamplotProjected with projected axes instead.
	ErrNotImplemented = errors.New("streamplot on geodetic grids is not implemented")
)
