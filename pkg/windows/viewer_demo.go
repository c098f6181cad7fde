package windows

import (
	"math"

	"github.com/tectonix/geoplot/pkg/debug"
	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/projection"
)

// Built-in demo layers. Each schedules a synthetic field through the
// public plotting surface so every drawing path can be eyeballed
// without hunting for real data first.

// Largest magnitude the rotating wind field reaches, for the colorbar.
const windDemoMax = 1.5

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// projectAxes maps geodetic grid axes onto the projected plane. For
// non-separable projections the axes are taken along the equator and
// prime meridian, which is as regular as such a grid gets.
func (v *ViewerWindow) projectAxes(lons, lats []float64) (x, y []float64) {
	x = make([]float64, len(lons))
	y = make([]float64, len(lats))
	if sep, ok := v.proj.(projection.AxisSeparable); ok {
		for i, lo := range lons {
			x[i] = sep.ProjectLon(lo)
		}
		for j, la := range lats {
			y[j] = sep.ProjectLat(la)
		}
		return x, y
	}
	for i, lo := range lons {
		x[i], _ = v.proj.Project(lo, 0)
	}
	for j, la := range lats {
		_, y[j] = v.proj.Project(0, la)
	}
	return x, y
}

// addWindLocked schedules a rotating wind field as colormapped stream
// lines plus anchored arrows.
func (v *ViewerWindow) addWindLocked() {
	const n = 13
	lons := linspace(-55, 55, n)
	lats := linspace(-42, 42, n)

	anchorLon := make([]float64, 0, n*n)
	anchorLat := make([]float64, 0, n*n)
	au := make([]float64, 0, n*n)
	av := make([]float64, 0, n*n)
	speed := make([]float64, 0, n*n)
	for _, la := range lats {
		for _, lo := range lons {
			uu := -la / 42
			vv := lo / 55
			anchorLon = append(anchorLon, lo)
			anchorLat = append(anchorLat, la)
			au = append(au, uu)
			av = append(av, vv)
			speed = append(speed, math.Hypot(uu, vv))
		}
	}
	if err := v.plot.Quiver(anchorLon, anchorLat, au, av, speed, &geoplot.ArrowStyle{
		Colormap: v.state.colormap,
		Scale:    5,
		Width:    1,
	}); err != nil {
		debug.Log("wind quiver: " + err.Error())
	}

	x, y := v.projectAxes(lons, lats)
	u := make([][]float64, n)
	w := make([][]float64, n)
	for j := range lats {
		u[j] = make([]float64, n)
		w[j] = make([]float64, n)
		for i := range lons {
			u[j][i] = -lats[j] / 42
			w[j][i] = lons[i] / 55
		}
	}
	if err := v.plot.StreamplotProjected(x, y, u, w, &geoplot.StreamStyle{
		Color:    v.state.windColor,
		Colormap: v.state.colormap,
		Density:  1,
	}); err != nil {
		debug.Log("wind streamplot: " + err.Error())
	}
}

// addReliefLocked schedules a radial interference pattern as a raster
// stretched over the projected world extent.
func (v *ViewerWindow) addReliefLocked() {
	world := v.worldRectLocked()
	if !world.Valid() {
		return
	}
	const n = 160
	z := make([][]float64, n)
	for j := 0; j < n; j++ {
		z[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			fx := float64(i)/float64(n-1)*2 - 1
			fy := float64(j)/float64(n-1)*2 - 1
			r := math.Hypot(fx*3, fy*3)
			z[j][i] = math.Sin(r*2.5) / (1 + r/4)
		}
	}
	if err := v.plot.ImshowProjected(z,
		[2]float64{world.X0, world.X1},
		[2]float64{world.Y0, world.Y1},
		&geoplot.RasterStyle{
			Colormap: v.state.colormap,
			Alpha:    0.85,
			VMin:     -1,
			VMax:     1,
		},
	); err != nil {
		debug.Log("relief: " + err.Error())
	}
}

// addStressLocked schedules the stress tensor of a point load, with
// principal directions running in hoops around the origin. Angles are
// bearings in degrees.
func (v *ViewerWindow) addStressLocked() {
	const n = 11
	lons := linspace(-50, 50, n)
	lats := linspace(-40, 40, n)
	t1 := make([]float64, 0, n*n)
	t2 := make([]float64, 0, n*n)
	angle := make([]float64, 0, n*n)
	for _, la := range lats {
		for _, lo := range lons {
			r := math.Hypot(lo/50, la/40)
			t1 = append(t1, 1/(1+r*r))
			t2 = append(t2, 0.3/(1+r*r))
			angle = append(angle, math.Atan2(la, lo)*180/math.Pi+90)
		}
	}
	if err := v.plot.TensorfieldSymmetric2D(geoplot.TensorField{
		Lon:   lons,
		Lat:   lats,
		T1:    t1,
		T2:    t2,
		Angle: angle,
	}, &geoplot.StreamStyle{
		Colormap: v.state.colormap,
		Density:  1,
	}); err != nil {
		debug.Log("stress: " + err.Error())
	}
}
