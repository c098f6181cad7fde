package geoplot

import (
	"log"
	"math"
	"sort"

	"github.com/tectonix/geoplot/pkg/projection"
)

// Flush forwards every pending action to the surface, then rebuilds the
// graticule and frame layers for the current window. Nothing happens
// until the view can be resolved, from user limits or from the extent of
// the plotted data; the plot stays dirty and a later flush retries.
//
// Each action is forwarded at most once. Flush is safe to call at any
// time and cheap when the plot is clean.
func (p *Plot) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty {
		return
	}

	p.projectPendingLocked()

	view, ok := p.resolveViewLocked()
	if !ok {
		if p.verbose >= 2 {
			log.Printf("geoplot: flush deferred, no view limits yet")
		}
		return
	}
	p.view, p.hasView = view, true
	p.surf.SetView(view)

	var pending []Action
	for _, a := range p.actions {
		if !a.Executed() {
			pending = append(pending, a)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].ZOrder() < pending[j].ZOrder()
	})
	if p.verbose >= 1 && len(pending) > 0 {
		log.Printf("geoplot: flushing %d actions into [%g, %g]x[%g, %g]",
			len(pending), view.X0, view.X1, view.Y0, view.Y1)
	}
	for _, a := range pending {
		p.forwardLocked(a)
		a.mark()
	}

	if p.grid.On {
		p.surf.Graticule(graticuleLines(p.proj, view, p.grid), p.grid.Style)
	} else {
		p.surf.Graticule(nil, p.grid.Style)
	}
	p.surf.Frame(computeTicks(p.proj, view, p.grid, p.tickMode), LineStyle{Width: 1})

	p.dirty = false
}

// projectPendingLocked runs the flush pre-pass: geodetic coordinates of
// not yet forwarded actions are projected once and their extent widens
// the data limits, so the resolved view covers everything scheduled so
// far.
func (p *Plot) projectPendingLocked() {
	for _, act := range p.actions {
		if act.Executed() {
			continue
		}
		switch a := act.(type) {
		case *ScatterAction:
			if a.px != nil {
				continue
			}
			a.px = make([]float64, len(a.Lon))
			a.py = make([]float64, len(a.Lat))
			for i := range a.Lon {
				a.px[i], a.py[i] = p.proj.Project(a.Lon[i], a.Lat[i])
				p.widenPointLocked(a.px[i], a.py[i])
			}
		case *QuiverAction:
			if a.px != nil {
				continue
			}
			a.px = make([]float64, len(a.Lon))
			a.py = make([]float64, len(a.Lat))
			for i := range a.Lon {
				a.px[i], a.py[i] = p.proj.Project(a.Lon[i], a.Lat[i])
				p.widenPointLocked(a.px[i], a.py[i])
			}
		case *StreamlineAction:
			if a.px != nil {
				continue
			}
			if a.Geodetic {
				sep, ok := p.proj.(projection.AxisSeparable)
				if !ok {
					continue // forwardLocked logs and drops it
				}
				a.px = make([]float64, len(a.X))
				a.py = make([]float64, len(a.Y))
				for i, lon := range a.X {
					a.px[i] = sep.ProjectLon(lon)
				}
				for j, lat := range a.Y {
					a.py[j] = sep.ProjectLat(lat)
				}
			} else {
				a.px, a.py = a.X, a.Y
			}
			for _, x := range a.px {
				p.widenPointLocked(x, a.py[0])
			}
			for _, y := range a.py {
				p.widenPointLocked(a.px[0], y)
			}
		}
	}
}

func (p *Plot) forwardLocked(act Action) {
	switch a := act.(type) {
	case *CoastlineAction:
		polys, err := p.coast.Coast(p.proj, a.Level)
		if err != nil {
			// Retrying every frame would hammer the same broken source,
			// so the action is spent either way.
			log.Printf("geoplot: coastline: %v", err)
			return
		}
		p.surf.Coast(polys, p.waterColor, p.landColor, a.Style)
	case *ScatterAction:
		points := make([][2]float64, len(a.px))
		for i := range a.px {
			points[i] = [2]float64{a.px[i], a.py[i]}
		}
		p.surf.Markers(points, a.Style)
	case *QuiverAction:
		origins := make([][2]float64, len(a.px))
		dirs := make([][2]float64, len(a.px))
		for i := range a.px {
			origins[i] = [2]float64{a.px[i], a.py[i]}
			dirs[i] = [2]float64{a.U[i], a.V[i]}
		}
		p.surf.Arrows(origins, dirs, a.C, a.Style)
	case *StreamlineAction:
		if a.px == nil {
			log.Printf("geoplot: streamlines on a geodetic grid need a projection that maps lon and lat separably; %s does not, dropping the plot",
				p.proj.Identifier())
			return
		}
		p.surf.Streamlines(a.px, a.py, a.U, a.V, a.Width, a.Values, a.Style)
	case *RasterAction:
		p.surf.Raster(a.Z, a.XLim, a.YLim, a.Style)
	default:
		log.Printf("geoplot: unknown action kind %q", act.Kind())
	}
}

// resolveViewLocked settles the projected window. Per axis the user limit
// wins; otherwise the data extent padded by 5 percent serves. An axis
// with neither leaves the view unresolved.
func (p *Plot) resolveViewLocked() (Rect, bool) {
	var view Rect
	var padded Rect
	if p.hasData {
		padded = p.dataRect.Pad(0.05)
	}
	switch {
	case p.hasXLim:
		view.X0, view.X1 = p.userXLim[0], p.userXLim[1]
	case p.hasData:
		view.X0, view.X1 = padded.X0, padded.X1
	default:
		return Rect{}, false
	}
	switch {
	case p.hasYLim:
		view.Y0, view.Y1 = p.userYLim[0], p.userYLim[1]
	case p.hasData:
		view.Y0, view.Y1 = padded.Y0, padded.Y1
	default:
		return Rect{}, false
	}
	return view, view.Valid()
}

func (p *Plot) widenPointLocked(x, y float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return
	}
	r := Rect{X0: x, Y0: y, X1: x, Y1: y}
	if !p.hasData {
		p.dataRect = r
		p.hasData = true
		return
	}
	p.dataRect = p.dataRect.Union(r)
}

// Clear drops every scheduled and drawn artist, the data limits and the
// resolved view. User limits and the grid configuration survive.
func (p *Plot) Clear() {
	p.mu.Lock()
	p.actions = nil
	p.hasData = false
	p.dataRect = Rect{}
	p.hasView = false
	p.view = Rect{}
	p.dirty = p.hasXLim || p.hasYLim
	p.surf.Clear()
	p.mu.Unlock()
	p.schedule()
}
