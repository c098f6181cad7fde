package surface

import (
	"math"

	"github.com/tectonix/geoplot/pkg/interpolate"
)

// Streamline tracing: seeds walk a coarse occupancy mask over the grid
// domain, each trace integrates the field both ways with a midpoint
// scheme, and a trace stops when it runs off the domain, stalls, or
// enters a mask cell another trace already claimed. The mask spacing is
// what the density knob controls.

type streamline struct {
	pts    [][2]float64
	widths []float64
	values []float64
}

// streamGrid holds the vector field flattened row-major, ready for the
// bilinear sampler.
type streamGrid struct {
	x, y   []float64
	u, v   []float64
	width  []float64
	values []float64
	nx, ny int
}

func newStreamGrid(x, y []float64, u, v, width, values [][]float64) *streamGrid {
	return &streamGrid{
		x:      x,
		y:      y,
		u:      flatten(u),
		v:      flatten(v),
		width:  flatten(width),
		values: flatten(values),
		nx:     len(x),
		ny:     len(y),
	}
}

func flatten(rows [][]float64) []float64 {
	if rows == nil {
		return nil
	}
	out := make([]float64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func (g *streamGrid) inside(x, y float64) bool {
	return x >= g.x[0] && x <= g.x[g.nx-1] && y >= g.y[0] && y <= g.y[g.ny-1]
}

func (g *streamGrid) sample(x, y float64) (u, v float64, ok bool) {
	if !g.inside(x, y) {
		return 0, 0, false
	}
	_, _, u, err := interpolate.Bilinear(g.x, g.y, g.u, x, y)
	if err != nil {
		return 0, 0, false
	}
	_, _, v, err = interpolate.Bilinear(g.x, g.y, g.v, x, y)
	if err != nil {
		return 0, 0, false
	}
	return u, v, true
}

// sampleAlong reads an auxiliary field at every trace point.
func (g *streamGrid) sampleAlong(field []float64, pts [][2]float64) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		if _, _, val, err := interpolate.Bilinear(g.x, g.y, field, p[0], p[1]); err == nil {
			out[i] = val
		}
	}
	return out
}

// streamMask rations the domain into cells that at most one trace may
// claim, which keeps neighboring lines apart.
type streamMask struct {
	cells  []bool
	nx, ny int
	x0, y0 float64
	dx, dy float64
	cx, cy int
}

func newStreamMask(g *streamGrid, cells int) *streamMask {
	return &streamMask{
		cells: make([]bool, cells*cells),
		nx:    cells,
		ny:    cells,
		x0:    g.x[0],
		y0:    g.y[0],
		dx:    (g.x[g.nx-1] - g.x[0]) / float64(cells),
		dy:    (g.y[g.ny-1] - g.y[0]) / float64(cells),
	}
}

func (m *streamMask) cell(x, y float64) (int, int) {
	i := clampInt(int((x-m.x0)/m.dx), 0, m.nx-1)
	j := clampInt(int((y-m.y0)/m.dy), 0, m.ny-1)
	return i, j
}

func (m *streamMask) free(i, j int) bool {
	return !m.cells[j*m.nx+i]
}

// claim marks the cell under the point as the trace's current cell.
func (m *streamMask) claim(x, y float64) {
	i, j := m.cell(x, y)
	m.cells[j*m.nx+i] = true
	m.cx, m.cy = i, j
}

// enter moves the trace onto the cell under the point. It reports false
// when that cell belongs to an earlier pass, which ends the trace.
func (m *streamMask) enter(x, y float64) bool {
	i, j := m.cell(x, y)
	if i == m.cx && j == m.cy {
		return true
	}
	if m.cells[j*m.nx+i] {
		return false
	}
	m.cells[j*m.nx+i] = true
	m.cx, m.cy = i, j
	return true
}

// integrate walks the trace one way from (x, y). The midpoint scheme
// normalizes velocity, so the step length is constant and set by the
// mask spacing.
func (g *streamGrid) integrate(x, y, sign, step float64, mask *streamMask, maxSteps int) [][2]float64 {
	var pts [][2]float64
	for n := 0; n < maxSteps; n++ {
		u, v, ok := g.sample(x, y)
		if !ok {
			break
		}
		mag := math.Hypot(u, v)
		if mag == 0 {
			break
		}
		mx := x + sign*u/mag*step/2
		my := y + sign*v/mag*step/2
		u, v, ok = g.sample(mx, my)
		if !ok {
			break
		}
		if mag = math.Hypot(u, v); mag == 0 {
			break
		}
		x += sign * u / mag * step
		y += sign * v / mag * step
		if !g.inside(x, y) || !mask.enter(x, y) {
			break
		}
		pts = append(pts, [2]float64{x, y})
	}
	return pts
}

func traceStreamlines(g *streamGrid, density float64) []streamline {
	if g.nx < 2 || g.ny < 2 {
		return nil
	}
	if density <= 0 {
		density = 1
	}
	cells := clampInt(int(30*density+0.5), 5, 100)
	mask := newStreamMask(g, cells)
	step := math.Min(mask.dx, mask.dy) / 2
	maxSteps := cells * cells

	var lines []streamline
	for j := 0; j < mask.ny; j++ {
		for i := 0; i < mask.nx; i++ {
			if !mask.free(i, j) {
				continue
			}
			seedX := mask.x0 + (float64(i)+0.5)*mask.dx
			seedY := mask.y0 + (float64(j)+0.5)*mask.dy
			mask.claim(seedX, seedY)

			back := g.integrate(seedX, seedY, -1, step, mask, maxSteps)
			mask.cx, mask.cy = mask.cell(seedX, seedY)
			fwd := g.integrate(seedX, seedY, 1, step, mask, maxSteps)
			if len(back)+len(fwd) == 0 {
				continue
			}

			pts := make([][2]float64, 0, len(back)+1+len(fwd))
			for k := len(back) - 1; k >= 0; k-- {
				pts = append(pts, back[k])
			}
			pts = append(pts, [2]float64{seedX, seedY})
			pts = append(pts, fwd...)

			line := streamline{pts: pts}
			if g.width != nil {
				line.widths = g.sampleAlong(g.width, pts)
			}
			if g.values != nil {
				line.values = g.sampleAlong(g.values, pts)
			}
			lines = append(lines, line)
		}
	}
	return lines
}
