package surface

import (
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/nfnt/resize"

	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/geoplot"
)

// rampFor resolves a colormap name, falling back to viridis.
func rampFor(name string) colors.Map {
	if name == "" {
		return colors.Viridis
	}
	m, err := colors.ByName(name)
	if err != nil {
		return colors.Viridis
	}
	return m
}

// asciiLabel drops the runes the 7x13 face cannot draw, the degree sign
// chief among them.
func asciiLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, s)
}

type coastArtist struct {
	polys       []geoplot.CoastPolygon
	land, water color.RGBA
	line        color.RGBA
	width       int
	zo          int
}

func (a *coastArtist) z() int { return a.zo }

// draw fills rings lowest level first, so lakes paint over their land and
// islands over their lake. Rings smaller than a couple of pixels are
// culled.
func (a *coastArtist) draw(fr *frame) {
	sorted := make([]geoplot.CoastPolygon, len(a.polys))
	copy(sorted, a.polys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	pts := make([]image.Point, 0, 1024)
	for _, poly := range sorted {
		pts = pts[:0]
		minX, minY := math.MaxInt32, math.MaxInt32
		maxX, maxY := math.MinInt32, math.MinInt32
		for _, p := range poly.XY {
			x, y := fr.px(p[0]), fr.py(p[1])
			if n := len(pts); n > 0 && pts[n-1].X == x && pts[n-1].Y == y {
				continue
			}
			pts = append(pts, image.Point{X: x, Y: y})
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
		if maxX-minX < 2 && maxY-minY < 2 {
			continue
		}
		if maxX < fr.clip.Min.X || minX >= fr.clip.Max.X || maxY < fr.clip.Min.Y || minY >= fr.clip.Max.Y {
			continue
		}
		fill := a.water
		// Odd levels are dry. The Antarctica sheets (5, 6) count as dry
		// no matter their parity.
		if poly.Level%2 == 1 || poly.Level >= 5 {
			fill = a.land
		}
		fr.fillPolygon(pts, fill)
		if a.line.A > 0 {
			fr.polyline(pts, a.width, a.line)
		}
	}
}

type graticuleArtist struct {
	lines []geoplot.Polyline
	color color.RGBA
	width int
	zo    int
}

func (a *graticuleArtist) z() int { return a.zo }

func (a *graticuleArtist) draw(fr *frame) {
	var pts []image.Point
	for _, line := range a.lines {
		pts = pts[:0]
		for _, p := range line {
			x, y := fr.px(p[0]), fr.py(p[1])
			if n := len(pts); n > 0 && pts[n-1].X == x && pts[n-1].Y == y {
				continue
			}
			pts = append(pts, image.Point{X: x, Y: y})
		}
		fr.polyline(pts, a.width, a.color)
	}
}

type markerArtist struct {
	points [][2]float64
	style  geoplot.MarkerStyle
}

func (a *markerArtist) z() int { return a.style.ZOrder }

func (a *markerArtist) draw(fr *frame) {
	c := toRGBA(a.style.Color, colors.GetColor("black"))
	size := a.style.Size
	if size <= 0 {
		size = 6
	}
	r := int(size) / 2
	if r < 1 {
		r = 1
	}
	for _, p := range a.points {
		x, y := fr.px(p[0]), fr.py(p[1])
		switch a.style.Marker {
		case 's':
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					fr.set(x+dx, y+dy, c)
				}
			}
		case 'x':
			fr.bresenham(x-r, y-r, x+r, y+r, c, c)
			fr.bresenham(x-r, y+r, x+r, y-r, c, c)
		case '+':
			fr.bresenham(x-r, y, x+r, y, c, c)
			fr.bresenham(x, y-r, x, y+r, c, c)
		case '^':
			fr.fillPolygon([]image.Point{
				{X: x, Y: y - r},
				{X: x + r, Y: y + r},
				{X: x - r, Y: y + r},
			}, c)
		default: // 'o'
			fr.stamp(x, y, r, c)
		}
	}
}

type arrowArtist struct {
	origins [][2]float64
	dirs    [][2]float64
	values  []float64
	style   geoplot.ArrowStyle
}

func (a *arrowArtist) z() int { return a.style.ZOrder }

func (a *arrowArtist) draw(fr *frame) {
	if len(a.origins) == 0 {
		return
	}
	scale := a.style.Scale
	if scale <= 0 {
		// Autoscale so the mean arrow spans a twenty-fifth of the window.
		var sum float64
		for _, d := range a.dirs {
			sum += math.Hypot(d[0], d[1])
		}
		mean := sum / float64(len(a.dirs))
		if mean == 0 {
			return
		}
		scale = fr.view.Width() / 25 / mean
	}
	width := widthPx(a.style.Width)

	var ramp colors.Map
	var vmin, vmax float64
	if a.values != nil {
		ramp = rampFor(a.style.Colormap)
		vmin, vmax = floatRange(a.values)
	}
	flat := toRGBA(a.style.Color, colors.GetColor("black"))

	for i, o := range a.origins {
		c := flat
		if a.values != nil {
			c = ramp.Sample(vmin, vmax, a.values[i])
		}
		x0, y0 := fr.px(o[0]), fr.py(o[1])
		x1, y1 := fr.px(o[0]+a.dirs[i][0]*scale), fr.py(o[1]+a.dirs[i][1]*scale)
		fr.line(x0, y0, x1, y1, width, width, c, c)

		shaft := math.Hypot(float64(x1-x0), float64(y1-y0))
		if shaft < 2 {
			continue
		}
		head := math.Max(4, shaft/4)
		ang := math.Atan2(float64(y1-y0), float64(x1-x0))
		for _, da := range [2]float64{math.Pi - 0.5, -(math.Pi - 0.5)} {
			hx := x1 + int(math.Round(head*math.Cos(ang+da)))
			hy := y1 + int(math.Round(head*math.Sin(ang+da)))
			fr.line(x1, y1, hx, hy, width, width, c, c)
		}
	}
}

type streamArtist struct {
	lines      []streamline
	style      geoplot.StreamStyle
	vmin, vmax float64
	colored    bool
}

func newStreamArtist(x, y []float64, u, v, width, values [][]float64, style geoplot.StreamStyle) *streamArtist {
	a := &streamArtist{
		lines:   traceStreamlines(newStreamGrid(x, y, u, v, width, values), style.Density),
		style:   style,
		colored: values != nil,
	}
	if a.colored {
		a.vmin, a.vmax = math.Inf(1), math.Inf(-1)
		for _, row := range values {
			for _, val := range row {
				if math.IsNaN(val) {
					continue
				}
				a.vmin = math.Min(a.vmin, val)
				a.vmax = math.Max(a.vmax, val)
			}
		}
	}
	return a
}

func (a *streamArtist) z() int { return a.style.ZOrder }

func (a *streamArtist) draw(fr *frame) {
	ramp := rampFor(a.style.Colormap)
	flat := toRGBA(a.style.Color, colors.GetColor("black"))
	base := a.style.LineWidth
	if base <= 0 {
		base = 1
	}

	for _, line := range a.lines {
		for i := 0; i+1 < len(line.pts); i++ {
			c0, c1 := flat, flat
			if a.colored {
				c0 = ramp.Sample(a.vmin, a.vmax, line.values[i])
				c1 = ramp.Sample(a.vmin, a.vmax, line.values[i+1])
			}
			w0, w1 := widthPx(base), widthPx(base)
			if line.widths != nil {
				w0 = widthPx(line.widths[i])
				w1 = widthPx(line.widths[i+1])
			}
			fr.line(
				fr.px(line.pts[i][0]), fr.py(line.pts[i][1]),
				fr.px(line.pts[i+1][0]), fr.py(line.pts[i+1][1]),
				w0, w1, c0, c1,
			)
		}
	}
}

type rasterArtist struct {
	data  [][]float64
	xlim  [2]float64
	ylim  [2]float64
	style geoplot.RasterStyle
}

func (a *rasterArtist) z() int { return a.style.ZOrder }

// draw shades the grid through the ramp, scales it to the projected
// extent and blends it into the box. Row zero sits at the top of the
// extent. NaN cells stay transparent.
func (a *rasterArtist) draw(fr *frame) {
	if len(a.data) == 0 || len(a.data[0]) == 0 {
		return
	}
	ny, nx := len(a.data), len(a.data[0])
	vmin, vmax := a.style.VMin, a.style.VMax
	if vmin == vmax {
		vmin, vmax = math.Inf(1), math.Inf(-1)
		for _, row := range a.data {
			for _, val := range row {
				if math.IsNaN(val) {
					continue
				}
				vmin = math.Min(vmin, val)
				vmax = math.Max(vmax, val)
			}
		}
		if vmin > vmax {
			return
		}
	}
	alpha := a.style.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	ramp := rampFor(a.style.Colormap)

	grid := image.NewRGBA(image.Rect(0, 0, nx, ny))
	for j, row := range a.data {
		for i, val := range row {
			if math.IsNaN(val) {
				continue
			}
			c := ramp.Sample(vmin, vmax, val)
			if alpha < 1 {
				// Premultiplied channels scale together.
				c.R = uint8(float64(c.R) * alpha)
				c.G = uint8(float64(c.G) * alpha)
				c.B = uint8(float64(c.B) * alpha)
				c.A = uint8(float64(c.A) * alpha)
			}
			grid.SetRGBA(i, j, c)
		}
	}

	target := image.Rect(
		fr.px(a.xlim[0]), fr.py(a.ylim[1]),
		fr.px(a.xlim[1]), fr.py(a.ylim[0])+1,
	)
	if target.Dx() < 1 || target.Dy() < 1 {
		return
	}
	interp := resize.Bilinear
	if a.style.Interpolation == "nearest" {
		interp = resize.NearestNeighbor
	}
	scaled := resize.Resize(uint(target.Dx()), uint(target.Dy()), grid, interp)
	fr.blit(scaled, target)
}

// frameArtist paints the plot box, the graduation marks and their labels.
// It draws after every artist and ignores the clip, since ticks and
// labels live in the margins.
type frameArtist struct {
	ticks []geoplot.Tick
	color color.RGBA
	width int
}

func (a *frameArtist) draw(fr *frame) {
	box := fr.clip
	for o := 0; o < max(a.width, 1); o++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			fr.setRaw(x, box.Min.Y+o, a.color)
			fr.setRaw(x, box.Max.Y-1-o, a.color)
		}
		for y := box.Min.Y; y < box.Max.Y; y++ {
			fr.setRaw(box.Min.X+o, y, a.color)
			fr.setRaw(box.Max.X-1-o, y, a.color)
		}
	}

	const tickLen = 4
	for _, tick := range a.ticks {
		label := asciiLabel(tick.Label)
		switch tick.Axis {
		case geoplot.AxisBottom:
			x := clampInt(fr.px(tick.Pos), box.Min.X, box.Max.X-1)
			for d := 0; d < tickLen; d++ {
				fr.setRaw(x, box.Max.Y+d, a.color)
			}
			fr.text(label, x-textWidth(label)/2, box.Max.Y+tickLen+12, a.color)
		case geoplot.AxisTop:
			x := clampInt(fr.px(tick.Pos), box.Min.X, box.Max.X-1)
			for d := 1; d <= tickLen; d++ {
				fr.setRaw(x, box.Min.Y-d, a.color)
			}
			fr.text(label, x-textWidth(label)/2, box.Min.Y-tickLen-3, a.color)
		case geoplot.AxisLeft:
			y := clampInt(fr.py(tick.Pos), box.Min.Y, box.Max.Y-1)
			for d := 1; d <= tickLen; d++ {
				fr.setRaw(box.Min.X-d, y, a.color)
			}
			fr.text(label, box.Min.X-tickLen-2-textWidth(label), y+4, a.color)
		case geoplot.AxisRight:
			y := clampInt(fr.py(tick.Pos), box.Min.Y, box.Max.Y-1)
			for d := 0; d < tickLen; d++ {
				fr.setRaw(box.Max.X+d, y, a.color)
			}
			fr.text(label, box.Max.X+tickLen+2, y+4, a.color)
		}
	}
}

func floatRange(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
