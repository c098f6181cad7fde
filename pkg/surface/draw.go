package surface

import (
	"image"
	"image/color"
	"math"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tectonix/geoplot/pkg/geoplot"
)

// frame is one rasterization pass: the target image, the plot box in
// pixels and the projected window mapped onto it. One projected unit maps
// to the same pixel count on both axes, so the box keeps the view's
// aspect ratio.
type frame struct {
	img   *image.RGBA
	clip  image.Rectangle
	view  geoplot.Rect
	scale float64
}

func newFrame(img *image.RGBA, inner image.Rectangle, view geoplot.Rect) *frame {
	scale := math.Min(
		float64(inner.Dx())/view.Width(),
		float64(inner.Dy())/view.Height(),
	)
	boxW := int(math.Round(view.Width() * scale))
	boxH := int(math.Round(view.Height() * scale))
	x0 := inner.Min.X + (inner.Dx()-boxW)/2
	y0 := inner.Min.Y + (inner.Dy()-boxH)/2
	return &frame{
		img:   img,
		clip:  image.Rect(x0, y0, x0+boxW, y0+boxH),
		view:  view,
		scale: scale,
	}
}

func (f *frame) px(x float64) int {
	return f.clip.Min.X + int(math.Round((x-f.view.X0)*f.scale))
}

func (f *frame) py(y float64) int {
	return f.clip.Max.Y - 1 - int(math.Round((y-f.view.Y0)*f.scale))
}

func (f *frame) set(x, y int, c color.RGBA) {
	if x >= f.clip.Min.X && x < f.clip.Max.X && y >= f.clip.Min.Y && y < f.clip.Max.Y {
		f.img.SetRGBA(x, y, c)
	}
}

// setRaw paints outside the plot box too, for the frame and its
// graduations that live in the margins.
func (f *frame) setRaw(x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(f.img.Bounds()) {
		f.img.SetRGBA(x, y, c)
	}
}

// stamp fills a disc, the brush for thick strokes.
func (f *frame) stamp(x, y, radius int, c color.RGBA) {
	if radius <= 0 {
		f.set(x, y, c)
		return
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				f.set(x+dx, y+dy, c)
			}
		}
	}
}

// line strokes a segment with thickness and color interpolated from start
// to end. Widths are pixel diameters; width one takes the plain
// single-pixel path.
func (f *frame) line(x0, y0, x1, y1, w0, w1 int, c0, c1 color.RGBA) {
	if w0 <= 1 && w1 <= 1 {
		f.bresenham(x0, y0, x1, y1, c0, c1)
		return
	}
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		f.stamp(x0, y0, (w0-1)/2, c0)
		return
	}
	for i := 0.0; i <= length; i++ {
		t := i / length
		x := x0 + int(t*dx)
		y := y0 + int(t*dy)
		w := int(float64(w0)*(1-t) + float64(w1)*t)
		f.stamp(x, y, (w-1)/2, lerpRGBA(c0, c1, t))
	}
}

// bresenham strokes a single-pixel segment, fading between the endpoint
// colors. Skips early when the segment lies fully outside the box.
func (f *frame) bresenham(x0, y0, x1, y1 int, c0, c1 color.RGBA) {
	if (x0 < f.clip.Min.X && x1 < f.clip.Min.X) || (x0 >= f.clip.Max.X && x1 >= f.clip.Max.X) ||
		(y0 < f.clip.Min.Y && y1 < f.clip.Min.Y) || (y0 >= f.clip.Max.Y && y1 >= f.clip.Max.Y) {
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	totalSteps := max(dx, -dy)
	step := 0
	for {
		t := 0.0
		if totalSteps > 0 {
			t = float64(step) / float64(totalSteps)
		}
		f.set(x0, y0, lerpRGBA(c0, c1, t))

		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
		step++
	}
}

// polyline strokes connected segments with a constant width and color.
func (f *frame) polyline(pts []image.Point, width int, c color.RGBA) {
	for i := 0; i+1 < len(pts); i++ {
		f.line(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, width, width, c, c)
	}
}

// fillPolygon shades a closed ring with even-odd scanlines sampled at
// pixel centers, so shared vertices do not double-count.
func (f *frame) fillPolygon(pts []image.Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	minY = max(minY, f.clip.Min.Y)
	maxY = min(maxY, f.clip.Max.Y-1)

	var xs []float64
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		sy := float64(y) + 0.5
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			ay, by := float64(a.Y), float64(b.Y)
			if (ay <= sy) == (by <= sy) {
				continue
			}
			t := (sy - ay) / (by - ay)
			xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := max(int(math.Ceil(xs[i]-0.5)), f.clip.Min.X)
			x1 := min(int(math.Floor(xs[i+1]-0.5)), f.clip.Max.X-1)
			for x := x0; x <= x1; x++ {
				f.img.SetRGBA(x, y, c)
			}
		}
	}
}

// blit copies a prepared image so that its bounds land on target,
// clipped to the plot box, blending with whatever is below.
func (f *frame) blit(src image.Image, target image.Rectangle) {
	visible := target.Intersect(f.clip)
	if visible.Empty() {
		return
	}
	srcRect := image.Rectangle{
		Min: visible.Min.Sub(target.Min),
		Max: visible.Max.Sub(target.Min),
	}
	draw.Copy(f.img, visible.Min, src, srcRect, draw.Over, nil)
}

// text draws a label in the 7x13 face. Labels live in the margins, so
// no clipping applies.
func (f *frame) text(s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  f.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s)
}

// textWidth is the pixel advance of a label in the 7x13 face.
func textWidth(s string) int {
	return 7 * len([]rune(s))
}

func lerpRGBA(c1, c2 color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c1.R)*(1-t) + float64(c2.R)*t),
		G: uint8(float64(c1.G)*(1-t) + float64(c2.G)*t),
		B: uint8(float64(c1.B)*(1-t) + float64(c2.B)*t),
		A: uint8(float64(c1.A)*(1-t) + float64(c2.A)*t),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
