// Package surface rasterizes a retained plot scene. Artists arrive in
// projected coordinates and stay in the scene, so a window move or resize
// only re-rasterizes; nothing upstream is asked to redraw.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"sync"

	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/geoplot"
)

var (
	_ geoplot.Surface       = (*Scene)(nil)
	_ geoplot.ImageRenderer = (*Scene)(nil)
)

// Margins around the plot box, in device pixels. Left and right fit a
// seven-character graduation label in the 7x13 face, top and bottom one
// line of it plus the tick marks.
const (
	marginLeft   = 60
	marginRight  = 56
	marginTop    = 20
	marginBottom = 26
)

const defaultGraticuleZ = 30

type artist interface {
	z() int
	draw(fr *frame)
}

// Scene collects artists and rasterizes them on demand. All methods are
// safe for concurrent use; rendering holds the scene lock.
type Scene struct {
	mu      sync.Mutex
	view    geoplot.Rect
	hasView bool
	artists []artist
	frame   *frameArtist
	water   color.RGBA
	bg      color.RGBA
}

// Option configures a Scene during New.
type Option func(*Scene) error

// WithBackground sets the figure background outside the plot box.
func WithBackground(c color.Color) Option {
	return func(s *Scene) error {
		if c == nil {
			return fmt.Errorf("nil background color")
		}
		s.bg = toRGBA(c, colors.GetColor("white"))
		return nil
	}
}

func New(options ...Option) (*Scene, error) {
	s := &Scene{
		water: colors.GetColor("white"),
		bg:    colors.GetColor("white"),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) SetView(view geoplot.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.hasView = true
}

// Coast appends the shoreline polygons. The water color becomes the plot
// box background; rings are filled land color on odd levels and water
// color on even ones, so lakes punch through their island.
func (s *Scene) Coast(polys []geoplot.CoastPolygon, water, land color.Color, style geoplot.CoastStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.water = toRGBA(water, colors.GetColor("lightblue"))
	s.artists = append(s.artists, &coastArtist{
		polys: polys,
		land:  toRGBA(land, colors.GetColor("white")),
		water: s.water,
		line:  toRGBA(style.LineColor, color.RGBA{}),
		width: int(style.LineWidth),
		zo:    style.ZOrder,
	})
}

// Graticule replaces the graticule layer. A nil line set removes it.
func (s *Scene) Graticule(lines []geoplot.Polyline, style geoplot.LineStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.artists[:0]
	for _, a := range s.artists {
		if _, ok := a.(*graticuleArtist); !ok {
			kept = append(kept, a)
		}
	}
	s.artists = kept
	if lines == nil {
		return
	}
	zo := style.ZOrder
	if zo == 0 {
		zo = defaultGraticuleZ
	}
	s.artists = append(s.artists, &graticuleArtist{
		lines: lines,
		color: toRGBA(style.Color, color.RGBA{R: 160, G: 160, B: 160, A: 255}),
		width: widthPx(style.Width),
		zo:    zo,
	})
}

// Frame replaces the plot box and its graduations. The frame always
// paints above every artist.
func (s *Scene) Frame(ticks []geoplot.Tick, style geoplot.LineStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = &frameArtist{
		ticks: ticks,
		color: toRGBA(style.Color, colors.GetColor("black")),
		width: widthPx(style.Width),
	}
}

func (s *Scene) Markers(points [][2]float64, style geoplot.MarkerStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists = append(s.artists, &markerArtist{
		points: points,
		style:  style,
	})
}

func (s *Scene) Arrows(origins, dirs [][2]float64, values []float64, style geoplot.ArrowStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists = append(s.artists, &arrowArtist{
		origins: origins,
		dirs:    dirs,
		values:  values,
		style:   style,
	})
}

func (s *Scene) Streamlines(x, y []float64, u, v, width, values [][]float64, style geoplot.StreamStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists = append(s.artists, newStreamArtist(x, y, u, v, width, values, style))
}

func (s *Scene) Raster(z [][]float64, xlim, ylim [2]float64, style geoplot.RasterStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists = append(s.artists, &rasterArtist{
		data:  z,
		xlim:  xlim,
		ylim:  ylim,
		style: style,
	})
}

func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists = nil
	s.frame = nil
	s.water = colors.GetColor("white")
}

// Render rasterizes the scene at the given pixel size. The plot box keeps
// the view's aspect ratio and is centered between the margins; without a
// view only the background is painted.
func (s *Scene) Render(w, h int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), s.bg)

	inner := image.Rect(marginLeft, marginTop, w-marginRight, h-marginBottom)
	if !s.hasView || !s.view.Valid() || inner.Dx() < 16 || inner.Dy() < 16 {
		return img
	}
	fr := newFrame(img, inner, s.view)
	fillRect(img, fr.clip, s.water)

	sorted := make([]artist, len(s.artists))
	copy(sorted, s.artists)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].z() < sorted[j].z() })
	for _, a := range sorted {
		a.draw(fr)
	}
	if s.frame != nil {
		s.frame.draw(fr)
	}
	return img
}

// WritePNG renders the scene and encodes it.
func (s *Scene) WritePNG(w io.Writer, width, height int) error {
	return png.Encode(w, s.Render(width, height))
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func toRGBA(c color.Color, def color.RGBA) color.RGBA {
	if c == nil {
		return def
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// widthPx maps a fractional stroke width to a pixel width of at least 1.
func widthPx(w float64) int {
	if w <= 0 {
		return 1
	}
	px := int(w + 0.5)
	if px < 1 {
		px = 1
	}
	return px
}
