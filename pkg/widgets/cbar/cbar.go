package cbar

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/common"
)

// Config describes a colorbar legend.
type Config struct {
	Title         string
	Min, Max      float64
	Colormap      string // ramp name, empty picks viridis
	DisplayString string // format for the end labels
	TextSize      float32
	MinSize       fyne.Size
	Steps         int // graduation line count
}

// CBar shows which data values the colors of a ramp stand for. The
// gradient strip runs from Min on the left to Max on the right.
type CBar struct {
	widget.BaseWidget
	face      *canvas.Rectangle
	strip     *canvas.Image
	titleText *canvas.Text
	minText   *canvas.Text
	maxText   *canvas.Text
	bars      []*canvas.Line

	cfg  *Config
	ramp colors.Map

	lastSize fyne.Size

	// Cache layout calculations
	stripTop         float32
	stripHeight      float32
	heightOneSeventh float32
	stepFactor       float32
}

func New(cfg *Config) *CBar {
	if cfg.MinSize.Width == 0 {
		cfg.MinSize.Width = 200
	}
	if cfg.MinSize.Height == 0 {
		cfg.MinSize.Height = 56
	}
	if cfg.Steps == 0 {
		cfg.Steps = 10
	}
	if cfg.DisplayString == "" {
		cfg.DisplayString = "%.4g"
	}
	if cfg.TextSize == 0 {
		cfg.TextSize = 12
	}

	s := &CBar{
		cfg:  cfg,
		ramp: colors.Viridis,
	}
	if m, err := colors.ByName(cfg.Colormap); err == nil {
		s.ramp = m
	}
	s.ExtendBaseWidget(s)

	s.initializeVisualElements()

	return s
}

func (s *CBar) GetConfig() *Config {
	return s.cfg
}

func (s *CBar) initializeVisualElements() {
	s.face = &canvas.Rectangle{
		StrokeColor: color.RGBA{0x80, 0x80, 0x80, 0xFF},
		FillColor:   color.RGBA{0x00, 0x00, 0x00, 0x00},
		StrokeWidth: 2,
	}

	s.strip = canvas.NewImageFromImage(rampImage(s.ramp, 256, 1))
	s.strip.FillMode = canvas.ImageFillStretch
	s.strip.ScaleMode = canvas.ImageScaleSmooth

	s.titleText = &canvas.Text{
		Text:      s.cfg.Title,
		Color:     color.RGBA{0xF0, 0xF0, 0xF0, 0xFF},
		TextSize:  s.cfg.TextSize,
		TextStyle: fyne.TextStyle{Monospace: true},
		Alignment: fyne.TextAlignCenter,
	}

	s.minText = &canvas.Text{
		Text:      fmt.Sprintf(s.cfg.DisplayString, s.cfg.Min),
		Color:     color.RGBA{0xF0, 0xF0, 0xF0, 0xFF},
		TextSize:  s.cfg.TextSize,
		TextStyle: fyne.TextStyle{Monospace: true},
		Alignment: fyne.TextAlignLeading,
	}

	s.maxText = &canvas.Text{
		Text:      fmt.Sprintf(s.cfg.DisplayString, s.cfg.Max),
		Color:     color.RGBA{0xF0, 0xF0, 0xF0, 0xFF},
		TextSize:  s.cfg.TextSize,
		TextStyle: fyne.TextStyle{Monospace: true},
		Alignment: fyne.TextAlignLeading,
	}

	s.initializeBars()
}

func (s *CBar) initializeBars() {
	for i := 0; i <= s.cfg.Steps; i++ {
		line := &canvas.Line{
			StrokeColor: color.RGBA{0xB0, 0xB0, 0xB0, 0xFF},
			StrokeWidth: 1,
		}
		s.bars = append(s.bars, line)
	}
}

// SetRange updates the values the strip ends stand for.
func (s *CBar) SetRange(min, max float64) {
	if s == nil || (min == s.cfg.Min && max == s.cfg.Max) {
		return
	}
	s.cfg.Min = min
	s.cfg.Max = max
	s.refresh()
}

// SetColormap swaps the gradient for the named ramp.
func (s *CBar) SetColormap(name string) error {
	m, err := colors.ByName(name)
	if err != nil {
		return err
	}
	s.cfg.Colormap = name
	s.ramp = m
	s.strip.Image = rampImage(m, 256, 1)
	s.strip.Refresh()
	return nil
}

// SetTitle replaces the caption under the strip.
func (s *CBar) SetTitle(title string) {
	s.cfg.Title = title
	s.titleText.Text = title
	s.titleText.Refresh()
	s.refresh()
}

func (s *CBar) refresh() {
	s.minText.Text = fmt.Sprintf(s.cfg.DisplayString, s.cfg.Min)
	s.minText.Refresh()
	s.maxText.Text = fmt.Sprintf(s.cfg.DisplayString, s.cfg.Max)
	s.maxText.Refresh()

	labelY := s.stripTop + s.stripHeight + s.heightOneSeventh

	titleX := s.lastSize.Width*0.5 - s.titleText.MinSize().Width*0.5
	s.titleText.Move(fyne.NewPos(titleX, labelY))
	s.minText.Move(fyne.NewPos(0, labelY))
	s.maxText.Move(fyne.NewPos(s.lastSize.Width-s.maxText.MinSize().Width, labelY))
}

func (s *CBar) CreateRenderer() fyne.WidgetRenderer {
	return &CBarRenderer{s}
}

// rampImage renders the ramp into a horizontal strip.
func rampImage(ramp colors.Map, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		c := ramp.At(float64(x) / float64(w-1))
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

type CBarRenderer struct {
	*CBar
}

func (r *CBarRenderer) MinSize() fyne.Size {
	return r.cfg.MinSize
}

func (r *CBarRenderer) Refresh() {
}

func (r *CBarRenderer) Destroy() {
}

func (r *CBarRenderer) Layout(space fyne.Size) {
	if r.lastSize == space {
		return
	}

	r.lastSize = space

	// Cache frequently used calculations
	r.stripTop = space.Height * common.OneEight
	r.stripHeight = space.Height * common.OneThird
	r.heightOneSeventh = space.Height * common.OneSeventh
	r.stepFactor = space.Width / float32(r.cfg.Steps)

	r.strip.Move(fyne.NewPos(0, r.stripTop))
	r.strip.Resize(fyne.NewSize(space.Width, r.stripHeight))

	r.face.Move(fyne.NewPos(0, r.stripTop))
	r.face.Resize(fyne.NewSize(space.Width, r.stripHeight))

	// Graduations hang off the strip, every other one longer.
	stripBottom := r.stripTop + r.stripHeight
	for i, line := range r.bars {
		pos := float32(i) * r.stepFactor
		if i == r.cfg.Steps {
			pos = space.Width - 1
		}
		if i%2 == 0 {
			line.Position1 = fyne.NewPos(pos, stripBottom)
			line.Position2 = fyne.NewPos(pos, stripBottom+r.heightOneSeventh)
		} else {
			line.Position1 = fyne.NewPos(pos, stripBottom)
			line.Position2 = fyne.NewPos(pos, stripBottom+r.heightOneSeventh*common.OneHalf)
		}
	}

	r.refresh()
}

func (r *CBarRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.strip}
	for _, line := range r.bars {
		objs = append(objs, line)
	}

	objs = append(objs, r.face, r.titleText, r.minText, r.maxText)
	return objs
}
