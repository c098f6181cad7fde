package plotview

import (
	"image"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// PlotView widget shows a rendered plot and re-renders it whenever its
// size on screen changes. Pan and zoom buttons overlay the edges, what
// they do to the view is up to the callbacks.
type PlotView struct {
	widget.BaseWidget

	render func(w, h int) image.Image

	onPan  func(dx, dy float64) // fractions of the current view, east and north positive
	onZoom func(step int)       // positive steps zoom in

	hideAttribution  bool
	attributionLabel string
	attributionURL   string
	hideZoomButtons  bool
	hideMoveButtons  bool
}

// Option configures the provided plot view with different features.
type Option func(*PlotView)

// WithAttribution configures the view to display a data attribution.
func WithAttribution(enable bool, label, url string) Option {
	return func(p *PlotView) {
		p.hideAttribution = !enable
		p.attributionLabel = label
		p.attributionURL = url
	}
}

// WithZoomButtons enables or disables zoom controls.
func WithZoomButtons(enable bool) Option {
	return func(p *PlotView) {
		p.hideZoomButtons = !enable
	}
}

// WithScrollButtons enables or disables pan controls.
func WithScrollButtons(enable bool) Option {
	return func(p *PlotView) {
		p.hideMoveButtons = !enable
	}
}

// WithPanZoom wires the view controls to the plot.
func WithPanZoom(onPan func(dx, dy float64), onZoom func(step int)) Option {
	return func(p *PlotView) {
		p.onPan = onPan
		p.onZoom = onZoom
	}
}

// New creates a new instance of the plot view widget. render is called
// with the pixel size whenever a fresh frame is needed.
func New(render func(w, h int) image.Image, opts ...Option) *PlotView {
	p := &PlotView{render: render, hideAttribution: true}
	for _, opt := range opts {
		opt(p)
	}
	if p.onPan == nil {
		p.hideMoveButtons = true
	}
	if p.onZoom == nil {
		p.hideZoomButtons = true
	}
	p.ExtendBaseWidget(p)
	return p
}

// MinSize returns the smallest possible size for the widget.
func (p *PlotView) MinSize() fyne.Size {
	return fyne.NewSize(64, 64)
}

// PanEast moves the view a quarter width to the east.
func (p *PlotView) PanEast() {
	p.onPan(0.25, 0)
	p.Refresh()
}

// PanWest moves the view a quarter width to the west.
func (p *PlotView) PanWest() {
	p.onPan(-0.25, 0)
	p.Refresh()
}

// PanNorth moves the view a quarter height up.
func (p *PlotView) PanNorth() {
	p.onPan(0, 0.25)
	p.Refresh()
}

// PanSouth moves the view a quarter height down.
func (p *PlotView) PanSouth() {
	p.onPan(0, -0.25)
	p.Refresh()
}

// ZoomIn narrows the view by one step.
func (p *PlotView) ZoomIn() {
	p.onZoom(1)
	p.Refresh()
}

// ZoomOut widens the view by one step.
func (p *PlotView) ZoomOut() {
	p.onZoom(-1)
	p.Refresh()
}

// CreateRenderer returns the renderer for this widget, the plot raster
// with the controls overlaid.
func (p *PlotView) CreateRenderer() fyne.WidgetRenderer {
	var zoom fyne.CanvasObject
	if !p.hideZoomButtons {
		zoom = container.NewVBox(
			newPlotButton(theme.ZoomInIcon(), p.ZoomIn),
			newPlotButton(theme.ZoomOutIcon(), p.ZoomOut))
	}

	var move fyne.CanvasObject
	if !p.hideMoveButtons {
		buttonLayout := container.NewGridWithColumns(3, layout.NewSpacer(),
			newPlotButton(theme.MoveUpIcon(), p.PanNorth), layout.NewSpacer(),
			newPlotButton(theme.NavigateBackIcon(), p.PanWest), layout.NewSpacer(),
			newPlotButton(theme.NavigateNextIcon(), p.PanEast), layout.NewSpacer(),
			newPlotButton(theme.MoveDownIcon(), p.PanSouth), layout.NewSpacer())
		move = container.NewVBox(buttonLayout)
	}

	var attribution fyne.CanvasObject
	if !p.hideAttribution {
		source, _ := url.Parse(p.attributionURL)
		link := widget.NewHyperlink(p.attributionLabel, source)
		attribution = container.NewHBox(layout.NewSpacer(), link)
	}

	overlay := container.NewBorder(nil, attribution, move, zoom)

	c := container.NewStack(canvas.NewRaster(p.draw), container.NewPadded(overlay))
	return widget.NewSimpleRenderer(c)
}

func (p *PlotView) draw(w, h int) image.Image {
	if p.render == nil || w < 1 || h < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return p.render(w, h)
}

func newPlotButton(icon fyne.Resource, f func()) *widget.Button {
	b := widget.NewButtonWithIcon("", icon, f)
	b.Importance = widget.LowImportance
	return b
}
