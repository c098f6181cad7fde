package legend

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/lusingander/colorpicker"
)

var disabledColor = color.RGBA{128, 128, 128, 255}

// Item is one legend row, a color swatch next to a label. Tapping
// toggles the layer it stands for, a secondary tap opens a color
// picker for it.
type Item struct {
	widget.BaseWidget
	swatch        *canvas.Rectangle
	text          *canvas.Text
	row           *fyne.Container
	name          string
	enabled       bool
	onTapped      func(bool)
	onColorUpdate func(col color.Color)
	color         color.Color
}

func NewItem(name string, col color.Color, onTapped func(enabled bool), onColorUpdate func(col color.Color)) *Item {
	it := &Item{
		swatch:        canvas.NewRectangle(col),
		text:          canvas.NewText(name, col),
		name:          name,
		enabled:       true,
		onTapped:      onTapped,
		onColorUpdate: onColorUpdate,
		color:         col,
	}
	it.swatch.SetMinSize(fyne.NewSize(12, 12))
	it.text.TextStyle = fyne.TextStyle{Bold: true, Italic: false}
	it.row = container.NewHBox(it.swatch, it.text)
	it.ExtendBaseWidget(it)
	return it
}

func (it *Item) Enable() {
	it.enabled = true
	it.text.Color = it.color
	it.text.TextStyle = fyne.TextStyle{Bold: true, Italic: false}
	it.swatch.FillColor = it.color
	it.swatch.Refresh()
	it.text.Refresh()
}

func (it *Item) Disable() {
	it.enabled = false
	it.text.TextStyle = fyne.TextStyle{Bold: false, Italic: true}
	it.text.Color = disabledColor
	it.swatch.FillColor = disabledColor
	it.swatch.Refresh()
	it.text.Refresh()
}

// Enabled reports whether the row's layer is switched on.
func (it *Item) Enabled() bool {
	return it.enabled
}

func (it *Item) Tapped(*fyne.PointEvent) {
	if it.enabled {
		it.Disable()
	} else {
		it.Enable()
	}
	if it.onTapped != nil {
		it.onTapped(it.enabled)
	}
}

func (it *Item) TappedSecondary(*fyne.PointEvent) {
	picker := colorpicker.New(250, colorpicker.StyleHueCircle)
	picker.SetOnChanged(func(c color.Color) {
		it.color = c
		if it.enabled {
			it.text.Color = c
			it.swatch.FillColor = c
			it.swatch.Refresh()
			it.text.Refresh()
		}
		if it.onColorUpdate != nil {
			it.onColorUpdate(c)
		}
	})

	canvas := fyne.CurrentApp().Driver().CanvasForObject(it.text)

	var modal *widget.PopUp
	modal = widget.NewModalPopUp(container.NewVBox(
		picker,
		widget.NewButton("Close", func() {
			modal.Hide()
		}),
	), canvas)
	modal.Show()
}

// SetSuffix appends a live readout after the layer name, or restores
// the bare name when empty.
func (it *Item) SetSuffix(suffix string) {
	if suffix == "" {
		it.text.Text = it.name
	} else {
		it.text.Text = it.name + ": " + suffix
	}
	it.text.Refresh()
}

func (it *Item) SetTextSize(size int) {
	it.text.TextSize = float32(size)
}

func (it *Item) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(it.row)
}

// Legend stacks the layer rows of a plot.
type Legend struct {
	widget.BaseWidget
	box   *fyne.Container
	items map[string]*Item
}

func New() *Legend {
	l := &Legend{
		box:   container.NewVBox(),
		items: make(map[string]*Item),
	}
	l.ExtendBaseWidget(l)
	return l
}

// Add appends a row for the named layer and returns it.
func (l *Legend) Add(name string, col color.Color, onTapped func(enabled bool), onColorUpdate func(col color.Color)) *Item {
	it := NewItem(name, col, onTapped, onColorUpdate)
	it.SetTextSize(11)
	l.items[name] = it
	l.box.Add(it)
	return it
}

// Item returns the row added under name, or nil.
func (l *Legend) Item(name string) *Item {
	return l.items[name]
}

// Remove drops the named row.
func (l *Legend) Remove(name string) {
	it, ok := l.items[name]
	if !ok {
		return
	}
	delete(l.items, name)
	l.box.Remove(it)
}

func (l *Legend) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(l.box)
}
