package geoplot

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// CreateRenderer rasterizes the surface scene into the widget area when
// the surface can render images. The generator runs at paint time with
// the device pixel size, so window resizes re-rasterize the retained
// scene without re-forwarding any action.
func (p *Plot) CreateRenderer() fyne.WidgetRenderer {
	r := &plotRenderer{p: p}
	if ir, ok := p.surf.(ImageRenderer); ok {
		r.raster = canvas.NewRaster(func(w, h int) image.Image {
			p.Flush()
			return ir.Render(w, h)
		})
		r.objects = []fyne.CanvasObject{r.raster}
	} else {
		r.objects = []fyne.CanvasObject{canvas.NewRectangle(color.Transparent)}
	}
	return r
}

type plotRenderer struct {
	p       *Plot
	raster  *canvas.Raster
	objects []fyne.CanvasObject
}

func (r *plotRenderer) Layout(space fyne.Size) {
	for _, o := range r.objects {
		o.Resize(space)
	}
}

func (r *plotRenderer) MinSize() fyne.Size {
	return r.p.MinSize()
}

func (r *plotRenderer) Refresh() {
	r.p.Flush()
	if r.raster != nil {
		canvas.Refresh(r.raster)
	}
}

func (r *plotRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *plotRenderer) Destroy() {}
