package windows

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xwidget "fyne.io/x/fyne/widget"
	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/config"
	"github.com/tectonix/geoplot/pkg/debug"
	"github.com/tectonix/geoplot/pkg/ebus"
	"github.com/tectonix/geoplot/pkg/geocache"
	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/gshhg"
	"github.com/tectonix/geoplot/pkg/layout"
	"github.com/tectonix/geoplot/pkg/projection"
	"github.com/tectonix/geoplot/pkg/surface"
	"github.com/tectonix/geoplot/pkg/track"
	"github.com/tectonix/geoplot/pkg/widgets/cbar"
	"github.com/tectonix/geoplot/pkg/widgets/legend"
	"github.com/tectonix/geoplot/pkg/widgets/plotview"
)

const (
	prefsDataDir     = "dataDir"
	prefsTrackFile   = "lastTrackFile"
	prefsResolution  = "resolution"
	prefsProjection  = "projection"
	prefsTickMode    = "tickMode"
	prefsColormap    = "colormap"
	prefsGridOn      = "gridOn"
	prefsGridSpacing = "gridSpacing"
)

// Legend entry names double as layer identifiers.
const (
	layerCoast  = "Coastlines"
	layerGrid   = "Graticule"
	layerTrack  = "Track"
	layerWind   = "Wind demo"
	layerRelief = "Relief demo"
	layerStress = "Stress demo"
)

// Shorelines are drawn up to the lake level; ponds and islets in ponds
// rarely survive rasterization at viewer sizes anyway.
const coastDetailLevel = 2

type viewerState struct {
	dataDir     string
	resolution  gshhg.Resolution
	projName    string
	tickMode    geoplot.TickMode
	colormap    string
	gridOn      bool
	gridSpacing float64
	water       color.Color
	land        color.Color

	coastColor color.Color
	gridColor  color.Color
	trackColor color.Color
	windColor  color.Color

	coastOn  bool
	trackOn  bool
	windOn   bool
	reliefOn bool
	stressOn bool

	tracks []track.Track
	played []track.Fix
}

type viewerSelects struct {
	resolutionSelect *widget.Select
	tickSelect       *widget.Select
	colormapSelect   *widget.Select
	projectionEntry  *xwidget.CompletionEntry
}

type ViewerWindow struct {
	fyne.Window
	app fyne.App
	cfg *config.Config

	// mu guards plot, scene, proj, coast, state and playCancel. The
	// raster generator snapshots under it, so handlers must not hold
	// it across anything slow.
	mu         sync.Mutex
	plot       *geoplot.Plot
	scene      *surface.Scene
	proj       projection.Projection
	coast      *geocache.Source
	state      viewerState
	playCancel context.CancelFunc

	bus           *ebus.Bus
	unsubFollower func()

	pv         *plotview.PlotView
	legend     *legend.Legend
	colorbar   *cbar.CBar
	selects    *viewerSelects
	statusText *widget.Label

	content *fyne.Container
}

func NewViewerWindow(app fyne.App, cfg *config.Config, filename string) *ViewerWindow {
	v := &ViewerWindow{
		Window:     app.NewWindow("geoplot"),
		app:        app,
		cfg:        cfg,
		selects:    &viewerSelects{},
		statusText: widget.NewLabel("Ready"),
	}

	bus, err := ebus.New(ebus.WithRetention(cfg.Track.Retention))
	if err != nil {
		debug.Log("event bus: " + err.Error())
		bus, _ = ebus.New()
	}
	v.bus = bus

	v.loadState()

	v.scene, _ = surface.New()

	proj, err := projection.Parse(v.state.projName)
	if err != nil {
		debug.Log("projection " + v.state.projName + ": " + err.Error())
		v.state.projName = "platecarree"
		proj, _ = projection.Parse(v.state.projName)
	}
	v.proj = proj

	plot, err := geoplot.New(v.scene, proj, v.plotOptions()...)
	if err != nil {
		debug.Log("plot: " + err.Error())
	}
	v.plot = plot

	v.createSelects()
	v.newProjectionTypeahead()
	v.buildPlotView()
	v.setupMenu()

	if v.state.dataDir != "" {
		if err := v.reloadCoastSource(); err != nil {
			debug.Log("shorelines: " + err.Error())
			v.SetStatus(err.Error())
		}
	}

	v.startFollower()

	v.mu.Lock()
	v.replotLocked()
	v.fitLocked()
	v.updateColorbarLocked()
	v.mu.Unlock()

	v.Window.SetOnDropped(v.onDropped)
	v.SetCloseIntercept(v.closeIntercept)

	v.render()

	v.SetPadded(true)
	v.SetContent(v.content)
	v.Resize(fyne.NewSize(1100, 700))
	v.CenterOnScreen()
	v.SetMaster()

	ctrlG := &desktop.CustomShortcut{KeyName: fyne.KeyG, Modifier: fyne.KeyModifierControl}
	ctrlF := &desktop.CustomShortcut{KeyName: fyne.KeyF, Modifier: fyne.KeyModifierControl}
	ctrlR := &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}
	altEnter := &desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierAlt}

	v.Window.Canvas().AddShortcut(ctrlG, func(shortcut fyne.Shortcut) {
		if item := v.legend.Item(layerGrid); item != nil {
			item.Tapped(nil)
		}
	})
	v.Window.Canvas().AddShortcut(ctrlF, func(shortcut fyne.Shortcut) {
		v.fitView()
	})
	v.Window.Canvas().AddShortcut(ctrlR, func(shortcut fyne.Shortcut) {
		v.playTrack()
	})
	v.Window.Canvas().AddShortcut(altEnter, func(shortcut fyne.Shortcut) {
		v.Window.SetFullScreen(!v.Window.FullScreen())
	})

	if filename != "" {
		v.openPath(filename)
	} else if last := app.Preferences().String(prefsTrackFile); last != "" {
		if err := v.loadTrack(last); err != nil {
			debug.Log("last track: " + err.Error())
		}
	}

	return v
}

func (v *ViewerWindow) loadState() {
	prefs := v.app.Preferences()
	st := &v.state

	st.dataDir = prefs.StringWithFallback(prefsDataDir, v.cfg.Data.Dir)

	res, err := gshhg.ParseResolution(prefs.StringWithFallback(prefsResolution, v.cfg.Data.Resolution))
	if err != nil {
		res = gshhg.Crude
	}
	st.resolution = res

	st.projName = prefs.StringWithFallback(prefsProjection, v.cfg.Plot.Projection)

	mode, err := geoplot.ParseTickMode(prefs.StringWithFallback(prefsTickMode, v.cfg.Plot.TickMode))
	if err != nil {
		mode = geoplot.TicksSignificant
	}
	st.tickMode = mode

	st.colormap = prefs.StringWithFallback(prefsColormap, v.cfg.Plot.Colormap)
	if _, err := colors.ByName(st.colormap); err != nil {
		st.colormap = "viridis"
	}

	st.gridOn = prefs.BoolWithFallback(prefsGridOn, v.cfg.Plot.Grid)
	st.gridSpacing = prefs.FloatWithFallback(prefsGridSpacing, 15)
	if st.gridSpacing <= 0 {
		st.gridSpacing = 15
	}

	if v.cfg.Plot.Water != "" {
		if c, err := colors.Parse(v.cfg.Plot.Water); err == nil {
			st.water = c
		} else {
			debug.Log("water color: " + err.Error())
		}
	}
	if v.cfg.Plot.Land != "" {
		if c, err := colors.Parse(v.cfg.Plot.Land); err == nil {
			st.land = c
		} else {
			debug.Log("land color: " + err.Error())
		}
	}

	st.coastColor = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	st.gridColor = color.RGBA{R: 128, G: 128, B: 128, A: 160}
	st.trackColor = colors.GetColor("orange")
	st.windColor = colors.GetColor("blue")
}

func (v *ViewerWindow) plotOptions() []geoplot.Option {
	opts := []geoplot.Option{
		geoplot.WithTickMode(v.state.tickMode),
		geoplot.WithScheduleFunc(v.schedulePlot),
	}
	if v.state.water != nil {
		opts = append(opts, geoplot.WithWaterColor(v.state.water))
	}
	if v.state.land != nil {
		opts = append(opts, geoplot.WithLandColor(v.state.land))
	}
	return opts
}

// schedulePlot is the plot's flush callback. It only pokes the view
// widget; the actual flush happens inside the next raster pass.
func (v *ViewerWindow) schedulePlot() {
	if pv := v.pv; pv != nil {
		pv.Refresh()
	}
}

func (v *ViewerWindow) renderFrame(w, h int) image.Image {
	v.mu.Lock()
	plot, scene := v.plot, v.scene
	v.mu.Unlock()
	if plot == nil || scene == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	plot.Flush()
	return scene.Render(w, h)
}

func (v *ViewerWindow) buildPlotView() {
	v.pv = plotview.New(v.renderFrame,
		plotview.WithPanZoom(v.panBy, v.zoomBy),
		plotview.WithZoomButtons(true),
		plotview.WithScrollButtons(true),
		plotview.WithAttribution(true, "GSHHG shorelines", gshhg.DownloadPage),
	)

	v.colorbar = cbar.New(&cbar.Config{
		Title:    "Scale",
		Min:      0,
		Max:      1,
		Colormap: v.state.colormap,
	})

	v.legend = legend.New()
	v.legend.Add(layerCoast, v.state.coastColor,
		func(on bool) { v.setLayer(&v.state.coastOn, on) },
		func(c color.Color) { v.setLayerColor(&v.state.coastColor, c) },
	)
	v.legend.Add(layerGrid, v.state.gridColor,
		func(on bool) { v.setLayer(&v.state.gridOn, on) },
		func(c color.Color) { v.setLayerColor(&v.state.gridColor, c) },
	)
	v.legend.Add(layerTrack, v.state.trackColor,
		func(on bool) { v.setLayer(&v.state.trackOn, on) },
		func(c color.Color) { v.setLayerColor(&v.state.trackColor, c) },
	)
	v.legend.Add(layerWind, v.state.windColor,
		func(on bool) { v.setLayer(&v.state.windOn, on) },
		func(c color.Color) { v.setLayerColor(&v.state.windColor, c) },
	)
	v.legend.Add(layerRelief, color.RGBA{R: 33, G: 145, B: 140, A: 255},
		func(on bool) { v.setLayer(&v.state.reliefOn, on) },
		nil,
	)
	v.legend.Add(layerStress, colors.GetColor("purple"),
		func(on bool) { v.setLayer(&v.state.stressOn, on) },
		nil,
	)

	if !v.state.coastOn {
		v.legend.Item(layerCoast).Disable()
	}
	if !v.state.gridOn {
		v.legend.Item(layerGrid).Disable()
	}
	for _, name := range []string{layerTrack, layerWind, layerRelief, layerStress} {
		v.legend.Item(name).Disable()
	}
}

func (v *ViewerWindow) render() {
	top := container.NewBorder(
		nil,
		nil,
		container.NewHBox(
			widget.NewLabel("Resolution"),
			v.selects.resolutionSelect,
			widget.NewSeparator(),
			widget.NewLabel("Ticks"),
			v.selects.tickSelect,
			widget.NewSeparator(),
			widget.NewLabel("Colormap"),
			v.selects.colormapSelect,
			widget.NewSeparator(),
			widget.NewLabel("Projection"),
		),
		nil,
		v.selects.projectionEntry,
	)

	bottom := container.NewBorder(
		nil,
		nil,
		nil,
		v.colorbar,
		v.statusText,
	)

	v.content = container.NewBorder(
		top,
		bottom,
		nil,
		layout.NewFixedWidth(190, container.NewVScroll(v.legend)),
		v.pv,
	)
}

func (v *ViewerWindow) setLayer(flag *bool, on bool) {
	v.mu.Lock()
	*flag = on
	v.replotLocked()
	v.updateColorbarLocked()
	v.mu.Unlock()
	v.pv.Refresh()
}

func (v *ViewerWindow) setLayerColor(dst *color.Color, c color.Color) {
	v.mu.Lock()
	*dst = c
	v.replotLocked()
	v.mu.Unlock()
	v.pv.Refresh()
}

func (v *ViewerWindow) replot() {
	v.mu.Lock()
	v.replotLocked()
	v.mu.Unlock()
	v.pv.Refresh()
}

// replotLocked rebuilds the pending layer set from scratch. Explicit
// view limits survive the clear, so pan and zoom stay put across layer
// toggles and restyles.
func (v *ViewerWindow) replotLocked() {
	v.plot.Clear()
	st := &v.state

	v.plot.Grid(st.gridOn, st.gridSpacing, 0, 0, &geoplot.LineStyle{Color: st.gridColor, Width: 0.5})

	if st.coastOn && v.coast != nil {
		if err := v.plot.Coastline(coastDetailLevel, &geoplot.CoastStyle{
			LineColor: st.coastColor,
			LineWidth: 0.6,
		}); err != nil {
			debug.Log("coastline: " + err.Error())
		}
	}
	if st.windOn {
		v.addWindLocked()
	}
	if st.reliefOn {
		v.addReliefLocked()
	}
	if st.stressOn {
		v.addStressLocked()
	}
	if st.trackOn {
		v.addTrackLocked()
	}
}

func (v *ViewerWindow) addTrackLocked() {
	for _, trk := range v.state.tracks {
		if len(trk.Fixes) == 0 {
			continue
		}
		lons := make([]float64, len(trk.Fixes))
		lats := make([]float64, len(trk.Fixes))
		for i, f := range trk.Fixes {
			lons[i] = f.Lon
			lats[i] = f.Lat
		}
		v.plot.Scatter(lons, lats, &geoplot.MarkerStyle{Color: v.state.trackColor, Size: 2})
	}
	if len(v.state.played) > 0 {
		lons := make([]float64, len(v.state.played))
		lats := make([]float64, len(v.state.played))
		for i, f := range v.state.played {
			lons[i] = f.Lon
			lats[i] = f.Lat
		}
		v.plot.Scatter(lons, lats, &geoplot.MarkerStyle{Color: colors.GetColor("yellow"), Size: 4})
	}
}

func (v *ViewerWindow) updateColorbarLocked() {
	st := &v.state
	switch {
	case st.reliefOn:
		v.colorbar.SetTitle("Relief (demo)")
		v.colorbar.SetRange(-1, 1)
	case st.windOn:
		v.colorbar.SetTitle("Wind speed")
		v.colorbar.SetRange(0, windDemoMax)
	case st.stressOn:
		v.colorbar.SetTitle("Principal stress")
		v.colorbar.SetRange(0, 1)
	default:
		v.colorbar.SetTitle("Scale")
		v.colorbar.SetRange(0, 1)
	}
	if err := v.colorbar.SetColormap(st.colormap); err != nil {
		debug.Log("colorbar: " + err.Error())
	}
}

func (v *ViewerWindow) panBy(dx, dy float64) {
	v.mu.Lock()
	view, ok := v.plot.View()
	if !ok {
		v.mu.Unlock()
		return
	}
	sx := dx * view.Width()
	sy := dy * view.Height()
	v.plot.SetXLim(view.X0+sx, view.X1+sx)
	v.plot.SetYLim(view.Y0+sy, view.Y1+sy)
	v.mu.Unlock()
}

func (v *ViewerWindow) zoomBy(step int) {
	factor := math.Pow(0.8, float64(step))
	v.mu.Lock()
	view, ok := v.plot.View()
	if !ok {
		v.mu.Unlock()
		return
	}
	cx := (view.X0 + view.X1) / 2
	cy := (view.Y0 + view.Y1) / 2
	hw := view.Width() / 2 * factor
	hh := view.Height() / 2 * factor
	v.plot.SetXLim(cx-hw, cx+hw)
	v.plot.SetYLim(cy-hh, cy+hh)
	v.mu.Unlock()
}

// worldRectLocked samples the projected extent of the inhabitable
// sphere. Sampling instead of projecting corners keeps oblique
// projections honest, where extremes sit mid-edge.
func (v *ViewerWindow) worldRectLocked() geoplot.Rect {
	var r geoplot.Rect
	first := true
	for lat := -85.0; lat <= 85.0; lat += 5 {
		for lon := -180.0; lon <= 180.0; lon += 10 {
			x, y := v.proj.Project(lon, lat)
			if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			if first {
				r = geoplot.Rect{X0: x, Y0: y, X1: x, Y1: y}
				first = false
				continue
			}
			r = r.Expand(x, y)
		}
	}
	return r
}

func (v *ViewerWindow) fitWorldLocked() {
	r := v.worldRectLocked().Pad(0.02)
	if !r.Valid() {
		return
	}
	v.plot.SetXLim(r.X0, r.X1)
	v.plot.SetYLim(r.Y0, r.Y1)
}

func (v *ViewerWindow) fitLocked() {
	if b, ok := v.trackBoundLocked(); ok && v.state.trackOn {
		v.fitBoundLocked(b)
		return
	}
	v.fitWorldLocked()
}

func (v *ViewerWindow) fitView() {
	v.mu.Lock()
	v.fitLocked()
	v.mu.Unlock()
	v.pv.Refresh()
}

func (v *ViewerWindow) fitWorld() {
	v.mu.Lock()
	v.fitWorldLocked()
	v.mu.Unlock()
	v.pv.Refresh()
}

func (v *ViewerWindow) reloadCoastSource() error {
	v.mu.Lock()
	st := &v.state
	if st.dataDir == "" {
		v.mu.Unlock()
		return errors.New("no shoreline data folder configured")
	}
	path := filepath.Join(st.dataDir, st.resolution.Filename())
	if _, err := os.Stat(path); err != nil {
		v.mu.Unlock()
		return fmt.Errorf("shorelines: %w", err)
	}
	var opts []geocache.Option
	if v.cfg.Data.CacheDir != "" {
		opts = append(opts, geocache.WithCacheDir(v.cfg.Data.CacheDir))
	}
	src, err := geocache.New(st.dataDir, st.resolution, opts...)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.coast = src
	v.plot.SetCoastSource(src)
	st.coastOn = true
	v.replotLocked()
	v.mu.Unlock()

	if item := v.legend.Item(layerCoast); item != nil {
		item.Enable()
	}
	v.pv.Refresh()
	v.SetStatus("Shorelines " + path)
	return nil
}

// rebuildPlot swaps the projection. Pending layers and the view are
// rebuilt from scratch since projected limits do not translate between
// projections.
func (v *ViewerWindow) rebuildPlot(spec string) error {
	proj, err := projection.Parse(spec)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.proj = proj
	v.state.projName = spec
	v.scene.Clear()
	plot, err := geoplot.New(v.scene, proj, v.plotOptions()...)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	if v.coast != nil {
		plot.SetCoastSource(v.coast)
	}
	v.plot = plot
	v.replotLocked()
	v.fitLocked()
	v.mu.Unlock()
	v.pv.Refresh()
	return nil
}

func (v *ViewerWindow) Error(err error) {
	debug.Log("error: " + err.Error())
	dialog.ShowError(err, v.Window)
}

func (v *ViewerWindow) SetStatus(s string) {
	v.statusText.SetText(s)
}

func (v *ViewerWindow) savePrefs() {
	prefs := v.app.Preferences()
	v.mu.Lock()
	st := v.state
	v.mu.Unlock()
	prefs.SetString(prefsDataDir, st.dataDir)
	prefs.SetString(prefsResolution, st.resolution.String())
	prefs.SetString(prefsProjection, st.projName)
	prefs.SetString(prefsTickMode, st.tickMode.String())
	prefs.SetString(prefsColormap, st.colormap)
	prefs.SetBool(prefsGridOn, st.gridOn)
	prefs.SetFloat(prefsGridSpacing, st.gridSpacing)
}

func (v *ViewerWindow) closeIntercept() {
	v.stopPlayback()
	if v.unsubFollower != nil {
		v.unsubFollower()
	}
	v.savePrefs()
	v.bus.Close()
	debug.Close()
	v.Close()
}

func (v *ViewerWindow) onDropped(pos fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		v.openPath(u.Path())
	}
}

func (v *ViewerWindow) openPath(path string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".b":
		v.openShorelineFile(path)
	case ".geojson", ".json":
		if err := v.loadTrack(path); err != nil {
			v.Error(err)
		}
	default:
		v.Error(fmt.Errorf("unsupported file type %q", filepath.Ext(path)))
	}
}

// openShorelineFile adopts the file's folder as the data dir and reads
// the resolution back out of the gshhs_?.b naming scheme.
func (v *ViewerWindow) openShorelineFile(path string) {
	res := v.state.resolution
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if code, ok := strings.CutPrefix(base, "gshhs_"); ok {
		if r, err := gshhg.ParseResolution(code); err == nil {
			res = r
		}
	}
	v.mu.Lock()
	v.state.dataDir = filepath.Dir(path)
	v.state.resolution = res
	v.mu.Unlock()
	v.app.Preferences().SetString(prefsDataDir, filepath.Dir(path))
	v.app.Preferences().SetString(prefsResolution, res.String())
	v.selects.resolutionSelect.SetSelected(res.String())
}
