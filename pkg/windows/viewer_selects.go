package windows

import (
	"sort"
	"strings"

	"fyne.io/fyne/v2/widget"
	xwidget "fyne.io/x/fyne/widget"
	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/gshhg"
	"github.com/tectonix/geoplot/pkg/projection"
)

func resolutionNames() []string {
	all := []gshhg.Resolution{gshhg.Crude, gshhg.Low, gshhg.Intermediate, gshhg.High, gshhg.Full}
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.String()
	}
	return names
}

func tickModeNames() []string {
	all := []geoplot.TickMode{geoplot.TicksSignificant, geoplot.TicksBoth, geoplot.TicksLonLat, geoplot.TicksLatLon}
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.String()
	}
	return names
}

func colormapNames() []string {
	all := colors.Maps()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.String()
	}
	return names
}

func (v *ViewerWindow) createSelects() {
	v.selects.resolutionSelect = widget.NewSelect(resolutionNames(), func(s string) {
		res, err := gshhg.ParseResolution(s)
		if err != nil {
			return
		}
		v.mu.Lock()
		v.state.resolution = res
		v.mu.Unlock()
		v.app.Preferences().SetString(prefsResolution, s)
		if err := v.reloadCoastSource(); err != nil {
			v.SetStatus(err.Error())
		}
	})
	v.selects.resolutionSelect.Selected = v.state.resolution.String()

	v.selects.tickSelect = widget.NewSelect(tickModeNames(), func(s string) {
		mode, err := geoplot.ParseTickMode(s)
		if err != nil {
			return
		}
		v.mu.Lock()
		v.state.tickMode = mode
		v.plot.SetTickMode(mode)
		v.mu.Unlock()
		v.app.Preferences().SetString(prefsTickMode, s)
		v.pv.Refresh()
	})
	v.selects.tickSelect.Selected = v.state.tickMode.String()

	v.selects.colormapSelect = widget.NewSelect(colormapNames(), func(s string) {
		v.mu.Lock()
		v.state.colormap = s
		v.replotLocked()
		v.updateColorbarLocked()
		v.mu.Unlock()
		v.app.Preferences().SetString(prefsColormap, s)
		v.pv.Refresh()
	})
	v.selects.colormapSelect.Selected = v.state.colormap
}

func (v *ViewerWindow) newProjectionTypeahead() {
	v.selects.projectionEntry = xwidget.NewCompletionEntry([]string{})
	v.selects.projectionEntry.PlaceHolder = "mercator, hotine:lon0=15,lat0=58.5,azimuth=32 ..."
	v.selects.projectionEntry.Text = v.state.projName
	v.selects.projectionEntry.OnChanged = func(s string) {
		if len(s) < 2 {
			v.selects.projectionEntry.HideCompletion()
			return
		}
		var results []string
		for _, name := range projection.Names() {
			if strings.Contains(strings.ToLower(name), strings.ToLower(s)) {
				results = append(results, name)
			}
		}
		if len(results) == 0 {
			v.selects.projectionEntry.HideCompletion()
			return
		}
		sort.Strings(results)
		v.selects.projectionEntry.SetOptions(results)
		v.selects.projectionEntry.ShowCompletion()
	}
	v.selects.projectionEntry.OnSubmitted = func(s string) {
		v.setProjection(s)
	}
}

func (v *ViewerWindow) setProjection(spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return
	}
	if err := v.rebuildPlot(spec); err != nil {
		v.Error(err)
		return
	}
	v.app.Preferences().SetString(prefsProjection, spec)
	v.SetStatus("Projection " + spec)
}
