package windows

import (
	"net/url"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tectonix/geoplot/pkg/gshhg"
	"github.com/tectonix/geoplot/pkg/update"
)

func About() *container.AppTabs {
	project, _ := url.Parse("https://github.com/tectonix/geoplot")
	releases, _ := url.Parse(update.ReleasesPage)
	gshhgPage, _ := url.Parse(gshhg.DownloadPage)

	meta := fyne.CurrentApp().Metadata()

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("About", theme.InfoIcon(),
			container.NewVBox(
				widget.NewLabel("geoplot - deferred geospatial plotting"),
				widget.NewLabel("Version: "+meta.Version+" Build: "+strconv.Itoa(meta.Build)),
				widget.NewHyperlink("Project page", project),
				widget.NewHyperlink("Releases", releases),
				widget.NewSeparator(),
				widget.NewLabel("Shoreline data: GSHHG, distributed under LGPL"),
				widget.NewHyperlink("www.soest.hawaii.edu/pwessel/gshhg", gshhgPage),
			),
		),
		container.NewTabItemWithIcon("Keyboard Shortcuts", theme.VisibilityIcon(), container.NewGridWithColumns(2,
			container.NewVBox(
				widget.NewLabel("Ctrl+G: Toggle graticule"),
				widget.NewLabel("Ctrl+F: Fit view to track"),
				widget.NewLabel("Ctrl+R: Replay track"),
				widget.NewLabel("Alt+Enter: Toggle fullscreen"),
			),
			container.NewVBox(
				widget.NewLabel("Drop a gshhs_?.b file to load shorelines"),
				widget.NewLabel("Drop a .geojson file to load a track"),
				widget.NewLabel("Left click a legend entry to toggle the layer"),
				widget.NewLabel("Right click a legend entry to recolor it"),
			)),
		),
	)
	return tabs
}

func (v *ViewerWindow) showAbout() {
	w := v.app.NewWindow("About")
	w.SetContent(About())
	w.Resize(fyne.NewSize(520, 320))
	w.CenterOnScreen()
	w.Show()
}
