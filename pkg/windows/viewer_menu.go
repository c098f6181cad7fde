package windows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/skratchdot/open-golang/open"
	"github.com/tectonix/geoplot/pkg/gshhg"
	"github.com/tectonix/geoplot/pkg/update"
	"github.com/tectonix/geoplot/pkg/widgets"
	"github.com/tectonix/geoplot/pkg/widgets/progressmodal"
)

const exportWidth, exportHeight = 1600, 1000

func (v *ViewerWindow) setupMenu() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open shorelines...", v.openShorelineDialog),
		fyne.NewMenuItem("Open track...", v.openTrackDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select data folder...", v.selectDataFolder),
		fyne.NewMenuItem("Open data folder", v.openDataFolder),
		fyne.NewMenuItem("Download shorelines", v.downloadCoastlines),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", v.exportPNG),
	)

	spacing := fyne.NewMenuItem("Graticule spacing", nil)
	var spacingItems []*fyne.MenuItem
	for _, deg := range []float64{1, 5, 10, 15, 30} {
		spacingItems = append(spacingItems, fyne.NewMenuItem(fmt.Sprintf("%g°", deg), func() {
			v.setGridSpacing(deg)
		}))
	}
	spacing.ChildMenu = fyne.NewMenu("", spacingItems...)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit track", v.fitView),
		fyne.NewMenuItem("Fit world", v.fitWorld),
		fyne.NewMenuItemSeparator(),
		spacing,
	)

	trackMenu := fyne.NewMenu("Track",
		fyne.NewMenuItem("Replay", v.playTrack),
		fyne.NewMenuItem("Stop", v.stopPlayback),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear", v.clearTrack),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			v.showAbout()
		}),
		fyne.NewMenuItem("Check for updates", func() {
			go update.Check(v.app, v.Window)
		}),
		fyne.NewMenuItem("Shoreline data page", func() {
			if err := open.Run(gshhg.DownloadPage); err != nil {
				v.Error(err)
			}
		}),
	)

	v.Window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, trackMenu, helpMenu))
}

func (v *ViewerWindow) setGridSpacing(deg float64) {
	v.mu.Lock()
	v.state.gridSpacing = deg
	v.replotLocked()
	v.mu.Unlock()
	v.app.Preferences().SetFloat(prefsGridSpacing, deg)
	v.pv.Refresh()
}

func (v *ViewerWindow) openShorelineDialog() {
	widgets.SelectFile(func(filename string) {
		v.openShorelineFile(filename)
	}, "GSHHG shorelines", "b")
}

func (v *ViewerWindow) openTrackDialog() {
	widgets.SelectFile(func(filename string) {
		if err := v.loadTrack(filename); err != nil {
			v.Error(err)
		}
	}, "GeoJSON track", "geojson", "json")
}

func (v *ViewerWindow) selectDataFolder() {
	widgets.SelectFolder(func(dir string) {
		v.mu.Lock()
		v.state.dataDir = dir
		v.mu.Unlock()
		v.app.Preferences().SetString(prefsDataDir, dir)
		if err := v.reloadCoastSource(); err != nil {
			v.Error(err)
		}
	})
}

func (v *ViewerWindow) openDataFolder() {
	v.mu.Lock()
	dir := v.state.dataDir
	v.mu.Unlock()
	if dir == "" {
		v.Error(errors.New("no shoreline data folder configured"))
		return
	}
	if err := open.Run(dir); err != nil {
		v.Error(fmt.Errorf("failed to open data folder: %w", err))
	}
}

// downloadCoastlines fetches the full GSHHG archive. The target is the
// configured data dir, or the user cache dir on a fresh install.
func (v *ViewerWindow) downloadCoastlines() {
	v.mu.Lock()
	dir := v.state.dataDir
	v.mu.Unlock()
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			v.Error(err)
			return
		}
		dir = filepath.Join(cache, "geoplot", "gshhg")
	}

	msg := fmt.Sprintf("Download the GSHHG shoreline archive (~120 MB) to %s?", dir)
	dialog.ShowConfirm("Download shorelines", msg, func(ok bool) {
		if !ok {
			return
		}
		p := progressmodal.New(v.Window.Canvas(), "Downloading "+gshhg.ArchiveURL)
		p.Show()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
			defer cancel()
			err := gshhg.Fetch(ctx, dir)
			p.Hide()
			if err != nil {
				v.Error(fmt.Errorf("download failed: %w", err))
				return
			}
			v.mu.Lock()
			v.state.dataDir = dir
			v.mu.Unlock()
			v.app.Preferences().SetString(prefsDataDir, dir)
			if err := v.reloadCoastSource(); err != nil {
				v.Error(err)
				return
			}
			v.SetStatus("Shorelines downloaded to " + dir)
		}()
	}, v.Window)
}

func (v *ViewerWindow) exportPNG() {
	widgets.SaveFile(func(filename string) {
		if !strings.HasSuffix(strings.ToLower(filename), ".png") {
			filename += ".png"
		}
		f, err := os.Create(filename)
		if err != nil {
			v.Error(err)
			return
		}
		defer f.Close()

		v.mu.Lock()
		plot, scene := v.plot, v.scene
		v.mu.Unlock()
		plot.Flush()
		if err := scene.WritePNG(f, exportWidth, exportHeight); err != nil {
			v.Error(err)
			return
		}
		v.SetStatus("Exported " + filename)
	}, "PNG image", "png")
}
