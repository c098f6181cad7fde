package widgets

import (
	"log"

	"fyne.io/fyne/v2"
	sdialog "github.com/sqweek/dialog"
)

// SelectFolder opens the native directory picker and hands the chosen
// path to cb. The picker blocks its own goroutine, never the caller.
func SelectFolder(cb func(dir string)) {
	go func() {
		dir, err := sdialog.Directory().Title("Select data folder").Browse()
		if err != nil {
			if err.Error() == "Cancelled" {
				return
			}
			log.Println(err)
			return
		}
		cb(dir)
	}()
}

// SelectFile opens the native file picker filtered to the given
// extensions and hands the chosen filename to cb.
func SelectFile(cb func(filename string), desc string, exts ...string) {
	go func() {
		filename, err := sdialog.File().Filter(desc, exts...).Load()
		if err != nil {
			if err.Error() == "Cancelled" {
				return
			}
			fyne.LogError("Error selecting file", err)
			return
		}
		cb(filename)
	}()
}

// SaveFile opens the native save dialog filtered to ext and hands the
// chosen filename to cb.
func SaveFile(cb func(filename string), desc string, ext string) {
	go func() {
		filename, err := sdialog.File().Filter(desc, ext).Save()
		if err != nil {
			if err.Error() == "Cancelled" {
				return
			}
			fyne.LogError("Error selecting file", err)
			return
		}
		cb(filename)
	}()
}
