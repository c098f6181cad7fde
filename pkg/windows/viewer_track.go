package windows

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/tectonix/geoplot/pkg/colors"
	"github.com/tectonix/geoplot/pkg/debug"
	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/track"
)

func (v *ViewerWindow) trackBoundLocked() (orb.Bound, bool) {
	if len(v.state.tracks) == 0 {
		return orb.Bound{}, false
	}
	b := v.state.tracks[0].Bound()
	for _, t := range v.state.tracks[1:] {
		b = b.Union(t.Bound())
	}
	return b, true
}

// fitBoundLocked projects a sample grid over the geodetic bound and
// frames the result. Corner projection alone undershoots on oblique
// projections.
func (v *ViewerWindow) fitBoundLocked(b orb.Bound) {
	const samples = 8
	var r geoplot.Rect
	first := true
	for i := 0; i <= samples; i++ {
		lon := b.Min[0] + (b.Max[0]-b.Min[0])*float64(i)/samples
		for j := 0; j <= samples; j++ {
			lat := b.Min[1] + (b.Max[1]-b.Min[1])*float64(j)/samples
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
	if first {
		v.fitWorldLocked()
		return
	}
	r = r.Pad(0.08)
	if !r.Valid() {
		v.fitWorldLocked()
		return
	}
	v.plot.SetXLim(r.X0, r.X1)
	v.plot.SetYLim(r.Y0, r.Y1)
}

func (v *ViewerWindow) loadTrack(path string) error {
	tracks, err := track.Load(path)
	if err != nil {
		return err
	}
	total := 0
	for _, t := range tracks {
		total += len(t.Fixes)
	}
	if total == 0 {
		return fmt.Errorf("no fixes in %s", filepath.Base(path))
	}

	v.stopPlayback()

	v.mu.Lock()
	v.state.tracks = tracks
	v.state.played = nil
	v.state.trackOn = true
	v.replotLocked()
	if b, ok := v.trackBoundLocked(); ok {
		v.fitBoundLocked(b)
	}
	v.mu.Unlock()

	if item := v.legend.Item(layerTrack); item != nil {
		item.Enable()
		item.SetSuffix(fmt.Sprintf("%d fixes", total))
	}
	v.pv.Refresh()
	v.app.Preferences().SetString(prefsTrackFile, path)
	v.SetStatus(fmt.Sprintf("Loaded %d fixes from %s", total, filepath.Base(path)))
	return nil
}

func (v *ViewerWindow) clearTrack() {
	v.stopPlayback()

	v.mu.Lock()
	v.state.tracks = nil
	v.state.played = nil
	v.state.trackOn = false
	v.replotLocked()
	v.fitWorldLocked()
	v.mu.Unlock()

	if item := v.legend.Item(layerTrack); item != nil {
		item.SetSuffix("")
		item.Disable()
	}
	v.pv.Refresh()
	v.app.Preferences().SetString(prefsTrackFile, "")
	v.SetStatus("Track cleared")
}

func formatFix(lat, lon float64) string {
	ns := "N"
	if lat < 0 {
		ns, lat = "S", -lat
	}
	ew := "E"
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.2f%s %.2f%s", lat, ns, lon, ew)
}

// startFollower turns replay traffic into plot updates. A single
// subscription sees fix components and their commit in publish order;
// the progress topic is always published last per fix.
func (v *ViewerWindow) startFollower() {
	var lon, lat float64
	var haveLon, haveLat bool
	v.unsubFollower = v.bus.SubscribeAllFunc(func(topic string, value float64) {
		switch topic {
		case track.TopicLon:
			lon, haveLon = value, true
		case track.TopicLat:
			lat, haveLat = value, true
		case track.TopicProgress:
			if !haveLon || !haveLat {
				return
			}
			fix := track.Fix{Lon: lon, Lat: lat}
			v.mu.Lock()
			v.state.played = append(v.state.played, fix)
			plot := v.plot
			v.mu.Unlock()
			plot.Scatter([]float64{fix.Lon}, []float64{fix.Lat},
				&geoplot.MarkerStyle{Color: colors.GetColor("yellow"), Size: 4})
			if item := v.legend.Item(layerTrack); item != nil {
				item.SetSuffix(formatFix(fix.Lat, fix.Lon))
			}
			v.SetStatus(fmt.Sprintf("Replay %3.0f%%", value*100))
		}
	})
}

func (v *ViewerWindow) playTrack() {
	v.mu.Lock()
	if v.playCancel != nil {
		v.mu.Unlock()
		return
	}
	if len(v.state.tracks) == 0 {
		v.mu.Unlock()
		v.Error(errors.New("no track loaded"))
		return
	}
	tracks := v.state.tracks
	interval := v.cfg.Track.Interval
	v.state.played = nil
	v.state.trackOn = true
	v.replotLocked()
	ctx, cancel := context.WithCancel(context.Background())
	v.playCancel = cancel
	v.mu.Unlock()
	v.pv.Refresh()

	go func() {
		defer func() {
			v.mu.Lock()
			v.playCancel = nil
			v.mu.Unlock()
		}()
		for _, trk := range tracks {
			p, err := track.NewPlayer(v.bus, trk, interval)
			if err != nil {
				debug.Log("replay: " + err.Error())
				continue
			}
			if err := p.Play(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					v.SetStatus("Replay stopped")
					return
				}
				debug.Log("replay: " + err.Error())
				return
			}
		}
		v.SetStatus("Replay finished")
	}()
	v.SetStatus("Replaying track")
}

func (v *ViewerWindow) stopPlayback() {
	v.mu.Lock()
	cancel := v.playCancel
	v.playCancel = nil
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
