package track_test

import (
	"context"
	"testing"
	"time"

	"github.com/tectonix/geoplot/pkg/ebus"
	"github.com/tectonix/geoplot/pkg/track"
)

const ferryLine = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"properties": {"name": "ferry"},
		"geometry": {
			"type": "LineString",
			"coordinates": [[11.9, 57.7], [12.0, 57.8], [12.1, 57.9]]
		}
	}]
}`

func TestParseLineString(t *testing.T) {
	tracks, err := track.Parse([]byte(ferryLine))
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	trk := tracks[0]
	if trk.Name != "ferry" {
		t.Errorf("name = %q, want ferry", trk.Name)
	}
	if len(trk.Fixes) != 3 {
		t.Fatalf("got %d fixes, want 3", len(trk.Fixes))
	}
	if trk.Fixes[0] != (track.Fix{Lon: 11.9, Lat: 57.7}) {
		t.Errorf("first fix = %+v", trk.Fixes[0])
	}
	b := trk.Bound()
	if b.Min[0] != 11.9 || b.Max[0] != 12.1 || b.Min[1] != 57.7 || b.Max[1] != 57.9 {
		t.Errorf("bound = %+v", b)
	}
}

func TestParsePoolsLoosePoints(t *testing.T) {
	data := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 2]}},
			{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [3, 4]}}
		]
	}`
	tracks, err := track.Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 || tracks[0].Name != "waypoints" || len(tracks[0].Fixes) != 2 {
		t.Fatalf("got %+v, want one waypoints track with two fixes", tracks)
	}
}

func TestParseMultiLineString(t *testing.T) {
	data := `{
		"type": "Feature",
		"properties": {"name": "legs"},
		"geometry": {
			"type": "MultiLineString",
			"coordinates": [[[0, 0], [1, 1]], [[2, 2], [3, 3]]]
		}
	}`
	tracks, err := track.Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].Name != "legs part 1" || tracks[1].Name != "legs part 2" {
		t.Errorf("names = %q, %q", tracks[0].Name, tracks[1].Name)
	}
}

func TestParseRejectsNonTrackInput(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		data string
	}{
		{
			name: "not json",
			data: "GIF89a",
		},
		{
			name: "wrong type",
			data: `{"type": "Topology"}`,
		},
		{
			name: "no usable geometry",
			data: `{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := track.Parse([]byte(tt.data)); err == nil {
				t.Error("Parse() succeeded unexpectedly")
			}
		})
	}
}

func TestPlayerPublishesCommitsInOrder(t *testing.T) {
	bus, err := ebus.New()
	if err != nil {
		t.Fatal(err)
	}
	defer bus.Close()

	tracks, err := track.Parse([]byte(ferryLine))
	if err != nil {
		t.Fatal(err)
	}
	progress := bus.Subscribe(track.TopicProgress)
	lats := bus.Subscribe(track.TopicLat)

	p, err := track.NewPlayer(bus, tracks[0], time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Play(context.Background()); err != nil {
		t.Fatal(err)
	}

	wantLats := []float64{57.7, 57.8, 57.9}
	for i, want := range wantLats {
		if got := <-lats; got != want {
			t.Errorf("lat %d = %v, want %v", i, got, want)
		}
		if got := <-progress; got != float64(i+1)/3 {
			t.Errorf("progress %d = %v, want %v", i, got, float64(i+1)/3)
		}
	}
}

func TestPlayerValidation(t *testing.T) {
	bus, err := ebus.New()
	if err != nil {
		t.Fatal(err)
	}
	defer bus.Close()
	if _, err := track.NewPlayer(nil, track.Track{Fixes: []track.Fix{{}}}, time.Second); err == nil {
		t.Error("nil bus accepted")
	}
	if _, err := track.NewPlayer(bus, track.Track{}, time.Second); err == nil {
		t.Error("empty track accepted")
	}
}

func TestPlayerStopsOnCanceledContext(t *testing.T) {
	bus, err := ebus.New()
	if err != nil {
		t.Fatal(err)
	}
	defer bus.Close()
	tracks, err := track.Parse([]byte(ferryLine))
	if err != nil {
		t.Fatal(err)
	}
	p, err := track.NewPlayer(bus, tracks[0], time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Play(ctx); err != context.Canceled {
		t.Errorf("Play = %v, want context.Canceled", err)
	}
}
