// Package track loads recorded position tracks and replays them as live
// fixes on the event bus.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Fix is one recorded position in geodetic degrees.
type Fix struct {
	Lon, Lat float64
}

// Track is a named sequence of fixes, oldest first.
type Track struct {
	Name  string
	Fixes []Fix
}

// LineString converts the track to orb geometry.
func (t Track) LineString() orb.LineString {
	ls := make(orb.LineString, len(t.Fixes))
	for i, f := range t.Fixes {
		ls[i] = orb.Point{f.Lon, f.Lat}
	}
	return ls
}

// Bound is the track's geographic extent.
func (t Track) Bound() orb.Bound {
	return t.LineString().Bound()
}

// Load reads tracks from a GeoJSON file.
func Load(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track file: %w", err)
	}
	tracks, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tracks, nil
}

// Parse reads GeoJSON tracks. LineString features become one track each
// and MultiLineString one per part; lone points pool into a single
// waypoint track in file order.
func Parse(data []byte) ([]Track, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("parse geojson: %w", err)
		}
		features = []*geojson.Feature{f}
	default:
		return nil, fmt.Errorf("geojson type %q is not a feature or collection", head.Type)
	}

	var tracks []Track
	var loose Track
	for i, f := range features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			loose.Fixes = append(loose.Fixes, Fix{Lon: g[0], Lat: g[1]})
		case orb.MultiPoint:
			for _, p := range g {
				loose.Fixes = append(loose.Fixes, Fix{Lon: p[0], Lat: p[1]})
			}
		case orb.LineString:
			tracks = append(tracks, Track{Name: featureName(f, i), Fixes: lineFixes(g)})
		case orb.MultiLineString:
			for k, part := range g {
				tracks = append(tracks, Track{
					Name:  fmt.Sprintf("%s part %d", featureName(f, i), k+1),
					Fixes: lineFixes(part),
				})
			}
		}
	}
	if len(loose.Fixes) > 0 {
		loose.Name = "waypoints"
		tracks = append(tracks, loose)
	}
	if len(tracks) == 0 {
		return nil, errors.New("no track geometry in file")
	}
	return tracks, nil
}

func lineFixes(ls orb.LineString) []Fix {
	fixes := make([]Fix, len(ls))
	for i, p := range ls {
		fixes[i] = Fix{Lon: p[0], Lat: p[1]}
	}
	return fixes
}

func featureName(f *geojson.Feature, i int) string {
	if v, ok := f.Properties["name"].(string); ok && v != "" {
		return v
	}
	return fmt.Sprintf("track %d", i+1)
}
