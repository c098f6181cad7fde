package geocache_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tectonix/geoplot/pkg/geocache"
	"github.com/tectonix/geoplot/pkg/gshhg"
	"github.com/tectonix/geoplot/pkg/projection"
)

const testVersion = 15

// writeShoreFile lays down a crude-resolution shoreline file with one
// land triangle and one lake triangle.
func writeShoreFile(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	writeRecord(&buf, 0, int32(gshhg.Land)|testVersion<<8, 1000, [][2]int32{
		{10_000_000, 10_000_000},
		{20_000_000, 10_000_000},
		{15_000_000, 20_000_000},
	})
	writeRecord(&buf, 1, int32(gshhg.Lake)|testVersion<<8, 50, [][2]int32{
		{12_000_000, 12_000_000},
		{13_000_000, 12_000_000},
		{12_500_000, 13_000_000},
	})
	path := filepath.Join(dir, gshhg.Crude.Filename())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing shoreline file: %v", err)
	}
	return path
}

func writeRecord(buf *bytes.Buffer, id, flag, area int32, pts [][2]int32) {
	west, east := pts[0][0], pts[0][0]
	south, north := pts[0][1], pts[0][1]
	for _, p := range pts {
		west = min(west, p[0])
		east = max(east, p[0])
		south = min(south, p[1])
		north = max(north, p[1])
	}
	for _, v := range []int32{id, int32(len(pts)), flag, west, east, south, north, area, area, -1, -1} {
		binary.Write(buf, binary.BigEndian, v)
	}
	for _, p := range pts {
		binary.Write(buf, binary.BigEndian, p[0])
		binary.Write(buf, binary.BigEndian, p[1])
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := geocache.New("", gshhg.Crude); err == nil {
		t.Error("New() with empty data dir succeeded unexpectedly")
	}
	if _, err := geocache.New(t.TempDir(), gshhg.Crude, geocache.WithTTL(0)); err == nil {
		t.Error("New() with zero ttl succeeded unexpectedly")
	}
}

func TestCoastProjectsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeShoreFile(t, dir)
	src, err := geocache.New(dir, gshhg.Crude)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	land, err := src.Coast(projection.NewPlateCarree(0), int(gshhg.Land))
	if err != nil {
		t.Fatalf("Coast() failed: %v", err)
	}
	if len(land) != 1 {
		t.Fatalf("level filter kept %d polygons, want 1", len(land))
	}
	if land[0].Level != int(gshhg.Land) || land[0].Area != 100 {
		t.Errorf("polygon = level %d area %g, want level 1 area 100", land[0].Level, land[0].Area)
	}
	// The decoder closes the ring, so the triangle carries four vertices,
	// and plate carree keeps degree coordinates.
	if len(land[0].XY) != 4 {
		t.Fatalf("ring has %d vertices, want 4", len(land[0].XY))
	}
	if math.Abs(land[0].XY[0][0]-10) > 1e-9 || math.Abs(land[0].XY[0][1]-10) > 1e-9 {
		t.Errorf("projected vertex = %v, want (10, 10)", land[0].XY[0])
	}

	all, err := src.Coast(projection.NewPlateCarree(0), 0)
	if err != nil {
		t.Fatalf("Coast() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("maxLevel 0 kept %d polygons, want all 2", len(all))
	}
}

func TestCoastServesFromMemory(t *testing.T) {
	dir := t.TempDir()
	path := writeShoreFile(t, dir)
	src, err := geocache.New(dir, gshhg.Crude)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	proj := projection.NewMercator(0)

	first, err := src.Coast(proj, 0)
	if err != nil {
		t.Fatalf("Coast() failed: %v", err)
	}
	// With the raw file gone only the memory layer can answer.
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing shoreline file: %v", err)
	}
	second, err := src.Coast(proj, 0)
	if err != nil {
		t.Fatalf("Coast() after removal failed: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("cached set has %d polygons, want %d", len(second), len(first))
	}
}

func TestDiskCacheSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()
	cacheDir := t.TempDir()
	path := writeShoreFile(t, dataDir)

	src, err := geocache.New(dataDir, gshhg.Crude, geocache.WithCacheDir(cacheDir))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := src.Coast(projection.NewPlateCarree(0), 0); err != nil {
		t.Fatalf("Coast() failed: %v", err)
	}
	entries, err := filepath.Glob(filepath.Join(cacheDir, "coast-*.gob"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("cache dir holds %d entries (%v), want 1", len(entries), err)
	}

	// A fresh source with the raw file gone must answer from disk.
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing shoreline file: %v", err)
	}
	restarted, err := geocache.New(dataDir, gshhg.Crude, geocache.WithCacheDir(cacheDir))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	polys, err := restarted.Coast(projection.NewPlateCarree(0), 0)
	if err != nil {
		t.Fatalf("Coast() from disk failed: %v", err)
	}
	if len(polys) != 2 {
		t.Errorf("disk layer served %d polygons, want 2", len(polys))
	}
}

func TestCoastMissingFile(t *testing.T) {
	src, err := geocache.New(t.TempDir(), gshhg.Crude)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := src.Coast(projection.NewPlateCarree(0), 0); err == nil {
		t.Fatal("Coast() without a shoreline file succeeded unexpectedly")
	}
}

func TestWarm(t *testing.T) {
	dir := t.TempDir()
	writeShoreFile(t, dir)
	src, err := geocache.New(dir, gshhg.Crude, geocache.WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	proj := projection.NewPlateCarree(0)
	if err := src.Warm(context.Background(), proj, 1, 2); err != nil {
		t.Fatalf("Warm() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := src.Warm(ctx, proj, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Warm() on a canceled context = %v, want context.Canceled", err)
	}
}
