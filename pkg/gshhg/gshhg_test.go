package gshhg_test

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tectonix/geoplot/pkg/gshhg"
)

const testVersion = 15

// writeRecord appends one on-disk polygon record: eleven big-endian int32
// header fields followed by x/y pairs in micro-degrees.
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

func TestDecoderReadsPolygons(t *testing.T) {
	var buf bytes.Buffer
	land := int32(gshhg.Land) | testVersion<<8 | 1<<16 | 1<<24
	lake := int32(gshhg.Lake) | testVersion<<8 | 1<<25
	writeRecord(&buf, 0, land, 1234, [][2]int32{
		{358_000_000, 10_000_000},
		{-2_000_000, 12_000_000},
		{4_000_000, 11_000_000},
	})
	writeRecord(&buf, 1, lake, 50, [][2]int32{
		{15_000_000, 62_000_000},
		{15_500_000, 62_000_000},
		{15_250_000, 62_400_000},
		{15_000_000, 62_000_000},
	})

	dec := gshhg.NewDecoder(&buf)

	p, err := dec.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if dec.Version() != testVersion {
		t.Errorf("Version() = %d, want %d", dec.Version(), testVersion)
	}
	if p.ID != 0 || p.Level != gshhg.Land {
		t.Errorf("got id %d level %v, want 0 land", p.ID, p.Level)
	}
	if !p.Greenwich || !p.FromWVS || p.Dateline || p.River {
		t.Errorf("flag decode: greenwich %v wvs %v dateline %v river %v", p.Greenwich, p.FromWVS, p.Dateline, p.River)
	}
	if p.Area != 123.4 {
		t.Errorf("Area = %v, want 123.4", p.Area)
	}
	// open input ring gets closed by repeating the first point
	if len(p.Ring) != 4 || p.Ring[0] != p.Ring[3] {
		t.Errorf("ring not closed: %v", p.Ring)
	}
	if math.Abs(p.Ring[1][0] - -2.0) > 1e-9 || math.Abs(p.Ring[1][1]-12.0) > 1e-9 {
		t.Errorf("micro-degree conversion got %v, want (-2, 12)", p.Ring[1])
	}
	if math.Abs(p.Bound.Min[0] - -2.0) > 1e-9 || math.Abs(p.Bound.Max[0]-358.0) > 1e-9 {
		t.Errorf("bound = %v, want lon range [-2, 358]", p.Bound)
	}

	p, err = dec.Next()
	if err != nil {
		t.Fatalf("Next() failed on second polygon: %v", err)
	}
	if p.Level != gshhg.Lake || !p.River {
		t.Errorf("got level %v river %v, want lake river", p.Level, p.River)
	}
	// already closed ring stays as is
	if len(p.Ring) != 4 {
		t.Errorf("closed ring got %d points, want 4", len(p.Ring))
	}
	if p.Container != -1 || p.Ancestor != -1 {
		t.Errorf("container %d ancestor %d, want -1 -1", p.Container, p.Ancestor)
	}

	if _, err := dec.Next(); err == nil {
		t.Fatal("Next() succeeded past the last polygon")
	}
}

func TestDecoderRejectsOldFormat(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(&buf, 0, int32(gshhg.Land)|3<<8, 10, [][2]int32{{0, 0}, {1_000_000, 0}, {0, 1_000_000}})
	if _, err := gshhg.NewDecoder(&buf).Next(); err == nil {
		t.Fatal("Next() succeeded on a format version 3 record")
	}
}

func TestDecoderRejectsBadPointCount(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []int32{0, 0, int32(gshhg.Land) | testVersion<<8, 0, 0, 0, 0, 0, 0, -1, -1} {
		binary.Write(&buf, binary.BigEndian, v)
	}
	if _, err := gshhg.NewDecoder(&buf).Next(); err == nil {
		t.Fatal("Next() succeeded on a zero point count")
	}
}

func TestReadFileFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(&buf, 0, int32(gshhg.Land)|testVersion<<8, 10, [][2]int32{{0, 0}, {1_000_000, 0}, {0, 1_000_000}})
	writeRecord(&buf, 1, int32(gshhg.Lake)|testVersion<<8, 10, [][2]int32{{0, 0}, {1_000_000, 0}, {0, 1_000_000}})
	writeRecord(&buf, 2, int32(gshhg.IslandInLake)|testVersion<<8, 10, [][2]int32{{0, 0}, {1_000_000, 0}, {0, 1_000_000}})

	path := filepath.Join(t.TempDir(), gshhg.Crude.Filename())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	polys, err := gshhg.ReadFile(path, gshhg.Lake)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if len(polys) != 2 {
		t.Fatalf("ReadFile() kept %d polygons, want 2", len(polys))
	}
	for _, p := range polys {
		if p.Level > gshhg.Lake {
			t.Errorf("polygon %d level %v got past the filter", p.ID, p.Level)
		}
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		s       string
		want    gshhg.Resolution
		wantErr bool
	}{
		{name: "short code", s: "c", want: gshhg.Crude},
		{name: "long name", s: "intermediate", want: gshhg.Intermediate},
		{name: "mixed case", s: "Full", want: gshhg.Full},
		{name: "unknown", s: "ultra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := gshhg.ParseResolution(tt.s)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("ParseResolution() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("ParseResolution() succeeded unexpectedly")
			}
			if got != tt.want {
				t.Errorf("ParseResolution(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestUnpack(t *testing.T) {
	var rec bytes.Buffer
	writeRecord(&rec, 0, int32(gshhg.Land)|testVersion<<8, 10, [][2]int32{{0, 0}, {1_000_000, 0}, {0, 1_000_000}})

	dir := t.TempDir()
	archive := filepath.Join(dir, "gshhg-bin.zip")
	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	for _, name := range []string{"gshhs_c.b", "readme.txt", "wdb_borders_c.b"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(rec.Bytes())
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archive, zbuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := gshhg.Unpack(archive, out); err != nil {
		t.Fatalf("Unpack() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "gshhs_c.b")); err != nil {
		t.Errorf("gshhs_c.b not extracted: %v", err)
	}
	for _, skipped := range []string{"readme.txt", "wdb_borders_c.b"} {
		if _, err := os.Stat(filepath.Join(out, skipped)); err == nil {
			t.Errorf("%s extracted, want skipped", skipped)
		}
	}
}
