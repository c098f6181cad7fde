package gshhg

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb"
)

// Resolution selects one of the five published shoreline data sets,
// coarsest to finest.
type Resolution byte

const (
	Crude        Resolution = 'c'
	Low          Resolution = 'l'
	Intermediate Resolution = 'i'
	High         Resolution = 'h'
	Full         Resolution = 'f'
)

// ParseResolution accepts both the single-letter file code and the long name.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "crude":
		return Crude, nil
	case "l", "low":
		return Low, nil
	case "i", "intermediate":
		return Intermediate, nil
	case "h", "high":
		return High, nil
	case "f", "full":
		return Full, nil
	}
	return 0, fmt.Errorf("unknown shoreline resolution %q", s)
}

// Filename returns the name the resolution is published under.
func (r Resolution) Filename() string {
	return fmt.Sprintf("gshhs_%c.b", byte(r))
}

func (r Resolution) String() string {
	switch r {
	case Crude:
		return "crude"
	case Low:
		return "low"
	case Intermediate:
		return "intermediate"
	case High:
		return "high"
	case Full:
		return "full"
	}
	return fmt.Sprintf("Resolution(%q)", byte(r))
}

// Level classifies what side of a polygon is wet.
type Level int32

const (
	Land          Level = 1 // land bounded by ocean
	Lake          Level = 2 // lake on land
	IslandInLake  Level = 3
	PondInIsland  Level = 4
	IceFront      Level = 5 // Antarctica ice shelf edge
	GroundingLine Level = 6 // Antarctica land under the ice
)

func (l Level) String() string {
	switch l {
	case Land:
		return "land"
	case Lake:
		return "lake"
	case IslandInLake:
		return "island-in-lake"
	case PondInIsland:
		return "pond-in-island"
	case IceFront:
		return "ice-front"
	case GroundingLine:
		return "grounding-line"
	}
	return fmt.Sprintf("Level(%d)", int32(l))
}

// header mirrors the on-disk big-endian polygon header. Extents and points
// are stored in micro-degrees, areas in 1/10 km².
type header struct {
	ID        int32
	N         int32
	Flag      int32
	West      int32
	East      int32
	South     int32
	North     int32
	Area      int32
	AreaFull  int32
	Container int32
	Ancestor  int32
}

const microDeg = 1e-6

// Format versions older than 7 (release 2.0) lack the area_full, container
// and ancestor header fields and cannot be read with this layout.
const minFormatVersion = 7

// Largest polygon in the published full-resolution set is ~1.5M points.
const maxPointCount = 3_000_000

// Polygon is one closed shoreline ring plus its header metadata.
// Coordinates are lon/lat degrees exactly as stored: continuous rings with
// longitudes in [0, 360) unless Greenwich is set, in which case western
// points carry negative longitudes.
type Polygon struct {
	ID        int
	Level     Level
	Greenwich bool    // ring crosses the Greenwich meridian
	Dateline  bool    // ring crosses the dateline
	River     bool    // broad river stored at lake level
	FromWVS   bool    // digitized from WVS rather than WDBII
	Area      float64 // km²
	AreaFull  float64 // km², of the full-resolution ancestor
	Bound     orb.Bound
	Ring      orb.Ring
	Container int // enclosing polygon id, -1 if none
	Ancestor  int // full-resolution source id, -1 if none
}

// Decoder reads polygons from a GSHHG binary shoreline file.
type Decoder struct {
	r       io.Reader
	buf     []byte
	version int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Version reports the data format version, known after the first Next call.
func (d *Decoder) Version() int {
	return d.version
}

// Next returns the next polygon, or io.EOF after the last one.
func (d *Decoder) Next() (*Polygon, error) {
	var h header
	if err := binary.Read(d.r, binary.BigEndian, &h); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("polygon header: %w", err)
	}
	version := int(h.Flag >> 8 & 0xff)
	if d.version == 0 {
		if version < minFormatVersion {
			return nil, fmt.Errorf("unsupported shoreline format version %d, need %d or newer", version, minFormatVersion)
		}
		d.version = version
	}
	if h.N <= 0 || h.N > maxPointCount {
		return nil, fmt.Errorf("polygon %d: implausible point count %d", h.ID, h.N)
	}

	need := int(h.N) * 8
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, fmt.Errorf("polygon %d: points: %w", h.ID, err)
	}
	ring := make(orb.Ring, 0, h.N+1)
	for i := 0; i < int(h.N); i++ {
		x := int32(binary.BigEndian.Uint32(buf[i*8:]))
		y := int32(binary.BigEndian.Uint32(buf[i*8+4:]))
		ring = append(ring, orb.Point{float64(x) * microDeg, float64(y) * microDeg})
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	return &Polygon{
		ID:        int(h.ID),
		Level:     Level(h.Flag & 0xff),
		Greenwich: h.Flag>>16&1 == 1,
		Dateline:  h.Flag>>17&1 == 1,
		FromWVS:   h.Flag>>24&1 == 1,
		River:     h.Flag>>25&1 == 1,
		Area:      float64(h.Area) / 10.0,
		AreaFull:  float64(h.AreaFull) / 10.0,
		Bound: orb.Bound{
			Min: orb.Point{float64(h.West) * microDeg, float64(h.South) * microDeg},
			Max: orb.Point{float64(h.East) * microDeg, float64(h.North) * microDeg},
		},
		Ring:      ring,
		Container: int(h.Container),
		Ancestor:  int(h.Ancestor),
	}, nil
}

// ReadFile loads every polygon from path with Level at most maxLevel.
// maxLevel 0 keeps everything.
func ReadFile(path string, maxLevel Level) ([]*Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := NewDecoder(bufio.NewReaderSize(f, 1<<20))
	var polys []*Polygon
	for {
		p, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return polys, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if maxLevel > 0 && p.Level > maxLevel {
			continue
		}
		polys = append(polys, p)
	}
}
