// Package geocache reads GSHHG shorelines, projects them and caches the
// result, since reprojecting a full-resolution shoreline set costs seconds
// while a plot may ask for the same coastline on every redraw.
package geocache

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tectonix/geoplot/pkg/geoplot"
	"github.com/tectonix/geoplot/pkg/gshhg"
	"github.com/tectonix/geoplot/pkg/projection"
)

var _ geoplot.CoastSource = (*Source)(nil)

const defaultTTL = 30 * time.Minute

// Source serves projected shoreline polygons out of a two-layer cache:
// projected sets live in memory with a TTL, and optionally as gob files
// on disk so the next run skips the raw decode entirely.
type Source struct {
	dataDir string
	res     gshhg.Resolution
	dir     string // disk cache directory, empty disables the layer
	mem     *ttlcache.Cache[string, []geoplot.CoastPolygon]
	flight  singleflight.Group
}

// Option configures a Source during New.
type Option func(*Source) error

// WithTTL bounds how long a projected set stays in memory.
func WithTTL(d time.Duration) Option {
	return func(s *Source) error {
		if d <= 0 {
			return fmt.Errorf("ttl must be positive, got %v", d)
		}
		s.mem = ttlcache.New[string, []geoplot.CoastPolygon](
			ttlcache.WithTTL[string, []geoplot.CoastPolygon](d),
		)
		return nil
	}
}

// WithCacheDir enables the disk layer under dir.
func WithCacheDir(dir string) Option {
	return func(s *Source) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache dir: %w", err)
		}
		s.dir = dir
		return nil
	}
}

// New builds a source reading gshhs_<res>.b from dataDir.
func New(dataDir string, res gshhg.Resolution, options ...Option) (*Source, error) {
	if dataDir == "" {
		return nil, errors.New("geocache: empty data dir")
	}
	s := &Source{
		dataDir: dataDir,
		res:     res,
		mem: ttlcache.New[string, []geoplot.CoastPolygon](
			ttlcache.WithTTL[string, []geoplot.CoastPolygon](defaultTTL),
		),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Coast returns the shorelines up to maxLevel projected through proj.
// maxLevel 0 keeps every level. Concurrent calls for the same key share
// one build.
func (s *Source) Coast(proj projection.Projection, maxLevel int) ([]geoplot.CoastPolygon, error) {
	key := fmt.Sprintf("%s|%d|%s", s.path(), maxLevel, proj.Identifier())
	if it := s.mem.Get(key); it != nil {
		return it.Value(), nil
	}
	v, err, _ := s.flight.Do(key, func() (any, error) {
		if polys, ok := s.loadDisk(key); ok {
			s.mem.Set(key, polys, ttlcache.DefaultTTL)
			return polys, nil
		}
		polys, err := s.build(proj, maxLevel)
		if err != nil {
			return nil, err
		}
		s.mem.Set(key, polys, ttlcache.DefaultTTL)
		s.storeDisk(key, polys)
		return polys, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]geoplot.CoastPolygon), nil
}

// Warm pre-builds the cache for the given levels so the first draw does
// not stall on a decode.
func (s *Source) Warm(ctx context.Context, proj projection.Projection, levels ...int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, level := range levels {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			_, err := s.Coast(proj, level)
			return err
		})
	}
	return g.Wait()
}

func (s *Source) path() string {
	return filepath.Join(s.dataDir, s.res.Filename())
}

func (s *Source) build(proj projection.Projection, maxLevel int) ([]geoplot.CoastPolygon, error) {
	polys, err := gshhg.ReadFile(s.path(), gshhg.Level(maxLevel))
	if err != nil {
		return nil, err
	}
	out := make([]geoplot.CoastPolygon, 0, len(polys))
	for _, poly := range polys {
		xy := make([][2]float64, len(poly.Ring))
		for i, pt := range poly.Ring {
			x, y := proj.Project(pt[0], pt[1])
			xy[i] = [2]float64{x, y}
		}
		out = append(out, geoplot.CoastPolygon{
			Level: int(poly.Level),
			XY:    xy,
			Area:  poly.Area,
		})
	}
	return out, nil
}

// diskEntry carries the cache key alongside the payload so a filename
// hash collision reads as a miss, not as the wrong shoreline.
type diskEntry struct {
	Key   string
	Polys []geoplot.CoastPolygon
}

func (s *Source) cacheFile(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return filepath.Join(s.dir, fmt.Sprintf("coast-%016x.gob", h.Sum64()))
}

func (s *Source) loadDisk(key string) ([]geoplot.CoastPolygon, bool) {
	if s.dir == "" {
		return nil, false
	}
	f, err := os.Open(s.cacheFile(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()
	var entry diskEntry
	if err := gob.NewDecoder(f).Decode(&entry); err != nil || entry.Key != key {
		return nil, false
	}
	return entry.Polys, true
}

func (s *Source) storeDisk(key string, polys []geoplot.CoastPolygon) {
	if s.dir == "" {
		return
	}
	path := s.cacheFile(key)
	tmp, err := os.CreateTemp(s.dir, "coast-*.tmp")
	if err != nil {
		log.Printf("geocache: %v", err)
		return
	}
	if err := gob.NewEncoder(tmp).Encode(diskEntry{Key: key, Polys: polys}); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		log.Printf("geocache: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		log.Printf("geocache: %v", err)
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		log.Printf("geocache: %v", err)
	}
}
