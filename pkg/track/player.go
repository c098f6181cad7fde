package track

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tectonix/geoplot/pkg/ebus"
)

// Topics a replay publishes per fix. Progress strictly increases, so
// followers treat it as the fix commit and pair it with the coordinates
// they saw last.
const (
	TopicLon      = "track.lon"
	TopicLat      = "track.lat"
	TopicProgress = "track.progress"
)

// Player replays one track on the bus at a fixed cadence.
type Player struct {
	bus      *ebus.Bus
	track    Track
	interval time.Duration
}

func NewPlayer(bus *ebus.Bus, trk Track, interval time.Duration) (*Player, error) {
	if bus == nil {
		return nil, errors.New("nil bus")
	}
	if len(trk.Fixes) == 0 {
		return nil, errors.New("track has no fixes")
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Player{bus: bus, track: trk, interval: interval}, nil
}

// Play publishes the fixes in order until the track ends or the context
// is canceled. Coordinates go out before the progress commit, so a
// follower never pairs a new commit with a stale coordinate.
func (p *Player) Play(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	total := len(p.track.Fixes)
	for i, fix := range p.track.Fixes {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		p.bus.Publish(TopicLon, fix.Lon)
		p.bus.Publish(TopicLat, fix.Lat)
		if err := p.bus.Publish(TopicProgress, float64(i+1)/float64(total)); err != nil {
			return fmt.Errorf("fix %d: %w", i, err)
		}
	}
	return nil
}
