package projection

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Projection maps WGS84 longitude/latitude (degrees) onto a flat x/y plane
// and back. Implementations must be safe for concurrent readers.
type Projection interface {
	// Project converts a lon/lat pair in degrees to projected x/y.
	Project(lon, lat float64) (x, y float64)
	// Inverse converts projected x/y back to lon/lat in degrees.
	Inverse(x, y float64) (lon, lat float64)
	// Identifier returns a stable string unique to the projection and its
	// parameters. Cached geometry is keyed on it, so two projections with
	// the same identifier must produce identical output.
	Identifier() string
}

// AxisSeparable is implemented by projections where x depends only on
// longitude and y only on latitude. Grid-based drawing over geographic
// axes is only possible for these.
type AxisSeparable interface {
	ProjectLon(lon float64) float64
	ProjectLat(lat float64) float64
}

// NormalizeLon wraps a longitude into [-180, 180).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon - 180.0
}

// Names lists the projection names understood by Parse.
func Names() []string {
	return []string{"platecarree", "mercator", "hotine"}
}

// Parse builds a projection from a spec string such as "mercator",
// "platecarree:lon0=15" or "hotine:lon0=15,lat0=58.5,azimuth=32,k0=1".
// Unknown keys are an error so typos surface early.
func Parse(spec string) (Projection, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(spec), ":")
	params := map[string]float64{}
	if args != "" {
		for _, kv := range strings.Split(args, ",") {
			k, v, found := strings.Cut(strings.TrimSpace(kv), "=")
			if !found {
				return nil, fmt.Errorf("projection %q: malformed parameter %q", name, kv)
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("projection %q: parameter %s: %w", name, k, err)
			}
			params[strings.ToLower(strings.TrimSpace(k))] = f
		}
	}

	take := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			delete(params, key)
			return v
		}
		return def
	}

	var proj Projection
	switch strings.ToLower(name) {
	case "platecarree", "plate-carree", "equirectangular":
		proj = NewPlateCarree(take("lon0", 0))
	case "mercator", "webmercator":
		proj = NewMercator(take("lon0", 0))
	case "hotine", "obliquemercator":
		proj = NewHotineObliqueMercator(
			take("lon0", 0), take("lat0", 0),
			take("azimuth", 90), take("k0", 1),
		)
	default:
		return nil, fmt.Errorf("unknown projection %q", name)
	}

	for k := range params {
		return nil, fmt.Errorf("projection %q: unknown parameter %q", name, k)
	}
	return proj, nil
}
