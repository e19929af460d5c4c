package geo

import (
	"fmt"
	"math"
	"math/rand"
)

// Position is a latitude/longitude pair in plain degrees.
// No normalisation or antimeridian wrapping is applied anywhere in this package.
type Position struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Offset returns p shifted by the given latitude and longitude deltas.
func (p Position) Offset(dLat, dLon float64) Position {
	return Position{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
}

// DistanceTo returns the planar (degree space) distance between two positions.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.Lat-other.Lat, p.Lon-other.Lon)
}

// Polar returns the position at the given angle (radians) and distance from p.
// Longitude follows the cosine and latitude the sine of the angle.
func (p Position) Polar(angle, distance float64) Position {
	return p.Offset(distance*math.Sin(angle), distance*math.Cos(angle))
}

// Zone is a named latitude/longitude bounding box.
type Zone struct {
	Name   string  `yaml:"name" json:"name"`
	LatMin float64 `yaml:"lat_min" json:"lat_min"`
	LatMax float64 `yaml:"lat_max" json:"lat_max"`
	LonMin float64 `yaml:"lon_min" json:"lon_min"`
	LonMax float64 `yaml:"lon_max" json:"lon_max"`
}

// Sample draws a position uniformly inside the zone. Latitude is drawn first.
func (z Zone) Sample(r *rand.Rand) Position {
	lat := Uniform(r, z.LatMin, z.LatMax)
	lon := Uniform(r, z.LonMin, z.LonMax)
	return Position{Lat: lat, Lon: lon}
}

// Contains reports whether p lies inside the zone bounds (inclusive).
func (z Zone) Contains(p Position) bool {
	return p.Lat >= z.LatMin && p.Lat <= z.LatMax && p.Lon >= z.LonMin && p.Lon <= z.LonMax
}

// Validate checks that the bounds are well ordered and inside the usual degree ranges.
func (z Zone) Validate() error {
	if z.Name == "" {
		return fmt.Errorf("zone name is required")
	}
	if z.LatMin >= z.LatMax {
		return fmt.Errorf("zone %s: lat_min must be less than lat_max", z.Name)
	}
	if z.LonMin >= z.LonMax {
		return fmt.Errorf("zone %s: lon_min must be less than lon_max", z.Name)
	}
	if z.LatMin < -90 || z.LatMax > 90 {
		return fmt.Errorf("zone %s: latitude bounds must be within [-90, 90]", z.Name)
	}
	if z.LonMin < -180 || z.LonMax > 180 {
		return fmt.Errorf("zone %s: longitude bounds must be within [-180, 180]", z.Name)
	}
	return nil
}

// Catalog is an ordered list of zones. The order matters: seeded draws index into it.
type Catalog []Zone

// Pick draws one zone uniformly from the catalog.
func (c Catalog) Pick(r *rand.Rand) (Zone, error) {
	if len(c) == 0 {
		return Zone{}, fmt.Errorf("zone catalog is empty")
	}
	return c[r.Intn(len(c))], nil
}

// Lookup returns the zone with the given name.
func (c Catalog) Lookup(name string) (Zone, bool) {
	for _, z := range c {
		if z.Name == name {
			return z, true
		}
	}
	return Zone{}, false
}

// Names returns the zone names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, z := range c {
		names[i] = z.Name
	}
	return names
}

// Uniform draws from [low, high). Reversed bounds are allowed and draw from (high, low].
func Uniform(r *rand.Rand, low, high float64) float64 {
	return low + (high-low)*r.Float64()
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
