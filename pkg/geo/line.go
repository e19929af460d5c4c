package geo

import (
	"math"
	"math/rand"
)

// Line chaining constants, in degrees.
const (
	ChainStep        = 2.0
	ChainArcMin      = 10
	ChainArcMax      = 60
	FlankNear        = 2.5
	FlankFar         = 4.0
	fullCircleDegree = 360
)

// Chain is a roughly monotonic run of positions built from one origin.
// Heading is the integer bearing (degrees, counter-clockwise from east) that
// fixed the direction of the second position.
type Chain struct {
	Points  []Position
	Heading int
}

// BuildChain grows a chain of n positions from origin.
//
// The second point sits initialStep away at a heading drawn over the full
// circle. Every further point is ChainStep away from the previous one at an
// angle drawn from [ChainArcMin, ChainArcMax) degrees, applied with the sign of
// the initial latitude and longitude offsets.
func BuildChain(r *rand.Rand, origin Position, initialStep float64, n int) Chain {
	points := make([]Position, 0, n)
	points = append(points, origin)

	heading := r.Intn(fullCircleDegree)
	theta := Radians(float64(heading))
	dLat := initialStep * math.Sin(theta)
	dLon := initialStep * math.Cos(theta)
	points = append(points, origin.Offset(dLat, dLon))

	for i := 0; i < n-2; i++ {
		arc := Radians(float64(ChainArcMin + r.Intn(ChainArcMax-ChainArcMin)))
		stepLat := ChainStep * math.Sin(arc)
		stepLon := ChainStep * math.Cos(arc)
		if dLat <= 0 {
			stepLat = -stepLat
		}
		if dLon <= 0 {
			stepLon = -stepLon
		}
		points = append(points, points[len(points)-1].Offset(stepLat, stepLon))
	}

	return Chain{Points: points, Heading: heading}
}

// RemoveAt returns a copy of points without index i.
func RemoveAt(points []Position, i int) []Position {
	out := make([]Position, 0, len(points)-1)
	out = append(out, points[:i]...)
	return append(out, points[i+1:]...)
}

// Span is the latitude/longitude extent of a set of positions. NextMaxLon is
// the second largest longitude counting repeats, or MaxLon for a single point.
type Span struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	NextMaxLon     float64
}

// SpanOf computes the extent of points. It panics on an empty slice.
func SpanOf(points []Position) Span {
	s := Span{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
		NextMaxLon: math.Inf(-1),
	}
	for _, p := range points[1:] {
		s.MinLat = math.Min(s.MinLat, p.Lat)
		s.MaxLat = math.Max(s.MaxLat, p.Lat)
		s.MinLon = math.Min(s.MinLon, p.Lon)
		if p.Lon >= s.MaxLon {
			s.NextMaxLon, s.MaxLon = s.MaxLon, p.Lon
		} else {
			s.NextMaxLon = math.Max(s.NextMaxLon, p.Lon)
		}
	}
	if len(points) == 1 {
		s.NextMaxLon = s.MaxLon
	}
	return s
}

// Ascending reports whether a chain built with this heading rises towards the
// east (its steps run north-east or south-west). It applies the same sign test
// BuildChain uses, so headings on an axis resolve the way the chain grows.
func Ascending(heading int) bool {
	theta := Radians(float64(heading))
	return (math.Sin(theta) > 0) == (math.Cos(theta) > 0)
}

// Window is a closed latitude/longitude rectangle that a placement is drawn from.
type Window struct {
	LatLow, LatHigh float64
	LonLow, LonHigh float64
}

// Sample draws a position from the window. Longitude is drawn first.
func (w Window) Sample(r *rand.Rand) Position {
	lon := Uniform(r, w.LonLow, w.LonHigh)
	lat := Uniform(r, w.LatLow, w.LatHigh)
	return Position{Lat: lat, Lon: lon}
}

// EastFlank is the target window for a defense line: the two easternmost
// longitudes shifted east by FlankNear, and the latitude span shifted south for
// ascending lines and north for descending ones.
func (s Span) EastFlank(heading int) Window {
	w := Window{LonLow: s.NextMaxLon + FlankNear, LonHigh: s.MaxLon + FlankNear}
	if Ascending(heading) {
		w.LatLow, w.LatHigh = s.MinLat-FlankNear, s.MaxLat-FlankNear
	} else {
		w.LatLow, w.LatHigh = s.MinLat+FlankNear, s.MaxLat+FlankNear
	}
	return w
}

// WestFlank is the aircraft window for a defense line: west of the longitude span,
// covering the latitude span widened on both sides.
func (s Span) WestFlank() Window {
	return Window{
		LonLow: s.MinLon - FlankFar, LonHigh: s.MinLon - FlankNear,
		LatLow: s.MinLat - FlankNear, LatHigh: s.MaxLat + FlankNear,
	}
}

// Ring returns n positions equally spaced on a circle of the given radius
// around center, starting at angle zero (due east).
func Ring(center Position, radius float64, n int) []Position {
	points := make([]Position, n)
	for k := 0; k < n; k++ {
		theta := 2 * math.Pi * float64(k) / float64(n)
		points[k] = center.Polar(theta, radius)
	}
	return points
}
