package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var locationPattern = regexp.MustCompile(`\(\s*([^,()\s]+)\s*,\s*([^,()\s]+)\s*\)`)

// FormatFloat renders a coordinate in the shortest decimal form that parses back
// to the same float64. Exponent notation is never used.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String renders the position as "(lat, lon)".
func (p Position) String() string {
	return "(" + FormatFloat(p.Lat) + ", " + FormatFloat(p.Lon) + ")"
}

// FormatLocations renders positions as "(lat, lon), (lat, lon), ...".
func FormatLocations(points []Position) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// ParseLocations parses the output of FormatLocations (or a single String) back
// into positions.
func ParseLocations(s string) ([]Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	matches := locationPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no locations found in %q", s)
	}

	points := make([]Position, 0, len(matches))
	for _, m := range matches {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", m[1], err)
		}
		lon, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", m[2], err)
		}
		points = append(points, Position{Lat: lat, Lon: lon})
	}

	return points, nil
}

// ParseLocation parses a single "(lat, lon)" string.
func ParseLocation(s string) (Position, error) {
	points, err := ParseLocations(s)
	if err != nil {
		return Position{}, err
	}
	if len(points) != 1 {
		return Position{}, fmt.Errorf("expected one location in %q, got %d", s, len(points))
	}
	return points[0], nil
}
