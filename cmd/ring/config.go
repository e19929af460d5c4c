package ring

import (
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

const minSites = 2

// Config holds the configuration for the ring shape
type Config struct {
	NumSAMs int
	Radius  float64 // degrees
}

// ValidateAndParse validates and parses the raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	config := &Config{}

	n, ok, err := scenario.IntParam(params, "num_sams")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("num_sams is required")
	}
	if n < minSites {
		return nil, fmt.Errorf("%w: ring needs at least %d positions, got %d", scenario.ErrInvalidSiteCount, minSites, n)
	}
	config.NumSAMs = n

	radius, ok, err := scenario.FloatParam(params, "radius")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("radius is required")
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %g", scenario.ErrInvalidRadius, radius)
	}
	config.Radius = radius

	return config, nil
}
