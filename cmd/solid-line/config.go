package solidline

import (
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// minSites is the shortest chain that still has a heading.
const minSites = 2

// Config holds the configuration for the solid-line shape
type Config struct {
	NumSAMs int
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
		return nil, fmt.Errorf("%w: solid-line needs at least %d sites, got %d", scenario.ErrInvalidSiteCount, minSites, n)
	}
	config.NumSAMs = n

	return config, nil
}
