package gapline

import (
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// minSites leaves at least one interior site to cut out.
const minSites = 3

// Config holds the configuration for the gap-line shape
type Config struct {
	NumSAMs int
}

// ValidateAndParse validates and parses the raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	n, ok, err := scenario.IntParam(params, "num_sams")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("num_sams is required")
	}
	if n < minSites {
		return nil, fmt.Errorf("%w: gap-line needs at least %d sites so an interior one can be removed, got %d",
			scenario.ErrInvalidSiteCount, minSites, n)
	}

	return &Config{NumSAMs: n}, nil
}
