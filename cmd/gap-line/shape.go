package gapline

import (
	_ "embed"
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

//go:embed shape.yaml
var shapeYAML []byte

// initialStep is the distance from the first site to the second. Later sites
// use geo.ChainStep.
const initialStep = 1.5

// Shape is a line of SAM sites with one interior site missing.
type Shape struct {
	scenario.Descriptor
	config *Config
}

// New creates a gap-line shape
func New() scenario.Generator {
	return &Shape{Descriptor: scenario.Descriptor{Shape: scenario.MustParseShapeConfig(shapeYAML)}}
}

func init() {
	if err := scenario.DefaultRegistry.Register(New); err != nil {
		logger.Errorf("Failed to register shape: %v", err)
	}
}

// Configure sets up the shape with the provided parameters
func (s *Shape) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(s.WithDefaults(params))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = config
	return nil
}

func (s *Shape) Order() scenario.Order { return scenario.SitesFirst }

// PlaceDefenseSites builds the full chain, then removes one site that is
// never the first or the last.
func (s *Shape) PlaceDefenseSites(p *scenario.Placement) error {
	if s.config == nil {
		return fmt.Errorf("shape not configured")
	}
	zone, err := p.PickZone()
	if err != nil {
		return err
	}

	n := s.config.NumSAMs
	chain := geo.BuildChain(p.Rand, zone.Sample(p.Rand), initialStep, n)
	gap := 1 + p.Rand.Intn(n-2)

	p.Sites = geo.RemoveAt(chain.Points, gap)
	p.Heading = chain.Heading
	return nil
}

// PlaceAircraft puts the aircraft west of the remaining sites.
func (s *Shape) PlaceAircraft(p *scenario.Placement) error {
	p.Jet = geo.SpanOf(p.Sites).WestFlank().Sample(p.Rand)
	return nil
}

// PlaceTarget puts the target east of the remaining sites.
func (s *Shape) PlaceTarget(p *scenario.Placement) error {
	p.Target = geo.SpanOf(p.Sites).EastFlank(p.Heading).Sample(p.Rand)
	return nil
}
