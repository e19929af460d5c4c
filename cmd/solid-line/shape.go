package solidline

import (
	_ "embed"
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

//go:embed shape.yaml
var shapeYAML []byte

// Shape places an unbroken line of SAM sites between the aircraft and the target.
type Shape struct {
	scenario.Descriptor
	config *Config
}

// New creates a solid-line shape
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

// PlaceDefenseSites starts the chain at a uniform point of a random zone.
func (s *Shape) PlaceDefenseSites(p *scenario.Placement) error {
	if s.config == nil {
		return fmt.Errorf("shape not configured")
	}
	zone, err := p.PickZone()
	if err != nil {
		return err
	}

	chain := geo.BuildChain(p.Rand, zone.Sample(p.Rand), geo.ChainStep, s.config.NumSAMs)
	p.Sites = chain.Points
	p.Heading = chain.Heading
	return nil
}

// PlaceAircraft puts the aircraft west of the line.
func (s *Shape) PlaceAircraft(p *scenario.Placement) error {
	p.Jet = geo.SpanOf(p.Sites).WestFlank().Sample(p.Rand)
	return nil
}

// PlaceTarget puts the target east of the line, offset along the line's slope.
func (s *Shape) PlaceTarget(p *scenario.Placement) error {
	p.Target = geo.SpanOf(p.Sites).EastFlank(p.Heading).Sample(p.Rand)
	return nil
}
