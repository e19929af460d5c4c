package ring

import (
	_ "embed"
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

//go:embed shape.yaml
var shapeYAML []byte

// The aircraft starts between radius+standoffNear and radius+standoffFar
// degrees from the target.
const (
	standoffNear = 3.0
	standoffFar  = 4.0
)

// Shape surrounds the target with a ring of SAM sites that has one opening.
type Shape struct {
	scenario.Descriptor
	config *Config
}

// New creates a ring shape
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

// Order places the target first; the ring is centred on it.
func (s *Shape) Order() scenario.Order { return scenario.TargetFirst }

// PlaceTarget draws a zone and puts the target uniformly inside it.
func (s *Shape) PlaceTarget(p *scenario.Placement) error {
	if s.config == nil {
		return fmt.Errorf("shape not configured")
	}
	zone, err := p.PickZone()
	if err != nil {
		return err
	}
	p.Target = zone.Sample(p.Rand)
	return nil
}

// PlaceDefenseSites spaces the sites evenly around the target and removes one.
// Every position on the ring is equally likely to become the opening.
func (s *Shape) PlaceDefenseSites(p *scenario.Placement) error {
	points := geo.Ring(p.Target, s.config.Radius, s.config.NumSAMs)
	p.Sites = geo.RemoveAt(points, p.Rand.Intn(len(points)))
	return nil
}

// PlaceAircraft puts the aircraft outside the ring at a random bearing.
func (s *Shape) PlaceAircraft(p *scenario.Placement) error {
	bearing := geo.Radians(float64(p.Rand.Intn(360)))
	distance := geo.Uniform(p.Rand, s.config.Radius+standoffNear, s.config.Radius+standoffFar)
	p.Jet = p.Target.Polar(bearing, distance)
	return nil
}
