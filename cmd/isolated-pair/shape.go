package isolatedpair

import (
	_ "embed"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

//go:embed shape.yaml
var shapeYAML []byte

// Offsets from the site, in degrees. The target sits north of the site and the
// aircraft south of it; both may drift up to maxDrift east or west.
const (
	nearOffset = 2.5
	farOffset  = 5.0
	maxDrift   = 5.0
)

// Shape places a single SAM site with the target and aircraft on either side.
type Shape struct {
	scenario.Descriptor
}

// New creates an isolated-pair shape
func New() scenario.Generator {
	return &Shape{Descriptor: scenario.Descriptor{Shape: scenario.MustParseShapeConfig(shapeYAML)}}
}

func init() {
	if err := scenario.DefaultRegistry.Register(New); err != nil {
		logger.Errorf("Failed to register shape: %v", err)
	}
}

// Configure accepts no parameters; the pair layout is fixed.
func (s *Shape) Configure(map[string]interface{}) error { return nil }

func (s *Shape) Order() scenario.Order { return scenario.SitesFirst }

// PlaceDefenseSites draws a zone and puts the single site uniformly inside it.
func (s *Shape) PlaceDefenseSites(p *scenario.Placement) error {
	zone, err := p.PickZone()
	if err != nil {
		return err
	}
	p.Sites = []geo.Position{zone.Sample(p.Rand)}
	return nil
}

func (s *Shape) PlaceAircraft(p *scenario.Placement) error {
	site := p.Sites[0]
	dLat := geo.Uniform(p.Rand, -farOffset, -nearOffset)
	dLon := geo.Uniform(p.Rand, -maxDrift, maxDrift)
	p.Jet = site.Offset(dLat, dLon)
	return nil
}

func (s *Shape) PlaceTarget(p *scenario.Placement) error {
	site := p.Sites[0]
	dLat := geo.Uniform(p.Rand, nearOffset, farOffset)
	dLon := geo.Uniform(p.Rand, -maxDrift, maxDrift)
	p.Target = site.Offset(dLat, dLon)
	return nil
}
