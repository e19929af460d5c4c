package scenario

import (
	"fmt"
	"math/rand"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
)

// Entities holds the CMO database ids placed in every instance of a batch.
type Entities struct {
	JetDBID    int `yaml:"jet_dbid" json:"jet_dbid"`
	TargetDBID int `yaml:"target_dbid" json:"target_dbid"`
	SiteDBID   int `yaml:"sam_dbid" json:"sam_dbid"`
}

// Validate checks that every id is set.
func (e Entities) Validate() error {
	if e.JetDBID <= 0 || e.TargetDBID <= 0 || e.SiteDBID <= 0 {
		return fmt.Errorf("%w: jet=%d target=%d sam=%d", ErrInvalidEntities, e.JetDBID, e.TargetDBID, e.SiteDBID)
	}
	return nil
}

// Entity is one placed platform.
type Entity struct {
	Position geo.Position `json:"position"`
	DBID     int          `json:"dbid"`
}

// Instance is a fully placed scenario, ready for serialization.
type Instance struct {
	Shape    string         `json:"scen_type"`
	Seed     int            `json:"seed"`
	Split    Split          `json:"split"`
	Zone     string         `json:"zone"`
	Target   Entity         `json:"target"`
	Jet      Entity         `json:"jet"`
	Sites    []geo.Position `json:"sam_locations"`
	SiteDBID int            `json:"sam_dbid"`
}

// Placement is the scratch state shared by the placement steps of one instance.
type Placement struct {
	Rand    *rand.Rand
	Catalog geo.Catalog

	// Zone is set by whichever step draws from the catalog.
	Zone    geo.Zone
	Target  geo.Position
	Jet     geo.Position
	Sites   []geo.Position
	Heading int
}

// PickZone draws a zone from the catalog and records it on the placement.
func (p *Placement) PickZone() (geo.Zone, error) {
	z, err := p.Catalog.Pick(p.Rand)
	if err != nil {
		return geo.Zone{}, fmt.Errorf("%w: %v", ErrEmptyCatalog, err)
	}
	p.Zone = z
	return z, nil
}

// Place builds the instance for one seed. The random stream is reseeded from
// the seed alone, so the same seed and catalog always give the same coordinates.
// The split is left empty; the batch assigns it.
func Place(gen Generator, catalog geo.Catalog, entities Entities, seed int) (*Instance, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	p := &Placement{
		Rand:    rand.New(rand.NewSource(int64(seed))),
		Catalog: catalog,
	}

	for _, step := range gen.Order().steps(gen) {
		if err := step.fn(p); err != nil {
			return nil, fmt.Errorf("failed to place %s for %s seed %d: %w", step.role, gen.Tag(), seed, err)
		}
	}

	if len(p.Sites) == 0 {
		return nil, fmt.Errorf("%s seed %d: %w: no defense sites placed", gen.Tag(), seed, ErrInvalidSiteCount)
	}

	return &Instance{
		Shape:    gen.Tag(),
		Seed:     seed,
		Zone:     p.Zone.Name,
		Target:   Entity{Position: p.Target, DBID: entities.TargetDBID},
		Jet:      Entity{Position: p.Jet, DBID: entities.JetDBID},
		Sites:    p.Sites,
		SiteDBID: entities.SiteDBID,
	}, nil
}
