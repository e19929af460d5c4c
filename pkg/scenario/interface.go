package scenario

// Generator defines the interface that every scenario shape must implement.
//
// The three placement methods share one Placement per instance; each reads the
// positions earlier steps produced and fills in its own role.
type Generator interface {
	// Name returns the CLI name of the shape, e.g. "solid-line"
	Name() string

	// Tag returns the shape tag used in output paths and ledger rows, e.g. "Scenario_1"
	Tag() string

	// Description returns a brief description of the layout
	Description() string

	// Parameters lists the shape-specific parameters accepted by Configure
	Parameters() []Parameter

	// Configure sets up the shape with the provided parameters
	Configure(params map[string]interface{}) error

	// Order tells the orchestrator which role has to be placed first
	Order() Order

	PlaceDefenseSites(p *Placement) error
	PlaceAircraft(p *Placement) error
	PlaceTarget(p *Placement) error
}

// Order is the sequence in which the placement methods of a Generator run.
type Order int

const (
	// SitesFirst places defense sites, then the aircraft, then the target.
	SitesFirst Order = iota
	// TargetFirst places the target, then the defense sites, then the aircraft.
	TargetFirst
)

func (o Order) String() string {
	switch o {
	case SitesFirst:
		return "sites-first"
	case TargetFirst:
		return "target-first"
	default:
		return "unknown"
	}
}

type placementStep struct {
	role string
	fn   func(*Placement) error
}

func (o Order) steps(g Generator) []placementStep {
	sites := placementStep{role: "defense sites", fn: g.PlaceDefenseSites}
	aircraft := placementStep{role: "aircraft", fn: g.PlaceAircraft}
	target := placementStep{role: "target", fn: g.PlaceTarget}

	if o == TargetFirst {
		return []placementStep{target, sites, aircraft}
	}
	return []placementStep{sites, aircraft, target}
}
