package isolatedpair

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/cmo-scenario-gen/pkg/corpus"
	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
	"github.com/picogrid/cmo-scenario-gen/pkg/script"
)

var (
	catalog  = geo.Catalog{{Name: "A", LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10}}
	entities = scenario.Entities{JetDBID: 1, TargetDBID: 2, SiteDBID: 3}
)

func TestDescriptor(t *testing.T) {
	gen := New()
	assert.Equal(t, "isolated-pair", gen.Name())
	assert.Equal(t, "Scenario_0", gen.Tag())
	assert.Equal(t, scenario.SitesFirst, gen.Order())
	assert.Empty(t, gen.Parameters())
	assert.NoError(t, gen.Configure(map[string]interface{}{"num_sams": 9}))
}

func TestPlacementOffsets(t *testing.T) {
	gen := New()
	for seed := 0; seed < 500; seed++ {
		inst, err := scenario.Place(gen, catalog, entities, seed)
		require.NoError(t, err)
		require.Len(t, inst.Sites, 1)

		site := inst.Sites[0]
		assert.True(t, catalog[0].Contains(site))

		north := inst.Target.Position.Lat - site.Lat
		south := site.Lat - inst.Jet.Position.Lat
		assert.True(t, north >= 2.5 && north <= 5, "seed %d target offset %v", seed, north)
		assert.True(t, south >= 2.5 && south <= 5, "seed %d aircraft offset %v", seed, south)
		assert.LessOrEqual(t, abs(inst.Target.Position.Lon-site.Lon), 5.0)
		assert.LessOrEqual(t, abs(inst.Jet.Position.Lon-site.Lon), 5.0)
	}
}

func TestPlacementIsDeterministic(t *testing.T) {
	for seed := 0; seed < 25; seed++ {
		a, err := scenario.Place(New(), catalog, entities, seed)
		require.NoError(t, err)
		b, err := scenario.Place(New(), catalog, entities, seed)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestSeedZeroEndToEnd(t *testing.T) {
	layout := corpus.NewLayout(t.TempDir())
	writer := script.NewWriter(layout, script.DefaultEngine())

	splits, err := scenario.NewSplitAssigner(scenario.DefaultSplitWeights, scenario.SplitReproducible)
	require.NoError(t, err)

	var recorded *scenario.Instance
	batch := &scenario.Batch{
		Generator: New(),
		Catalog:   catalog,
		Entities:  entities,
		Count:     1,
		Splits:    splits,
		Sinks: []scenario.Sink{writer, scenario.SinkFunc(func(inst *scenario.Instance) error {
			recorded = inst
			return nil
		})},
	}

	summary, err := batch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Generated)
	require.NotNil(t, recorded)

	site := recorded.Sites[0]
	assert.GreaterOrEqual(t, recorded.Target.Position.Lat-site.Lat, 2.5)
	assert.LessOrEqual(t, recorded.Target.Position.Lat-site.Lat, 5.0)
	assert.GreaterOrEqual(t, site.Lat-recorded.Jet.Position.Lat, 2.5)
	assert.LessOrEqual(t, site.Lat-recorded.Jet.Position.Lat, 5.0)

	data, err := os.ReadFile(layout.ScriptPath(recorded.Split, "Scenario_0", 0))
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, 1, strings.Count(text, "unitname ='sam'"))
	assert.Equal(t, 1, strings.Count(text, `unitname ="target_ammo"`))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
