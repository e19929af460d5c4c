package gapline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

var (
	catalog  = geo.Catalog{{Name: "A", LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10}}
	entities = scenario.Entities{JetDBID: 1, TargetDBID: 2, SiteDBID: 3}
)

func configured(t *testing.T, n int) scenario.Generator {
	t.Helper()
	gen := New()
	require.NoError(t, gen.Configure(map[string]interface{}{"num_sams": n}))
	return gen
}

func TestMinimumSiteCount(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		err := New().Configure(map[string]interface{}{"num_sams": n})
		assert.True(t, errors.Is(err, scenario.ErrInvalidSiteCount), "n=%d got %v", n, err)
	}
	assert.NoError(t, New().Configure(map[string]interface{}{"num_sams": 3}))
}

func TestGapRemovesOneInteriorSite(t *testing.T) {
	for _, n := range []int{3, 4, 6, 10} {
		gen := configured(t, n)
		for seed := 0; seed < 200; seed++ {
			inst, err := scenario.Place(gen, catalog, entities, seed)
			require.NoError(t, err)
			require.Len(t, inst.Sites, n-1)

			// Unbroken neighbours are 1.5 (first link) or 2 apart; the gap
			// bridges two links and is always wider than 2.5.
			gaps := 0
			for i := 1; i < len(inst.Sites); i++ {
				d := inst.Sites[i].DistanceTo(inst.Sites[i-1])
				switch {
				case math.Abs(d-geo.ChainStep) < 1e-9, math.Abs(d-initialStep) < 1e-9:
				case d > 2.5:
					gaps++
				default:
					t.Fatalf("n=%d seed %d: unexpected spacing %v", n, seed, d)
				}
			}
			assert.Equal(t, 1, gaps, "n=%d seed %d", n, seed)

			zone, ok := catalog.Lookup(inst.Zone)
			require.True(t, ok)
			assert.True(t, zone.Contains(inst.Sites[0]), "first site must survive the cut")
		}
	}
}

func TestFlankWindowsNeverOverlap(t *testing.T) {
	gen := configured(t, 5)
	for seed := 0; seed < 300; seed++ {
		inst, err := scenario.Place(gen, catalog, entities, seed)
		require.NoError(t, err)

		span := geo.SpanOf(inst.Sites)
		jet, target := inst.Jet.Position, inst.Target.Position
		assert.True(t, jet.Lon >= span.MinLon-4 && jet.Lon <= span.MinLon-2.5, "seed %d", seed)
		assert.True(t, target.Lon >= span.NextMaxLon+2.5 && target.Lon <= span.MaxLon+2.5, "seed %d", seed)
		assert.Less(t, jet.Lon, target.Lon)
	}
}

func TestPlacementIsDeterministic(t *testing.T) {
	for seed := 0; seed < 25; seed++ {
		a, err := scenario.Place(configured(t, 6), catalog, entities, seed)
		require.NoError(t, err)
		b, err := scenario.Place(configured(t, 6), catalog, entities, seed)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}
