package ring

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

func configured(t *testing.T, n int, radius float64) scenario.Generator {
	t.Helper()
	gen := New()
	require.NoError(t, gen.Configure(map[string]interface{}{"num_sams": n, "radius": radius}))
	return gen
}

func TestValidateAndParse(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]interface{}
		wantErr error
	}{
		{"valid", map[string]interface{}{"num_sams": 6, "radius": 2.0}, nil},
		{"integer radius", map[string]interface{}{"num_sams": 6, "radius": 2}, nil},
		{"one site", map[string]interface{}{"num_sams": 1, "radius": 2.0}, scenario.ErrInvalidSiteCount},
		{"zero radius", map[string]interface{}{"num_sams": 6, "radius": 0.0}, scenario.ErrInvalidRadius},
		{"negative radius", map[string]interface{}{"num_sams": 6, "radius": -1.5}, scenario.ErrInvalidRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndParse(tt.params)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestOrderIsTargetFirst(t *testing.T) {
	assert.Equal(t, scenario.TargetFirst, New().Order())
}

func TestRingGeometry(t *testing.T) {
	const radius = 2.0
	gen := configured(t, 8, radius)

	for seed := 0; seed < 300; seed++ {
		inst, err := scenario.Place(gen, catalog, entities, seed)
		require.NoError(t, err)
		require.Len(t, inst.Sites, 7)

		target := inst.Target.Position
		assert.True(t, catalog[0].Contains(target))
		for _, s := range inst.Sites {
			assert.InDelta(t, radius, s.DistanceTo(target), 1e-9)
		}

		d := inst.Jet.Position.DistanceTo(target)
		assert.Greater(t, d, radius)
		assert.True(t, d >= radius+3-1e-9 && d <= radius+4+1e-9, "seed %d jet distance %v", seed, d)
	}
}

// missingIndex recovers which ring position was cut.
func missingIndex(t *testing.T, inst *scenario.Instance, n int) int {
	t.Helper()
	present := make([]bool, n)
	step := 2 * math.Pi / float64(n)
	for _, s := range inst.Sites {
		angle := math.Atan2(s.Lat-inst.Target.Position.Lat, s.Lon-inst.Target.Position.Lon)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		k := int(math.Round(angle/step)) % n
		present[k] = true
	}
	for k, ok := range present {
		if !ok {
			return k
		}
	}
	t.Fatal("no ring position missing")
	return -1
}

func TestEveryPositionCanBeTheOpening(t *testing.T) {
	const n = 5
	gen := configured(t, n, 1.0)
	removed := make([]int, n)

	for seed := 0; seed < 500; seed++ {
		inst, err := scenario.Place(gen, catalog, entities, seed)
		require.NoError(t, err)
		removed[missingIndex(t, inst, n)]++
	}

	for k, count := range removed {
		assert.Positive(t, count, "position %d was never removed", k)
	}
}

func TestPlacementIsDeterministic(t *testing.T) {
	for seed := 0; seed < 25; seed++ {
		a, err := scenario.Place(configured(t, 6, 1.5), catalog, entities, seed)
		require.NoError(t, err)
		b, err := scenario.Place(configured(t, 6, 1.5), catalog, entities, seed)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}
