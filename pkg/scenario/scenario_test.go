package scenario

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
)

const stubShapeYAML = `
name: stub
tag: Scenario_9
description: one site, aircraft and target at fixed offsets
version: "1.0"
parameters:
  - name: num_sams
    type: integer
    default: 2
  - name: radius
    type: float
`

type stubGenerator struct {
	Descriptor
	order  Order
	calls  []string
	failAt string
}

func newStub(order Order) *stubGenerator {
	return &stubGenerator{Descriptor: Descriptor{Shape: MustParseShapeConfig([]byte(stubShapeYAML))}, order: order}
}

func (s *stubGenerator) Configure(map[string]interface{}) error { return nil }
func (s *stubGenerator) Order() Order                           { return s.order }

func (s *stubGenerator) step(name string) error {
	s.calls = append(s.calls, name)
	if s.failAt == name {
		return errors.New("boom")
	}
	return nil
}

func (s *stubGenerator) PlaceDefenseSites(p *Placement) error {
	if err := s.step("sites"); err != nil {
		return err
	}
	if s.order == SitesFirst {
		z, err := p.PickZone()
		if err != nil {
			return err
		}
		p.Sites = []geo.Position{z.Sample(p.Rand)}
		return nil
	}
	p.Sites = []geo.Position{p.Target.Offset(1, 1)}
	return nil
}

func (s *stubGenerator) PlaceAircraft(p *Placement) error {
	if err := s.step("aircraft"); err != nil {
		return err
	}
	p.Jet = p.Sites[0].Offset(-3, 0)
	return nil
}

func (s *stubGenerator) PlaceTarget(p *Placement) error {
	if err := s.step("target"); err != nil {
		return err
	}
	if s.order == TargetFirst {
		z, err := p.PickZone()
		if err != nil {
			return err
		}
		p.Target = z.Sample(p.Rand)
		return nil
	}
	p.Target = p.Sites[0].Offset(3, 0)
	return nil
}

var (
	testCatalog  = geo.Catalog{{Name: "A", LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10}}
	testEntities = Entities{JetDBID: 1, TargetDBID: 2, SiteDBID: 3}
)

func quietLogger() logger.Logger {
	return logger.NewWithConfig(logger.Config{Level: logger.ErrorLevel, Writer: io.Discard})
}

func TestPlaceFollowsOrder(t *testing.T) {
	tests := []struct {
		order Order
		want  []string
	}{
		{SitesFirst, []string{"sites", "aircraft", "target"}},
		{TargetFirst, []string{"target", "sites", "aircraft"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			gen := newStub(tt.order)
			inst, err := Place(gen, testCatalog, testEntities, 4)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gen.calls)
			assert.Equal(t, "Scenario_9", inst.Shape)
			assert.Equal(t, 4, inst.Seed)
			assert.Equal(t, "A", inst.Zone)
			assert.Equal(t, 1, inst.Jet.DBID)
			assert.Equal(t, 2, inst.Target.DBID)
			assert.Equal(t, 3, inst.SiteDBID)
		})
	}
}

func TestPlaceIsDeterministic(t *testing.T) {
	for seed := 0; seed < 20; seed++ {
		a, err := Place(newStub(SitesFirst), testCatalog, testEntities, seed)
		require.NoError(t, err)
		b, err := Place(newStub(SitesFirst), testCatalog, testEntities, seed)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestPlaceErrors(t *testing.T) {
	_, err := Place(newStub(SitesFirst), nil, testEntities, 0)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	gen := newStub(SitesFirst)
	gen.failAt = "aircraft"
	_, err = Place(gen, testCatalog, testEntities, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aircraft")
	assert.Equal(t, []string{"sites", "aircraft"}, gen.calls)
}

func TestSplitWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultSplitWeights.Validate())
	assert.NoError(t, SplitWeights{Train: 1}.Validate())
	assert.Error(t, SplitWeights{Train: 0.5, Test: 0.2, Validation: 0.2}.Validate())
	assert.Error(t, SplitWeights{Train: 1.2, Test: -0.2}.Validate())
}

func TestParseSplitMode(t *testing.T) {
	m, err := ParseSplitMode("")
	require.NoError(t, err)
	assert.Equal(t, SplitReproducible, m)

	m, err = ParseSplitMode("independent")
	require.NoError(t, err)
	assert.Equal(t, SplitIndependent, m)

	_, err = ParseSplitMode("per-batch")
	assert.Error(t, err)
}

func TestSplitFrequencies(t *testing.T) {
	const draws = 10000
	const tolerance = 0.03

	for _, mode := range []SplitMode{SplitReproducible, SplitIndependent} {
		t.Run(string(mode), func(t *testing.T) {
			a, err := NewSplitAssigner(DefaultSplitWeights, mode)
			require.NoError(t, err)

			counts := map[Split]int{}
			for seed := 0; seed < draws; seed++ {
				counts[a.Assign(seed)]++
			}

			assert.InDelta(t, 0.6, float64(counts[SplitTrain])/draws, tolerance)
			assert.InDelta(t, 0.2, float64(counts[SplitTest])/draws, tolerance)
			assert.InDelta(t, 0.2, float64(counts[SplitValidate])/draws, tolerance)
		})
	}
}

func TestReproducibleSplitsRepeat(t *testing.T) {
	a, err := NewSplitAssigner(DefaultSplitWeights, SplitReproducible)
	require.NoError(t, err)
	b, err := NewSplitAssigner(DefaultSplitWeights, SplitReproducible)
	require.NoError(t, err)

	for seed := 0; seed < 500; seed++ {
		assert.Equal(t, a.Assign(seed), b.Assign(seed), "seed %d", seed)
	}
}

func TestSplitWeightsPick(t *testing.T) {
	w := DefaultSplitWeights
	assert.Equal(t, SplitTrain, w.pick(0))
	assert.Equal(t, SplitTrain, w.pick(0.59))
	assert.Equal(t, SplitTest, w.pick(0.61))
	assert.Equal(t, SplitValidate, w.pick(0.81))
	assert.Equal(t, SplitValidate, w.pick(0.999))
}

type recordingSink struct {
	seeds []int
	fail  int
}

func (r *recordingSink) Record(inst *Instance) error {
	if r.fail > 0 && inst.Seed == r.fail {
		return errors.New("disk full")
	}
	r.seeds = append(r.seeds, inst.Seed)
	return nil
}

func newBatch(t *testing.T, count int, sinks ...Sink) *Batch {
	t.Helper()
	splits, err := NewSplitAssigner(DefaultSplitWeights, SplitReproducible)
	require.NoError(t, err)
	return &Batch{
		Generator: newStub(SitesFirst),
		Catalog:   testCatalog,
		Entities:  testEntities,
		Count:     count,
		Splits:    splits,
		Sinks:     sinks,
		Logger:    quietLogger(),
	}
}

func TestBatchRunRecordsInSeedOrder(t *testing.T) {
	sink := &recordingSink{}
	var splits []Split
	var progress []int

	b := newBatch(t, 5, sink, SinkFunc(func(inst *Instance) error {
		splits = append(splits, inst.Split)
		return nil
	}))
	b.OnProgress = func(done, total int) {
		assert.Equal(t, 5, total)
		progress = append(progress, done)
	}

	summary, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sink.seeds)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)
	assert.Equal(t, 5, summary.Generated)
	assert.False(t, summary.Cancelled)
	for _, s := range splits {
		assert.Contains(t, Splits, s)
	}
}

func TestBatchRunConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Batch)
		target error
	}{
		{"zero count", func(b *Batch) { b.Count = 0 }, ErrInvalidCount},
		{"empty catalog", func(b *Batch) { b.Catalog = nil }, ErrEmptyCatalog},
		{"missing ids", func(b *Batch) { b.Entities = Entities{} }, ErrInvalidEntities},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			b := newBatch(t, 3, sink)
			tt.mutate(b)
			_, err := b.Run(context.Background())
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, sink.seeds)
		})
	}
}

func TestBatchRunStopsOnSinkError(t *testing.T) {
	sink := &recordingSink{fail: 2}
	summary, err := newBatch(t, 5, sink).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []int{0, 1}, sink.seeds)
	assert.Equal(t, 2, summary.Generated)
}

func TestBatchRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := SinkFunc(func(inst *Instance) error {
		if inst.Seed == 1 {
			cancel()
		}
		return nil
	})

	summary, err := newBatch(t, 10, sink).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Cancelled)
	assert.Equal(t, 2, summary.Generated)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(func() Generator { return newStub(SitesFirst) }))
	assert.Error(t, r.Register(func() Generator { return newStub(SitesFirst) }))

	g, err := r.Get("stub")
	require.NoError(t, err)
	assert.Equal(t, "Scenario_9", g.Tag())

	g, err = r.Get("Scenario_9")
	require.NoError(t, err)
	assert.Equal(t, "stub", g.Name())

	_, err = r.Get("spiral")
	assert.ErrorIs(t, err, ErrUnknownShape)

	assert.Equal(t, []string{"stub"}, r.List())
	assert.Len(t, r.Generators(), 1)
}

func TestShapeConfigDefaults(t *testing.T) {
	d := Descriptor{Shape: MustParseShapeConfig([]byte(stubShapeYAML))}
	merged := d.WithDefaults(map[string]interface{}{"radius": 2.5})
	assert.Equal(t, 2, merged["num_sams"])
	assert.Equal(t, 2.5, merged["radius"])

	_, err := ParseShapeConfig([]byte("description: nameless"))
	assert.Error(t, err)
}

func TestParams(t *testing.T) {
	params := map[string]interface{}{
		"a": 3, "b": 4.0, "c": "5", "d": 2.5, "e": "x", "f": true,
	}

	for _, key := range []string{"a", "b", "c"} {
		v, ok, err := IntParam(params, key)
		require.NoError(t, err, key)
		assert.True(t, ok)
		assert.Greater(t, v, 2)
	}

	_, _, err := IntParam(params, "d")
	assert.Error(t, err)
	_, _, err = IntParam(params, "f")
	assert.Error(t, err)

	_, ok, err := IntParam(params, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	f, ok, err := FloatParam(params, "d")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, _, err = FloatParam(params, "e")
	assert.Error(t, err)
}
