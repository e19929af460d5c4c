package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
)

// Sink receives every finished instance of a batch, in seed order.
type Sink interface {
	Record(inst *Instance) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(inst *Instance) error

func (f SinkFunc) Record(inst *Instance) error { return f(inst) }

// Batch generates Count instances of one shape, seeds 0..Count-1.
type Batch struct {
	Generator Generator
	Catalog   geo.Catalog
	Entities  Entities
	Count     int
	Splits    *SplitAssigner
	Sinks     []Sink

	// Logger defaults to the package logger with the shape as prefix.
	Logger logger.Logger

	// OnProgress, when set, is called after each instance with the number done.
	OnProgress func(done, total int)
}

// Summary describes a finished or interrupted batch.
type Summary struct {
	Shape     string
	Requested int
	Generated int
	Started   time.Time
	Duration  time.Duration
	Cancelled bool
}

// Validate checks everything that can be checked before the first file is touched.
func (b *Batch) Validate() error {
	if b.Generator == nil {
		return fmt.Errorf("batch has no generator")
	}
	if b.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, b.Count)
	}
	if len(b.Catalog) == 0 {
		return ErrEmptyCatalog
	}
	for _, z := range b.Catalog {
		if err := z.Validate(); err != nil {
			return err
		}
	}
	if err := b.Entities.Validate(); err != nil {
		return err
	}
	if b.Splits == nil {
		return fmt.Errorf("batch has no split assigner")
	}
	return nil
}

// Run generates the batch sequentially. Cancellation is honoured between
// instances only, so an instance is either fully recorded or not started.
func (b *Batch) Run(ctx context.Context) (*Summary, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	log := b.Logger
	if log == nil {
		log = logger.WithPrefix(b.Generator.Name())
	}

	summary := &Summary{
		Shape:     b.Generator.Tag(),
		Requested: b.Count,
		Started:   time.Now(),
	}
	defer func() { summary.Duration = time.Since(summary.Started) }()

	log.Infof("Generating %d %s instances (%s)", b.Count, b.Generator.Tag(), b.Generator.Order())

	for seed := 0; seed < b.Count; seed++ {
		select {
		case <-ctx.Done():
			summary.Cancelled = true
			log.Warnf("Batch interrupted after %d of %d instances", summary.Generated, b.Count)
			return summary, ctx.Err()
		default:
		}

		inst, err := Place(b.Generator, b.Catalog, b.Entities, seed)
		if err != nil {
			return summary, err
		}
		inst.Split = b.Splits.Assign(seed)

		for _, sink := range b.Sinks {
			if err := sink.Record(inst); err != nil {
				return summary, fmt.Errorf("failed to record %s seed %d: %w", inst.Shape, seed, err)
			}
		}

		summary.Generated++
		log.WithFields(map[string]interface{}{
			"seed":  seed,
			"split": inst.Split,
			"zone":  inst.Zone,
			"sams":  len(inst.Sites),
		}).Debug("Instance recorded")

		if b.OnProgress != nil {
			b.OnProgress(summary.Generated, b.Count)
		}
	}

	return summary, nil
}
