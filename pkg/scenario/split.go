package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Split is the dataset partition an instance is assigned to.
type Split string

const (
	SplitTrain    Split = "train"
	SplitTest     Split = "test"
	SplitValidate Split = "validate"
)

// Splits lists every partition in draw order.
var Splits = []Split{SplitTrain, SplitTest, SplitValidate}

// SplitWeights are the long-run proportions of each partition.
type SplitWeights struct {
	Train      float64 `yaml:"train" json:"train"`
	Test       float64 `yaml:"test" json:"test"`
	Validation float64 `yaml:"validate" json:"validate"`
}

// DefaultSplitWeights is the 60/20/20 partition.
var DefaultSplitWeights = SplitWeights{Train: 0.6, Test: 0.2, Validation: 0.2}

const weightTolerance = 1e-9

// Validate checks the weights are non-negative and sum to one.
func (w SplitWeights) Validate() error {
	if w.Train < 0 || w.Test < 0 || w.Validation < 0 {
		return fmt.Errorf("split weights must be non-negative")
	}
	if sum := w.Train + w.Test + w.Validation; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("split weights must sum to 1, got %g", sum)
	}
	return nil
}

// SplitMode controls where split draws get their randomness.
type SplitMode string

const (
	// SplitReproducible reseeds the split stream from each instance seed.
	SplitReproducible SplitMode = "reproducible"
	// SplitIndependent uses one time-seeded stream for the whole batch.
	SplitIndependent SplitMode = "independent"
)

// ParseSplitMode validates a mode name. Empty selects SplitReproducible.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(s) {
	case "", SplitReproducible:
		return SplitReproducible, nil
	case SplitIndependent:
		return SplitIndependent, nil
	default:
		return "", fmt.Errorf("unknown split mode %q (expected %s or %s)", s, SplitReproducible, SplitIndependent)
	}
}

// splitSalt keeps the reproducible split stream apart from the placement stream
// that shares the same seed.
const splitSalt int64 = 0x5ce9a11d

// SplitAssigner draws a split per instance.
type SplitAssigner struct {
	weights SplitWeights
	mode    SplitMode
	rng     *rand.Rand
}

// NewSplitAssigner creates an assigner. Independent mode seeds from the clock.
func NewSplitAssigner(weights SplitWeights, mode SplitMode) (*SplitAssigner, error) {
	return NewSplitAssignerWithSource(weights, mode, rand.NewSource(time.Now().UnixNano()))
}

// NewSplitAssignerWithSource creates an assigner whose independent stream reads from src.
func NewSplitAssignerWithSource(weights SplitWeights, mode SplitMode, src rand.Source) (*SplitAssigner, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseSplitMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = SplitReproducible
	}
	return &SplitAssigner{weights: weights, mode: mode, rng: rand.New(src)}, nil
}

// Mode returns the assigner's mode.
func (a *SplitAssigner) Mode() SplitMode {
	return a.mode
}

// Assign draws the split for the instance with the given seed.
func (a *SplitAssigner) Assign(seed int) Split {
	var u float64
	if a.mode == SplitReproducible {
		u = rand.New(rand.NewSource(int64(seed) ^ splitSalt)).Float64()
	} else {
		u = a.rng.Float64()
	}
	return a.weights.pick(u)
}

func (w SplitWeights) pick(u float64) Split {
	switch {
	case u < w.Train:
		return SplitTrain
	case u < w.Train+w.Test:
		return SplitTest
	default:
		return SplitValidate
	}
}
