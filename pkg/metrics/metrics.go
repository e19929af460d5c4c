// Package metrics exposes batch counters in the Prometheus text format so a
// node_exporter textfile collector can pick them up after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// Collector bundles the generator metrics. It is a scenario.Sink.
type Collector struct {
	gatherer prometheus.Gatherer

	Instances     *prometheus.CounterVec
	DefenseSites  *prometheus.CounterVec
	BatchDuration *prometheus.GaugeVec
}

// NewCollector registers the generator metrics on reg, or on a fresh
// registry when reg is nil.
func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	instances, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scengen_instances_total",
		Help: "Scenario instances written, labeled by shape tag and dataset split.",
	}, []string{"shape", "split"}), "scengen_instances_total")
	if err != nil {
		return nil, err
	}

	sites, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scengen_defense_sites_total",
		Help: "SAM sites placed across all instances, labeled by shape tag.",
	}, []string{"shape"}), "scengen_defense_sites_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scengen_batch_duration_seconds",
		Help: "Wall time of the most recent batch, labeled by shape tag.",
	}, []string{"shape"}), "scengen_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      reg,
		Instances:     instances,
		DefenseSites:  sites,
		BatchDuration: duration,
	}, nil
}

// Record counts one written instance.
func (c *Collector) Record(inst *scenario.Instance) error {
	c.Instances.WithLabelValues(inst.Shape, string(inst.Split)).Inc()
	c.DefenseSites.WithLabelValues(inst.Shape).Add(float64(len(inst.Sites)))
	return nil
}

// ObserveBatch records the wall time of a finished or interrupted batch.
func (c *Collector) ObserveBatch(summary *scenario.Summary) {
	if c == nil || summary == nil {
		return
	}
	c.BatchDuration.WithLabelValues(summary.Shape).Set(summary.Duration.Seconds())
}

// Gatherer returns the registry backing the collector.
func (c *Collector) Gatherer() prometheus.Gatherer { return c.gatherer }

// WriteTextfile writes every metric to path in the text exposition format.
// The write goes through a temporary file, so readers never see a partial file.
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
