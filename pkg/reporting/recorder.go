package reporting

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// Recorder collects per-instance statistics while a batch runs. It is a
// scenario.Sink and is safe for concurrent use.
type Recorder struct {
	batchID   string
	shape     string
	startTime time.Time

	mu     sync.RWMutex
	splits map[scenario.Split]int
	zones  map[string]int
	sites  SiteStats
	count  int
	first  int
	last   int
}

// SiteStats summarises the number of defense sites per instance.
type SiteStats struct {
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Mean  float64 `json:"mean"`
	Total int     `json:"total"`
}

// NewRecorder creates a recorder with a fresh batch id.
func NewRecorder(shape string) *Recorder {
	return &Recorder{
		batchID:   uuid.New().String(),
		shape:     shape,
		startTime: time.Now(),
		splits:    make(map[scenario.Split]int),
		zones:     make(map[string]int),
		first:     -1,
		last:      -1,
	}
}

// BatchID returns the id this recorder stamps on its report.
func (r *Recorder) BatchID() string { return r.batchID }

// Record adds one instance to the running totals.
func (r *Recorder) Record(inst *scenario.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(inst.Sites)
	if r.count == 0 || n < r.sites.Min {
		r.sites.Min = n
	}
	if n > r.sites.Max {
		r.sites.Max = n
	}
	r.sites.Total += n

	r.splits[inst.Split]++
	r.zones[inst.Zone]++

	if r.first < 0 || inst.Seed < r.first {
		r.first = inst.Seed
	}
	if inst.Seed > r.last {
		r.last = inst.Seed
	}
	r.count++

	return nil
}

// Count returns the number of recorded instances.
func (r *Recorder) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Report builds the batch report. A nil summary uses the recorder's own clock.
func (r *Recorder) Report(summary *scenario.Summary) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report := &Report{
		Metadata: Metadata{
			BatchID:     r.batchID,
			Shape:       r.shape,
			GeneratedAt: time.Now(),
			Started:     r.startTime,
			Duration:    time.Since(r.startTime),
			Version:     ReportVersion,
			Generated:   r.count,
			Requested:   r.count,
		},
		Splits: make([]Share, 0, len(scenario.Splits)),
		Zones:  make([]Share, 0, len(r.zones)),
		Sites:  r.sites,
	}
	if summary != nil {
		report.Metadata.Started = summary.Started
		report.Metadata.Duration = summary.Duration
		report.Metadata.Requested = summary.Requested
		report.Metadata.Cancelled = summary.Cancelled
	}
	if r.count > 0 {
		report.Sites.Mean = float64(r.sites.Total) / float64(r.count)
		report.Metadata.FirstSeed = r.first
		report.Metadata.LastSeed = r.last
	}

	for _, split := range scenario.Splits {
		report.Splits = append(report.Splits, r.share(string(split), r.splits[split]))
	}

	zones := make([]string, 0, len(r.zones))
	for zone := range r.zones {
		zones = append(zones, zone)
	}
	sort.Strings(zones)
	for _, zone := range zones {
		report.Zones = append(report.Zones, r.share(zone, r.zones[zone]))
	}

	return report
}

func (r *Recorder) share(name string, count int) Share {
	s := Share{Name: name, Count: count}
	if r.count > 0 {
		s.Fraction = float64(count) / float64(r.count)
	}
	return s
}
