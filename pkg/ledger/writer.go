package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/picogrid/cmo-scenario-gen/pkg/corpus"
	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// Header is the column layout of every ledger file.
var Header = []string{
	"scen_type", "seed", "split", "zone",
	"target_location", "target_dbid",
	"jet_location", "jet_dbid",
	"sam_locations", "sam_dbid",
}

// Writer appends one row per instance to the ledger of the instance's shape.
//
// With reset enabled the first row a Writer appends to a ledger truncates it,
// so a batch replaces the previous batch of the same shape. Otherwise rows are
// appended and the header is only written to an empty file.
type Writer struct {
	layout corpus.Layout
	reset  bool
	opened map[string]bool
	rows   int
}

// NewWriter creates a ledger writer.
func NewWriter(layout corpus.Layout, reset bool) *Writer {
	return &Writer{layout: layout, reset: reset, opened: make(map[string]bool)}
}

// Record appends the row for inst.
func (w *Writer) Record(inst *scenario.Instance) (err error) {
	path := w.layout.LedgerPath(inst.Shape)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if w.reset && !w.opened[inst.Shape] {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close ledger: %w", cerr)
		}
	}()
	w.opened[inst.Shape] = true

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat ledger: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("failed to write ledger header: %w", err)
		}
	}
	if err := cw.Write(Row(inst)); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}

	w.rows++
	return nil
}

// Rows returns how many rows this writer appended.
func (w *Writer) Rows() int {
	return w.rows
}

// Row formats inst as ledger fields in Header order.
func Row(inst *scenario.Instance) []string {
	return []string{
		inst.Shape,
		strconv.Itoa(inst.Seed),
		string(inst.Split),
		inst.Zone,
		inst.Target.Position.String(),
		strconv.Itoa(inst.Target.DBID),
		inst.Jet.Position.String(),
		strconv.Itoa(inst.Jet.DBID),
		geo.FormatLocations(inst.Sites),
		strconv.Itoa(inst.SiteDBID),
	}
}
