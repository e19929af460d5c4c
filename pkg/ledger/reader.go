package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// ErrBadHeader is returned when a ledger does not start with Header.
var ErrBadHeader = errors.New("unexpected ledger header")

// ParseLocations parses a sam_locations cell back into positions.
func ParseLocations(s string) ([]geo.Position, error) {
	return geo.ParseLocations(s)
}

// ReadFile loads every row of a ledger file.
func ReadFile(path string) ([]*scenario.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a ledger stream, header included.
func Read(r io.Reader) ([]*scenario.Instance, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger header: %w", err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, header[i], col)
		}
	}

	var rows []*scenario.Instance
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger row: %w", err)
		}

		inst, err := parseRow(record)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		rows = append(rows, inst)
	}

	return rows, nil
}

func parseRow(record []string) (*scenario.Instance, error) {
	inst := &scenario.Instance{
		Shape: record[0],
		Split: scenario.Split(record[2]),
		Zone:  record[3],
	}

	var err error
	if inst.Seed, err = strconv.Atoi(record[1]); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	if inst.Target.Position, err = geo.ParseLocation(record[4]); err != nil {
		return nil, fmt.Errorf("invalid target_location: %w", err)
	}
	if inst.Target.DBID, err = strconv.Atoi(record[5]); err != nil {
		return nil, fmt.Errorf("invalid target_dbid: %w", err)
	}
	if inst.Jet.Position, err = geo.ParseLocation(record[6]); err != nil {
		return nil, fmt.Errorf("invalid jet_location: %w", err)
	}
	if inst.Jet.DBID, err = strconv.Atoi(record[7]); err != nil {
		return nil, fmt.Errorf("invalid jet_dbid: %w", err)
	}
	if inst.Sites, err = ParseLocations(record[8]); err != nil {
		return nil, fmt.Errorf("invalid sam_locations: %w", err)
	}
	if inst.SiteDBID, err = strconv.Atoi(record[9]); err != nil {
		return nil, fmt.Errorf("invalid sam_dbid: %w", err)
	}

	return inst, nil
}
