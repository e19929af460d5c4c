package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
)

// CleanResult reports what a housekeeping sweep did.
type CleanResult struct {
	Removed []string
	Skipped []string // split roots that did not exist
	Failed  map[string]error
}

// Err joins every removal failure, or returns nil.
func (r *CleanResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for path, err := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	return errors.Join(errs...)
}

// Clean removes every subdirectory of the train, test and validate roots.
// Plain files in the split roots are left alone, as are the metadata and
// reports directories. A failed removal is logged and the sweep continues.
func (l Layout) Clean() *CleanResult {
	return l.clean(os.RemoveAll)
}

func (l Layout) clean(remove func(string) error) *CleanResult {
	result := &CleanResult{Failed: make(map[string]error)}
	log := logger.WithPrefix("clean")

	for _, parent := range l.SplitDirs() {
		entries, err := os.ReadDir(parent)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				result.Skipped = append(result.Skipped, parent)
				continue
			}
			log.Warnf("Cannot read %s: %v", parent, err)
			result.Failed[parent] = err
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(parent, entry.Name())
			if err := remove(path); err != nil {
				log.Warnf("Error removing %s: %v", path, err)
				result.Failed[path] = err
				continue
			}
			result.Removed = append(result.Removed, path)
		}
		log.Debugf("Cleaned subdirectories in %s", parent)
	}

	return result
}
