package corpus

import (
	"fmt"
	"path/filepath"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// Directory names under the output root.
const (
	MetadataDir = "metadata"
	ReportsDir  = "reports"

	scriptExt = ".lua"
	ledgerExt = ".csv"
)

// DefaultRoot is used when no output directory is configured.
const DefaultRoot = "scenario_data"

// Layout maps instances to paths under one output root:
//
//	<root>/<split>/<tag>/<tag>_<seed>.lua
//	<root>/metadata/<tag>.csv
//	<root>/reports/
type Layout struct {
	Root string
}

// NewLayout returns a layout rooted at root, or DefaultRoot when root is empty.
func NewLayout(root string) Layout {
	if root == "" {
		root = DefaultRoot
	}
	return Layout{Root: root}
}

// SplitDir is the directory holding every shape of one split.
func (l Layout) SplitDir(split scenario.Split) string {
	return filepath.Join(l.Root, string(split))
}

// ScriptPath is the scenario script path for one instance.
func (l Layout) ScriptPath(split scenario.Split, tag string, seed int) string {
	return filepath.Join(l.SplitDir(split), tag, fmt.Sprintf("%s_%d%s", tag, seed, scriptExt))
}

// LedgerPath is the per-shape metadata ledger.
func (l Layout) LedgerPath(tag string) string {
	return filepath.Join(l.Root, MetadataDir, tag+ledgerExt)
}

// ReportsPath is where batch reports are saved.
func (l Layout) ReportsPath() string {
	return filepath.Join(l.Root, ReportsDir)
}

// SplitDirs lists the split directories in draw order.
func (l Layout) SplitDirs() []string {
	dirs := make([]string, len(scenario.Splits))
	for i, s := range scenario.Splits {
		dirs[i] = l.SplitDir(s)
	}
	return dirs
}
