package script

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/picogrid/cmo-scenario-gen/pkg/corpus"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// Writer renders each instance to its own file under the corpus layout.
type Writer struct {
	layout  corpus.Layout
	engine  Engine
	written int
}

// NewWriter creates a script writer.
func NewWriter(layout corpus.Layout, engine Engine) *Writer {
	return &Writer{layout: layout, engine: engine}
}

// Record writes the script for inst, replacing any file from an earlier run.
func (w *Writer) Record(inst *scenario.Instance) error {
	path := w.layout.ScriptPath(inst.Split, inst.Shape, inst.Seed)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create script directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(inst, w.engine)), 0644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}

	w.written++
	return nil
}

// Written returns how many scripts this writer produced.
func (w *Writer) Written() int {
	return w.written
}
