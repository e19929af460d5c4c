package reporting

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

var (
	colorTitle    = color.New(color.FgGreen, color.Bold)
	colorTrain    = color.New(color.FgCyan)
	colorTest     = color.New(color.FgYellow)
	colorValidate = color.New(color.FgMagenta)
	colorWarning  = color.New(color.FgRed, color.Bold)
)

func splitColor(name string) *color.Color {
	switch scenario.Split(name) {
	case scenario.SplitTrain:
		return colorTrain
	case scenario.SplitTest:
		return colorTest
	case scenario.SplitValidate:
		return colorValidate
	default:
		return colorTitle
	}
}

// PrintSummary writes a coloured summary of the report to w.
func PrintSummary(w io.Writer, report *Report) {
	m := report.Metadata
	id := m.BatchID
	if len(id) > 8 {
		id = id[:8]
	}

	colorTitle.Fprintln(w, "\n╔══════════════════════════════════════════════╗")
	colorTitle.Fprintf(w, "║  BATCH SUMMARY  %-12s  %-14s ║\n", m.Shape, id)
	colorTitle.Fprintln(w, "╚══════════════════════════════════════════════╝")

	fmt.Fprintf(w, "\n⏱️  Duration: %s | Instances: %d/%d\n", formatDuration(m.Duration), m.Generated, m.Requested)
	if m.Cancelled {
		colorWarning.Fprintln(w, "⚠️  Batch was interrupted")
	}

	fmt.Fprintln(w, "\n📊 Splits:")
	for _, s := range report.Splits {
		fmt.Fprintf(w, "   %s %5d  (%5.1f%%)\n", splitColor(s.Name).Sprintf("%-10s", s.Name), s.Count, s.Fraction*100)
	}

	fmt.Fprintln(w, "\n🗺️  Zones:")
	for _, s := range report.Zones {
		fmt.Fprintf(w, "   %-20s %5d  (%5.1f%%)\n", s.Name, s.Count, s.Fraction*100)
	}

	fmt.Fprintf(w, "\n📡 SAM sites per instance: min %d | max %d | mean %.2f\n",
		report.Sites.Min, report.Sites.Max, report.Sites.Mean)

	colorTitle.Fprintln(w, "\n════════════════════════════════════════════════")
}
