package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
)

// ReportVersion is bumped when the saved report layout changes.
const ReportVersion = "1.0"

// Supported report formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Report is the saved summary of one batch.
type Report struct {
	Metadata Metadata  `json:"metadata"`
	Splits   []Share   `json:"splits"`
	Zones    []Share   `json:"zones"`
	Sites    SiteStats `json:"sam_sites"`
}

// Metadata identifies the batch a report describes.
type Metadata struct {
	BatchID     string        `json:"batch_id"`
	Shape       string        `json:"shape"`
	GeneratedAt time.Time     `json:"generated_at"`
	Started     time.Time     `json:"started"`
	Duration    time.Duration `json:"duration_ns"`
	Version     string        `json:"version"`
	Requested   int           `json:"requested"`
	Generated   int           `json:"generated"`
	FirstSeed   int           `json:"first_seed"`
	LastSeed    int           `json:"last_seed"`
	Cancelled   bool          `json:"cancelled"`
}

// Share is a named count with its fraction of the batch.
type Share struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// Config configures report output.
type Config struct {
	OutputDir string
	Format    string // "markdown", "json"
}

// Save writes the report under cfg.OutputDir and returns the file path.
func Save(report *Report, cfg Config) (string, error) {
	var (
		ext    string
		render func(*Report) ([]byte, error)
	)
	switch cfg.Format {
	case FormatJSON:
		ext, render = ".json", renderJSON
	case FormatMarkdown, "":
		ext, render = ".md", renderMarkdown
	default:
		return "", fmt.Errorf("unsupported format: %s", cfg.Format)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := render(report)
	if err != nil {
		return "", err
	}

	path := filepath.Join(cfg.OutputDir, fileName(report)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	logger.Successf("Report saved to: %s", path)
	return path, nil
}

func fileName(report *Report) string {
	id := report.Metadata.BatchID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("batch_%s_%s_%s",
		report.Metadata.Shape, id, report.Metadata.GeneratedAt.Format("20060102_150405"))
}

func renderJSON(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

func renderMarkdown(report *Report) ([]byte, error) {
	var sb strings.Builder
	m := report.Metadata

	sb.WriteString("# Batch Report\n\n")
	sb.WriteString(fmt.Sprintf("**Batch ID:** %s\n", m.BatchID))
	sb.WriteString(fmt.Sprintf("**Shape:** %s\n", m.Shape))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", m.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Duration:** %s\n\n", formatDuration(m.Duration)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Instances:** %d/%d\n", m.Generated, m.Requested))
	if m.Generated > 0 {
		sb.WriteString(fmt.Sprintf("- **Seeds:** %d-%d\n", m.FirstSeed, m.LastSeed))
	}
	if m.Cancelled {
		sb.WriteString("- **Status:** interrupted\n")
	} else {
		sb.WriteString("- **Status:** complete\n")
	}
	sb.WriteString("\n")

	writeShares(&sb, "Splits", report.Splits)
	writeShares(&sb, "Zones", report.Zones)

	sb.WriteString("## SAM Sites\n\n")
	sb.WriteString(fmt.Sprintf("- **Min:** %d\n", report.Sites.Min))
	sb.WriteString(fmt.Sprintf("- **Max:** %d\n", report.Sites.Max))
	sb.WriteString(fmt.Sprintf("- **Mean:** %.2f\n", report.Sites.Mean))
	sb.WriteString(fmt.Sprintf("- **Total:** %d\n", report.Sites.Total))

	return []byte(sb.String()), nil
}

func writeShares(sb *strings.Builder, title string, shares []Share) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString("| Name | Count | Fraction |\n")
	sb.WriteString("|---|---|---|\n")
	for _, s := range shares {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.3f |\n", s.Name, s.Count, s.Fraction))
	}
	sb.WriteString("\n")
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := d.Seconds() - float64(minutes*60)
	return fmt.Sprintf("%02d:%06.3f", minutes, seconds)
}
