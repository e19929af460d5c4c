package logger

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Icons and symbols for different log types
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️"
	IconInfo    = "ℹ️"
	IconDebug   = "🔍"
	IconRocket  = "🚀"
	IconConfig  = "⚙️"
	IconMap     = "🗺️"
	IconTarget  = "🎯"
	IconJet     = "✈️"
	IconSite    = "📡"
	IconTime    = "⏱️"
	IconFolder  = "📁"
	IconFile    = "📄"
	IconRefresh = "🔄"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconDot     = "•"
	IconArrow   = "→"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconSuccess + " " + message)
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconRefresh + " " + message)
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// Artifact logs a written output file
func Artifact(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconFile + " " + message)
}

// Artifactf logs a formatted output file message
func Artifactf(format string, args ...interface{}) {
	Artifact(fmt.Sprintf(format, args...))
}

// LogSection creates a visual section separator
func LogSection(title string) {
	width := 50
	line := strings.Repeat("=", width)

	w, color := output()
	if color {
		fmt.Fprintln(w, colorCyan+line+colorReset)
		fmt.Fprintln(w, colorCyan+colorBold+title+colorReset)
		fmt.Fprintln(w, colorCyan+line+colorReset)
	} else {
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, line)
	}
}

// LogSubSection creates a visual subsection separator
func LogSubSection(title string) {
	width := 40
	line := strings.Repeat("-", width)

	w, color := output()
	if color {
		fmt.Fprintln(w, colorGray+line+colorReset)
		fmt.Fprintln(w, colorGray+title+colorReset)
		fmt.Fprintln(w, colorGray+line+colorReset)
	} else {
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, line)
	}
}

// LogList logs a list of items with bullets
func LogList(title string, items []string) {
	Info(title)
	w, _ := output()
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", IconDot, item)
	}
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	w, color := output()
	if color {
		fmt.Fprintf(w, "%s%s:%s %v\n", colorCyan, key, colorReset, value)
	} else {
		fmt.Fprintf(w, "%s: %v\n", key, value)
	}
}

// LogKeyValues logs multiple key-value pairs
func LogKeyValues(pairs map[string]interface{}) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		LogKeyValue(k, pairs[k])
	}
}

// Table represents a simple table for logging
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Print prints the table to the logger output
func (t *Table) Print() {
	w, _ := output()
	t.Render(w)
}

// Render writes the table to w
func (t *Table) Render(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range t.headers {
		fmt.Fprintf(w, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(w)

	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(w, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w)
	}
}
