package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

func instance(seed int, split scenario.Split, zone string, sites int) *scenario.Instance {
	return &scenario.Instance{
		Shape: "Scenario_2",
		Seed:  seed,
		Split: split,
		Zone:  zone,
		Sites: make([]geo.Position, sites),
	}
}

func recorded(t *testing.T) *Recorder {
	t.Helper()
	r := NewRecorder("Scenario_2")
	for _, inst := range []*scenario.Instance{
		instance(0, scenario.SplitTrain, "baltic", 4),
		instance(1, scenario.SplitTrain, "persian_gulf", 4),
		instance(2, scenario.SplitValidate, "baltic", 6),
		instance(3, scenario.SplitTest, "baltic", 2),
	} {
		require.NoError(t, r.Record(inst))
	}
	return r
}

func TestRecorderReport(t *testing.T) {
	r := recorded(t)
	_, err := uuid.Parse(r.BatchID())
	require.NoError(t, err)

	summary := &scenario.Summary{Shape: "Scenario_2", Requested: 10, Generated: 4, Started: time.Now(), Duration: time.Second, Cancelled: true}
	report := r.Report(summary)

	assert.Equal(t, r.BatchID(), report.Metadata.BatchID)
	assert.Equal(t, 4, report.Metadata.Generated)
	assert.Equal(t, 10, report.Metadata.Requested)
	assert.True(t, report.Metadata.Cancelled)
	assert.Equal(t, 0, report.Metadata.FirstSeed)
	assert.Equal(t, 3, report.Metadata.LastSeed)

	require.Len(t, report.Splits, 3)
	assert.Equal(t, Share{Name: "train", Count: 2, Fraction: 0.5}, report.Splits[0])
	assert.Equal(t, Share{Name: "test", Count: 1, Fraction: 0.25}, report.Splits[1])
	assert.Equal(t, Share{Name: "validate", Count: 1, Fraction: 0.25}, report.Splits[2])

	require.Len(t, report.Zones, 2)
	assert.Equal(t, "baltic", report.Zones[0].Name)
	assert.Equal(t, 3, report.Zones[0].Count)
	assert.Equal(t, "persian_gulf", report.Zones[1].Name)

	assert.Equal(t, SiteStats{Min: 2, Max: 6, Mean: 4, Total: 16}, report.Sites)
}

func TestEmptyReport(t *testing.T) {
	report := NewRecorder("Scenario_0").Report(nil)

	assert.Equal(t, 0, report.Metadata.Generated)
	assert.Empty(t, report.Zones)
	for _, s := range report.Splits {
		assert.Zero(t, s.Count)
		assert.Zero(t, s.Fraction)
	}
	assert.Zero(t, report.Sites.Mean)
}

func TestSaveMarkdown(t *testing.T) {
	dir := t.TempDir()
	report := recorded(t).Report(nil)

	path, err := Save(report, Config{OutputDir: filepath.Join(dir, "reports"), Format: FormatMarkdown})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "batch_Scenario_2_"))
	assert.Equal(t, ".md", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "# Batch Report")
	assert.Contains(t, body, "| train | 2 | 0.500 |")
	assert.Contains(t, body, "| baltic | 3 | 0.750 |")
	assert.Contains(t, body, "- **Mean:** 4.00")
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	report := recorded(t).Report(nil)

	path, err := Save(report, Config{OutputDir: dir, Format: FormatJSON})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Metadata.BatchID, decoded.Metadata.BatchID)
	assert.Equal(t, report.Splits, decoded.Splits)
	assert.Equal(t, report.Sites, decoded.Sites)
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	_, err := Save(NewRecorder("Scenario_0").Report(nil), Config{OutputDir: t.TempDir(), Format: "html"})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, recorded(t).Report(&scenario.Summary{Requested: 4, Cancelled: true}))

	out := buf.String()
	assert.Contains(t, out, "BATCH SUMMARY")
	assert.Contains(t, out, "Instances: 4/4")
	assert.Contains(t, out, "interrupted")
	assert.Contains(t, out, "baltic")
	assert.Contains(t, out, "min 2 | max 6 | mean 4.00")
}
