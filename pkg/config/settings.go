package config

import (
	"fmt"

	"github.com/picogrid/cmo-scenario-gen/pkg/corpus"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
	"github.com/picogrid/cmo-scenario-gen/pkg/script"
)

// Settings holds the complete generator configuration
type Settings struct {
	// Batch parameters
	Generation GenerationConfig `yaml:"generation"`

	// CMO database ids of the placed platforms
	Entities scenario.Entities `yaml:"entities"`

	// Output layout and ledger behaviour
	Output OutputConfig `yaml:"output"`

	// Train/test/validate assignment
	Splits SplitConfig `yaml:"splits"`

	// Strings handed to the CMO engine
	Engine script.Engine `yaml:"engine"`

	// Logging and reporting
	Logging LoggingConfig `yaml:"logging"`
}

// GenerationConfig holds batch parameters. Zero NumSAMs or Radius leaves the
// shape's own default in place.
type GenerationConfig struct {
	Shape     string  `yaml:"shape,omitempty"`
	Count     int     `yaml:"count"`
	NumSAMs   int     `yaml:"num_sams,omitempty"`
	Radius    float64 `yaml:"radius,omitempty"` // degrees, ring only
	ZonesFile string  `yaml:"zones_file,omitempty"`
}

// OutputConfig defines where and how artifacts are written
type OutputConfig struct {
	Root           string `yaml:"root"`
	ResetLedger    bool   `yaml:"reset_ledger"`
	CleanBeforeRun bool   `yaml:"clean_before_run"`
	MetricsFile    string `yaml:"metrics_file,omitempty"`
}

// SplitConfig defines the dataset partition
type SplitConfig struct {
	Mode    scenario.SplitMode    `yaml:"mode"` // "reproducible", "independent"
	Weights scenario.SplitWeights `yaml:"weights"`
}

// LoggingConfig defines logging and reporting settings
type LoggingConfig struct {
	ConsoleLevel string `yaml:"console_level"` // "debug", "info", "warn", "error"
	EnableReport bool   `yaml:"enable_report"`
	ReportFormat string `yaml:"report_format"` // "markdown", "json"
}

var (
	validLevels        = []string{"debug", "info", "warn", "error"}
	validReportFormats = []string{"markdown", "json"}
)

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}

// Validate checks if the settings are valid
func (s *Settings) Validate() error {
	if s.Generation.Count <= 0 {
		return fmt.Errorf("%w: %d", scenario.ErrInvalidCount, s.Generation.Count)
	}
	if s.Generation.NumSAMs < 0 {
		return fmt.Errorf("%w: num_sams must not be negative", scenario.ErrInvalidSiteCount)
	}
	if s.Generation.Radius < 0 {
		return fmt.Errorf("%w: radius must not be negative", scenario.ErrInvalidRadius)
	}

	if err := s.Entities.Validate(); err != nil {
		return err
	}

	if s.Output.Root == "" {
		return fmt.Errorf("output root is required")
	}

	if _, err := scenario.ParseSplitMode(string(s.Splits.Mode)); err != nil {
		return err
	}
	if err := s.Splits.Weights.Validate(); err != nil {
		return err
	}

	if err := s.Engine.Validate(); err != nil {
		return err
	}

	if !oneOf(s.Logging.ConsoleLevel, validLevels) {
		return fmt.Errorf("console level must be one of %v", validLevels)
	}
	if !oneOf(s.Logging.ReportFormat, validReportFormats) {
		return fmt.Errorf("report format must be one of %v", validReportFormats)
	}

	return nil
}

// ShapeParams returns the shape parameters explicitly set in the settings.
func (s *Settings) ShapeParams() map[string]interface{} {
	params := make(map[string]interface{})
	if s.Generation.NumSAMs > 0 {
		params["num_sams"] = s.Generation.NumSAMs
	}
	if s.Generation.Radius > 0 {
		params["radius"] = s.Generation.Radius
	}
	return params
}

// Layout returns the corpus layout under the configured output root.
func (s *Settings) Layout() corpus.Layout {
	return corpus.NewLayout(s.Output.Root)
}

// String returns a human-readable representation of the settings
func (s *Settings) String() string {
	return fmt.Sprintf(`Generator Settings:
  Shape: %s
  Count: %d
  SAM Sites: %d
  Radius: %g

Entities:
  Jet DBID: %d
  Target DBID: %d
  SAM DBID: %d

Output:
  Root: %s
  Reset Ledger: %t
  Clean Before Run: %t
  Metrics File: %s

Splits:
  Mode: %s
  Weights: %.2f/%.2f/%.2f

Engine:
  End Signal Path: %s
  Save Path: %s
  Time Limit: %dh

Logging:
  Console Level: %s
  Report Enabled: %t
  Report Format: %s`,
		s.Generation.Shape,
		s.Generation.Count,
		s.Generation.NumSAMs,
		s.Generation.Radius,
		s.Entities.JetDBID,
		s.Entities.TargetDBID,
		s.Entities.SiteDBID,
		s.Output.Root,
		s.Output.ResetLedger,
		s.Output.CleanBeforeRun,
		s.Output.MetricsFile,
		s.Splits.Mode,
		s.Splits.Weights.Train,
		s.Splits.Weights.Test,
		s.Splits.Weights.Validation,
		s.Engine.EndSignalPath,
		s.Engine.SavePath,
		s.Engine.TimeLimitHours,
		s.Logging.ConsoleLevel,
		s.Logging.EnableReport,
		s.Logging.ReportFormat,
	)
}

// GetDefaultSettings returns the settings used when no file is found
func GetDefaultSettings() *Settings {
	return &Settings{
		Generation: GenerationConfig{
			Count: 100,
		},

		// Placeholder CMO database ids; override them for the loaded database.
		Entities: scenario.Entities{
			JetDBID:    4248,
			TargetDBID: 2063,
			SiteDBID:   1911,
		},

		Output: OutputConfig{
			Root:        corpus.DefaultRoot,
			ResetLedger: true,
		},

		Splits: SplitConfig{
			Mode:    scenario.SplitReproducible,
			Weights: scenario.DefaultSplitWeights,
		},

		Engine: script.DefaultEngine(),

		Logging: LoggingConfig{
			ConsoleLevel: "info",
			EnableReport: true,
			ReportFormat: "markdown",
		},
	}
}
