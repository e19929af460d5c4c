package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// EnvPrefix prefixes every environment override except LOG_LEVEL.
const EnvPrefix = "SCENGEN_"

// LoadSettings loads settings from a YAML file
func LoadSettings(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Start from the defaults so partial files only override what they name.
	settings := GetDefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

// LoadSettingsOrDefault loads settings from file or returns the defaults, with environment overrides
func LoadSettingsOrDefault(path string) (*Settings, error) {
	var settings *Settings
	var err error

	if path != "" {
		settings, err = LoadSettings(path)
		if err != nil {
			logger.Warnf("Could not load config from %s: %v", path, err)
			settings = nil
		}
	}

	if settings == nil {
		for _, p := range []string{"scengen.yaml", filepath.Join(configDirName, "config.yaml")} {
			if _, err := os.Stat(p); err == nil {
				settings, err = LoadSettings(p)
				if err == nil {
					logger.Debugf("Loaded config from: %s", p)
					break
				}
			}
		}
	}

	if settings == nil {
		logger.Debug("Using default configuration")
		settings = GetDefaultSettings()
	}

	MergeWithEnvironment(settings)

	return settings, nil
}

// SaveSettings saves settings to a YAML file
func SaveSettings(settings *Settings, path string) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithCLIOverrides applies CLI flag overrides to the settings
func MergeWithCLIOverrides(settings *Settings, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "shape":
			if shape, ok := value.(string); ok && shape != "" {
				settings.Generation.Shape = shape
			}
		case "count":
			if count, ok := value.(int); ok && count > 0 {
				settings.Generation.Count = count
			}
		case "num_sams":
			if n, ok := value.(int); ok && n > 0 {
				settings.Generation.NumSAMs = n
			}
		case "radius":
			if r, ok := value.(float64); ok && r > 0 {
				settings.Generation.Radius = r
			}
		case "zones_file":
			if path, ok := value.(string); ok && path != "" {
				settings.Generation.ZonesFile = path
			}
		case "output":
			if root, ok := value.(string); ok && root != "" {
				settings.Output.Root = root
			}
		case "clean":
			if clean, ok := value.(bool); ok {
				settings.Output.CleanBeforeRun = clean
			}
		case "reset_ledger":
			if reset, ok := value.(bool); ok {
				settings.Output.ResetLedger = reset
			}
		case "metrics_file":
			if path, ok := value.(string); ok && path != "" {
				settings.Output.MetricsFile = path
			}
		case "split_mode":
			if mode, ok := value.(string); ok {
				if parsed, err := scenario.ParseSplitMode(mode); err == nil {
					settings.Splits.Mode = parsed
				}
			}
		case "report_format":
			if format, ok := value.(string); ok && oneOf(format, validReportFormats) {
				settings.Logging.ReportFormat = format
			}
		case "log_level":
			if level, ok := value.(string); ok && oneOf(level, validLevels) {
				settings.Logging.ConsoleLevel = level
			}
		}
	}
}

// LoadSettingsWithOverrides loads settings and applies both environment and CLI overrides
func LoadSettingsWithOverrides(path string, cliOverrides map[string]interface{}) (*Settings, error) {
	settings, err := LoadSettingsOrDefault(path)
	if err != nil {
		return nil, err
	}

	if cliOverrides != nil {
		MergeWithCLIOverrides(settings, cliOverrides)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}

	return settings, nil
}

func envInt(name string, apply func(int)) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apply(n)
		}
	}
}

func envBool(name string, apply func(bool)) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			apply(b)
		}
	}
}

func envString(name string, apply func(string)) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		apply(v)
	}
}

// MergeWithEnvironment merges settings with SCENGEN_* environment variables
func MergeWithEnvironment(settings *Settings) {
	envString("SHAPE", func(v string) { settings.Generation.Shape = v })
	envInt("COUNT", func(v int) { settings.Generation.Count = v })
	envInt("NUM_SAMS", func(v int) { settings.Generation.NumSAMs = v })
	if v := os.Getenv(EnvPrefix + "RADIUS"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
			settings.Generation.Radius = r
		}
	}
	envString("ZONES_FILE", func(v string) { settings.Generation.ZonesFile = v })

	envInt("JET_DBID", func(v int) { settings.Entities.JetDBID = v })
	envInt("TARGET_DBID", func(v int) { settings.Entities.TargetDBID = v })
	envInt("SAM_DBID", func(v int) { settings.Entities.SiteDBID = v })

	envString("OUTPUT_DIR", func(v string) { settings.Output.Root = v })
	envBool("RESET_LEDGER", func(v bool) { settings.Output.ResetLedger = v })
	envBool("CLEAN_BEFORE_RUN", func(v bool) { settings.Output.CleanBeforeRun = v })
	envString("METRICS_FILE", func(v string) { settings.Output.MetricsFile = v })

	if mode := os.Getenv(EnvPrefix + "SPLIT_MODE"); mode != "" {
		if parsed, err := scenario.ParseSplitMode(strings.ToLower(mode)); err == nil {
			settings.Splits.Mode = parsed
		}
	}

	envString("END_SIGNAL_PATH", func(v string) { settings.Engine.EndSignalPath = v })
	envString("SAVE_PATH", func(v string) { settings.Engine.SavePath = v })

	envBool("ENABLE_REPORT", func(v bool) { settings.Logging.EnableReport = v })
	if format := os.Getenv(EnvPrefix + "REPORT_FORMAT"); format != "" {
		if f := strings.ToLower(format); oneOf(f, validReportFormats) {
			settings.Logging.ReportFormat = f
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		if l := strings.ToLower(logLevel); oneOf(l, validLevels) {
			settings.Logging.ConsoleLevel = l
		}
	}
}
