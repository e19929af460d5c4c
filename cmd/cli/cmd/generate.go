package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/picogrid/cmo-scenario-gen/pkg/config"
	"github.com/picogrid/cmo-scenario-gen/pkg/corpus"
	"github.com/picogrid/cmo-scenario-gen/pkg/ledger"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/metrics"
	"github.com/picogrid/cmo-scenario-gen/pkg/reporting"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
	"github.com/picogrid/cmo-scenario-gen/pkg/script"
	"github.com/picogrid/cmo-scenario-gen/pkg/utils"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "run"},
	Short:   "Generate a batch of scenarios",
	Long: `Generate a batch of scenario instances of one shape. Seeds run from 0 to
count-1; each instance gets a Lua script under <output>/<split>/<tag>/ and a
row in <output>/metadata/<tag>.csv.

Missing shape and parameters are asked for interactively when stdin is a
terminal, unless SCENGEN_SKIP_PROMPTS=true.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("shape", "s", "", "shape name or tag (e.g. ring, Scenario_3)")
	generateCmd.Flags().IntP("count", "n", 0, "number of instances to generate")
	generateCmd.Flags().Int("sams", 0, "number of SAM sites (line, gap-line and ring shapes)")
	generateCmd.Flags().Float64("radius", 0, "ring radius in degrees")
	generateCmd.Flags().StringP("output", "o", "", "output root directory")
	generateCmd.Flags().String("zones", "", "zone catalog file (default is $HOME/.scengen/zones.yaml)")
	generateCmd.Flags().Bool("clean", false, "remove previously generated scripts before the run")
	generateCmd.Flags().Bool("append", false, "append to existing ledgers instead of resetting them")
	generateCmd.Flags().String("split-mode", "", "split draw mode (reproducible, independent)")
	generateCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")
	generateCmd.Flags().String("report-format", "", "batch report format (markdown, json)")
	generateCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompts")
}

// generateOverrides collects the flags the user actually set.
func generateOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})
	flags := cmd.Flags()

	if flags.Changed("shape") {
		overrides["shape"], _ = flags.GetString("shape")
	}
	if flags.Changed("count") {
		overrides["count"], _ = flags.GetInt("count")
	}
	if flags.Changed("sams") {
		overrides["num_sams"], _ = flags.GetInt("sams")
	}
	if flags.Changed("radius") {
		overrides["radius"], _ = flags.GetFloat64("radius")
	}
	if flags.Changed("output") {
		overrides["output"], _ = flags.GetString("output")
	}
	if flags.Changed("zones") {
		overrides["zones_file"], _ = flags.GetString("zones")
	}
	if flags.Changed("clean") {
		overrides["clean"], _ = flags.GetBool("clean")
	}
	if flags.Changed("append") {
		appendRows, _ := flags.GetBool("append")
		overrides["reset_ledger"] = !appendRows
	}
	if flags.Changed("split-mode") {
		overrides["split_mode"], _ = flags.GetString("split-mode")
	}
	if flags.Changed("metrics-file") {
		overrides["metrics_file"], _ = flags.GetString("metrics-file")
	}
	if flags.Changed("report-format") {
		overrides["report_format"], _ = flags.GetString("report-format")
	}

	return overrides
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, generateOverrides(cmd))
	if err != nil {
		return err
	}
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	gen, err := selectShape(settings.Generation.Shape)
	if err != nil {
		return fmt.Errorf("failed to select shape: %w", err)
	}

	params, err := utils.PromptForParameters(gen.Parameters(), settings.ShapeParams())
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}
	if err := gen.Configure(params); err != nil {
		return fmt.Errorf("failed to configure %s: %w", gen.Name(), err)
	}

	zones, err := loadZoneCatalog(settings.Generation.ZonesFile)
	if err != nil {
		return err
	}

	splits, err := scenario.NewSplitAssigner(settings.Splits.Weights, settings.Splits.Mode)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	layout := settings.Layout()
	if settings.Output.CleanBeforeRun {
		if err := cleanOutput(layout, skipConfirm); err != nil {
			return err
		}
	}

	recorder := reporting.NewRecorder(gen.Tag())
	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}
	scripts := script.NewWriter(layout, settings.Engine)
	rows := ledger.NewWriter(layout, settings.Output.ResetLedger)

	batch := &scenario.Batch{
		Generator: gen,
		Catalog:   zones.Zones,
		Entities:  settings.Entities,
		Count:     settings.Generation.Count,
		Splits:    splits,
		Sinks:     []scenario.Sink{scripts, rows, recorder, collector},
		Logger:    logger.WithPrefix(gen.Name()).WithField("batch", recorder.BatchID()[:8]),
	}

	logger.LogSection(fmt.Sprintf("%s %s (%s)", logger.IconRocket, gen.Name(), gen.Tag()))
	logger.LogKeyValues(map[string]interface{}{
		"Instances":  settings.Generation.Count,
		"Zones":      len(zones.Zones),
		"Output":     layout.Root,
		"Split mode": splits.Mode(),
		"Batch":      recorder.BatchID(),
	})

	var bar *logger.ProgressBar
	if term.IsTerminal(int(os.Stdout.Fd())) && !debugEnabled(settings) {
		bar = logger.NewProgressBar(settings.Generation.Count, "Generating")
		batch.OnProgress = func(done, _ int) { bar.Update(done) }
	} else {
		logger.Progressf("Placing %d instances across %d zones", settings.Generation.Count, len(zones.Zones))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := batch.Run(ctx)
	if bar != nil && summary != nil && summary.Generated > 0 {
		bar.Finish()
	}
	if summary == nil {
		return runErr
	}

	if err := finishBatch(settings, layout, recorder, collector, summary); err != nil {
		logger.Errorf("Failed to write batch outputs: %v", err)
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		logger.Warnf("Interrupted: %d of %d instances written", summary.Generated, summary.Requested)
		return nil
	case runErr != nil:
		return fmt.Errorf("generation failed: %w", runErr)
	}

	logger.Successf("Generated %d %s instances (%d scripts, %d ledger rows)",
		summary.Generated, gen.Tag(), scripts.Written(), rows.Rows())
	logger.Artifactf("Ledger: %s", layout.LedgerPath(gen.Tag()))
	return nil
}

// finishBatch writes the report and metrics for a finished or interrupted batch.
func finishBatch(settings *config.Settings, layout corpus.Layout, recorder *reporting.Recorder, collector *metrics.Collector, summary *scenario.Summary) error {
	var errs []error

	collector.ObserveBatch(summary)
	if path := settings.Output.MetricsFile; path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		} else {
			logger.Artifactf("Metrics: %s", path)
		}
	}

	report := recorder.Report(summary)
	reporting.PrintSummary(logger.Output(), report)

	if settings.Logging.EnableReport {
		if _, err := reporting.Save(report, reporting.Config{
			OutputDir: layout.ReportsPath(),
			Format:    settings.Logging.ReportFormat,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func selectShape(name string) (scenario.Generator, error) {
	if name != "" {
		return scenario.DefaultRegistry.Get(name)
	}
	if !utils.Interactive() {
		return nil, fmt.Errorf("no shape given; use --shape or SCENGEN_SHAPE (one of %v)", scenario.DefaultRegistry.List())
	}
	return utils.SelectShape(scenario.DefaultRegistry.Generators())
}

func loadZoneCatalog(path string) (*config.Zones, error) {
	var (
		zones *config.Zones
		err   error
	)
	if path != "" {
		zones, err = config.LoadZonesFromFile(path)
	} else {
		zones, err = config.LoadZones()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load zone catalog: %w", err)
	}
	return zones, nil
}

func cleanOutput(layout corpus.Layout, skipConfirm bool) error {
	if !skipConfirm {
		ok, err := utils.Confirm(fmt.Sprintf("Remove generated scripts under %s?", layout.Root), true)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Skipping clean")
			return nil
		}
	}

	var result *corpus.CleanResult
	err := logger.WithSpinner("Cleaning output", func() error {
		result = layout.Clean()
		return result.Err()
	})
	if result != nil {
		logger.Infof("Removed %d directories", len(result.Removed))
	}
	if err != nil {
		logger.Warnf("Some directories could not be removed: %v", err)
	}
	return nil
}

func debugEnabled(settings *config.Settings) bool {
	return logger.ParseLevel(settings.Logging.ConsoleLevel) == logger.DebugLevel
}
