package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogrid/cmo-scenario-gen/pkg/config"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"

	// Import shapes to register them
	_ "github.com/picogrid/cmo-scenario-gen/cmd/gap-line"
	_ "github.com/picogrid/cmo-scenario-gen/cmd/isolated-pair"
	_ "github.com/picogrid/cmo-scenario-gen/cmd/ring"
	_ "github.com/picogrid/cmo-scenario-gen/cmd/solid-line"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
	quiet    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scengen",
	Short: "CMO scenario corpus generator",
	Long: `scengen generates batches of Command: Modern Operations scenario scripts
for training and evaluating air-defense penetration agents. Each instance
places SAM sites, an aircraft and a target in a shape-specific layout,
writes a Lua scenario script and appends a row to the shape's ledger.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scengen/config.yaml or ./scengen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all log and summary output")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	// Add commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(inspectCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		viper.AddConfigPath("$HOME/.scengen")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SCENGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	_ = viper.ReadInConfig()

	// Configure logger based on flags or SCENGEN_LOG_LEVEL / SCENGEN_NO_COLOR
	logger.SetLevel(logger.ParseLevel(viper.GetString("log_level")))
	logger.SetNoColor(viper.GetBool("no_color"))
	if viper.GetBool("no_color") {
		color.NoColor = true
	}
	if quiet {
		logger.SetOutput(io.Discard)
	}
}

// loadSettings resolves the settings file found by viper, then applies
// environment variables and the given CLI overrides.
func loadSettings(cmd *cobra.Command, overrides map[string]interface{}) (*config.Settings, error) {
	if cmd.Flags().Changed("log-level") || os.Getenv("SCENGEN_LOG_LEVEL") != "" {
		overrides["log_level"] = strings.ToLower(viper.GetString("log_level"))
	}

	settings, err := config.LoadSettingsWithOverrides(viper.ConfigFileUsed(), overrides)
	if err != nil {
		return nil, err
	}

	// The settings file may lower or raise the level unless a flag pinned it.
	logger.SetLevel(logger.ParseLevel(settings.Logging.ConsoleLevel))
	logger.Debugf("Settings:\n%s", settings)

	return settings, nil
}
