package cmd

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated scenario scripts",
	Long: `Remove every shape directory under <output>/train, <output>/test and
<output>/validate. Ledgers and reports are kept.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringP("output", "o", "", "output root directory")
	cleanCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
}

func runClean(cmd *cobra.Command, _ []string) error {
	overrides := make(map[string]interface{})
	if cmd.Flags().Changed("output") {
		overrides["output"], _ = cmd.Flags().GetString("output")
	}

	settings, err := loadSettings(cmd, overrides)
	if err != nil {
		return err
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	return cleanOutput(settings.Layout(), skipConfirm)
}
