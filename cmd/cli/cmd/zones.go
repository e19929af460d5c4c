package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/cmo-scenario-gen/pkg/config"
	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/utils"
)

var zonesFile string

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Manage the zone catalog",
	Long: `Manage the catalog of rectangular geographic zones that scenarios are
placed in. The catalog lives in $HOME/.scengen/zones.yaml unless --file is
given; a built-in catalog is used while no file exists.`,
}

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog zones",
	RunE:  listZones,
}

var zonesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a zone",
	Args:  cobra.MaximumNArgs(1),
	RunE:  addZone,
}

var zonesRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a zone",
	Args:  cobra.MaximumNArgs(1),
	RunE:  removeZone,
}

var zonesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a zone catalog file",
	Args:  cobra.ExactArgs(1),
	RunE:  validateZones,
}

func init() {
	zonesCmd.PersistentFlags().StringVar(&zonesFile, "file", "", "zone catalog file (default is $HOME/.scengen/zones.yaml)")

	zonesAddCmd.Flags().Float64("lat-min", 0, "minimum latitude")
	zonesAddCmd.Flags().Float64("lat-max", 0, "maximum latitude")
	zonesAddCmd.Flags().Float64("lon-min", 0, "minimum longitude")
	zonesAddCmd.Flags().Float64("lon-max", 0, "maximum longitude")

	zonesCmd.AddCommand(zonesListCmd)
	zonesCmd.AddCommand(zonesAddCmd)
	zonesCmd.AddCommand(zonesRemoveCmd)
	zonesCmd.AddCommand(zonesValidateCmd)
}

func zonesPath() (string, error) {
	if zonesFile != "" {
		return zonesFile, nil
	}
	return config.DefaultZonesPath()
}

func loadZonesForEdit() (*config.Zones, string, error) {
	path, err := zonesPath()
	if err != nil {
		return nil, "", err
	}
	zones, err := config.LoadZonesFromFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load zones: %w", err)
	}
	return zones, path, nil
}

func listZones(cmd *cobra.Command, args []string) error {
	zones, path, err := loadZonesForEdit()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		logger.Infof("%s not found, showing the built-in catalog", path)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tLATITUDE\tLONGITUDE")
	_, _ = fmt.Fprintln(w, "----\t--------\t---------")

	for _, z := range zones.Zones {
		_, _ = fmt.Fprintf(w, "%s\t%s..%s\t%s..%s\n", z.Name,
			geo.FormatFloat(z.LatMin), geo.FormatFloat(z.LatMax),
			geo.FormatFloat(z.LonMin), geo.FormatFloat(z.LonMax))
	}

	return w.Flush()
}

func addZone(cmd *cobra.Command, args []string) error {
	zones, path, err := loadZonesForEdit()
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	var zone geo.Zone
	if boundsFromFlags(cmd) {
		if name == "" {
			return fmt.Errorf("zone name is required with bound flags")
		}
		zone = geo.Zone{Name: name}
		zone.LatMin, _ = cmd.Flags().GetFloat64("lat-min")
		zone.LatMax, _ = cmd.Flags().GetFloat64("lat-max")
		zone.LonMin, _ = cmd.Flags().GetFloat64("lon-min")
		zone.LonMax, _ = cmd.Flags().GetFloat64("lon-max")
	} else {
		if !utils.Interactive() {
			return fmt.Errorf("zone bounds are required: --lat-min, --lat-max, --lon-min, --lon-max")
		}
		zone, err = utils.PromptZone(name)
		if err != nil {
			return err
		}
	}

	if err := zones.Add(zone); err != nil {
		return err
	}
	if err := config.SaveZonesToFile(zones, path); err != nil {
		return fmt.Errorf("failed to save zones: %w", err)
	}

	logger.Successf("Zone '%s' added", zone.Name)
	return nil
}

func boundsFromFlags(cmd *cobra.Command) bool {
	for _, f := range []string{"lat-min", "lat-max", "lon-min", "lon-max"} {
		if !cmd.Flags().Changed(f) {
			return false
		}
	}
	return true
}

func removeZone(cmd *cobra.Command, args []string) error {
	zones, path, err := loadZonesForEdit()
	if err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		if !utils.Interactive() {
			return fmt.Errorf("zone name is required")
		}
		prompt := &survey.Select{
			Message: "Select zone to remove:",
			Options: zones.Zones.Names(),
		}
		if err := survey.AskOne(prompt, &name); err != nil {
			return err
		}
	}

	if err := zones.Remove(name); err != nil {
		return err
	}
	if err := config.SaveZonesToFile(zones, path); err != nil {
		return fmt.Errorf("failed to save zones: %w", err)
	}

	logger.Successf("Zone '%s' removed", name)
	return nil
}

func validateZones(cmd *cobra.Command, args []string) error {
	logger.Progressf("Validating %s", args[0])
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read zone catalog: %w", err)
	}

	zones, err := config.ParseZones(data)
	if err != nil {
		return err
	}

	logger.Successf("%s: %d valid zones", args[0], len(zones.Zones))
	logger.LogList("Zones:", zones.Zones.Names())
	return nil
}
