package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
	"github.com/picogrid/cmo-scenario-gen/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available shapes",
	Long:  `List all registered scenario shapes with their tags and parameters`,
	RunE:  listShapes,
}

func listShapes(cmd *cobra.Command, args []string) error {
	shapes := utils.DiscoverShapes(scenario.DefaultRegistry)
	if len(shapes) == 0 {
		fmt.Println("No shapes registered")
		return nil
	}

	// Create tabwriter for formatted output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTAG\tVERSION\tCATEGORY\tPARAMETERS\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t---\t-------\t--------\t----------\t-----------")

	for _, info := range shapes {
		params := make([]string, len(info.Parameters))
		for i, p := range info.Parameters {
			params[i] = utils.FormatParameter(p)
		}
		paramText := strings.Join(params, "; ")
		if paramText == "" {
			paramText = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name,
			info.Tag,
			info.Version,
			info.Category,
			paramText,
			info.Description,
		)
	}

	return w.Flush()
}
