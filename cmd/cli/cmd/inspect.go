package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/ledger"
	"github.com/picogrid/cmo-scenario-gen/pkg/logger"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarise a shape's ledger",
	Long: `Read the ledger of one shape, parse the recorded positions back and print
the instances, split frequencies and the bounding box of every placed entity.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("shape", "s", "", "shape name or tag")
	inspectCmd.Flags().StringP("output", "o", "", "output root directory")
	inspectCmd.Flags().String("file", "", "ledger file to read instead of the shape's ledger")
	inspectCmd.Flags().Int("limit", 20, "maximum number of instances to list (0 lists all)")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	limit, _ := cmd.Flags().GetInt("limit")

	if path == "" {
		overrides := make(map[string]interface{})
		if cmd.Flags().Changed("shape") {
			overrides["shape"], _ = cmd.Flags().GetString("shape")
		}
		if cmd.Flags().Changed("output") {
			overrides["output"], _ = cmd.Flags().GetString("output")
		}

		settings, err := loadSettings(cmd, overrides)
		if err != nil {
			return err
		}
		gen, err := selectShape(settings.Generation.Shape)
		if err != nil {
			return fmt.Errorf("failed to select shape: %w", err)
		}
		path = settings.Layout().LedgerPath(gen.Tag())
	}

	instances, err := ledger.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(instances) == 0 {
		logger.Warnf("%s has no instances", path)
		return nil
	}

	logger.LogSection(fmt.Sprintf("%s %s", logger.IconMap, path))

	table := logger.NewTable("SEED", "SPLIT", "ZONE", "TARGET", "JET", "SAMS")
	for i, inst := range instances {
		if limit > 0 && i >= limit {
			break
		}
		table.AddRow(strconv.Itoa(inst.Seed), string(inst.Split), inst.Zone,
			inst.Target.Position.String(), inst.Jet.Position.String(), strconv.Itoa(len(inst.Sites)))
	}
	table.Print()
	if limit > 0 && len(instances) > limit {
		logger.Infof("... %d more", len(instances)-limit)
	}

	stats := summarise(instances)

	logger.LogSubSection("Splits")
	splitTable := logger.NewTable("SPLIT", "COUNT", "FRACTION")
	for _, split := range scenario.Splits {
		n := stats.splits[split]
		splitTable.AddRow(string(split), strconv.Itoa(n), fmt.Sprintf("%.3f", float64(n)/float64(len(instances))))
	}
	splitTable.Print()

	logger.LogSubSection("Extent")
	extentTable := logger.NewTable("ROLE", "LAT", "LON")
	for _, b := range []struct {
		role string
		box  bounds
	}{
		{logger.IconTarget + " target", stats.target},
		{logger.IconJet + " jet", stats.jet},
		{logger.IconSite + " sam", stats.sites},
	} {
		if b.box.empty() {
			continue
		}
		extentTable.AddRow(b.role,
			geo.FormatFloat(b.box.minLat)+".."+geo.FormatFloat(b.box.maxLat),
			geo.FormatFloat(b.box.minLon)+".."+geo.FormatFloat(b.box.maxLon))
	}
	extentTable.Print()

	logger.LogKeyValue("SAM sites per instance", fmt.Sprintf("%d..%d", stats.minSites, stats.maxSites))
	return nil
}

// bounds is the bounding box of a set of positions.
type bounds struct {
	minLat, maxLat, minLon, maxLon float64
	n                              int
}

func newBounds() bounds {
	return bounds{minLat: math.Inf(1), maxLat: math.Inf(-1), minLon: math.Inf(1), maxLon: math.Inf(-1)}
}

func (b *bounds) add(p geo.Position) {
	b.minLat = math.Min(b.minLat, p.Lat)
	b.maxLat = math.Max(b.maxLat, p.Lat)
	b.minLon = math.Min(b.minLon, p.Lon)
	b.maxLon = math.Max(b.maxLon, p.Lon)
	b.n++
}

func (b bounds) empty() bool { return b.n == 0 }

type ledgerStats struct {
	splits             map[scenario.Split]int
	target, jet, sites bounds
	minSites, maxSites int
}

func summarise(instances []*scenario.Instance) ledgerStats {
	stats := ledgerStats{
		splits:   make(map[scenario.Split]int),
		target:   newBounds(),
		jet:      newBounds(),
		sites:    newBounds(),
		minSites: math.MaxInt,
	}
	for _, inst := range instances {
		stats.splits[inst.Split]++
		stats.target.add(inst.Target.Position)
		stats.jet.add(inst.Jet.Position)
		for _, s := range inst.Sites {
			stats.sites.add(s)
		}
		stats.minSites = min(stats.minSites, len(inst.Sites))
		stats.maxSites = max(stats.maxSites, len(inst.Sites))
	}
	return stats
}
