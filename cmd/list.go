package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/charts"
)

var (
	listAggregates bool
	listCharts     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog aggregates or chart artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listAggregates == listCharts { // either both true or both false
			return fmt.Errorf("specify exactly one of --aggregates or --charts")
		}
		out := cmd.OutOrStdout()
		if listAggregates {
			cat := analysis.DefaultCatalog()
			for _, name := range cat.Names() {
				e, _ := cat.Lookup(name)
				fmt.Fprintf(out, "- %s: %s\n", e.Name, e.Description)
			}
			return nil
		}
		for _, s := range charts.Specs() {
			fmt.Fprintf(out, "- %s (%s, %s)\n", s.Name, s.Kind, s.Key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listAggregates, "aggregates", false, "list the named aggregates")
	listCmd.Flags().BoolVar(&listCharts, "charts", false, "list the chart artifacts")
}
