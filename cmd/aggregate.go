package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/normalize"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <file> <name>...",
	Short: "Compute named aggregates and print them as tables",
	Long: `Aggregate normalizes the dataset and prints each named aggregate from the
catalog, e.g. "rate:Attrition" or "crosstab:Department:Attrition".
Run "attrition list --aggregates" for the available names.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := loadInput(args[0])
		if err != nil {
			return err
		}
		opt, err := normalizeOptions()
		if err != nil {
			return err
		}
		res, err := normalize.Normalize(raw, opt)
		if err != nil {
			return err
		}
		cat := analysis.DefaultCatalog()
		out := cmd.OutOrStdout()
		for i, name := range args[1:] {
			r, err := cat.Compute(res.Table, name)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, name)
			recs := r.Records()
			tw := tablewriter.NewWriter(out)
			tw.SetAutoFormatHeaders(false)
			tw.SetAutoWrapText(false)
			if len(recs) > 0 {
				tw.SetHeader(recs[0])
				tw.AppendBulk(recs[1:])
			}
			tw.Render()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	addInputFlags(aggregateCmd)
}
