package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/charts"
	"github.com/KaramelBytes/attrition-cli/internal/normalize"
	"github.com/KaramelBytes/attrition-cli/internal/output"
)

var (
	chartOutputDir string
	chartDPI       float64
)

var chartCmd = &cobra.Command{
	Use:   "chart <file> <name>...",
	Short: "Render selected charts without the report",
	Long: `Chart normalizes the dataset and renders only the named charts, e.g.
"overall_attrition_pie_chart.png". Run "attrition list --charts" for the names.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		f := cmd.Flags()
		if f.Changed("output-dir") {
			c.OutputDir = chartOutputDir
		}
		if f.Changed("dpi") {
			c.ChartDPI = chartDPI
		}
		if err := c.Validate(); err != nil {
			return err
		}

		selected := make([]charts.Spec, 0, len(args)-1)
		for _, name := range args[1:] {
			s, ok := charts.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown chart: %s", name)
			}
			selected = append(selected, s)
		}

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
		sink, err := output.NewDirSink(c.OutputDir)
		if err != nil {
			return err
		}
		cat := analysis.DefaultCatalog()
		out := cmd.OutOrStdout()
		for _, s := range selected {
			png, err := s.Render(cat, res.Table, c.ChartDPI)
			if err != nil {
				return err
			}
			if err := sink.Put(s.Name, png); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", okMark("✓"), sink.Path(s.Name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutputDir, "output-dir", "o", "", "directory for the charts (overrides config)")
	chartCmd.Flags().Float64Var(&chartDPI, "dpi", 0, "chart resolution in dots per inch, 50-300 (overrides config)")
	addInputFlags(chartCmd)
}
