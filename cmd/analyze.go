package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/normalize"
	"github.com/KaramelBytes/attrition-cli/internal/output"
	"github.com/KaramelBytes/attrition-cli/internal/pipeline"
)

var (
	anaOutputDir  string
	anaReportName string
	anaNoCharts   bool
	anaDPI        float64
	anaFailFast   bool
	anaPrint      bool

	// Input flags shared by analyze, normalize and aggregate
	inDelimiter  string
	inDecimal    string
	inThousands  string
	inSheetName  string
	inSheetIndex int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the full analysis and write the report and charts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		f := cmd.Flags()
		if f.Changed("output-dir") {
			c.OutputDir = anaOutputDir
		}
		if f.Changed("report-name") {
			c.ReportName = anaReportName
		}
		if f.Changed("no-charts") {
			c.Charts = !anaNoCharts
		}
		if f.Changed("dpi") {
			c.ChartDPI = anaDPI
		}
		if f.Changed("fail-fast") {
			c.FailFast = anaFailFast
		}
		if err := c.Validate(); err != nil {
			return err
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		raw, err := loadInput(args[0])
		if err != nil {
			return err
		}
		nopt, err := normalizeOptions()
		if err != nil {
			return err
		}
		sink, err := output.NewDirSink(c.OutputDir)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		runner := pipeline.New(sink, pipeline.Options{
			ReportName: c.ReportName,
			NoCharts:   !c.Charts,
			DPI:        c.ChartDPI,
			FailFast:   c.FailFast,
			Normalize:  nopt,
		}, log)
		res, err := runner.Run(ctx, raw)
		if res == nil {
			return err
		}

		out := cmd.OutOrStdout()
		if anaPrint {
			fmt.Fprint(out, res.Report.String())
		}
		written := 0
		for _, a := range res.Manifest.Artifacts {
			switch a.Status {
			case output.StatusWritten:
				written++
			case output.StatusFailed:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", errMark("✗ Failed"), a.Name, a.Error)
			case output.StatusSkipped:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", warnMark("⚠ Skipped"), a.Name)
			}
		}
		fmt.Fprintf(out, "%s Wrote %d of %d artifacts to %s (run %s)\n",
			okMark("✓"), written, len(res.Manifest.Artifacts), c.OutputDir, res.Manifest.RunID)
		if err != nil {
			var re *output.RenderError
			if errors.As(err, &re) && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%d artifact(s) failed, see %s", len(res.Manifest.Failed()), sink.Path(output.ManifestName))
			}
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "output-dir", "o", "", "directory for the report, charts and manifest (overrides config)")
	analyzeCmd.Flags().StringVar(&anaReportName, "report-name", "", "report file name (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().Float64Var(&anaDPI, "dpi", 0, "chart resolution in dots per inch, 50-300 (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaFailFast, "fail-fast", false, "stop writing artifacts after the first failure")
	analyzeCmd.Flags().BoolVar(&anaPrint, "print", false, "also print the report to stdout")
	addInputFlags(analyzeCmd)
}

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (from extension if omitted)")
	c.Flags().StringVar(&inDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&inThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&inSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// loadInput reads the dataset with the input flags, falling back to config.
func loadInput(path string) (*dataset.Raw, error) {
	delim := inDelimiter
	if delim == "" {
		delim = settings().Delimiter
	}
	opt := dataset.Options{SheetName: inSheetName, SheetIndex: inSheetIndex}
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", delim)
	}
	return dataset.Load(path, opt)
}

func normalizeOptions() (normalize.Options, error) {
	var opt normalize.Options
	dec, th := inDecimal, inThousands
	if dec == "" {
		dec = settings().DecimalSeparator
	}
	if th == "" {
		th = settings().ThousandsSeparator
	}
	switch strings.ToLower(strings.TrimSpace(dec)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|','|'dot'|'comma')", dec)
	}
	switch strings.ToLower(th) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", th)
	}
	return opt, nil
}
