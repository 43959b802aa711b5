package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/attrition-cli/internal/normalize"
	"github.com/KaramelBytes/attrition-cli/internal/output"
)

var (
	normOutputPath string
	normLenient    bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize a dataset and write the cleaned table as CSV",
	Long: `Normalize drops the constant columns, maps the ordinal codes to their labels
and adds the derived group columns. The cleaned table is written as CSV to
--output, or to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := loadInput(args[0])
		if err != nil {
			return err
		}
		opt, err := normalizeOptions()
		if err != nil {
			return err
		}
		opt.SkipPresenceCheck = normLenient
		res, err := normalize.Normalize(raw, opt)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(normalize.Records(res.Table)); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
		if normOutputPath == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := output.WriteFile(normOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d rows x %d columns to %s (dropped %d columns, %d duplicates)\n",
			okMark("✓"), res.Table.Rows(), len(res.Table.Columns()), normOutputPath, len(res.Dropped), res.Duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVarP(&normOutputPath, "output", "o", "", "path to write the normalized CSV (stdout if omitted)")
	normalizeCmd.Flags().BoolVar(&normLenient, "lenient", false, "do not require every expected column")
	addInputFlags(normalizeCmd)
}
