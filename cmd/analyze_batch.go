package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/attrition-cli/internal/output"
	"github.com/KaramelBytes/attrition-cli/internal/pipeline"
)

var (
	abOutputDir string
	abNoCharts  bool
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files, one output directory each",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c := settings()
		root := c.OutputDir
		if abOutputDir != "" {
			root = abOutputDir
		}
		nopt, err := normalizeOptions()
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		used := map[string]struct{}{}
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			raw, err := loadInput(path)
			if err != nil {
				return err
			}
			dir := batchDir(root, path, used)
			sink, err := output.NewDirSink(dir)
			if err != nil {
				return err
			}
			res, err := pipeline.New(sink, pipeline.Options{
				ReportName: c.ReportName,
				NoCharts:   abNoCharts || !c.Charts,
				DPI:        c.ChartDPI,
				FailFast:   c.FailFast,
				Normalize:  nopt,
			}, log.With("source", filepath.Base(path))).Run(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "%s Wrote %d artifacts to %s\n", okMark("✓"), len(res.Manifest.Artifacts), dir)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and drops
// duplicates. The result is sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// batchDir names the output directory of one input after its base name,
// suffixing __2, __3... when the name was already used in this batch or
// exists on disk.
func batchDir(root, path string, used map[string]struct{}) string {
	base := filepath.Base(path)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Join(root, safe)
	for idx := 2; ; idx++ {
		_, taken := used[dir]
		_, statErr := os.Stat(dir)
		if !taken && os.IsNotExist(statErr) {
			break
		}
		dir = filepath.Join(root, fmt.Sprintf("%s__%d", safe, idx))
	}
	used[dir] = struct{}{}
	return dir
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abOutputDir, "output-dir", "o", "", "parent directory for the per-file outputs (overrides config)")
	analyzeBatchCmd.Flags().BoolVar(&abNoCharts, "no-charts", false, "skip chart rendering")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	addInputFlags(analyzeBatchCmd)
}
