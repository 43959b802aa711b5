package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/attrition-cli/internal/charts"
	"github.com/KaramelBytes/attrition-cli/internal/output"
	"github.com/KaramelBytes/attrition-cli/internal/testutil"
)

// resetFlags clears values and Changed state that persist across Execute
// calls on the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	loadConfig()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "command %v failed:\n%s", args, out)
	return out
}

// isolate points HOME and the working directory at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ATTRITION_LOG_LEVEL", "error")
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return home
}

func TestCLI_AnalyzeWritesReportAndCharts(t *testing.T) {
	home := isolate(t)
	src := testutil.WriteCSV(t, home, "hr.csv", testutil.Records(120))
	outDir := filepath.Join(home, "out")

	out := runCmd(t, "analyze", src, "-o", outDir, "--dpi", "50")
	assert.Contains(t, out, "Wrote 23 of 23 artifacts")

	report, err := os.ReadFile(filepath.Join(outDir, "HR_Attrition_Report_Text.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "20.00% of employees left the company, while 80.00% remained.")
	for _, name := range charts.Names() {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.FileExists(t, filepath.Join(outDir, output.ManifestName))
}

func TestCLI_AnalyzeNoChartsAndPrint(t *testing.T) {
	home := isolate(t)
	src := testutil.WriteCSV(t, home, "hr.csv", testutil.Records(60))
	outDir := filepath.Join(home, "out")

	out := runCmd(t, "analyze", src, "-o", outDir, "--no-charts", "--print", "--report-name", "r.txt")
	assert.Contains(t, out, "--- 1. Data Cleaning & Preparation ---")
	assert.Contains(t, out, "Chart rendering was disabled for this run.")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"r.txt", output.ManifestName}, names)
}

func TestCLI_AnalyzeRejectsBadInput(t *testing.T) {
	home := isolate(t)
	records := testutil.Records(30)
	testutil.Set(records, "Education", 4, "9")
	src := testutil.WriteCSV(t, home, "bad.csv", records)
	outDir := filepath.Join(home, "out")

	_, err := execute(t, "analyze", src, "-o", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Education")
	_, statErr := os.Stat(filepath.Join(outDir, "HR_Attrition_Report_Text.txt"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = execute(t, "analyze", src, "--dpi", "10")
	assert.Error(t, err)
}

func TestCLI_NormalizeWritesCSV(t *testing.T) {
	home := isolate(t)
	src := testutil.WriteCSV(t, home, "hr.csv", testutil.Records(40))
	dst := filepath.Join(home, "clean.csv")

	out := runCmd(t, "normalize", src, "-o", dst)
	assert.Contains(t, out, "Wrote 40 rows")

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 41)
	assert.Contains(t, recs[0], "AgeGroup")
	assert.NotContains(t, recs[0], "EmployeeCount")
}

func TestCLI_AggregatePrintsTable(t *testing.T) {
	home := isolate(t)
	src := testutil.WriteCSV(t, home, "hr.csv", testutil.Records(50))

	out := runCmd(t, "aggregate", src, "rate:Attrition", "crosstab:Department:Attrition")
	assert.Contains(t, out, "rate:Attrition")
	assert.Contains(t, out, "Yes")
	assert.Contains(t, out, "Research & Development")

	_, err := execute(t, "aggregate", src, "nope:*")
	assert.Error(t, err)
}

func TestCLI_List(t *testing.T) {
	isolate(t)
	out := runCmd(t, "list", "--charts")
	assert.Contains(t, out, "- correlation_matrix_heatmap.png")
	assert.Equal(t, len(charts.Names()), strings.Count(out, "\n"))

	out = runCmd(t, "list", "--aggregates")
	assert.Contains(t, out, "- rate:Attrition:")

	_, err := execute(t, "list")
	assert.Error(t, err)
}

func TestCLI_ChartRendersOnlySelected(t *testing.T) {
	home := isolate(t)
	src := testutil.WriteCSV(t, home, "hr.csv", testutil.Records(60))
	outDir := filepath.Join(home, "charts")

	out := runCmd(t, "chart", src, "overall_attrition_pie_chart.png", "-o", outDir, "--dpi", "50")
	assert.Contains(t, out, "overall_attrition_pie_chart.png")
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "overall_attrition_pie_chart.png", entries[0].Name())

	_, err = execute(t, "chart", src, "nope.png", "-o", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart: nope.png")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolate(t)
	runCmd(t, "config", "set", "chart_dpi", "120")
	assert.FileExists(t, filepath.Join(home, ".attrition", "config.yaml"))

	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "chart_dpi: 120\n")
	assert.Contains(t, out, "output_dir: output\n")

	runCmd(t, "config", "set", "decimal_separator", "comma")
	out = runCmd(t, "config", "show")
	assert.Contains(t, out, "decimal_separator: comma\n")
	opt, err := normalizeOptions()
	require.NoError(t, err)
	assert.Equal(t, ',', opt.DecimalSeparator)

	_, err = execute(t, "config", "set", "chart_dpi", "1000")
	assert.Error(t, err)
	_, err = execute(t, "config", "set", "bogus", "1")
	assert.Error(t, err)
}

func TestCLI_AnalyzeBatchSeparatesSameBaseName(t *testing.T) {
	home := isolate(t)
	d1, d2 := filepath.Join(home, "d1"), filepath.Join(home, "d2")
	require.NoError(t, os.MkdirAll(d1, 0o755))
	require.NoError(t, os.MkdirAll(d2, 0o755))
	testutil.WriteCSV(t, d1, "hr.csv", testutil.Records(30))
	testutil.WriteCSV(t, d2, "hr.csv", testutil.Records(35))
	outDir := filepath.Join(home, "out")

	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "hr.csv"), "-o", outDir, "--no-charts")
	assert.Contains(t, out, "[1/2] Processing hr.csv...")
	assert.Contains(t, out, "[2/2] Processing hr.csv...")
	assert.FileExists(t, filepath.Join(outDir, "hr", "HR_Attrition_Report_Text.txt"))
	assert.FileExists(t, filepath.Join(outDir, "hr__2", "HR_Attrition_Report_Text.txt"))

	_, err := execute(t, "analyze-batch", filepath.Join(home, "none*.csv"))
	assert.Error(t, err)
}
