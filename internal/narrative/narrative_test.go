package narrative_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/narrative"
	"github.com/KaramelBytes/attrition-cli/internal/normalize"
	"github.com/KaramelBytes/attrition-cli/internal/table"
	"github.com/KaramelBytes/attrition-cli/internal/testutil"
)

func normalized(t *testing.T, records [][]string) *table.Table {
	t.Helper()
	raw, err := dataset.FromRecords("hr.csv", records)
	require.NoError(t, err)
	res, err := normalize.Normalize(raw, normalize.Options{})
	require.NoError(t, err)
	return res.Table
}

func TestRenderSectionOrder(t *testing.T) {
	tb := normalized(t, testutil.Records(120))
	doc, err := narrative.New(analysis.DefaultCatalog()).Render(tb, narrative.Meta{
		Source:     "hr.csv",
		Duplicates: 2,
		Charts:     []string{"overall_attrition_pie_chart.png"},
	})
	require.NoError(t, err)

	want := []string{
		"Data Cleaning & Preparation",
		"Attrition Analysis (Target Focus)",
		"Workforce Demographics",
		"Compensation & Career Progression",
		"Satisfaction & Engagement Analysis",
		"Performance & Development",
		"Advanced Attrition Prediction",
		"Visualizations",
		"Insights & HR Recommendations",
	}
	require.Len(t, doc.Sections, len(want))
	out := doc.String()
	last := -1
	for i, title := range want {
		assert.Equal(t, title, doc.Sections[i].Title)
		header := "--- " + string(rune('1'+i)) + ". " + title + " ---"
		at := strings.Index(out, header)
		require.GreaterOrEqual(t, at, 0, header)
		assert.Greater(t, at, last)
		last = at
	}

	assert.Contains(t, out, "Found 2 duplicates.")
	assert.Contains(t, out, "The dataset contains 120 rows (employees) and 32 columns (attributes) after cleaning.")
	assert.Contains(t, out, "20.00% of employees left the company, while 80.00% remained.")
	assert.Contains(t, out, "- overall_attrition_pie_chart.png")
	assert.NotContains(t, out, "n/a%")
}

func TestRenderNoCharts(t *testing.T) {
	tb := normalized(t, testutil.Records(60))
	doc, err := narrative.New(analysis.DefaultCatalog()).Render(tb, narrative.Meta{NoCharts: true})
	require.NoError(t, err)
	assert.Contains(t, doc.String(), "Chart rendering was disabled for this run.")
}

func TestRenderMissingCategory(t *testing.T) {
	records := testutil.Records(60)
	testutil.SetAll(records, "StockOptionLevel", func(int) string { return "1" })
	tb := normalized(t, records)

	doc, err := narrative.New(analysis.DefaultCatalog()).Render(tb, narrative.Meta{})
	require.Error(t, err)
	assert.Nil(t, doc)
	var nf *analysis.CategoryNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "0", nf.Label)
}

// tableCells returns the trimmed cells of every table row in out, header
// included, skipping separator lines.
func tableCells(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "|") || strings.HasPrefix(line, "|-") {
			continue
		}
		var cells []string
		for _, c := range strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|") {
			cells = append(cells, strings.TrimSpace(c))
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestPrintedAggregatesParseBack(t *testing.T) {
	tb := normalized(t, testutil.Records(97))
	ct, err := analysis.CrossTabulate(tb, "Department", "Attrition")
	require.NoError(t, err)
	dist, err := analysis.Rate(tb, "JobRole")
	require.NoError(t, err)

	doc := &narrative.Document{}
	doc.AddSection("Rates").Table(narrative.TableFrom(ct.Records()))
	doc.AddSection("Counts").Table(narrative.TableFrom(analysis.Counts{CrossTab: ct}.Records()))
	doc.AddSection("Roles").Table(narrative.TableFrom(dist.Records()))
	parts := strings.Split(doc.String(), "\n--- ")
	require.Len(t, parts, 3)

	parse := func(s string) float64 {
		t.Helper()
		v, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err, s)
		return v
	}

	rates := tableCells(parts[0])
	require.Len(t, rates, 1+len(ct.Rows))
	assert.Equal(t, append([]string{"Department"}, ct.Cols...), rates[0])
	counts := tableCells(parts[1])
	require.Len(t, counts, 1+len(ct.Rows))
	for i, row := range ct.Rows {
		assert.Equal(t, row, rates[i+1][0])
		assert.Equal(t, row, counts[i+1][0])
		for j := range ct.Cols {
			assert.InDelta(t, ct.Percent[i][j], parse(rates[i+1][j+1]), 0.005, "%s/%s", row, ct.Cols[j])
			assert.Equal(t, float64(ct.Counts[i][j]), parse(counts[i+1][j+1]), "%s/%s", row, ct.Cols[j])
		}
	}

	roles := tableCells(parts[2])
	require.Len(t, roles, 1+len(dist.Labels))
	for i, lb := range dist.Labels {
		assert.Equal(t, lb, roles[i+1][0])
		assert.Equal(t, float64(dist.Counts[i]), parse(roles[i+1][1]), lb)
		assert.InDelta(t, dist.Percent[i], parse(roles[i+1][2]), 0.005, lb)
	}
}

func TestDocumentLayout(t *testing.T) {
	doc := &narrative.Document{}
	doc.AddSection("One").
		Para("hello %d", 1).
		Table(narrative.TableFrom([][]string{{"k", "v"}, {"a", "1"}, {"bb", "22"}}))
	doc.AddSection("Two").Para("x").Line("y")

	out := doc.String()
	assert.True(t, strings.HasPrefix(out, "--- 1. One ---\n\nhello 1\n|"), out)
	assert.True(t, strings.HasSuffix(out, "\n--- 2. Two ---\n\nx\ny\n"), out)

	assert.Equal(t, [][]string{{"k", "v"}, {"a", "1"}, {"bb", "22"}}, tableCells(out))
}
