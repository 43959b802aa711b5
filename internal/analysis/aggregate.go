// Package analysis implements the aggregation library: pure functions over a
// normalized table, parameterized by field name, and a catalog that lets the
// narrative and chart renderers compute each one independently by key.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// grouping returns the domain and per-row codes of a group-by field.
// Categorical fields use their declared domain; numeric fields use the sorted
// distinct observed values.
func grouping(t *table.Table, field string) ([]string, []int, error) {
	if t.IsCategorical(field) {
		c, err := t.Categorical(field)
		if err != nil {
			return nil, nil, err
		}
		return c.Domain, c.Codes, nil
	}
	vals, err := t.Numeric(field)
	if err != nil {
		return nil, nil, err
	}
	seen := make(map[float64]struct{})
	var distinct []float64
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Float64s(distinct)
	pos := make(map[float64]int, len(distinct))
	labels := make([]string, len(distinct))
	for i, v := range distinct {
		pos[v] = i
		labels[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	codes := make([]int, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			codes[i] = table.Missing
			continue
		}
		codes[i] = pos[v]
	}
	return labels, codes, nil
}

// Rate returns the value counts of field over its full domain with
// percentages of the non-missing rows. All percentages are zero when there
// are no such rows.
func Rate(t *table.Table, field string) (*Distribution, error) {
	labels, codes, err := grouping(t, field)
	if err != nil {
		return nil, fmt.Errorf("rate %s: %w", field, err)
	}
	d := &Distribution{
		Field:   field,
		Labels:  append([]string(nil), labels...),
		Counts:  make([]int, len(labels)),
		Percent: make([]float64, len(labels)),
	}
	for _, c := range codes {
		if c != table.Missing {
			d.Counts[c]++
		}
	}
	if total := d.Total(); total > 0 {
		for i, c := range d.Counts {
			d.Percent[i] = float64(c) * 100 / float64(total)
		}
	}
	return d, nil
}

// CrossTabulate counts rows per (rowField, colField) pair and normalizes each row
// to percentages. Rows with no data stay in the table with 0.00.
func CrossTabulate(t *table.Table, rowField, colField string) (*CrossTab, error) {
	rows, rc, err := grouping(t, rowField)
	if err != nil {
		return nil, fmt.Errorf("crosstab %s x %s: %w", rowField, colField, err)
	}
	cols, cc, err := grouping(t, colField)
	if err != nil {
		return nil, fmt.Errorf("crosstab %s x %s: %w", rowField, colField, err)
	}
	ct := &CrossTab{
		Row:     rowField,
		Col:     colField,
		Rows:    append([]string(nil), rows...),
		Cols:    append([]string(nil), cols...),
		Counts:  make([][]int, len(rows)),
		Percent: make([][]float64, len(rows)),
	}
	for i := range rows {
		ct.Counts[i] = make([]int, len(cols))
		ct.Percent[i] = make([]float64, len(cols))
	}
	for k := range rc {
		if rc[k] == table.Missing || cc[k] == table.Missing {
			continue
		}
		ct.Counts[rc[k]][cc[k]]++
	}
	for i := range rows {
		total := 0
		for _, v := range ct.Counts[i] {
			total += v
		}
		if total == 0 {
			continue
		}
		for j, v := range ct.Counts[i] {
			ct.Percent[i][j] = float64(v) * 100 / float64(total)
		}
	}
	return ct, nil
}

// CountTable is CrossTab read as joint counts.
func CountTable(t *table.Table, rowField, colField string) (Counts, error) {
	ct, err := CrossTabulate(t, rowField, colField)
	if err != nil {
		return Counts{}, err
	}
	return Counts{ct}, nil
}

// GroupMean averages a numeric field per category of by. Groups without
// values have a NaN mean.
func GroupMean(t *table.Table, field, by string) (*GroupMeans, error) {
	vals, err := t.Numeric(field)
	if err != nil {
		return nil, fmt.Errorf("mean %s by %s: %w", field, by, err)
	}
	groups, codes, err := grouping(t, by)
	if err != nil {
		return nil, fmt.Errorf("mean %s by %s: %w", field, by, err)
	}
	buckets := split(vals, codes, len(groups))
	g := &GroupMeans{
		Field:  field,
		By:     by,
		Groups: append([]string(nil), groups...),
		Sizes:  make([]int, len(groups)),
		Means:  make([]float64, len(groups)),
	}
	for i, b := range buckets {
		g.Sizes[i] = len(b)
		if len(b) == 0 {
			g.Means[i] = math.NaN()
			continue
		}
		g.Means[i] = stat.Mean(b, nil)
	}
	return g, nil
}

// Describe computes count, missing, mean, sample std, min, quartiles and max
// of a numeric field.
func Describe(t *table.Table, field string) (Summary, error) {
	vals, err := t.Numeric(field)
	if err != nil {
		return Summary{}, fmt.Errorf("describe %s: %w", field, err)
	}
	present := nonMissing(vals)
	s := describe(field, present)
	s.Missing = len(vals) - len(present)
	return s, nil
}

// GroupDescribe computes Describe per category of by.
func GroupDescribe(t *table.Table, field, by string) (*GroupSummary, error) {
	vals, err := t.Numeric(field)
	if err != nil {
		return nil, fmt.Errorf("describe %s by %s: %w", field, by, err)
	}
	groups, codes, err := grouping(t, by)
	if err != nil {
		return nil, fmt.Errorf("describe %s by %s: %w", field, by, err)
	}
	g := &GroupSummary{Field: field, By: by, Groups: append([]string(nil), groups...)}
	for _, b := range split(vals, codes, len(groups)) {
		g.Stats = append(g.Stats, describe(field, b))
	}
	return g, nil
}

// DescribeAll runs Describe over every numeric column in table order.
func DescribeAll(t *table.Table) (*SummaryTable, error) {
	out := &SummaryTable{}
	for _, name := range t.NumericColumns() {
		s, err := Describe(t, name)
		if err != nil {
			return nil, err
		}
		out.Stats = append(out.Stats, s)
	}
	return out, nil
}

// Missing counts missing cells per column.
func Missing(t *table.Table) (*MissingCounts, error) {
	m := &MissingCounts{}
	for _, name := range t.Columns() {
		n := 0
		if t.IsNumeric(name) {
			vals, _ := t.Numeric(name)
			for _, v := range vals {
				if math.IsNaN(v) {
					n++
				}
			}
		} else {
			c, err := t.Categorical(name)
			if err != nil {
				return nil, err
			}
			for _, code := range c.Codes {
				if code == table.Missing {
					n++
				}
			}
		}
		m.Columns = append(m.Columns, name)
		m.Counts = append(m.Counts, n)
	}
	return m, nil
}

// Binned returns a copy of t with the chart-local grouping of spec added.
// t itself is not modified.
func Binned(t *table.Table, spec schema.BinSpec) (*table.Table, error) {
	vals, err := t.Numeric(spec.Source)
	if err != nil {
		return nil, fmt.Errorf("bin %s: %w", spec.Target, err)
	}
	c, err := table.Bin(vals, spec.Lower, spec.Labels)
	if err != nil {
		return nil, fmt.Errorf("bin %s: %w", spec.Target, err)
	}
	return t.With(spec.Target, c)
}

// BinnedCrossTab cross-tabulates a chart-local grouping against colField.
func BinnedCrossTab(t *table.Table, spec schema.BinSpec, colField string) (*CrossTab, error) {
	bt, err := Binned(t, spec)
	if err != nil {
		return nil, err
	}
	return CrossTabulate(bt, spec.Target, colField)
}

func describe(field string, vals []float64) Summary {
	s := Summary{Field: field, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Mean = stat.Mean(sorted, nil)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	if len(sorted) > 1 && s.Min != s.Max {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

func split(vals []float64, codes []int, n int) [][]float64 {
	out := make([][]float64, n)
	for i, v := range vals {
		if codes[i] == table.Missing || math.IsNaN(v) {
			continue
		}
		out[codes[i]] = append(out[codes[i]], v)
	}
	return out
}

func nonMissing(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
