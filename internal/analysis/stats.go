package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// Pearson is the correlation coefficient of two numeric fields over the rows
// where both are present. It is NaN with fewer than two such rows or when
// either side is constant.
func Pearson(t *table.Table, a, b string) (*Correlation, error) {
	x, err := t.Numeric(a)
	if err != nil {
		return nil, fmt.Errorf("corr %s ~ %s: %w", a, b, err)
	}
	y, err := t.Numeric(b)
	if err != nil {
		return nil, fmt.Errorf("corr %s ~ %s: %w", a, b, err)
	}
	r, n := pearson(x, y)
	return &Correlation{A: a, B: b, R: r, N: n}, nil
}

// CodeCorrelation is the Pearson coefficient of two categorical fields,
// each encoded by its position in the declared domain. Missing rows are
// excluded.
func CodeCorrelation(t *table.Table, a, b string) (*Correlation, error) {
	x, err := codes(t, a)
	if err != nil {
		return nil, fmt.Errorf("codecorr %s ~ %s: %w", a, b, err)
	}
	y, err := codes(t, b)
	if err != nil {
		return nil, fmt.Errorf("codecorr %s ~ %s: %w", a, b, err)
	}
	r, n := pearson(x, y)
	return &Correlation{A: a, B: b, R: r, N: n, Codes: true}, nil
}

// CorrelationMatrix correlates every pair of numeric columns.
func CorrelationMatrix(t *table.Table) (*CorrMatrix, error) {
	names := t.NumericColumns()
	if len(names) == 0 {
		return nil, errors.New("corrmatrix: no numeric columns")
	}
	cols := make([][]float64, len(names))
	for i, n := range names {
		cols[i], _ = t.Numeric(n)
	}
	mat := make([][]float64, len(names))
	for i := range mat {
		mat[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			r, _ := pearson(cols[i], cols[j])
			mat[i][j] = r
			mat[j][i] = r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}, nil
}

// HistogramOf counts a numeric field into equal-width bins spanning its
// observed range. A constant field gets a unit-wide range around its value.
func HistogramOf(t *table.Table, field string, bins int) (*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("histogram %s: need at least one bin, got %d", field, bins)
	}
	vals, err := t.Numeric(field)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", field, err)
	}
	present := nonMissing(vals)
	if len(present) == 0 {
		return nil, fmt.Errorf("histogram %s: no values", field)
	}
	lo, hi := present[0], present[0]
	for _, v := range present {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	h := &Histogram{Field: field, Edges: make([]float64, bins+1), Counts: make([]int, bins)}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi
	for _, v := range present {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}
	return h, nil
}

// BoxStats computes quartiles and Tukey whiskers (1.5 IQR) of field per
// category of by. Values beyond the whiskers are listed as outliers.
func BoxStats(t *table.Table, field, by string) (*BoxPlot, error) {
	vals, err := t.Numeric(field)
	if err != nil {
		return nil, fmt.Errorf("box %s by %s: %w", field, by, err)
	}
	groups, gc, err := grouping(t, by)
	if err != nil {
		return nil, fmt.Errorf("box %s by %s: %w", field, by, err)
	}
	bp := &BoxPlot{Field: field, By: by}
	for i, b := range split(vals, gc, len(groups)) {
		bp.Boxes = append(bp.Boxes, box(groups[i], b))
	}
	return bp, nil
}

func box(group string, vals []float64) Box {
	bx := Box{Group: group, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		bx.Q1, bx.Median, bx.Q3, bx.LowerWhisker, bx.UpperWhisker = nan, nan, nan, nan, nan
		return bx
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	bx.Q1 = quantile(sorted, 0.25)
	bx.Median = quantile(sorted, 0.5)
	bx.Q3 = quantile(sorted, 0.75)
	iqr := bx.Q3 - bx.Q1
	loFence, hiFence := bx.Q1-1.5*iqr, bx.Q3+1.5*iqr
	bx.LowerWhisker, bx.UpperWhisker = bx.Q1, bx.Q3
	for _, v := range sorted {
		if v >= loFence {
			bx.LowerWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hiFence {
			bx.UpperWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			bx.Outliers = append(bx.Outliers, v)
		}
	}
	return bx
}

func codes(t *table.Table, field string) ([]float64, error) {
	c, err := t.Categorical(field)
	if err != nil {
		return nil, err
	}
	out := make([]float64, c.Len())
	for i, code := range c.Codes {
		if code == table.Missing {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(code)
	}
	return out, nil
}

// pearson correlates the pairwise-complete rows of x and y and returns the
// number of rows used.
func pearson(x, y []float64) (float64, int) {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	n := len(xs)
	if n < 2 || constant(xs) || constant(ys) {
		return math.NaN(), n
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, n
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}
