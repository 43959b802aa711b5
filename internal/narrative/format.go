package narrative

import (
	"math"
	"strconv"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
)

// f2 formats percentages, means and coefficients.
func f2(v float64) string { return num(v, 2) }

// f0 formats counts and whole-number statistics.
func f0(v float64) string { return num(v, 0) }

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// relation compares a to b at the precision they are printed with.
func relation(a, b float64) string {
	if math.IsNaN(a) || math.IsNaN(b) {
		return "not comparable to"
	}
	ra, rb := math.Round(a*100), math.Round(b*100)
	switch {
	case ra > rb:
		return "higher than"
	case ra < rb:
		return "lower than"
	default:
		return "equal to"
	}
}

// strength describes the magnitude and sign of a correlation coefficient.
func strength(r float64) string {
	if math.IsNaN(r) {
		return "undefined"
	}
	sign := "positive"
	if r < 0 {
		sign = "negative"
	}
	a := math.Abs(r)
	switch {
	case a >= 0.7:
		return "strong " + sign
	case a >= 0.4:
		return "moderate " + sign
	case a >= 0.2:
		return "weak " + sign
	default:
		return "very weak"
	}
}

// extremes returns the rows of ct with the highest and lowest percentage in
// col. Empty rows are ignored; ok is false when every row is empty.
func extremes(ct *analysis.CrossTab, col string) (hi, lo string, ok bool) {
	best, worst := math.Inf(-1), math.Inf(1)
	for _, row := range ct.Rows {
		n, err := ct.RowTotal(row)
		if err != nil || n == 0 {
			continue
		}
		v, err := ct.Pct(row, col)
		if err != nil {
			continue
		}
		if v > best {
			best, hi = v, row
		}
		if v < worst {
			worst, lo = v, row
		}
		ok = true
	}
	return hi, lo, ok
}

// largest returns the most frequent label of d, or "" when d is empty.
func largest(d *analysis.Distribution) string {
	best, label := 0, ""
	for i, c := range d.Counts {
		if c > best {
			best, label = c, d.Labels[i]
		}
	}
	return label
}
