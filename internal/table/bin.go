package table

import (
	"fmt"
	"math"
)

// RangeError reports a value below the first bucket.
type RangeError struct {
	Row   int
	Value float64
	Min   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("row %d: value %g below first bin edge %g", e.Row+1, e.Value, e.Min)
}

// Bin assigns every value to a right-open bucket [lower[i], lower[i+1]). The
// last bucket runs to the observed maximum plus one, so the buckets cover the
// whole observed range. NaN stays missing. The result is an ordered
// categorical over labels.
func Bin(values []float64, lower []float64, labels []string) (*Categorical, error) {
	if len(lower) == 0 || len(lower) != len(labels) {
		return nil, fmt.Errorf("bin: %d edges for %d labels", len(lower), len(labels))
	}
	for i := 1; i < len(lower); i++ {
		if lower[i] <= lower[i-1] {
			return nil, fmt.Errorf("bin: edges must increase (%g after %g)", lower[i], lower[i-1])
		}
	}
	c := &Categorical{
		Domain:  append([]string(nil), labels...),
		Ordered: true,
		Codes:   make([]int, len(values)),
	}
	c.buildIndex()
	for i, v := range values {
		if math.IsNaN(v) {
			c.Codes[i] = Missing
			continue
		}
		if v < lower[0] {
			return nil, &RangeError{Row: i, Value: v, Min: lower[0]}
		}
		b := len(lower) - 1
		for b > 0 && v < lower[b] {
			b--
		}
		c.Codes[i] = b
	}
	return c, nil
}

// edges returns the full bucket edges Bin uses for values: the lower bounds
// followed by the closing upper bound max+1 (at least last lower bound + 1).
func edges(values []float64, lower []float64) []float64 {
	top := lower[len(lower)-1] + 1
	for _, v := range values {
		if !math.IsNaN(v) && v+1 > top {
			top = v + 1
		}
	}
	out := append([]float64(nil), lower...)
	return append(out, top)
}
