package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinPartitionsObservedRange(t *testing.T) {
	values := []float64{0, 0.5, 1, 2, 2.99, 3, 4, 5, 9, 10, 37, 40}
	lower := []float64{0, 1, 3, 5, 10, 15, 20}
	labels := []string{"<1", "1-3", "3-5", "5-10", "10-15", "15-20", "20+"}

	c, err := Bin(values, lower, labels)
	require.NoError(t, err)

	bounds := edges(values, lower)
	require.Len(t, bounds, len(lower)+1)
	assert.Equal(t, 41.0, bounds[len(bounds)-1])

	for i, v := range values {
		code := c.Codes[i]
		require.NotEqual(t, Missing, code, "value %v unassigned", v)
		hits := 0
		for b := 0; b < len(lower); b++ {
			if v >= bounds[b] && v < bounds[b+1] {
				hits++
				assert.Equal(t, b, code, "value %v", v)
			}
		}
		assert.Equal(t, 1, hits, "value %v must fall in exactly one bucket", v)
	}
	want := []int{0, 0, 1, 1, 1, 2, 2, 3, 3, 4, 6, 6}
	assert.Equal(t, want, c.Codes)
}

func TestBinKeepsUpperBucketsWhenMaxIsSmall(t *testing.T) {
	c, err := Bin([]float64{0, 1, 2}, []float64{0, 1, 2, 5}, []string{"0", "1", "2-4", "5+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2-4", "5+"}, c.Domain)
	assert.Equal(t, []int{0, 1, 2}, c.Codes)
	assert.Equal(t, []float64{0, 1, 2, 5, 6}, edges([]float64{0, 1, 2}, []float64{0, 1, 2, 5}))
}
