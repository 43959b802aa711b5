package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/attrition-cli/internal/schema"
)

func TestExpectedColumns(t *testing.T) {
	cols := schema.Expected()
	assert.Len(t, cols, 35)
	seen := map[string]bool{}
	for _, c := range cols {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
	for _, d := range schema.Dropped {
		assert.True(t, seen[d], "dropped column %s must be expected", d)
	}
}

func TestLookups(t *testing.T) {
	lb, ok := schema.EducationLevels.Label(5)
	require.True(t, ok)
	assert.Equal(t, "Doctor", lb)

	_, ok = schema.EducationLevels.Label(6)
	assert.False(t, ok)

	_, ok = schema.PerformanceLevels.Label(1)
	assert.False(t, ok, "performance codes start at 3")

	assert.True(t, schema.SatisfactionLevels.HasLabel("Very High"))
	assert.False(t, schema.SatisfactionLevels.HasLabel("very high"))
}

func TestEveryLabelFieldHasDomain(t *testing.T) {
	for _, c := range schema.Columns {
		if c.Kind == schema.Numeric {
			continue
		}
		labels, _, ok := schema.Domain(c.Name)
		require.True(t, ok, "no domain for %s", c.Name)
		assert.NotEmpty(t, labels)
	}
	for _, name := range schema.Categorical {
		_, _, ok := schema.Domain(name)
		assert.True(t, ok, "categorical %s has no declared domain", name)
	}
}

func TestBinSpecsWellFormed(t *testing.T) {
	for _, b := range []schema.BinSpec{
		schema.AgeGroup,
		schema.YearsAtCompanyGroup,
		schema.YearsSincePromotionGroup,
		schema.YearsWithManagerGroup,
	} {
		require.Len(t, b.Labels, len(b.Lower), b.Target)
		for i := 1; i < len(b.Lower); i++ {
			assert.Less(t, b.Lower[i-1], b.Lower[i], b.Target)
		}
		kind, ok := schema.KindOf(b.Source)
		require.True(t, ok)
		assert.Equal(t, schema.Numeric, kind)
	}
}
