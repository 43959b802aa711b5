package normalize_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/normalize"
	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/table"
	"github.com/KaramelBytes/attrition-cli/internal/testutil"
)

func load(t *testing.T, recs [][]string) *dataset.Raw {
	t.Helper()
	raw, err := dataset.FromRecords("hr.csv", recs)
	require.NoError(t, err)
	return raw
}

func TestNormalizeShape(t *testing.T) {
	raw := load(t, testutil.Records(40))
	res, err := normalize.Normalize(raw, normalize.Options{})
	require.NoError(t, err)

	tb := res.Table
	assert.Equal(t, 40, tb.Rows())
	assert.Len(t, tb.Columns(), 32)
	assert.Equal(t, []string{"AgeGroup"}, res.Derived)
	assert.ElementsMatch(t, schema.Dropped, res.Dropped)
	assert.Empty(t, res.Ignored)
	assert.Equal(t, 0, res.Duplicates)
	for _, name := range schema.Dropped {
		assert.False(t, tb.Has(name), name)
	}
	for _, name := range schema.Categorical {
		assert.True(t, tb.IsCategorical(name), name)
	}
	assert.True(t, tb.IsNumeric("MonthlyIncome"))
	assert.True(t, tb.IsNumeric("StockOptionLevel"))
}

func TestOrdinalMapping(t *testing.T) {
	recs := testutil.Records(5)
	res, err := normalize.Normalize(load(t, recs), normalize.Options{})
	require.NoError(t, err)

	edu, err := res.Table.Categorical("Education")
	require.NoError(t, err)
	assert.True(t, edu.Ordered)
	got := make([]string, edu.Len())
	for i := range got {
		got[i], _ = edu.Label(i)
	}
	assert.Equal(t, []string{"Below College", "College", "Bachelor", "Master", "Doctor"}, got)

	perf, err := res.Table.Categorical("PerformanceRating")
	require.NoError(t, err)
	lb, _ := perf.Label(0)
	assert.Equal(t, "Outstanding", lb)
	lb, _ = perf.Label(1)
	assert.Equal(t, "Good", lb)
}

func TestUnmappedOrdinalFails(t *testing.T) {
	recs := testutil.Records(10)
	testutil.Set(recs, "Education", 2, "6")

	_, err := normalize.Normalize(load(t, recs), normalize.Options{})
	var ue *schema.UnmappedOrdinalValueError
	require.True(t, errors.As(err, &ue), "got %v", err)
	assert.Equal(t, "Education", ue.Field)
	assert.Equal(t, 3, ue.Row)
	assert.Equal(t, "6", ue.Value)
}

func TestOrdinalLabelsOnlyWhenRenormalizing(t *testing.T) {
	recs := testutil.Records(10)
	testutil.Set(recs, "Education", 2, "Bachelor")

	_, err := normalize.Normalize(load(t, recs), normalize.Options{})
	var ue *schema.UnmappedOrdinalValueError
	require.True(t, errors.As(err, &ue), "got %v", err)
	assert.Equal(t, "Education", ue.Field)
	assert.Equal(t, "Bachelor", ue.Value)

	res, err := normalize.Normalize(load(t, recs), normalize.Options{SkipPresenceCheck: true})
	require.NoError(t, err)
	edu, err := res.Table.Categorical("Education")
	require.NoError(t, err)
	lb, ok := edu.Label(2)
	require.True(t, ok)
	assert.Equal(t, "Bachelor", lb)
}

func TestMissingOrdinalStaysMissing(t *testing.T) {
	recs := testutil.Records(4)
	testutil.Set(recs, "JobSatisfaction", 1, "")
	res, err := normalize.Normalize(load(t, recs), normalize.Options{})
	require.NoError(t, err)
	js, err := res.Table.Categorical("JobSatisfaction")
	require.NoError(t, err)
	assert.Equal(t, table.Missing, js.Codes[1])
}

func TestMissingColumnIsSchemaError(t *testing.T) {
	recs := testutil.WithoutColumn(testutil.Records(5), "MonthlyIncome")
	_, err := normalize.Normalize(load(t, recs), normalize.Options{})
	var se *schema.SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, []string{"MonthlyIncome"}, se.Columns)
}

func TestSchemaErrors(t *testing.T) {
	cases := []struct {
		name, column, value string
	}{
		{"non-numeric income", "MonthlyIncome", "lots"},
		{"unknown gender", "Gender", "Femal"},
		{"age below first bin", "Age", "17"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := testutil.Records(6)
			testutil.Set(recs, tc.column, 4, tc.value)
			_, err := normalize.Normalize(load(t, recs), normalize.Options{})
			var se *schema.SchemaError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, []string{tc.column}, se.Columns)
			assert.Equal(t, 5, se.Row)
		})
	}
}

func TestAgeGroupBoundaries(t *testing.T) {
	// The top bucket is closed at the observed maximum, so 60 and older
	// stay in 51+ rather than falling out of the grouping.
	ages := []string{"18", "29", "30", "39", "40", "49", "50", "60", "61", "75"}
	recs := testutil.Records(len(ages))
	testutil.SetAll(recs, "Age", func(i int) string { return ages[i] })

	res, err := normalize.Normalize(load(t, recs), normalize.Options{})
	require.NoError(t, err)
	ag, err := res.Table.Categorical("AgeGroup")
	require.NoError(t, err)
	var got []string
	for i := 0; i < ag.Len(); i++ {
		lb, ok := ag.Label(i)
		require.True(t, ok)
		got = append(got, lb)
	}
	assert.Equal(t, []string{"18-30", "18-30", "31-40", "31-40", "41-50", "41-50", "51+", "51+", "51+", "51+"}, got)
}

func TestDuplicatesCountedNotRemoved(t *testing.T) {
	recs := testutil.Records(6)
	// Same as row 0 except the identifier, which is dropped first.
	dup := append([]string(nil), recs[1]...)
	dup[testutil.Index(recs, "EmployeeNumber")] = "999"
	recs = append(recs, dup)

	res, err := normalize.Normalize(load(t, recs), normalize.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 7, res.Table.Rows())
}

func TestIgnoresUnknownColumns(t *testing.T) {
	recs := testutil.Records(3)
	recs[0] = append(recs[0], "Notes")
	for i := 1; i < len(recs); i++ {
		recs[i] = append(recs[i], "x")
	}
	res, err := normalize.Normalize(load(t, recs), normalize.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes"}, res.Ignored)
	assert.False(t, res.Table.Has("Notes"))
}

func TestRenormalizeIsIdempotent(t *testing.T) {
	first, err := normalize.Normalize(load(t, testutil.Records(30)), normalize.Options{})
	require.NoError(t, err)
	out := normalize.Records(first.Table)

	second, err := normalize.Normalize(load(t, out), normalize.Options{SkipPresenceCheck: true})
	require.NoError(t, err)
	assert.Equal(t, out, normalize.Records(second.Table))
	assert.Empty(t, second.Dropped)
	assert.Equal(t, []string{"AgeGroup"}, second.Ignored)
}

func TestRenormalizeNeedsPresenceCheckDisabled(t *testing.T) {
	first, err := normalize.Normalize(load(t, testutil.Records(10)), normalize.Options{})
	require.NoError(t, err)
	_, err = normalize.Normalize(load(t, normalize.Records(first.Table)), normalize.Options{})
	var se *schema.SchemaError
	require.True(t, errors.As(err, &se))
	assert.ElementsMatch(t, schema.Dropped, se.Columns)
}
