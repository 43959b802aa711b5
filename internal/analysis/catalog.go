package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// Func computes one aggregate from a normalized table.
type Func func(t *table.Table) (Result, error)

// Entry is a named aggregate.
type Entry struct {
	Name        string
	Description string
	Fn          Func
}

// Catalog is a registry of named aggregates. Every Compute call derives its
// result from the table alone, so callers never share result objects.
type Catalog struct {
	entries map[string]Entry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds an aggregate. Names must be unique.
func (c *Catalog) Register(name, description string, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("register aggregate: name and function are required")
	}
	if _, dup := c.entries[name]; dup {
		return fmt.Errorf("register aggregate %s: already registered", name)
	}
	c.entries[name] = Entry{Name: name, Description: description, Fn: fn}
	return nil
}

// MustRegister is Register that panics on error.
func (c *Catalog) MustRegister(name, description string, fn Func) {
	if err := c.Register(name, description, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered under name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.entries))
	for n := range c.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Compute runs the aggregate registered under name.
func (c *Catalog) Compute(t *table.Table, name string) (Result, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAggregate, name)
	}
	res, err := e.Fn(t)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", name, err)
	}
	return res, nil
}

// Get computes name and asserts the result type.
func Get[R Result](c *Catalog, t *table.Table, name string) (R, error) {
	var zero R
	res, err := c.Compute(t, name)
	if err != nil {
		return zero, err
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("aggregate %s: result is %T, want %T", name, res, zero)
	}
	return r, nil
}

// Keys of the whole-table aggregates.
const (
	DescribeAllKey = "describe:*"
	CorrMatrixKey  = "corrmatrix:*"
	MissingKey     = "missing:*"
)

func key(parts ...string) string { return strings.Join(parts, ":") }

// Catalog key builders.

func RateKey(field string) string { return key("rate", field) }
func CrossTabKey(row, col string) string { return key("crosstab", row, col) }
func CountsKey(row, col string) string { return key("counts", row, col) }
func MeanKey(field, by string) string { return key("mean", field, by) }
func DescribeKey(field string) string { return key("describe", field) }
func GroupDescribeKey(field, by string) string { return key("describe", field, by) }
func CorrKey(a, b string) string { return key("corr", a, b) }
func CodeCorrKey(a, b string) string { return key("codecorr", a, b) }
func HistKey(field string, bins int) string { return key("hist", field, strconv.Itoa(bins)) }
func BoxKey(field, by string) string { return key("box", field, by) }

// Fields the default catalog covers.
var (
	RateFields = []string{
		schema.Target, "Gender", "MaritalStatus", "AgeGroup", "Department", "JobRole",
		"OverTime", "BusinessTravel", "Education", "EducationField", "JobLevel",
		"StockOptionLevel", "JobSatisfaction", "EnvironmentSatisfaction",
		"RelationshipSatisfaction", "WorkLifeBalance", "JobInvolvement", "PerformanceRating",
	}
	TargetMeanFields = []string{
		"Age", "DistanceFromHome", "MonthlyIncome", "PercentSalaryHike", "NumCompaniesWorked",
		"TotalWorkingYears", "TrainingTimesLastYear", "YearsAtCompany",
		"YearsSinceLastPromotion", "YearsWithCurrManager",
	}
	DescribeFields = []string{
		"Age", "DistanceFromHome", "HourlyRate", "MonthlyIncome", "MonthlyRate", "TrainingTimesLastYear",
	}
	IncomeGroupings = []string{"JobLevel", "Department", "JobRole", "JobSatisfaction"}
	TenureGroupings = []schema.BinSpec{
		schema.YearsAtCompanyGroup, schema.YearsSincePromotionGroup, schema.YearsWithManagerGroup,
	}
	Histograms = []struct {
		Field string
		Bins  int
	}{
		{"Age", 15}, {"MonthlyIncome", 20}, {"DistanceFromHome", 10}, {"TotalWorkingYears", 10},
	}
)

// DefaultCatalog registers every aggregate the report and the charts use.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, f := range RateFields {
		f := f
		c.MustRegister(RateKey(f), "value counts and percentages of "+f,
			func(t *table.Table) (Result, error) { return Rate(t, f) })
		if f == schema.Target {
			continue
		}
		c.MustRegister(CrossTabKey(f, schema.Target), "attrition rate by "+f,
			func(t *table.Table) (Result, error) { return CrossTabulate(t, f, schema.Target) })
	}
	for _, spec := range TenureGroupings {
		spec := spec
		c.MustRegister(CrossTabKey(spec.Target, schema.Target), "attrition rate by "+spec.Target+" (chart-local binning)",
			func(t *table.Table) (Result, error) { return BinnedCrossTab(t, spec, schema.Target) })
	}
	c.MustRegister(CountsKey("JobRole", "JobSatisfaction"), "job satisfaction counts per job role",
		func(t *table.Table) (Result, error) { return CountTable(t, "JobRole", "JobSatisfaction") })
	for _, f := range TargetMeanFields {
		f := f
		c.MustRegister(MeanKey(f, schema.Target), "mean "+f+" of leavers and stayers",
			func(t *table.Table) (Result, error) { return GroupMean(t, f, schema.Target) })
	}
	for _, f := range DescribeFields {
		f := f
		c.MustRegister(DescribeKey(f), "descriptive statistics of "+f,
			func(t *table.Table) (Result, error) { return Describe(t, f) })
	}
	for _, by := range IncomeGroupings {
		by := by
		c.MustRegister(GroupDescribeKey("MonthlyIncome", by), "monthly income statistics by "+by,
			func(t *table.Table) (Result, error) { return GroupDescribe(t, "MonthlyIncome", by) })
	}
	c.MustRegister(CorrKey("TotalWorkingYears", "MonthlyIncome"), "experience vs income correlation",
		func(t *table.Table) (Result, error) { return Pearson(t, "TotalWorkingYears", "MonthlyIncome") })
	c.MustRegister(CodeCorrKey("JobInvolvement", "PerformanceRating"), "involvement vs rating correlation on ordinal codes",
		func(t *table.Table) (Result, error) { return CodeCorrelation(t, "JobInvolvement", "PerformanceRating") })
	for _, h := range Histograms {
		h := h
		c.MustRegister(HistKey(h.Field, h.Bins), fmt.Sprintf("%d-bin histogram of %s", h.Bins, h.Field),
			func(t *table.Table) (Result, error) { return HistogramOf(t, h.Field, h.Bins) })
	}
	c.MustRegister(BoxKey("MonthlyIncome", "JobLevel"), "monthly income spread by job level",
		func(t *table.Table) (Result, error) { return BoxStats(t, "MonthlyIncome", "JobLevel") })
	c.MustRegister(BoxKey("DistanceFromHome", schema.Target), "commute distance spread of leavers and stayers",
		func(t *table.Table) (Result, error) { return BoxStats(t, "DistanceFromHome", schema.Target) })
	c.MustRegister(DescribeAllKey, "descriptive statistics of every numeric column",
		func(t *table.Table) (Result, error) { return DescribeAll(t) })
	c.MustRegister(CorrMatrixKey, "correlation matrix of the numeric columns",
		func(t *table.Table) (Result, error) { return CorrelationMatrix(t) })
	c.MustRegister(MissingKey, "missing cells per column",
		func(t *table.Table) (Result, error) { return Missing(t) })
	return c
}
