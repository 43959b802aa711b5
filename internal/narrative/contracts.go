package narrative

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// contract names the aggregate a sentence reads and every category label the
// sentence mentions. Rows are checked against the result's row (or group)
// domain and Cols against its column domain.
type contract struct {
	Key  string
	Rows []string
	Cols []string
}

const target = schema.Target

var (
	left   = schema.Left
	stayed = schema.Stayed
	both   = []string{left, stayed}
	onLeft = []string{left}
)

var contracts = map[string]contract{
	"overall-rate":            {Key: analysis.RateKey(target), Rows: both},
	"gender-impact":           {Key: analysis.CrossTabKey("Gender", target), Rows: []string{"Male", "Female"}, Cols: onLeft},
	"marital-impact":          {Key: analysis.CrossTabKey("MaritalStatus", target), Rows: []string{"Single", "Married", "Divorced"}, Cols: onLeft},
	"age-group-attrition":     {Key: analysis.CrossTabKey("AgeGroup", target), Rows: []string{"18-30"}, Cols: onLeft},
	"department-turnover":     {Key: analysis.CrossTabKey("Department", target), Rows: []string{"Sales"}, Cols: onLeft},
	"jobrole-turnover":        {Key: analysis.CrossTabKey("JobRole", target), Rows: []string{"Sales Representative"}, Cols: onLeft},
	"overtime-impact":         {Key: analysis.CrossTabKey("OverTime", target), Rows: []string{"Yes", "No"}, Cols: onLeft},
	"travel-frequency":        {Key: analysis.CrossTabKey("BusinessTravel", target), Rows: []string{"Travel_Frequently"}, Cols: onLeft},
	"commute-distance":        {Key: analysis.MeanKey("DistanceFromHome", target), Rows: both},
	"tenure-company":          {Key: analysis.MeanKey("YearsAtCompany", target), Rows: both},
	"tenure-promotion":        {Key: analysis.MeanKey("YearsSinceLastPromotion", target), Rows: both},
	"tenure-manager":          {Key: analysis.MeanKey("YearsWithCurrManager", target), Rows: both},
	"gender-breakdown":        {Key: analysis.RateKey("Gender"), Rows: []string{"Male", "Female"}},
	"marital-distribution":    {Key: analysis.RateKey("MaritalStatus"), Rows: []string{"Married", "Single", "Divorced"}},
	"travel-distribution":     {Key: analysis.RateKey("BusinessTravel"), Rows: []string{"Travel_Rarely", "Travel_Frequently", "Non-Travel"}},
	"income-by-department":    {Key: analysis.GroupDescribeKey("MonthlyIncome", "Department"), Rows: []string{"Sales"}},
	"salary-hike":             {Key: analysis.MeanKey("PercentSalaryHike", target), Rows: both},
	"stock-options":           {Key: analysis.RateKey("StockOptionLevel"), Rows: []string{"0"}},
	"stock-options-attrition": {Key: analysis.CrossTabKey("StockOptionLevel", target), Rows: []string{"0"}, Cols: onLeft},
	"jobsat-attrition":        {Key: analysis.CrossTabKey("JobSatisfaction", target), Rows: []string{"Low", "Very High"}, Cols: onLeft},
	"envsat-attrition":        {Key: analysis.CrossTabKey("EnvironmentSatisfaction", target), Rows: []string{"Low"}, Cols: onLeft},
	"relsat-attrition":        {Key: analysis.CrossTabKey("RelationshipSatisfaction", target), Rows: []string{"Low"}, Cols: onLeft},
	"wlb-attrition":           {Key: analysis.CrossTabKey("WorkLifeBalance", target), Rows: []string{"Bad"}, Cols: onLeft},
	"involvement-attrition":   {Key: analysis.CrossTabKey("JobInvolvement", target), Rows: []string{"Low"}, Cols: onLeft},
	"performance-ratings":     {Key: analysis.RateKey("PerformanceRating"), Rows: []string{"Good", "Outstanding"}},
	"training-attrition":      {Key: analysis.MeanKey("TrainingTimesLastYear", target), Rows: both},
}

// check verifies every label of c against the result's domains.
func (c contract) check(res analysis.Result) error {
	var rows, cols []string
	switch r := res.(type) {
	case *analysis.CrossTab:
		rows, cols = r.Rows, r.Cols
	case *analysis.Distribution:
		rows = r.Labels
	case *analysis.GroupMeans:
		rows = r.Groups
	case *analysis.GroupSummary:
		rows = r.Groups
	default:
		return fmt.Errorf("contract for %s: unsupported result %T", c.Key, res)
	}
	for _, l := range c.Rows {
		if !contains(rows, l) {
			return &analysis.CategoryNotFoundError{Source: c.Key, Label: l}
		}
	}
	for _, l := range c.Cols {
		if !contains(cols, l) {
			return &analysis.CategoryNotFoundError{Source: c.Key, Label: l}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// picker computes aggregates and reads values out of them, keeping the first
// error. After an error every call returns a zero value.
type picker struct {
	cat *analysis.Catalog
	t   *table.Table
	err error
}

func (p *picker) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// expect computes the aggregate behind a sentence contract and checks the
// contract before any value is formatted.
func expect[R analysis.Result](p *picker, id string) R {
	var zero R
	if p.err != nil {
		return zero
	}
	c, ok := contracts[id]
	if !ok {
		p.fail(fmt.Errorf("no sentence contract %q", id))
		return zero
	}
	r, err := analysis.Get[R](p.cat, p.t, c.Key)
	if err != nil {
		p.fail(err)
		return zero
	}
	if err := c.check(r); err != nil {
		p.fail(err)
		return zero
	}
	return r
}

// get computes an aggregate whose values are printed without naming any
// category.
func get[R analysis.Result](p *picker, key string) R {
	var zero R
	if p.err != nil {
		return zero
	}
	r, err := analysis.Get[R](p.cat, p.t, key)
	if err != nil {
		p.fail(err)
		return zero
	}
	return r
}

func (p *picker) pct(ct *analysis.CrossTab, row, col string) float64 {
	if p.err != nil {
		return math.NaN()
	}
	v, err := ct.Pct(row, col)
	if err != nil {
		p.fail(err)
		return math.NaN()
	}
	return v
}

func (p *picker) share(d *analysis.Distribution, label string) float64 {
	if p.err != nil {
		return math.NaN()
	}
	v, err := d.Pct(label)
	if err != nil {
		p.fail(err)
		return math.NaN()
	}
	return v
}

func (p *picker) count(d *analysis.Distribution, label string) int {
	if p.err != nil {
		return 0
	}
	v, err := d.Count(label)
	if err != nil {
		p.fail(err)
		return 0
	}
	return v
}

func (p *picker) mean(g *analysis.GroupMeans, group string) float64 {
	if p.err != nil {
		return math.NaN()
	}
	v, err := g.Mean(group)
	if err != nil {
		p.fail(err)
		return math.NaN()
	}
	return v
}

func (p *picker) stats(g *analysis.GroupSummary, group string) analysis.Summary {
	if p.err != nil {
		return analysis.Summary{Mean: math.NaN()}
	}
	s, err := g.Get(group)
	if err != nil {
		p.fail(err)
		return analysis.Summary{Mean: math.NaN()}
	}
	return s
}
