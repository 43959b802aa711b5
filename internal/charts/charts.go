// Package charts renders the fixed set of report charts as PNG images.
package charts

import (
	"fmt"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/output"
	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// Kind is the visual encoding of a chart.
type Kind string

const (
	Pie     Kind = "pie"
	Bar     Kind = "bar"
	Box     Kind = "box"
	Hist    Kind = "histogram"
	Stacked Kind = "stacked-bar"
	Heatmap Kind = "heatmap"
)

// DefaultDPI is the resolution used when none is configured.
const DefaultDPI = 100.0

// Size is a figure size in inches.
type Size struct {
	Width, Height float64
}

// Pixels converts the size to pixels at dpi.
func (s Size) Pixels(dpi float64) (int, int) {
	return int(s.Width * dpi), int(s.Height * dpi)
}

// Spec describes one chart: its file name, title, encoding and the aggregate
// it draws.
type Spec struct {
	Name  string
	Title string
	Kind  Kind
	Size  Size
	// Key is the catalog aggregate the chart reads.
	Key string
	// Sorted orders bars by descending attrition rate.
	Sorted bool
	// Rotate tilts long category labels.
	Rotate bool
	// Bins is the bin count of a histogram.
	Bins int
}

// canvas is what a draw function needs besides the aggregate.
type canvas struct {
	spec          Spec
	title         string
	width, height int
	dpi           float64
}

type drawFunc func(c canvas, res analysis.Result) ([]byte, error)

var drawers = map[Kind]drawFunc{
	Pie:     drawPie,
	Bar:     drawRateBars,
	Box:     drawBoxes,
	Hist:    drawHistogram,
	Stacked: drawStacked,
	Heatmap: drawHeatmap,
}

func rateBar(name, title, row string, size Size, sorted bool) Spec {
	return Spec{
		Name:   name,
		Title:  title,
		Kind:   Bar,
		Size:   size,
		Key:    analysis.CrossTabKey(row, schema.Target),
		Sorted: sorted,
	}
}

func histogram(name, title, field string, bins int) Spec {
	return Spec{
		Name:  name,
		Title: title,
		Kind:  Hist,
		Size:  Size{10, 6},
		Key:   analysis.HistKey(field, bins),
		Bins:  bins,
	}
}

var specs = []Spec{
	{
		Name:  "overall_attrition_pie_chart.png",
		Title: "Overall Employee Attrition Rate (%s%% Turnover)",
		Kind:  Pie,
		Size:  Size{8, 8},
		Key:   analysis.RateKey(schema.Target),
	},
	rateBar("attrition_by_department_bar_chart.png", "Attrition Rate by Department", "Department", Size{12, 7}, true),
	func() Spec {
		s := rateBar("attrition_by_jobrole_bar_chart.png", "Attrition Rate by Job Role", "JobRole", Size{15, 8}, true)
		s.Rotate = true
		return s
	}(),
	rateBar("attrition_by_gender_bar_chart.png", "Attrition Rate by Gender", "Gender", Size{8, 6}, false),
	rateBar("attrition_by_overtime_bar_chart.png", "Overtime Impact on Attrition", "OverTime", Size{8, 6}, false),
	rateBar("attrition_by_businesstravel_bar_chart.png", "Attrition Rate by Business Travel Frequency", "BusinessTravel", Size{10, 6}, true),
	rateBar("attrition_by_stock_option_level_bar_chart.png", "Attrition Rate by Stock Option Level", "StockOptionLevel", Size{10, 6}, false),
	rateBar("attrition_by_years_at_company_bar_chart.png", "Attrition Rate by Years at Company", schema.YearsAtCompanyGroup.Target, Size{12, 7}, true),
	rateBar("attrition_by_years_since_promotion_bar_chart.png", "Attrition Rate by Years Since Last Promotion", schema.YearsSincePromotionGroup.Target, Size{12, 7}, true),
	rateBar("attrition_by_years_with_manager_bar_chart.png", "Attrition Rate by Years With Current Manager", schema.YearsWithManagerGroup.Target, Size{12, 7}, true),
	rateBar("attrition_by_environment_satisfaction_bar_chart.png", "Attrition Rate by Environment Satisfaction", "EnvironmentSatisfaction", Size{10, 6}, false),
	rateBar("attrition_by_relationship_satisfaction_bar_chart.png", "Attrition Rate by Relationship Satisfaction", "RelationshipSatisfaction", Size{10, 6}, false),
	rateBar("attrition_by_work_life_balance_bar_chart.png", "Attrition Rate by Work-Life Balance", "WorkLifeBalance", Size{10, 6}, false),
	rateBar("attrition_by_job_involvement_bar_chart.png", "Attrition Rate by Job Involvement", "JobInvolvement", Size{10, 6}, false),
	{
		Name:  "monthly_income_by_job_level_boxplot.png",
		Title: "Monthly Income Distribution by Job Level",
		Kind:  Box,
		Size:  Size{12, 7},
		Key:   analysis.BoxKey("MonthlyIncome", "JobLevel"),
	},
	histogram("age_distribution_histogram.png", "Age Distribution of Employees", "Age", 15),
	histogram("monthly_income_distribution_histogram.png", "Monthly Income Distribution", "MonthlyIncome", 20),
	histogram("distance_from_home_distribution_histogram.png", "Distance From Home Distribution", "DistanceFromHome", 10),
	histogram("total_working_years_distribution_histogram.png", "Total Working Years Distribution", "TotalWorkingYears", 10),
	{
		Name:  "distance_from_home_vs_attrition_boxplot.png",
		Title: "Distance From Home vs Attrition",
		Kind:  Box,
		Size:  Size{10, 6},
		Key:   analysis.BoxKey("DistanceFromHome", schema.Target),
	},
	{
		Name:  "job_satisfaction_vs_attrition_stacked_bar.png",
		Title: "Job Satisfaction Level vs Attrition",
		Kind:  Stacked,
		Size:  Size{10, 6},
		Key:   analysis.CrossTabKey("JobSatisfaction", schema.Target),
	},
	{
		Name:  "correlation_matrix_heatmap.png",
		Title: "Correlation Matrix of Numeric Features",
		Kind:  Heatmap,
		Size:  Size{14, 12},
		Key:   analysis.CorrMatrixKey,
	},
}

// Specs returns every chart in output order.
func Specs() []Spec {
	return append([]Spec(nil), specs...)
}

// Names returns the output file names in order.
func Names() []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

// Lookup returns the chart with the given file name.
func Lookup(name string) (Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Render computes the chart's aggregate from t and draws it. Aggregate
// failures are returned as they are; drawing failures are wrapped in an
// *output.RenderError naming the chart.
func (s Spec) Render(cat *analysis.Catalog, t *table.Table, dpi float64) ([]byte, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	res, err := cat.Compute(t, s.Key)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", s.Name, err)
	}
	draw, ok := drawers[s.Kind]
	if !ok {
		return nil, &output.RenderError{Artifact: s.Name, Err: fmt.Errorf("unknown chart kind %q", s.Kind)}
	}
	title, err := s.caption(res)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", s.Name, err)
	}
	w, h := s.Size.Pixels(dpi)
	png, err := draw(canvas{spec: s, title: title, width: w, height: h, dpi: dpi}, res)
	if err != nil {
		return nil, &output.RenderError{Artifact: s.Name, Err: err}
	}
	return png, nil
}

// caption fills data into titles that carry a figure.
func (s Spec) caption(res analysis.Result) (string, error) {
	if s.Kind != Pie {
		return s.Title, nil
	}
	d, ok := res.(*analysis.Distribution)
	if !ok {
		return "", fmt.Errorf("pie needs a distribution, got %T", res)
	}
	pct, err := d.Pct(schema.Left)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(s.Title, fmt.Sprintf("%.2f", pct)), nil
}
