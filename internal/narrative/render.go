// Package narrative turns aggregates into the sectioned text report.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// Meta carries the run facts the report prints besides the aggregates.
type Meta struct {
	Source     string
	Duplicates int
	Dropped    []string
	// Charts lists the chart files of the run. NoCharts marks a run that
	// skipped chart rendering.
	Charts   []string
	NoCharts bool
}

// Renderer builds the report from a catalog of aggregates.
type Renderer struct {
	cat *analysis.Catalog
}

// New returns a renderer reading aggregates from cat.
func New(cat *analysis.Catalog) *Renderer {
	return &Renderer{cat: cat}
}

// Render builds the whole report. Any aggregate error or category-label
// mismatch fails the render and no partial document is returned.
func (r *Renderer) Render(t *table.Table, meta Meta) (*Document, error) {
	p := &picker{cat: r.cat, t: t}
	doc := &Document{}
	steps := []struct {
		title string
		fill  func(*picker, *Section, Meta)
	}{
		{"Data Cleaning & Preparation", cleaning},
		{"Attrition Analysis (Target Focus)", attrition},
		{"Workforce Demographics", demographics},
		{"Compensation & Career Progression", compensation},
		{"Satisfaction & Engagement Analysis", satisfaction},
		{"Performance & Development", performance},
		{"Advanced Attrition Prediction", prediction},
		{"Visualizations", visualizations},
		{"Insights & HR Recommendations", insights},
	}
	for _, st := range steps {
		st.fill(p, doc.AddSection(st.title), meta)
		if p.err != nil {
			return nil, fmt.Errorf("render section %q: %w", st.title, p.err)
		}
	}
	return doc, nil
}

// table renders res unless an earlier lookup failed.
func (p *picker) table(res analysis.Result) *Table {
	if p.err != nil {
		return &Table{}
	}
	return TableFrom(res.Records())
}

func cleaning(p *picker, s *Section, meta Meta) {
	if meta.Source != "" {
		s.Para("Source: %s", meta.Source)
	}
	s.Para("Data Cleaning: Checked for duplicate rows. Found %d duplicates.", meta.Duplicates)
	if len(meta.Dropped) > 0 {
		s.Para("Removed constant or identifier columns: %s.", strings.Join(meta.Dropped, ", "))
	}
	s.Para("Dataset Overview:")
	s.Line("The dataset contains %d rows (employees) and %d columns (attributes) after cleaning.", p.t.Rows(), len(p.t.Columns()))

	miss := get[*analysis.MissingCounts](p, analysis.MissingKey)
	s.Para("Missing Values Check:")
	if p.err == nil {
		if miss.Total() == 0 {
			s.Line("No missing values detected across all columns.")
		} else {
			s.Line("Found %d missing values in total. Details per column:", miss.Total())
			s.Table(p.table(miss))
		}
	}

	desc := get[*analysis.SummaryTable](p, analysis.DescribeAllKey)
	s.Para("Descriptive Statistics for Numeric Columns:")
	s.Line("Summary of numerical data (e.g., age, income, rates):")
	s.Table(p.table(desc))
}

func attrition(p *picker, s *Section, _ Meta) {
	overall := expect[*analysis.Distribution](p, "overall-rate")
	s.Para("Overall Attrition Rate:")
	s.Line("%s%% of employees left the company, while %s%% remained.",
		f2(p.share(overall, left)), f2(p.share(overall, stayed)))

	s.Para("Attrition by Demographics:")

	gender := expect[*analysis.CrossTab](p, "gender-impact")
	male, female := p.pct(gender, "Male", left), p.pct(gender, "Female", left)
	s.Para("- Gender Impact: The attrition rate of males (%s%%) is %s that of females (%s%%).",
		f2(male), relation(male, female), f2(female))

	marital := expect[*analysis.CrossTab](p, "marital-impact")
	single := p.pct(marital, "Single", left)
	married := p.pct(marital, "Married", left)
	divorced := p.pct(marital, "Divorced", left)
	s.Para("- Marital Status Impact: Single employees have an attrition rate of %s%%, %s married employees (%s%%) and %s divorced employees (%s%%).",
		f2(single), relation(single, married), f2(married), relation(single, divorced), f2(divorced))
	if married > 0 && single >= 2*married {
		s.Line("The single rate is more than double the married rate.")
	}

	age := expect[*analysis.CrossTab](p, "age-group-attrition")
	s.Para("- Age Group Attrition:")
	young := p.pct(age, "18-30", left)
	if p.err == nil {
		if hi, _, ok := extremes(age, left); ok && hi == "18-30" {
			s.Line("The youngest group (18-30 years) exhibits the highest attrition at %s%%, indicating challenges in retaining early-career talent.", f2(young))
		} else if ok {
			s.Line("The youngest group (18-30 years) has an attrition rate of %s%%; the highest rate is in the %s group (%s%%).",
				f2(young), hi, f2(p.pct(age, hi, left)))
		}
	}
	s.Table(p.table(age))

	s.Para("Attrition by Work-Related Features:")

	dept := expect[*analysis.CrossTab](p, "department-turnover")
	s.Para("- Department Turnover: The Sales department has an attrition rate of %s%%.", f2(p.pct(dept, "Sales", left)))
	if p.err == nil {
		if hi, lo, ok := extremes(dept, left); ok {
			s.Line("%s has the highest rate (%s%%) and %s the lowest (%s%%).",
				hi, f2(p.pct(dept, hi, left)), lo, f2(p.pct(dept, lo, left)))
		}
	}
	s.Table(p.table(dept))

	role := expect[*analysis.CrossTab](p, "jobrole-turnover")
	s.Para("- Job Role Turnover: Sales Representatives face an attrition rate of %s%%.", f2(p.pct(role, "Sales Representative", left)))
	if p.err == nil {
		if hi, _, ok := extremes(role, left); ok {
			s.Line("The role with the highest turnover is %s (%s%%).", hi, f2(p.pct(role, hi, left)))
		}
		sorted, err := role.SortedByPct(left)
		if err != nil {
			p.fail(err)
		} else {
			s.Table(p.table(sorted))
		}
	}

	ot := expect[*analysis.CrossTab](p, "overtime-impact")
	yes, no := p.pct(ot, "Yes", left), p.pct(ot, "No", left)
	s.Para("- Overtime Impact: Employees working overtime show %s%% attrition, %s those who don't (%s%%).",
		f2(yes), relation(yes, no), f2(no))

	travel := expect[*analysis.CrossTab](p, "travel-frequency")
	s.Para("- Business Travel Frequency: Employees who travel frequently have an attrition rate of %s%%.",
		f2(p.pct(travel, "Travel_Frequently", left)))
	s.Table(p.table(travel))

	dist := expect[*analysis.GroupMeans](p, "commute-distance")
	dl, ds := p.mean(dist, left), p.mean(dist, stayed)
	s.Para("- Commute Distance vs Attrition: Employees who left had an average commute of %s miles, while those who stayed averaged %s miles. The leavers' average is %s the stayers'.",
		f2(dl), f2(ds), relation(dl, ds))

	s.Para("Attrition by Seniority & Tenure:")
	tenure := []struct{ id, label, unit string }{
		{"tenure-company", "Years At Company", "years of tenure"},
		{"tenure-promotion", "Years Since Last Promotion", "years since their last promotion"},
		{"tenure-manager", "Years With Current Manager", "years with their current manager"},
	}
	for i, tn := range tenure {
		g := expect[*analysis.GroupMeans](p, tn.id)
		l, st := p.mean(g, left), p.mean(g, stayed)
		line := fmt.Sprintf("- %s: Leavers averaged %s %s, %s stayers (%s).", tn.label, f2(l), tn.unit, relation(l, st), f2(st))
		if i == 0 {
			s.Para("%s", line)
		} else {
			s.Line("%s", line)
		}
	}
}

func demographics(p *picker, s *Section, _ Meta) {
	age := get[analysis.Summary](p, analysis.DescribeKey("Age"))
	s.Para("Workforce Age Distribution:")
	s.Line("The average employee age is %s years, with a median of %s years. The workforce ranges from %s to %s years old.",
		f2(age.Mean), f0(age.Median), f0(age.Min), f0(age.Max))
	s.Table(p.table(age))

	gender := expect[*analysis.Distribution](p, "gender-breakdown")
	s.Para("Gender Breakdown:")
	s.Line("The workforce is composed of %s%% Male employees (%d individuals) and %s%% Female employees (%d individuals).",
		f2(p.share(gender, "Male")), p.count(gender, "Male"), f2(p.share(gender, "Female")), p.count(gender, "Female"))

	edu := get[*analysis.Distribution](p, analysis.RateKey("Education"))
	s.Para("Education Level Distribution:")
	if p.err == nil {
		s.Line("The most common education level is %s.", largest(edu))
	}
	s.Table(p.table(edu))

	marital := expect[*analysis.Distribution](p, "marital-distribution")
	s.Para("Marital Status Distribution:")
	s.Line("Married: %d employees, Single: %d, Divorced: %d.",
		p.count(marital, "Married"), p.count(marital, "Single"), p.count(marital, "Divorced"))
	if p.err == nil {
		s.Line("The most common marital status is %s.", largest(marital))
	}
	s.Table(p.table(marital))

	for _, comp := range []struct{ title, field, noun string }{
		{"Department Composition:", "Department", "The largest department is"},
		{"Job Role Composition:", "JobRole", "The most common role is"},
	} {
		d := get[*analysis.Distribution](p, analysis.RateKey(comp.field))
		s.Para("%s", comp.title)
		if p.err == nil {
			if top := largest(d); top != "" {
				s.Line("%s %s (%d employees).", comp.noun, top, p.count(d, top))
			}
		}
		s.Table(p.table(d))
	}

	travel := expect[*analysis.Distribution](p, "travel-distribution")
	s.Para("Business Travel Frequency Distribution:")
	s.Line("%d employees travel rarely, %d travel frequently and %d do not travel.",
		p.count(travel, "Travel_Rarely"), p.count(travel, "Travel_Frequently"), p.count(travel, "Non-Travel"))
	s.Table(p.table(travel))
}

func compensation(p *picker, s *Section, _ Meta) {
	byLevel := get[*analysis.GroupSummary](p, analysis.GroupDescribeKey("MonthlyIncome", "JobLevel"))
	s.Para("Monthly Income by Job Level:")
	if p.err == nil {
		if rising(byLevel) {
			s.Line("Average monthly income rises with every job level.")
		} else {
			s.Line("Average monthly income does not rise strictly with job level.")
		}
	}
	s.Table(p.table(byLevel))

	byDept := expect[*analysis.GroupSummary](p, "income-by-department")
	s.Para("Monthly Income by Department:")
	s.Line("The average monthly income in Sales is $%s.", f2(p.stats(byDept, "Sales").Mean))
	if p.err == nil {
		if hi, _ := meanExtremes(byDept); hi != "" {
			s.Line("The highest average monthly income is in %s ($%s).", hi, f2(p.stats(byDept, hi).Mean))
		}
	}
	s.Table(p.table(byDept))

	byRole := get[*analysis.GroupSummary](p, analysis.GroupDescribeKey("MonthlyIncome", "JobRole"))
	s.Para("Monthly Income by Job Role:")
	if p.err == nil {
		if hi, lo := meanExtremes(byRole); hi != "" {
			s.Line("%s command the highest average monthly income ($%s) and %s the lowest ($%s).",
				hi, f2(p.stats(byRole, hi).Mean), lo, f2(p.stats(byRole, lo).Mean))
		}
	}
	s.Table(p.table(byRole))

	for _, f := range []struct{ title, field string }{
		{"Hourly Rate Distribution:", "HourlyRate"},
		{"Monthly Rate Distribution:", "MonthlyRate"},
	} {
		d := get[analysis.Summary](p, analysis.DescribeKey(f.field))
		s.Para("%s", f.title)
		s.Table(p.table(d))
	}

	hike := expect[*analysis.GroupMeans](p, "salary-hike")
	hs, hl := p.mean(hike, stayed), p.mean(hike, left)
	s.Para("Percent Salary Hike vs. Attrition:")
	s.Line("Employees who stayed received an average salary hike of %s%% and those who left %s%%, a difference of %s percentage points.",
		f2(hs), f2(hl), f2(math.Abs(hs-hl)))

	overall := expect[*analysis.Distribution](p, "overall-rate")
	stock := expect[*analysis.Distribution](p, "stock-options")
	stockAttr := expect[*analysis.CrossTab](p, "stock-options-attrition")
	none := p.pct(stockAttr, "0", left)
	rate := p.share(overall, left)
	s.Para("Stock Option Level Distribution & Impact:")
	s.Line("%s%% of employees have no stock options (Level 0). This group's attrition rate is %s%%, %s the overall rate (%s%%).",
		f2(p.share(stock, "0")), f2(none), relation(none, rate), f2(rate))
	s.Para("Stock Option Level Distribution:")
	s.Table(p.table(stock))
	s.Para("Attrition by Stock Option Level:")
	s.Table(p.table(stockAttr))

	corr := get[*analysis.Correlation](p, analysis.CorrKey("TotalWorkingYears", "MonthlyIncome"))
	s.Para("Career Progression: Total Working Years vs. Monthly Income Correlation:")
	if p.err == nil {
		s.Line("The correlation between Total Working Years and Monthly Income is %s, a %s relationship over %d employees.",
			f2(corr.R), strength(corr.R), corr.N)
	}
}

func satisfaction(p *picker, s *Section, _ Meta) {
	s.Para("Distribution of Key Satisfaction & Engagement Variables:")
	for _, f := range []struct{ title, field string }{
		{"Job Satisfaction Distribution:", "JobSatisfaction"},
		{"Environment Satisfaction Distribution:", "EnvironmentSatisfaction"},
		{"Relationship Satisfaction Distribution:", "RelationshipSatisfaction"},
		{"Work-Life Balance Distribution:", "WorkLifeBalance"},
		{"Job Involvement Distribution:", "JobInvolvement"},
	} {
		d := get[*analysis.Distribution](p, analysis.RateKey(f.field))
		s.Para("%s", f.title)
		s.Table(p.table(d))
	}

	s.Para("Attrition vs. Satisfaction Levels:")

	job := expect[*analysis.CrossTab](p, "jobsat-attrition")
	low, high := p.pct(job, "Low", left), p.pct(job, "Very High", left)
	s.Para("- Job Satisfaction vs. Attrition: Employees with 'Low' Job Satisfaction have an attrition rate of %s%%, %s those with 'Very High' satisfaction (%s%%).",
		f2(low), relation(low, high), f2(high))
	s.Table(p.table(job))

	for _, lv := range []struct{ id, label, level string }{
		{"envsat-attrition", "Environment Satisfaction", "Low"},
		{"relsat-attrition", "Relationship Satisfaction", "Low"},
		{"wlb-attrition", "Work-Life Balance", "Bad"},
		{"involvement-attrition", "Job Involvement", "Low"},
	} {
		ct := expect[*analysis.CrossTab](p, lv.id)
		v := p.pct(ct, lv.level, left)
		s.Para("- %s vs. Attrition: '%s' %s sees %s%% attrition.", lv.label, lv.level, lv.label, f2(v))
		if p.err == nil {
			if hi, _, ok := extremes(ct, left); ok {
				if hi == lv.level {
					s.Line("This is the highest rate of any level.")
				} else {
					s.Line("The highest rate is at the '%s' level (%s%%).", hi, f2(p.pct(ct, hi, left)))
				}
			}
		}
		s.Table(p.table(ct))
	}

	counts := get[analysis.Counts](p, analysis.CountsKey("JobRole", "JobSatisfaction"))
	s.Para("Job Role vs. Job Satisfaction (Counts):")
	s.Line("Satisfaction levels across job roles:")
	s.Table(p.table(counts))

	income := get[*analysis.GroupSummary](p, analysis.GroupDescribeKey("MonthlyIncome", "JobSatisfaction"))
	s.Para("Monthly Income by Job Satisfaction Level (Summary Stats):")
	if p.err == nil {
		if hi, lo := meanExtremes(income); hi != "" {
			s.Line("Average monthly income ranges from $%s (%s) to $%s (%s) across satisfaction levels.",
				f2(p.stats(income, lo).Mean), lo, f2(p.stats(income, hi).Mean), hi)
		}
	}
	s.Table(p.table(income))
}

func performance(p *picker, s *Section, _ Meta) {
	perf := expect[*analysis.Distribution](p, "performance-ratings")
	s.Para("Performance Rating Distribution:")
	s.Line("%d employees are rated 'Good' and %d are rated 'Outstanding'.",
		p.count(perf, "Good"), p.count(perf, "Outstanding"))
	s.Table(p.table(perf))

	training := get[analysis.Summary](p, analysis.DescribeKey("TrainingTimesLastYear"))
	byTarget := expect[*analysis.GroupMeans](p, "training-attrition")
	ts, tl := p.mean(byTarget, stayed), p.mean(byTarget, left)
	s.Para("Training Times Last Year & Attrition Impact:")
	s.Line("Employees received training an average of %s times last year. Those who stayed averaged %s sessions, %s those who left (%s).",
		f2(training.Mean), f2(ts), relation(ts, tl), f2(tl))
	s.Table(p.table(training))

	promo := expect[*analysis.GroupMeans](p, "tenure-promotion")
	pl, ps := p.mean(promo, left), p.mean(promo, stayed)
	s.Para("Years Since Last Promotion vs. Attrition:")
	s.Line("Employees who left averaged %s years since their last promotion, %s those who stayed (%s years).",
		f2(pl), relation(pl, ps), f2(ps))

	mgr := expect[*analysis.GroupMeans](p, "tenure-manager")
	ml, ms := p.mean(mgr, left), p.mean(mgr, stayed)
	s.Para("Years With Current Manager vs. Attrition:")
	s.Line("Leavers averaged %s years with their current manager, %s stayers (%s years).",
		f2(ml), relation(ml, ms), f2(ms))

	corr := get[*analysis.Correlation](p, analysis.CodeCorrKey("JobInvolvement", "PerformanceRating"))
	s.Para("Correlation: Job Involvement vs. Performance Rating:")
	if p.err == nil {
		s.Line("The correlation between Job Involvement and Performance Rating is %s (%s).", f2(corr.R), strength(corr.R))
	}

	matrix := get[*analysis.CorrMatrix](p, analysis.CorrMatrixKey)
	s.Para("Most Strongly Correlated Numeric Pairs:")
	if p.err == nil {
		pairs := matrix.TopPairs(5)
		if len(pairs) == 0 {
			s.Line("No defined correlations between numeric columns.")
		} else {
			tbl := &Table{Header: []string{"a", "b", "r"}}
			for _, pc := range pairs {
				tbl.Rows = append(tbl.Rows, []string{pc.A, pc.B, f2(pc.R)})
			}
			s.Table(tbl)
		}
	}
}

func prediction(_ *picker, s *Section, _ Meta) {
	s.Para("Outline of a model that predicts employee attrition:")
	s.Line("1. Feature Encoding: convert categorical features to numeric form (e.g. one-hot encoding).")
	s.Line("2. Data Splitting: divide the dataset into training and testing sets.")
	s.Line("3. Model Training: fit logistic regression, random forest or gradient boosting models.")
	s.Line("4. Feature Importance: rank the strongest predictors of attrition.")
	s.Line("5. Model Evaluation: compare accuracy, ROC-AUC, precision and recall.")
}

func visualizations(_ *picker, s *Section, meta Meta) {
	if meta.NoCharts {
		s.Para("Chart rendering was disabled for this run.")
		return
	}
	s.Para("Generated %d charts:", len(meta.Charts))
	for _, c := range meta.Charts {
		s.Line("- %s", c)
	}
}

func insights(_ *picker, s *Section, _ Meta) {
	s.Para("The points below summarize the analysis above into recommendations.")
	s.Para("Key Attrition Risk Groups:")
	s.Line("- Young, single employees: offer mentorship, career development plans and community-building initiatives.")
	s.Line("- High-turnover roles: review workload, pay equity and career path clarity for the roles with the highest attrition.")
	s.Line("- Overtime and long commutes: review staffing levels, flexible work options and commute support.")
	s.Line("- Low satisfaction and no stock options: run regular satisfaction surveys, act on feedback and review stock option eligibility.")
	s.Para("Compensation & Career Progression Considerations:")
	s.Line("- Keep pay competitive for high-risk roles, where attrition stays high at lower relative pay.")
	s.Line("- Promotions and managers: define clear promotion paths and train managers to build supportive relationships.")
	s.Line("- Work-life balance: consider flexible hours, remote work or caps on overtime for roles prone to burnout.")
	s.Line("- Compensation structure: audit pay fairness for high-risk roles and demographics and correct inequities.")
	s.Line("- Satisfaction drivers: address the causes of low job and environment satisfaction through direct feedback.")
}

// rising reports whether the group means increase strictly in domain order,
// ignoring empty groups.
func rising(g *analysis.GroupSummary) bool {
	prev := math.Inf(-1)
	for _, st := range g.Stats {
		if math.IsNaN(st.Mean) {
			continue
		}
		if st.Mean <= prev {
			return false
		}
		prev = st.Mean
	}
	return true
}

// meanExtremes returns the groups with the highest and lowest defined mean.
func meanExtremes(g *analysis.GroupSummary) (hi, lo string) {
	best, worst := math.Inf(-1), math.Inf(1)
	for i, st := range g.Stats {
		if math.IsNaN(st.Mean) {
			continue
		}
		if st.Mean > best {
			best, hi = st.Mean, g.Groups[i]
		}
		if st.Mean < worst {
			worst, lo = st.Mean, g.Groups[i]
		}
	}
	return hi, lo
}
