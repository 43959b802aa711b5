// Package schema holds the fixed description of the HR dataset: expected
// columns, ordinal lookups, nominal vocabularies and bin definitions. The
// analysis constants live here as data so the rest of the pipeline stays
// parameterized by field name.
package schema

// Kind classifies how a raw column is typed during normalization.
type Kind int

const (
	Numeric Kind = iota
	Nominal
	Ordinal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	case Ordinal:
		return "ordinal"
	default:
		return "unknown"
	}
}

// Column is one expected input column.
type Column struct {
	Name string
	Kind Kind
}

const (
	// Target is the outcome field every grouped rate is computed against.
	Target = "Attrition"
	// Left is the target category for employees who left.
	Left = "Yes"
	// Stayed is the target category for employees who remained.
	Stayed = "No"
)

// Columns is the expected input schema, in the order of the source dataset.
var Columns = []Column{
	{"Age", Numeric},
	{"Attrition", Nominal},
	{"BusinessTravel", Nominal},
	{"DailyRate", Numeric},
	{"Department", Nominal},
	{"DistanceFromHome", Numeric},
	{"Education", Ordinal},
	{"EducationField", Nominal},
	{"EmployeeCount", Numeric},
	{"EmployeeNumber", Numeric},
	{"EnvironmentSatisfaction", Ordinal},
	{"Gender", Nominal},
	{"HourlyRate", Numeric},
	{"JobInvolvement", Ordinal},
	{"JobLevel", Numeric},
	{"JobRole", Nominal},
	{"JobSatisfaction", Ordinal},
	{"MaritalStatus", Nominal},
	{"MonthlyIncome", Numeric},
	{"MonthlyRate", Numeric},
	{"NumCompaniesWorked", Numeric},
	{"Over18", Nominal},
	{"OverTime", Nominal},
	{"PercentSalaryHike", Numeric},
	{"PerformanceRating", Ordinal},
	{"RelationshipSatisfaction", Ordinal},
	{"StandardHours", Numeric},
	{"StockOptionLevel", Numeric},
	{"TotalWorkingYears", Numeric},
	{"TrainingTimesLastYear", Numeric},
	{"WorkLifeBalance", Ordinal},
	{"YearsAtCompany", Numeric},
	{"YearsInCurrentRole", Numeric},
	{"YearsSinceLastPromotion", Numeric},
	{"YearsWithCurrManager", Numeric},
}

// Dropped lists the constant or identifier columns removed before analysis.
var Dropped = []string{"EmployeeCount", "StandardHours", "Over18", "EmployeeNumber"}

// Lookup maps the integer codes of an ordinal field to labels in rank order.
type Lookup struct {
	Name   string
	Codes  []int
	Labels []string
}

// Label returns the label for code.
func (l Lookup) Label(code int) (string, bool) {
	for i, c := range l.Codes {
		if c == code {
			return l.Labels[i], true
		}
	}
	return "", false
}

// HasLabel reports whether s is one of the lookup's labels.
func (l Lookup) HasLabel(s string) bool {
	for _, lb := range l.Labels {
		if lb == s {
			return true
		}
	}
	return false
}

var (
	EducationLevels = Lookup{
		Name:   "education",
		Codes:  []int{1, 2, 3, 4, 5},
		Labels: []string{"Below College", "College", "Bachelor", "Master", "Doctor"},
	}
	SatisfactionLevels = Lookup{
		Name:   "satisfaction",
		Codes:  []int{1, 2, 3, 4},
		Labels: []string{"Low", "Medium", "High", "Very High"},
	}
	WorkLifeLevels = Lookup{
		Name:   "work-life",
		Codes:  []int{1, 2, 3, 4},
		Labels: []string{"Bad", "Good", "Better", "Best"},
	}
	PerformanceLevels = Lookup{
		Name:   "performance",
		Codes:  []int{3, 4},
		Labels: []string{"Good", "Outstanding"},
	}
)

// Ordinals maps every ordinal field to its lookup. The four satisfaction-style
// fields share one table.
var Ordinals = map[string]Lookup{
	"Education":                EducationLevels,
	"EnvironmentSatisfaction":  SatisfactionLevels,
	"JobSatisfaction":          SatisfactionLevels,
	"RelationshipSatisfaction": SatisfactionLevels,
	"JobInvolvement":           SatisfactionLevels,
	"WorkLifeBalance":          WorkLifeLevels,
	"PerformanceRating":        PerformanceLevels,
}

// Vocabulary is the declared domain of each nominal field. The spellings are
// dataset constants and are matched exactly.
var Vocabulary = map[string][]string{
	"Attrition":      {Stayed, Left},
	"Gender":         {"Female", "Male"},
	"MaritalStatus":  {"Divorced", "Married", "Single"},
	"BusinessTravel": {"Non-Travel", "Travel_Frequently", "Travel_Rarely"},
	"Department":     {"Human Resources", "Research & Development", "Sales"},
	"EducationField": {"Human Resources", "Life Sciences", "Marketing", "Medical", "Other", "Technical Degree"},
	"JobRole": {
		"Healthcare Representative", "Human Resources", "Laboratory Technician",
		"Manager", "Manufacturing Director", "Research Director",
		"Research Scientist", "Sales Executive", "Sales Representative",
	},
	"OverTime": {"No", "Yes"},
	"Over18":   {"Y"},
}

// Categorical lists the fields locked into finite-domain categoricals at the
// end of normalization.
var Categorical = []string{
	"Attrition", "Gender", "MaritalStatus", "BusinessTravel", "Department",
	"EducationField", "JobRole", "OverTime", "JobInvolvement",
	"PerformanceRating", "AgeGroup",
}

// BinSpec describes a right-open binning of a numeric field. Lower holds the
// lower bound of every bucket; the last bucket is closed at the observed
// maximum.
type BinSpec struct {
	Source string
	Target string
	Lower  []float64
	Labels []string
}

// AgeGroup is derived during normalization.
var AgeGroup = BinSpec{
	Source: "Age",
	Target: "AgeGroup",
	Lower:  []float64{18, 30, 40, 50},
	Labels: []string{"18-30", "31-40", "41-50", "51+"},
}

// Tenure groupings are only derived for charts.
var (
	YearsAtCompanyGroup = BinSpec{
		Source: "YearsAtCompany",
		Target: "YearsAtCompanyGroup",
		Lower:  []float64{0, 1, 3, 5, 10, 15, 20},
		Labels: []string{"<1", "1-3", "3-5", "5-10", "10-15", "15-20", "20+"},
	}
	YearsSincePromotionGroup = BinSpec{
		Source: "YearsSinceLastPromotion",
		Target: "YearsSincePromotionGroup",
		Lower:  []float64{0, 1, 2, 5},
		Labels: []string{"0", "1", "2-4", "5+"},
	}
	YearsWithManagerGroup = BinSpec{
		Source: "YearsWithCurrManager",
		Target: "YearsWithManagerGroup",
		Lower:  []float64{0, 1, 2, 5},
		Labels: []string{"<1", "1", "2-4", "5+"},
	}
)

// Expected returns the expected column names in schema order.
func Expected() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Name
	}
	return out
}

// KindOf returns the declared kind of an input column.
func KindOf(name string) (Kind, bool) {
	for _, c := range Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return 0, false
}

// IsDropped reports whether name is in the drop set.
func IsDropped(name string) bool {
	for _, d := range Dropped {
		if d == name {
			return true
		}
	}
	return false
}

// Domain returns the declared label domain of a label-valued field and
// whether its order carries rank.
func Domain(name string) (labels []string, ordered bool, ok bool) {
	if lk, found := Ordinals[name]; found {
		return lk.Labels, true, true
	}
	if v, found := Vocabulary[name]; found {
		return v, false, true
	}
	if name == AgeGroup.Target {
		return AgeGroup.Labels, true, true
	}
	return nil, false, false
}
