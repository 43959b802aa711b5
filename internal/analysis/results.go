package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Result is any aggregate a catalog can compute. Records renders it as a
// header row followed by data rows for tabular output.
type Result interface {
	Records() [][]string
}

// Distribution holds value counts and percentages of one field over its
// domain.
type Distribution struct {
	Field   string
	Labels  []string
	Counts  []int
	Percent []float64
}

// Total returns the number of non-missing rows.
func (d *Distribution) Total() int {
	n := 0
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// Count returns the row count of label.
func (d *Distribution) Count(label string) (int, error) {
	i := indexOf(d.Labels, label)
	if i < 0 {
		return 0, notFound("rate:"+d.Field, label)
	}
	return d.Counts[i], nil
}

// Pct returns the percentage of rows carrying label.
func (d *Distribution) Pct(label string) (float64, error) {
	i := indexOf(d.Labels, label)
	if i < 0 {
		return 0, notFound("rate:"+d.Field, label)
	}
	return d.Percent[i], nil
}

// Records implements Result.
func (d *Distribution) Records() [][]string {
	out := [][]string{{d.Field, "count", "percent"}}
	for i, lb := range d.Labels {
		out = append(out, []string{lb, strconv.Itoa(d.Counts[i]), num(d.Percent[i], 2)})
	}
	return out
}

// CrossTab holds the joint counts of two fields and the row-normalized
// percentages. Rows and Cols enumerate the full domains.
type CrossTab struct {
	Row, Col string
	Rows     []string
	Cols     []string
	Counts   [][]int
	Percent  [][]float64
}

func (c *CrossTab) key() string { return "crosstab:" + c.Row + ":" + c.Col }

func (c *CrossTab) cell(row, col string) (int, int, error) {
	i := indexOf(c.Rows, row)
	if i < 0 {
		return 0, 0, notFound(c.key(), row)
	}
	j := indexOf(c.Cols, col)
	if j < 0 {
		return 0, 0, notFound(c.key(), col)
	}
	return i, j, nil
}

// Count returns the joint count of (row, col).
func (c *CrossTab) Count(row, col string) (int, error) {
	i, j, err := c.cell(row, col)
	if err != nil {
		return 0, err
	}
	return c.Counts[i][j], nil
}

// Pct returns the share of row that falls in col, in percent.
func (c *CrossTab) Pct(row, col string) (float64, error) {
	i, j, err := c.cell(row, col)
	if err != nil {
		return 0, err
	}
	return c.Percent[i][j], nil
}

// RowTotal returns the number of rows in category row.
func (c *CrossTab) RowTotal(row string) (int, error) {
	i := indexOf(c.Rows, row)
	if i < 0 {
		return 0, notFound(c.key(), row)
	}
	n := 0
	for _, v := range c.Counts[i] {
		n += v
	}
	return n, nil
}

// ColumnPct returns the percentage column for col, one value per row.
func (c *CrossTab) ColumnPct(col string) ([]float64, error) {
	j := indexOf(c.Cols, col)
	if j < 0 {
		return nil, notFound(c.key(), col)
	}
	out := make([]float64, len(c.Rows))
	for i := range c.Rows {
		out[i] = c.Percent[i][j]
	}
	return out, nil
}

// SortedByPct returns a copy with rows ordered by descending percentage of
// col. Ties keep declared order.
func (c *CrossTab) SortedByPct(col string) (*CrossTab, error) {
	j := indexOf(c.Cols, col)
	if j < 0 {
		return nil, notFound(c.key(), col)
	}
	idx := make([]int, len(c.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return c.Percent[idx[a]][j] > c.Percent[idx[b]][j]
	})
	out := &CrossTab{Row: c.Row, Col: c.Col, Cols: append([]string(nil), c.Cols...)}
	for _, i := range idx {
		out.Rows = append(out.Rows, c.Rows[i])
		out.Counts = append(out.Counts, append([]int(nil), c.Counts[i]...))
		out.Percent = append(out.Percent, append([]float64(nil), c.Percent[i]...))
	}
	return out, nil
}

// Records implements Result with percentages.
func (c *CrossTab) Records() [][]string {
	out := [][]string{append([]string{c.Row}, c.Cols...)}
	for i, r := range c.Rows {
		rec := []string{r}
		for j := range c.Cols {
			rec = append(rec, num(c.Percent[i][j], 2))
		}
		out = append(out, rec)
	}
	return out
}

// CountRecords renders the cross-tab as counts.
func (c *CrossTab) CountRecords() [][]string {
	out := [][]string{append([]string{c.Row}, c.Cols...)}
	for i, r := range c.Rows {
		rec := []string{r}
		for j := range c.Cols {
			rec = append(rec, strconv.Itoa(c.Counts[i][j]))
		}
		out = append(out, rec)
	}
	return out
}

// Counts is a cross-tab read as joint counts.
type Counts struct{ *CrossTab }

// Records implements Result with counts.
func (c Counts) Records() [][]string { return c.CountRecords() }

// GroupMeans holds the mean of a numeric field per category of another.
type GroupMeans struct {
	Field, By string
	Groups    []string
	Sizes     []int
	Means     []float64
}

// Mean returns the mean for group.
func (g *GroupMeans) Mean(group string) (float64, error) {
	i := indexOf(g.Groups, group)
	if i < 0 {
		return 0, notFound("mean:"+g.Field+":"+g.By, group)
	}
	return g.Means[i], nil
}

// Records implements Result.
func (g *GroupMeans) Records() [][]string {
	out := [][]string{{g.By, "count", "mean " + g.Field}}
	for i, grp := range g.Groups {
		out = append(out, []string{grp, strconv.Itoa(g.Sizes[i]), num(g.Means[i], 2)})
	}
	return out
}

// Summary is the descriptive statistics of one numeric field.
type Summary struct {
	Field   string
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Q1      float64
	Median  float64
	Q3      float64
	Max     float64
}

// SummaryHeader names the statistic columns of a Summary row.
var SummaryHeader = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in SummaryHeader order.
func (s Summary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max}
}

// Records implements Result as a two-column statistic/value table.
func (s Summary) Records() [][]string {
	out := [][]string{{"statistic", s.Field}}
	for i, v := range s.Values() {
		prec := 2
		if i == 0 {
			prec = 0
		}
		out = append(out, []string{SummaryHeader[i], num(v, prec)})
	}
	return out
}

// GroupSummary holds per-category descriptive statistics.
type GroupSummary struct {
	Field, By string
	Groups    []string
	Stats     []Summary
}

// Get returns the statistics for group.
func (g *GroupSummary) Get(group string) (Summary, error) {
	i := indexOf(g.Groups, group)
	if i < 0 {
		return Summary{}, notFound("describe:"+g.Field+":"+g.By, group)
	}
	return g.Stats[i], nil
}

// Records implements Result.
func (g *GroupSummary) Records() [][]string {
	out := [][]string{append([]string{g.By}, SummaryHeader...)}
	for i, grp := range g.Groups {
		out = append(out, summaryRow(grp, g.Stats[i]))
	}
	return out
}

// SummaryTable holds statistics for many numeric fields.
type SummaryTable struct {
	Stats []Summary
}

// Column returns the statistics of field.
func (s *SummaryTable) Column(field string) (Summary, error) {
	for _, st := range s.Stats {
		if st.Field == field {
			return st, nil
		}
	}
	return Summary{}, notFound("describe:*", field)
}

// Records implements Result.
func (s *SummaryTable) Records() [][]string {
	out := [][]string{append([]string{""}, SummaryHeader...)}
	for _, st := range s.Stats {
		out = append(out, summaryRow(st.Field, st))
	}
	return out
}

func summaryRow(label string, s Summary) []string {
	rec := []string{label}
	for i, v := range s.Values() {
		prec := 2
		if i == 0 {
			prec = 0
		}
		rec = append(rec, num(v, prec))
	}
	return rec
}

// Correlation is a Pearson coefficient between two fields. Codes is set when
// the fields are categorical and were correlated by domain position.
type Correlation struct {
	A, B  string
	R     float64
	N     int
	Codes bool
}

// Records implements Result.
func (c *Correlation) Records() [][]string {
	return [][]string{{"a", "b", "n", "r"}, {c.A, c.B, strconv.Itoa(c.N), num(c.R, 2)}}
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Get returns r for the pair (a, b).
func (m *CorrMatrix) Get(a, b string) (float64, error) {
	i := indexOf(m.Columns, a)
	if i < 0 {
		return 0, notFound("corrmatrix:*", a)
	}
	j := indexOf(m.Columns, b)
	if j < 0 {
		return 0, notFound("corrmatrix:*", b)
	}
	return m.Values[i][j], nil
}

// TopPairs lists up to n distinct off-diagonal pairs by descending |r|.
// Undefined coefficients are skipped.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// Records implements Result.
func (m *CorrMatrix) Records() [][]string {
	out := [][]string{append([]string{""}, m.Columns...)}
	for i, c := range m.Columns {
		rec := []string{c}
		for j := range m.Columns {
			rec = append(rec, num(m.Values[i][j], 2))
		}
		out = append(out, rec)
	}
	return out
}

// MissingCounts holds the number of missing cells per column.
type MissingCounts struct {
	Columns []string
	Counts  []int
}

// Total returns the number of missing cells in the table.
func (m *MissingCounts) Total() int {
	n := 0
	for _, c := range m.Counts {
		n += c
	}
	return n
}

// Records implements Result.
func (m *MissingCounts) Records() [][]string {
	out := [][]string{{"column", "missing"}}
	for i, c := range m.Columns {
		out = append(out, []string{c, strconv.Itoa(m.Counts[i])})
	}
	return out
}

// Histogram holds equal-width bin counts. Edges has one more entry than
// Counts; the last bin includes its upper edge.
type Histogram struct {
	Field  string
	Edges  []float64
	Counts []int
}

// Records implements Result.
func (h *Histogram) Records() [][]string {
	out := [][]string{{"bin", "count"}}
	for i, c := range h.Counts {
		closing := ")"
		if i == len(h.Counts)-1 {
			closing = "]"
		}
		out = append(out, []string{
			fmt.Sprintf("[%s, %s%s", num(h.Edges[i], 2), num(h.Edges[i+1], 2), closing),
			strconv.Itoa(c),
		})
	}
	return out
}

// Box is the five-number summary of one group with Tukey whiskers.
type Box struct {
	Group        string
	Count        int
	Q1           float64
	Median       float64
	Q3           float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64
}

// BoxPlot holds one box per category of By.
type BoxPlot struct {
	Field, By string
	Boxes     []Box
}

// Records implements Result.
func (b *BoxPlot) Records() [][]string {
	out := [][]string{{b.By, "count", "lower", "25%", "50%", "75%", "upper", "outliers"}}
	for _, bx := range b.Boxes {
		out = append(out, []string{
			bx.Group, strconv.Itoa(bx.Count),
			num(bx.LowerWhisker, 2), num(bx.Q1, 2), num(bx.Median, 2), num(bx.Q3, 2), num(bx.UpperWhisker, 2),
			strconv.Itoa(len(bx.Outliers)),
		})
	}
	return out
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
