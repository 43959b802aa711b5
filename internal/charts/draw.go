package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
	"github.com/KaramelBytes/attrition-cli/internal/schema"
)

var palette = []drawing.Color{
	drawing.ColorFromHex("4C72B0"),
	drawing.ColorFromHex("DD8452"),
	drawing.ColorFromHex("55A868"),
	drawing.ColorFromHex("C44E52"),
	drawing.ColorFromHex("8172B3"),
	drawing.ColorFromHex("937860"),
	drawing.ColorFromHex("DA8BC3"),
	drawing.ColorFromHex("8C8C8C"),
	drawing.ColorFromHex("CCB974"),
	drawing.ColorFromHex("64B5CD"),
}

func tint(i int) drawing.Color { return palette[i%len(palette)] }

func fill(i int) chart.Style {
	return chart.Style{FillColor: tint(i), StrokeColor: tint(i), StrokeWidth: 1}
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: 14}
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func encode(r renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawPie(c canvas, res analysis.Result) ([]byte, error) {
	d, ok := res.(*analysis.Distribution)
	if !ok {
		return nil, fmt.Errorf("pie needs a distribution, got %T", res)
	}
	var values []chart.Value
	for i, lb := range d.Labels {
		if d.Counts[i] == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", lb, d.Percent[i]),
			Value: float64(d.Counts[i]),
			Style: fill(i),
		})
	}
	if len(values) == 0 {
		return nil, errors.New("no rows to draw")
	}
	pie := chart.PieChart{
		Title:      c.title,
		TitleStyle: titleStyle(),
		Width:      c.width,
		Height:     c.height,
		DPI:        c.dpi,
		Values:     values,
	}
	return encode(pie)
}

// drawRateBars plots the share of leavers per category.
func drawRateBars(c canvas, res analysis.Result) ([]byte, error) {
	ct, ok := res.(*analysis.CrossTab)
	if !ok {
		return nil, fmt.Errorf("rate bars need a cross tabulation, got %T", res)
	}
	if c.spec.Sorted {
		sorted, err := ct.SortedByPct(schema.Left)
		if err != nil {
			return nil, err
		}
		ct = sorted
	}
	pcts, err := ct.ColumnPct(schema.Left)
	if err != nil {
		return nil, err
	}
	bars := make([]chart.Value, len(ct.Rows))
	top := 0.0
	for i, row := range ct.Rows {
		bars[i] = chart.Value{Label: row, Value: pcts[i], Style: fill(i)}
		top = math.Max(top, pcts[i])
	}
	return barChart(c, bars, "Attrition Rate (%)", niceMax(top))
}

func drawHistogram(c canvas, res analysis.Result) ([]byte, error) {
	h, ok := res.(*analysis.Histogram)
	if !ok {
		return nil, fmt.Errorf("histogram needs bin counts, got %T", res)
	}
	bars := make([]chart.Value, len(h.Counts))
	top := 0.0
	for i, n := range h.Counts {
		bars[i] = chart.Value{Label: compact(h.Edges[i]), Value: float64(n), Style: fill(0)}
		top = math.Max(top, float64(n))
	}
	return barChart(c, bars, "Number of Employees", niceMax(top))
}

func barChart(c canvas, bars []chart.Value, yName string, top float64) ([]byte, error) {
	if len(bars) == 0 {
		return nil, errors.New("no categories to draw")
	}
	axis := chart.Style{}
	if c.spec.Rotate {
		axis.TextRotationDegrees = 45
	}
	bc := chart.BarChart{
		Title:      c.title,
		TitleStyle: titleStyle(),
		Width:      c.width,
		Height:     c.height,
		DPI:        c.dpi,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		BarWidth:   c.width / (2*len(bars) + 1),
		XAxis:      axis,
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
	return encode(bc)
}

// drawStacked plots the full row-normalized split of every category.
func drawStacked(c canvas, res analysis.Result) ([]byte, error) {
	ct, ok := res.(*analysis.CrossTab)
	if !ok {
		return nil, fmt.Errorf("stacked bars need a cross tabulation, got %T", res)
	}
	var bars []chart.StackedBar
	for i, row := range ct.Rows {
		n, err := ct.RowTotal(row)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		bar := chart.StackedBar{Name: row, Width: c.width / (2*len(ct.Rows) + 1)}
		for j, col := range ct.Cols {
			pct := ct.Percent[i][j]
			bar.Values = append(bar.Values, chart.Value{
				Label: fmt.Sprintf("%s %.0f%%", col, pct),
				Value: pct,
				Style: fill(j * 5),
			})
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, errors.New("no rows to draw")
	}
	sb := chart.StackedBarChart{
		Title:      c.title,
		TitleStyle: titleStyle(),
		Width:      c.width,
		Height:     c.height,
		DPI:        c.dpi,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Bars:       bars,
	}
	return encode(sb)
}

// drawBoxes draws Tukey box plots, one per group, from line series: the
// whisker, the box outline, the median and the outlier dots.
func drawBoxes(c canvas, res analysis.Result) ([]byte, error) {
	bp, ok := res.(*analysis.BoxPlot)
	if !ok {
		return nil, fmt.Errorf("box plot needs box statistics, got %T", res)
	}
	var (
		series []chart.Series
		ticks  = []chart.Tick{{Value: 0}}
		lo, hi = math.Inf(1), math.Inf(-1)
	)
	for i, b := range bp.Boxes {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: b.Group})
		if b.Count == 0 {
			continue
		}
		line := chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 1.5}
		shade := chart.Style{StrokeColor: tint(i), FillColor: tint(i).WithAlpha(160), StrokeWidth: 1.5}
		series = append(series,
			chart.ContinuousSeries{Style: line, XValues: []float64{x, x}, YValues: []float64{b.LowerWhisker, b.UpperWhisker}},
			chart.ContinuousSeries{
				Style:   shade,
				XValues: []float64{x - 0.3, x + 0.3, x + 0.3, x - 0.3, x - 0.3},
				YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
			},
			chart.ContinuousSeries{Style: line, XValues: []float64{x - 0.3, x + 0.3}, YValues: []float64{b.Median, b.Median}},
		)
		lo, hi = math.Min(lo, b.LowerWhisker), math.Max(hi, b.UpperWhisker)
		if len(b.Outliers) > 0 {
			xs := make([]float64, len(b.Outliers))
			for k := range xs {
				xs[k] = x
			}
			series = append(series, chart.ContinuousSeries{
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotColor: tint(i), DotWidth: 3},
				XValues: xs,
				YValues: b.Outliers,
			})
			for _, o := range b.Outliers {
				lo, hi = math.Min(lo, o), math.Max(hi, o)
			}
		}
	}
	if len(series) == 0 {
		return nil, errors.New("no groups to draw")
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(bp.Boxes) + 1)})
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	ch := chart.Chart{
		Title:      c.title,
		TitleStyle: titleStyle(),
		Width:      c.width,
		Height:     c.height,
		DPI:        c.dpi,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: bp.By, Ticks: ticks},
		YAxis: chart.YAxis{
			Name:  bp.Field,
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	return encode(ch)
}

// niceMax rounds the top of a value axis up, keeping it non-zero.
func niceMax(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	step := math.Pow(10, math.Floor(math.Log10(v)))
	return math.Ceil(v*1.1/step) * step
}

func compact(v float64) string {
	if math.Abs(v) >= 100 {
		return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
