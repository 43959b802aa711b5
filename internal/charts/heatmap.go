package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/KaramelBytes/attrition-cli/internal/analysis"
)

var (
	coolBlue = color.RGBA{59, 76, 192, 255}
	neutral  = color.RGBA{221, 221, 221, 255}
	warmRed  = color.RGBA{180, 4, 38, 255}
	noData   = color.RGBA{200, 200, 200, 255}
)

// drawHeatmap paints the correlation matrix cell by cell with each
// coefficient printed in its cell. Columns are numbered along the bottom edge
// and named by number on the left.
func drawHeatmap(c canvas, res analysis.Result) ([]byte, error) {
	m, ok := res.(*analysis.CorrMatrix)
	if !ok {
		return nil, fmt.Errorf("heatmap needs a correlation matrix, got %T", res)
	}
	n := len(m.Columns)
	if n == 0 {
		return nil, errors.New("no numeric columns to draw")
	}

	face := basicfont.Face7x13
	charW, lineH := 7, 13
	labelW := 0
	for i, col := range m.Columns {
		labelW = max(labelW, len(fmt.Sprintf("%d %s", i+1, col))*charW)
	}
	left, top, bottom, right := labelW+16, 3*lineH, 2*lineH, 16
	cellW := (c.width - left - right) / n
	cellH := (c.height - top - bottom) / n
	if cellW < 1 || cellH < 1 {
		return nil, fmt.Errorf("image %dx%d too small for %d columns", c.width, c.height, n)
	}

	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	text := func(s string, x, y int, col color.Color) {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
		d.DrawString(s)
	}
	width := func(s string) int { return font.MeasureString(face, s).Round() }

	text(c.title, (c.width-width(c.title))/2, 2*lineH, color.Black)
	for i := range m.Columns {
		y0 := top + i*cellH
		label := fmt.Sprintf("%d %s", i+1, m.Columns[i])
		text(label, 8, y0+(cellH+lineH)/2-2, color.Black)
		for j := range m.Columns {
			x0 := left + j*cellW
			r := m.Values[i][j]
			rect := image.Rect(x0, y0, x0+cellW-1, y0+cellH-1)
			draw.Draw(img, rect, image.NewUniform(coolwarm(r)), image.Point{}, draw.Src)
			v := "n/a"
			if !math.IsNaN(r) {
				v = fmt.Sprintf("%.2f", r)
			}
			ink := color.Color(color.Black)
			if math.Abs(r) > 0.6 {
				ink = color.White
			}
			text(v, x0+(cellW-width(v))/2, y0+(cellH+lineH)/2-2, ink)
		}
	}
	for j := range m.Columns {
		idx := fmt.Sprintf("%d", j+1)
		text(idx, left+j*cellW+(cellW-width(idx))/2, top+n*cellH+lineH+2, color.Black)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coolwarm maps r in [-1, 1] onto a diverging blue-to-red scale.
func coolwarm(r float64) color.RGBA {
	if math.IsNaN(r) {
		return noData
	}
	r = math.Max(-1, math.Min(1, r))
	if r < 0 {
		return mix(neutral, coolBlue, -r)
	}
	return mix(neutral, warmRed, r)
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}
