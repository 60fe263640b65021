// Package render draws report charts as PNG files.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cognicore/insights/pkg/insights/aggregate"
	"github.com/cognicore/insights/pkg/insights/internalerr"
)

// Renderer writes charts into Dir. A nil Font uses the go-chart default.
type Renderer struct {
	Dir  string
	Font *truetype.Font
}

// LoadFont parses a TrueType font file.
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// TrendLine draws the month-by-month share of one keyword. values are
// fractions (0..1), one per label.
func (r *Renderer) TrendLine(name string, labels []string, values []float64, colour string) (string, error) {
	if len(values) < 2 || len(labels) != len(values) {
		return "", fmt.Errorf("%w: trend line needs matching labels and at least two values", internalerr.ErrInvalidInput)
	}
	xs := make([]float64, len(values))
	ticks := make([]chart.Tick, len(values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: fmt.Sprintf("%s %.0f%%", labels[i], 100*v)}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	stroke := chart.ColorBlue
	if colour != "" {
		stroke = drawing.ColorFromHex(colour)
	}
	graph := chart.Chart{
		Width:  575,
		Height: 325,
		Font:   r.Font,
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: lo - 0.05, Max: hi + 0.05},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: stroke,
					StrokeWidth: 3,
				},
				XValues: xs,
				YValues: values,
			},
		},
	}
	return r.write(name, graph)
}

// CentrePie draws the split of visits across centres. Zero slices are
// dropped; at least one value must be positive.
func (r *Renderer) CentrePie(name string, labels []string, values []float64) (string, error) {
	if len(labels) != len(values) {
		return "", fmt.Errorf("%w: %d labels for %d values", internalerr.ErrInvalidInput, len(labels), len(values))
	}
	var slices []chart.Value
	for i, v := range values {
		if v > 0 {
			slices = append(slices, chart.Value{Label: labels[i], Value: v})
		}
	}
	if len(slices) == 0 {
		return "", fmt.Errorf("%w: pie %s has no positive values", internalerr.ErrNoData, name)
	}
	pie := chart.DonutChart{
		Width:  512,
		Height: 512,
		Font:   r.Font,
		Values: slices,
	}
	return r.write(name, pie)
}

// KeywordBars draws a bar per keyword count, in the given order.
func (r *Renderer) KeywordBars(name string, counts []aggregate.KeywordCount) (string, error) {
	if len(counts) == 0 {
		return "", fmt.Errorf("%w: no keywords for %s", internalerr.ErrNoData, name)
	}
	bars := make([]chart.Value, len(counts))
	top := 0.0
	for i, kc := range counts {
		bars[i] = chart.Value{Label: kc.Keyword, Value: float64(kc.Count)}
		top = math.Max(top, float64(kc.Count))
	}
	if top == 0 {
		top = 1
	}
	bc := chart.BarChart{
		Width:    120 * (len(bars) + 1),
		Height:   480,
		BarWidth: 60,
		Font:     r.Font,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	return r.write(name, bc)
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func (r *Renderer) write(name string, c renderable) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(r.Dir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := c.Render(chart.PNG, f); err != nil {
		f.Close()
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
