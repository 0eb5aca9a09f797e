package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pigeonworks-llc/gus-income/pkg/income"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart dimensions in pixels.
const (
	ChartWidth  = 1200
	ChartHeight = 600
)

// Chart labels.
const (
	XAxisName = "Rok"
	YAxisName = "Wartość (PLN)"
)

// ChartTitle returns the chart title for a selection and year range.
func ChartTitle(region, category string, years income.YearRange) string {
	return fmt.Sprintf("Dochody dla %s - %s (%d-%d)", region, category, years.From, years.To)
}

// RenderChart draws the series as a line with a marker on every point and
// writes it to w as PNG.
func RenderChart(w io.Writer, series income.Series, title string) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}

	xs := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(p.Year)
	}
	ys := series.Floats()
	xRange := paddedRange(xs, 0.5)

	gridStyle := chart.Style{
		StrokeColor: drawing.ColorFromHex("dddddd"),
		StrokeWidth: 1.0,
	}

	graph := chart.Chart{
		Title:  title,
		Width:  ChartWidth,
		Height: ChartHeight,
		Background: chart.Style{
			Padding: chart.Box{
				Top:  50,
				Left: 20,
			},
		},
		XAxis: chart.XAxis{
			Name:           XAxisName,
			Ticks:          yearTicks(series, xRange),
			Range:          xRange,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           YAxisName,
			Range:          paddedRange(ys, 0),
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.0,
					DotColor:    chart.ColorBlue,
					DotWidth:    4.0,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// yearTicks labels every year and adds unlabeled ticks at the range bounds.
// go-chart takes the x range from the outermost ticks, so a single year
// would otherwise give a zero-width axis.
func yearTicks(series income.Series, r *chart.ContinuousRange) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(series)+2)
	ticks = append(ticks, chart.Tick{Value: r.Min})
	for _, p := range series {
		ticks = append(ticks, chart.Tick{Value: float64(p.Year), Label: strconv.Itoa(p.Year)})
	}
	return append(ticks, chart.Tick{Value: r.Max})
}

// paddedRange returns a range around values that is never zero-width,
// which go-chart rejects. minPad is the smallest margin on each side.
func paddedRange(values []float64, minPad float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	pad := math.Max((hi-lo)*0.05, minPad)
	if pad == 0 {
		pad = math.Max(math.Abs(lo)*0.1, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

