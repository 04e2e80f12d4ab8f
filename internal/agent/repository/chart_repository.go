package repository

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"golang-finance-agent/internal/agent/dto"
)

// Line colors for comparison charts, cycled in ticker order.
var comparisonPalette = []string{
	"2563eb", // blue-600
	"dc2626", // red-600
	"16a34a", // green-600
	"9333ea", // purple-600
	"ea580c", // orange-600
}

// chartRepository renders PNG charts with go-chart.
type chartRepository struct{}

// NewChartRepository creates a new instance of chartRepository.
func NewChartRepository() ChartRepository {
	return &chartRepository{}
}

// RenderPriceChart renders a closing-price line chart with the latest price
// annotated at the right edge.
func (r *chartRepository) RenderPriceChart(ticker, name, currency, period string, candles []dto.Candle) ([]byte, error) {
	if len(candles) < 2 {
		return nil, fmt.Errorf("need at least 2 data points for %s, got %d", ticker, len(candles))
	}

	xValues := make([]time.Time, len(candles))
	yValues := make([]float64, len(candles))
	for i, c := range candles {
		xValues[i] = c.Date
		yValues[i] = c.Close
	}

	priceSeries := chart.TimeSeries{
		Name: fmt.Sprintf("%s Close", ticker),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	last := candles[len(candles)-1]
	annotation := chart.AnnotationSeries{
		Annotations: []chart.Value2{
			{
				XValue: chart.TimeToFloat64(last.Date),
				YValue: last.Close,
				Label:  fmt.Sprintf("%.2f %s", last.Close, currency),
			},
		},
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
		},
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (%s) - %s", name, ticker, period),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateTickFormatter(period),
		},
		YAxis: chart.YAxis{
			ValueFormatter: priceTickFormatter(currency),
		},
		Series: []chart.Series{
			priceSeries,
			annotation,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderTechnicalChart renders close price with SMA/EMA overlays on the
// primary axis and daily volume on the secondary axis. Indicator slices are
// aligned with candles; nil entries (below-window samples) are skipped.
func (r *chartRepository) RenderTechnicalChart(ticker, name, currency, period string, candles []dto.Candle, sma20, sma50, ema20 []*float64) ([]byte, error) {
	if len(candles) < 2 {
		return nil, fmt.Errorf("need at least 2 data points for %s, got %d", ticker, len(candles))
	}

	xValues := make([]time.Time, len(candles))
	closeY := make([]float64, len(candles))
	volumeY := make([]float64, len(candles))
	for i, c := range candles {
		xValues[i] = c.Date
		closeY[i] = c.Close
		volumeY[i] = float64(c.Volume)
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: fmt.Sprintf("%s Close", ticker),
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"),
				StrokeWidth: 2.5,
			},
			XValues: xValues,
			YValues: closeY,
		},
		chart.TimeSeries{
			Name: "Volume",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("9ca3af"),
				StrokeWidth: 1.0,
			},
			YAxis:   chart.YAxisSecondary,
			XValues: xValues,
			YValues: volumeY,
		},
	}

	overlays := []struct {
		name   string
		color  string
		values []*float64
	}{
		{"SMA 20", "ea580c", sma20},
		{"SMA 50", "16a34a", sma50},
		{"EMA 20", "9333ea", ema20},
	}
	for _, overlay := range overlays {
		xs, ys := indicatorPoints(xValues, overlay.values)
		if len(xs) < 2 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name: overlay.name,
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex(overlay.color),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (%s) Technical - %s", name, ticker, period),
		Width:  900,
		Height: 500,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateTickFormatter(period),
		},
		YAxis: chart.YAxis{
			ValueFormatter: priceTickFormatter(currency),
		},
		YAxisSecondary: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1fM", f/1e6)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderComparisonChart renders normalized performance lines (first close =
// 100) for up to five tickers, each annotated with its final change.
func (r *chartRepository) RenderComparisonChart(series []dto.ComparisonSeries) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no comparison series to render")
	}

	var chartSeries []chart.Series
	var annotations []chart.Value2
	for i, s := range series {
		if len(s.Dates) < 2 {
			return nil, fmt.Errorf("need at least 2 data points for %s, got %d", s.Ticker, len(s.Dates))
		}
		color := drawing.ColorFromHex(comparisonPalette[i%len(comparisonPalette)])
		chartSeries = append(chartSeries, chart.TimeSeries{
			Name: s.Ticker,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2.0,
			},
			XValues: s.Dates,
			YValues: s.Values,
		})
		annotations = append(annotations, chart.Value2{
			XValue: chart.TimeToFloat64(s.Dates[len(s.Dates)-1]),
			YValue: s.Values[len(s.Values)-1],
			Label:  fmt.Sprintf("%s %+.2f%%", s.Ticker, s.FinalChange),
		})
	}
	chartSeries = append(chartSeries, chart.AnnotationSeries{
		Annotations: annotations,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("6b7280"),
		},
	})

	graph := chart.Chart{
		Title:  "Normalized Performance (start = 100)",
		Width:  900,
		Height: 450,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateTickFormatter("1y"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: chartSeries,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// indicatorPoints drops nil entries and returns aligned x/y slices.
func indicatorPoints(xValues []time.Time, values []*float64) ([]time.Time, []float64) {
	var xs []time.Time
	var ys []float64
	for i, v := range values {
		if v == nil || i >= len(xValues) {
			continue
		}
		xs = append(xs, xValues[i])
		ys = append(ys, *v)
	}
	return xs, ys
}

func dateTickFormatter(period string) chart.ValueFormatter {
	layout := "Jan 06"
	switch period {
	case "1d", "1wk":
		layout = "2 Jan"
	case "1mo", "3mo", "6mo":
		layout = "2 Jan 06"
	}
	return func(v interface{}) string {
		if t, ok := v.(float64); ok {
			return chart.TimeFromFloat64(t).Format(layout)
		}
		return ""
	}
}

func priceTickFormatter(currency string) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.2f %s", f, currency)
		}
		return ""
	}
}
