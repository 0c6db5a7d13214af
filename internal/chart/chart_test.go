package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTrends/internal/model"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func testSeries(n int) *model.PriceSeries {
	s := &model.PriceSeries{Symbol: "GOOG"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, model.OHLCV{Time: day(i), Open: 100 + float64(i), Close: 101 + float64(i)})
	}
	return s
}

func testFrame(history, horizon int, slope float64) *model.ForecastFrame {
	f := &model.ForecastFrame{Symbol: "GOOG", HorizonDays: horizon, HistoryLen: history}
	for i := 0; i < history+horizon; i++ {
		y := 100 + slope*float64(i)
		p := model.ForecastPoint{Date: day(i), Predicted: y, Lower: y - 5, Upper: y + 5, Trend: y}
		if i < history {
			p.Actual, p.HasActual = y+1, true
		}
		f.Points = append(f.Points, p)
	}
	f.Profiles = []model.SeasonalProfile{
		{Name: "weekly", Dates: []time.Time{day(0), day(1), day(2), day(3), day(4), day(5), day(6)}, Values: []float64{1, 2, 3, 2, 1, 0, -1}},
	}
	return f
}

func TestRawFigure(t *testing.T) {
	fig := RawFigure(testSeries(10), "GOOG")

	assert.Equal(t, "Time Series data for GOOG with Rangeslider", fig.Title)
	assert.True(t, fig.RangeSlider)
	require.Len(t, fig.Traces, 2)
	assert.Equal(t, "stock_open", fig.Traces[0].Name)
	assert.Equal(t, "stock_close", fig.Traces[1].Name)
	assert.Equal(t, 100.0, fig.Traces[0].Y[0])
	assert.Equal(t, 110.0, fig.Traces[1].Y[9])
	assert.Equal(t, 20, fig.Points())
}

func TestRawFigure_Empty(t *testing.T) {
	fig := RawFigure(&model.PriceSeries{Symbol: "GOOG"}, "GOOG")
	assert.Zero(t, fig.Points())

	svg, err := RenderSVG(fig, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestForecastFigure(t *testing.T) {
	frame := testFrame(10, 5, 1)
	fig := ForecastFigure(frame, "AAPL", 1)

	assert.Equal(t, "Forecast plot for AAPL for 1 years", fig.Title)
	require.Len(t, fig.Traces, 2)
	assert.Equal(t, ModeMarkers, fig.Traces[0].Mode)
	assert.Len(t, fig.Traces[0].X, 10, "actuals cover the history only")
	assert.Len(t, fig.Traces[1].X, 15)
	require.Len(t, fig.Bands, 1)
	assert.Len(t, fig.Bands[0].Upper, 15)
}

func TestComponentFigures(t *testing.T) {
	figs := ComponentFigures(testFrame(10, 5, 1), "MSFT")
	require.Len(t, figs, 2)
	assert.Equal(t, "trend", figs[0].Traces[0].Name)
	assert.Equal(t, "weekly", figs[1].Traces[0].Name)
	assert.Equal(t, "Mon", figs[1].XFormat)
}

func TestCombinedFigure(t *testing.T) {
	fig := CombinedFigure(testFrame(10, 5, 1), "GOOG", testFrame(8, 5, 0.5), "AAPL")

	assert.Equal(t, "Combined Forecast for GOOG and AAPL", fig.Title)
	assert.Equal(t, "Date", fig.XTitle)
	assert.Equal(t, "Stock Price", fig.YTitle)
	require.Len(t, fig.Traces, 2)
	assert.Equal(t, "GOOG Forecast", fig.Traces[0].Name)
	assert.Equal(t, "AAPL Forecast", fig.Traces[1].Name)
	assert.Len(t, fig.Traces[0].Y, 15)
	assert.Len(t, fig.Traces[1].Y, 13)
}

func TestWindow(t *testing.T) {
	fig := ForecastFigure(testFrame(10, 5, 1), "GOOG", 1)

	w := fig.Window(day(3), day(6))
	assert.Len(t, w.Traces[1].X, 4)
	assert.Len(t, w.Bands[0].X, 4)
	assert.Equal(t, day(3), w.Traces[1].X[0])
	assert.Len(t, fig.Traces[1].X, 15, "original figure untouched")

	open := fig.Window(day(12), time.Time{})
	assert.Len(t, open.Traces[1].X, 3)

	assert.Equal(t, fig, fig.Window(time.Time{}, time.Time{}))
}

func TestWindow_NoSlider(t *testing.T) {
	figs := ComponentFigures(testFrame(10, 5, 1), "GOOG")
	w := figs[0].Window(day(3), day(6))
	assert.Len(t, w.Traces[0].X, 15)
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ForecastFigure(testFrame(30, 10, 1), "GOOG", 1), DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	out := string(svg)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml") || strings.Contains(out, "<svg"))
	assert.Contains(t, out, "Forecast plot for GOOG")
}
