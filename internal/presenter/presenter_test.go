package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTrends/internal/model"
)

func day(i int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func TestShowRaw(t *testing.T) {
	s := &model.PriceSeries{Symbol: "GOOG"}
	for i := 0; i < 20; i++ {
		s.Bars = append(s.Bars, model.OHLCV{
			Time: day(i), Open: 100.123 + float64(i), High: 105, Low: 99, Close: 101.5 + float64(i), AdjClose: 101.5, Volume: 123456,
		})
	}

	v := ShowRaw(s, "GOOG")
	assert.Equal(t, "Raw data for GOOG", v.Heading)
	assert.Equal(t, "Raw data plot for GOOG", v.PlotHeading)
	assert.Equal(t, StatusDone, v.Status)
	assert.Empty(t, v.Warning)
	require.Len(t, v.Rows, PreviewRows)
	assert.Equal(t, "2024-03-16", v.Rows[0].Date)
	assert.Equal(t, "2024-03-20", v.Rows[4].Date)
	assert.Equal(t, "119.12", v.Rows[4].Open)
	assert.Equal(t, "120.50", v.Rows[4].Close)
	assert.Equal(t, "123456", v.Rows[4].Volume)
	assert.Len(t, v.Rows[0].Cells(), len(RawColumns))

	assert.True(t, v.Figure.RangeSlider)
	assert.Equal(t, 40, v.Figure.Points())

	require.NotNil(t, v.Summary)
	assert.Equal(t, 120.5, v.Summary.LastClose)
	assert.Contains(t, v.SummaryLine(), "Last close 120.50")
	assert.NotContains(t, v.SummaryLine(), "SMA200")
}

func TestShowRaw_ShortSeries(t *testing.T) {
	s := &model.PriceSeries{Symbol: "GME", Bars: []model.OHLCV{{Time: day(0), Close: 10}, {Time: day(1), Close: 11}}}
	v := ShowRaw(s, "GME")
	assert.Len(t, v.Rows, 2)
}

func TestShowRaw_Empty(t *testing.T) {
	v := ShowRaw(&model.PriceSeries{Symbol: "GME"}, "GME")
	assert.NotEmpty(t, v.Warning)
	assert.Empty(t, v.Rows)
	assert.Zero(t, v.Figure.Points())
	assert.Nil(t, v.Summary)
	assert.Empty(t, v.SummaryLine())
}

func TestShowForecast(t *testing.T) {
	f := &model.ForecastFrame{Symbol: "AAPL", HorizonDays: 365, HistoryLen: 10}
	for i := 0; i < 375; i++ {
		y := 150 + float64(i)/10
		f.Points = append(f.Points, model.ForecastPoint{Date: day(i), Predicted: y, Lower: y - 3, Upper: y + 3, Trend: y})
	}
	f.Profiles = []model.SeasonalProfile{{Name: "weekly", Dates: []time.Time{day(0)}, Values: []float64{0.5}}}

	v := ShowForecast(f, "AAPL", 1)
	assert.Equal(t, "Forecast data for AAPL", v.Heading)
	assert.Equal(t, "Forecast components for AAPL", v.ComponentsHeading)
	require.Len(t, v.Rows, PreviewRows)
	assert.Equal(t, day(374).Format("2006-01-02"), v.Rows[4].Date)
	assert.Equal(t, "187.40", v.Rows[4].Predicted)
	assert.Equal(t, "184.40", v.Rows[4].Lower)
	assert.Equal(t, "Forecast plot for AAPL for 1 years", v.Figure.Title)
	assert.Len(t, v.Components, 2)
}

func TestShowForecast_Empty(t *testing.T) {
	v := ShowForecast(nil, "AAPL", 2)
	assert.NotEmpty(t, v.Warning)
	assert.Empty(t, v.Components)
}
