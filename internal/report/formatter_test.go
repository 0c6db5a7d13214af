package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockTrends/internal/model"
	"StockTrends/internal/pipeline"
	"StockTrends/internal/presenter"
	"StockTrends/internal/recorder"
)

func TestFormatOutputs_Comparison(t *testing.T) {
	raw := presenter.ShowRaw(&model.PriceSeries{Symbol: "GOOG", Bars: []model.OHLCV{
		{Time: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, AdjClose: 1.5, Volume: 10},
	}}, "GOOG")
	out := &pipeline.Outputs{
		Selection: pipeline.Selection{Primary: "GOOG", HorizonYears: 1, Compare: true, Secondary: "GME"},
		Primary:   &pipeline.StockSection{Label: "GOOG", Status: presenter.StatusDone, Raw: &raw},
		Secondary: &pipeline.StockSection{Label: "GME", Status: presenter.StatusLoading, Error: "data unavailable: GME", Err: errors.New("x")},
		Comparison: &pipeline.ComparisonSection{
			Heading: pipeline.RecommendationHeading,
			Error:   "comparison unavailable: data unavailable: GME",
		},
	}

	text := FormatOutputs(out)
	assert.Contains(t, text, "GOOG vs GME")
	assert.Contains(t, text, "Raw data for GOOG")
	assert.Contains(t, text, "2024-06-14")
	assert.Contains(t, text, "1.50")
	assert.Contains(t, text, "data unavailable: GME")
	assert.Contains(t, text, "Investment Recommendation")
}

func TestFormatComparison(t *testing.T) {
	c := &pipeline.ComparisonSection{
		Heading:        pipeline.RecommendationHeading,
		Recommendation: &model.Recommendation{Winner: "AAPL", Message: "AAPL is expected to have a greater and more profitable stock high."},
		PeakLines:      []string{"Predicted highest value for GOOG: 1.00", "Predicted highest value for AAPL: 2.00"},
	}
	text := FormatComparison(c)
	assert.Contains(t, text, "Predicted highest value for AAPL: 2.00")
	assert.Contains(t, text, "AAPL is expected to have a greater and more profitable stock high.")
}

func TestFormatOutputs_InvalidSelection(t *testing.T) {
	text := FormatOutputs(&pipeline.Outputs{Selection: pipeline.Selection{Primary: "GOOG", HorizonYears: 9}, Error: "invalid selection"})
	assert.Contains(t, text, "invalid selection")
}

func TestFormatRecommendations(t *testing.T) {
	assert.Contains(t, FormatRecommendations(nil), "No recommendations")

	text := FormatRecommendations([]recorder.RecommendationEvent{{
		Label1: "GOOG", Label2: "MSFT", Peak1: 200, Peak2: 450.5, Winner: "MSFT", HorizonYears: 2,
		RecordedAt: time.Date(2024, 6, 14, 9, 30, 0, 0, time.UTC),
	}})
	assert.Contains(t, text, "2024-06-14 09:30")
	assert.Contains(t, text, "450.50")
	assert.Contains(t, text, "MSFT")
}
