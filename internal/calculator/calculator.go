// Package calculator derives summary statistics from a daily price series.
package calculator

import (
	"errors"
	"math"

	"StockTrends/internal/model"
)

// Trading-day windows.
const (
	Days52w = 252
	Days30d = 22
)

var errNoBars = errors.New("no daily bars provided")

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// Range returns the highest high and lowest low of the last window bars.
func Range(bars []model.OHLCV, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errNoBars
	}
	start := len(bars) - window
	if start < 0 || window <= 0 {
		start = 0
	}
	high, low = math.Inf(-1), math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// Position returns where current sits within [low, high], clamped to 0..1.
func Position(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	return math.Min(math.Max((current-low)/(high-low), 0), 1)
}

// Summary is a snapshot of recent price action.
type Summary struct {
	LastClose   float64 `json:"last_close"`
	High52w     float64 `json:"high_52w"`
	Low52w      float64 `json:"low_52w"`
	Position52w float64 `json:"position_52w"`
	High30d     float64 `json:"high_30d"`
	Low30d      float64 `json:"low_30d"`
	SMA200      float64 `json:"sma200,omitempty"`
}

// Summarize computes the summary of series. SMA200 stays zero when the
// history is shorter than 200 bars.
func Summarize(series *model.PriceSeries) (*Summary, error) {
	if series.Len() == 0 {
		return nil, errNoBars
	}
	bars := series.Bars
	s := &Summary{LastClose: bars[len(bars)-1].Close}

	var err error
	if s.High52w, s.Low52w, err = Range(bars, Days52w); err != nil {
		return nil, err
	}
	if s.High30d, s.Low30d, err = Range(bars, Days30d); err != nil {
		return nil, err
	}
	s.Position52w = Position(s.LastClose, s.High52w, s.Low52w)

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	if sma, err := SMA(closes, 200); err == nil {
		s.SMA200 = sma
	}
	return s, nil
}
