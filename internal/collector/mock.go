package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"StockTrends/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Without explicit Bars it generates a deterministic business-day series
// starting at Price and growing by Drift per day.
type MockFetcher struct {
	Price float64
	Drift float64
	Bars  map[string][]model.OHLCV
	Err   error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDailyBars has been invoked.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars[symbol], nil
	}
	return generateMockBars(m.Price, m.Drift, start, end), nil
}

func generateMockBars(basePrice, drift float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.OHLCV
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice + drift*float64(i) + math.Sin(float64(i)/20)*basePrice*0.01
		bars = append(bars, model.OHLCV{
			Time:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}
