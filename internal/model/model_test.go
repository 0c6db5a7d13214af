package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceSeriesTail(t *testing.T) {
	s := &PriceSeries{Symbol: "AAPL"}
	for i := 1; i <= 8; i++ {
		s.Bars = append(s.Bars, OHLCV{Time: day(i), Close: float64(i)})
	}

	tail := s.Tail(5)
	assert.Len(t, tail, 5)
	assert.Equal(t, 4.0, tail[0].Close)
	assert.Equal(t, 8.0, tail[4].Close)

	assert.Len(t, s.Tail(100), 8)
	assert.Nil(t, s.Tail(0))
	assert.Equal(t, day(1), s.First())
	assert.Equal(t, day(8), s.Last())

	var empty *PriceSeries
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.Tail(5))
	assert.True(t, empty.Last().IsZero())
}

func TestForecastFrameHelpers(t *testing.T) {
	f := &ForecastFrame{
		Symbol:     "MSFT",
		HistoryLen: 2,
		Points: []ForecastPoint{
			{Date: day(1), Predicted: 10},
			{Date: day(2), Predicted: 30},
			{Date: day(3), Predicted: 20},
		},
		Profiles: []SeasonalProfile{{Name: "weekly"}},
	}

	max, ok := f.MaxPredicted()
	assert.True(t, ok)
	assert.Equal(t, 30.0, max)
	assert.Len(t, f.History(), 2)
	assert.Len(t, f.Future(), 1)
	assert.Equal(t, day(3), f.Tail(1)[0].Date)

	_, ok = f.Profile("weekly")
	assert.True(t, ok)
	_, ok = f.Profile("yearly")
	assert.False(t, ok)

	_, ok = (&ForecastFrame{}).MaxPredicted()
	assert.False(t, ok)
}
