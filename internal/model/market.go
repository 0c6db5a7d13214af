package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
}

// PriceSeries holds the daily history of one ticker, ascending by date.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Tail returns the last n bars. The returned slice aliases the series.
func (s *PriceSeries) Tail(n int) []OHLCV {
	if s == nil || n <= 0 {
		return nil
	}
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	return s.Bars[len(s.Bars)-n:]
}

// First returns the first bar date, or the zero time for an empty series.
func (s *PriceSeries) First() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Bars[0].Time
}

// Last returns the last bar date, or the zero time for an empty series.
func (s *PriceSeries) Last() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Time
}
