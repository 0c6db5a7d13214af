package model

import "time"

// ForecastPoint is one row of a forecast frame.
type ForecastPoint struct {
	Date      time.Time `json:"ds"`
	Predicted float64   `json:"yhat"`
	Lower     float64   `json:"yhat_lower"`
	Upper     float64   `json:"yhat_upper"`
	Trend     float64   `json:"trend"`
	Weekly    float64   `json:"weekly"`
	Yearly    float64   `json:"yearly"`
	Additive  float64   `json:"additive_terms"`
	Actual    float64   `json:"y,omitempty"`
	HasActual bool      `json:"has_y"`
}

// SeasonalProfile is one seasonal component evaluated over a reference
// period (a week or a year), used by the decomposition view.
type SeasonalProfile struct {
	Name   string      `json:"name"`
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// ForecastFrame spans the history of a series plus HorizonDays calendar
// days after its last date. Points are ascending by date.
type ForecastFrame struct {
	Symbol      string            `json:"symbol"`
	HorizonDays int               `json:"horizon_days"`
	HistoryLen  int               `json:"history_len"`
	Points      []ForecastPoint   `json:"points"`
	Profiles    []SeasonalProfile `json:"profiles,omitempty"`
}

// Len returns the number of points in the frame.
func (f *ForecastFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Points)
}

// Tail returns the last n points.
func (f *ForecastFrame) Tail(n int) []ForecastPoint {
	if f == nil || n <= 0 {
		return nil
	}
	if n > len(f.Points) {
		n = len(f.Points)
	}
	return f.Points[len(f.Points)-n:]
}

// History returns the in-sample part of the frame.
func (f *ForecastFrame) History() []ForecastPoint {
	if f == nil {
		return nil
	}
	return f.Points[:f.HistoryLen]
}

// Future returns the out-of-sample part of the frame.
func (f *ForecastFrame) Future() []ForecastPoint {
	if f == nil {
		return nil
	}
	return f.Points[f.HistoryLen:]
}

// MaxPredicted returns the highest point forecast and whether the frame had
// any points.
func (f *ForecastFrame) MaxPredicted() (float64, bool) {
	if f.Len() == 0 {
		return 0, false
	}
	max := f.Points[0].Predicted
	for _, p := range f.Points[1:] {
		if p.Predicted > max {
			max = p.Predicted
		}
	}
	return max, true
}

// Profile returns the seasonal profile with the given name, if present.
func (f *ForecastFrame) Profile(name string) (SeasonalProfile, bool) {
	if f == nil {
		return SeasonalProfile{}, false
	}
	for _, p := range f.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return SeasonalProfile{}, false
}

// Recommendation is the outcome of comparing two forecast frames by their
// peak predicted value.
type Recommendation struct {
	Label1  string  `json:"label1"`
	Label2  string  `json:"label2"`
	Peak1   float64 `json:"peak1"`
	Peak2   float64 `json:"peak2"`
	Winner  string  `json:"winner"`
	Message string  `json:"message"`
}
