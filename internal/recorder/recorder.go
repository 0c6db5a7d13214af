package recorder

import "time"

// ForecastRun summarises one fitted forecast.
type ForecastRun struct {
	Symbol         string    `json:"symbol"`
	Provider       string    `json:"provider"`
	HorizonDays    int       `json:"horizon_days"`
	HistoryLen     int       `json:"history_len"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
	LastClose      float64   `json:"last_close"`
	PeakPredicted  float64   `json:"peak_predicted"`
	FinalPredicted float64   `json:"final_predicted"`
	FinalLower     float64   `json:"final_lower"`
	FinalUpper     float64   `json:"final_upper"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// RecommendationEvent records the outcome of a comparison.
type RecommendationEvent struct {
	ID           int64     `json:"id"`
	Label1       string    `json:"label1"`
	Label2       string    `json:"label2"`
	Peak1        float64   `json:"peak1"`
	Peak2        float64   `json:"peak2"`
	Winner       string    `json:"winner"`
	HorizonYears int       `json:"horizon_years"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Recorder persists an audit trail of forecasts and recommendations.
type Recorder interface {
	RecordForecast(run *ForecastRun) error
	RecordRecommendation(evt *RecommendationEvent) error
	RecentRecommendations(limit int) ([]RecommendationEvent, error)
	Close() error
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}
