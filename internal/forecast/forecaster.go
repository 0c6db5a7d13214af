package forecast

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"StockTrends/internal/model"
)

// DaysPerYear converts the horizon slider (years) into calendar days.
const DaysPerYear = 365

// HorizonDays returns the forecast horizon for a number of years.
func HorizonDays(years int) int {
	return years * DaysPerYear
}

// Forecaster fits a fresh model for every call.
type Forecaster struct {
	Options Options
}

// New creates a Forecaster with the given model options.
func New(opts Options) *Forecaster {
	return &Forecaster{Options: opts}
}

// Forecast fits the model on the closing prices of series and predicts every
// historical date plus horizonDays calendar days after the last one.
func (f *Forecaster) Forecast(series *model.PriceSeries, horizonDays int) (*model.ForecastFrame, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("%w: negative horizon %d", ErrForecast, horizonDays)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrForecast)
	}

	began := time.Now()
	tf := NewTrainingFrame(series)
	m := NewModel(f.Options)
	if err := m.Fit(tf); err != nil {
		return nil, fmt.Errorf("fit %s: %w", series.Symbol, err)
	}

	dates := make([]time.Time, 0, len(tf.DS)+horizonDays)
	dates = append(dates, tf.DS...)
	dates = append(dates, m.MakeFuture(horizonDays)...)

	points, err := m.Predict(dates)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", series.Symbol, err)
	}
	for i, b := range series.Bars {
		points[i].Actual = b.Close
		points[i].HasActual = true
	}

	log.Debug().Str("ticker", series.Symbol).
		Int("history", len(tf.DS)).Int("horizon_days", horizonDays).
		Strs("seasonalities", m.Seasonalities()).
		Dur("elapsed", time.Since(began)).Msg("forecast fitted")

	return &model.ForecastFrame{
		Symbol:      series.Symbol,
		HorizonDays: horizonDays,
		HistoryLen:  len(tf.DS),
		Points:      points,
		Profiles:    m.Profiles(),
	}, nil
}
