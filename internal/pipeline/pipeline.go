// Package pipeline runs one full dashboard pass: load, present, forecast and
// optionally compare two stocks.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"StockTrends/internal/chart"
	"StockTrends/internal/compare"
	"StockTrends/internal/forecast"
	"StockTrends/internal/model"
	"StockTrends/internal/presenter"
	"StockTrends/internal/recorder"
)

// Section headings of the comparison block.
const (
	RecommendationHeading = "Investment Recommendation"
	CombinedPlotHeading   = "Combined Forecast Plot"
)

// SeriesLoader provides cached daily history per ticker.
type SeriesLoader interface {
	Load(ctx context.Context, ticker string) (*model.PriceSeries, error)
}

// StockSection holds everything shown for one selected stock. A failing step
// leaves its error in Error and the later views empty.
type StockSection struct {
	Label    string                  `json:"label"`
	Status   string                  `json:"status"`
	Raw      *presenter.RawView      `json:"raw,omitempty"`
	Forecast *presenter.ForecastView `json:"forecast,omitempty"`
	Error    string                  `json:"error,omitempty"`

	Err    error                `json:"-"`
	Series *model.PriceSeries   `json:"-"`
	Frame  *model.ForecastFrame `json:"-"`
}

// OK reports whether the section produced a forecast.
func (s *StockSection) OK() bool { return s != nil && s.Err == nil && s.Frame != nil }

// ComparisonSection is the recommendation and the combined overlay.
type ComparisonSection struct {
	Heading        string                `json:"heading"`
	PlotHeading    string                `json:"plot_heading"`
	Recommendation *model.Recommendation `json:"recommendation,omitempty"`
	PeakLines      []string              `json:"peak_lines,omitempty"`
	Figure         *chart.Figure         `json:"figure,omitempty"`
	Error          string                `json:"error,omitempty"`

	Err error `json:"-"`
}

// Outputs is the result of one run. Selection errors leave every section
// nil.
type Outputs struct {
	Selection  Selection          `json:"selection"`
	Primary    *StockSection      `json:"primary,omitempty"`
	Secondary  *StockSection      `json:"secondary,omitempty"`
	Comparison *ComparisonSection `json:"comparison,omitempty"`
	Error      string             `json:"error,omitempty"`
	Elapsed    time.Duration      `json:"elapsed_ns"`

	Err error `json:"-"`
}

// Runner executes runs against shared collaborators.
type Runner struct {
	Loader     SeriesLoader
	Forecaster *forecast.Forecaster
	Recorder   recorder.Recorder
	Provider   string
}

// NewRunner creates a Runner. A nil recorder disables recording.
func NewRunner(loader SeriesLoader, fc *forecast.Forecaster, rec recorder.Recorder, provider string) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Loader: loader, Forecaster: fc, Recorder: rec, Provider: provider}
}

// Run executes the whole pipeline for sel. It never returns nil; failures
// are reported per section so a broken secondary stock keeps the primary
// results intact.
func (r *Runner) Run(ctx context.Context, sel Selection) *Outputs {
	began := time.Now()
	sel = sel.Normalized()
	out := &Outputs{Selection: sel}
	defer func() { out.Elapsed = time.Since(began) }()

	if err := sel.Validate(); err != nil {
		out.Err, out.Error = err, err.Error()
		log.Warn().Err(err).Msg("invalid selection")
		return out
	}

	horizon := forecast.HorizonDays(sel.HorizonYears)
	out.Primary = r.stock(ctx, sel, sel.Primary, horizon)
	if !sel.Compare {
		return out
	}
	out.Secondary = r.stock(ctx, sel, sel.Secondary, horizon)
	out.Comparison = r.compare(sel, out.Primary, out.Secondary)
	return out
}

func (r *Runner) stock(ctx context.Context, sel Selection, ticker string, horizon int) *StockSection {
	sec := &StockSection{Label: ticker, Status: presenter.StatusLoading}
	fail := func(err error) *StockSection {
		sec.Err, sec.Error = err, err.Error()
		log.Error().Err(err).Str("ticker", ticker).Msg("run section failed")
		return sec
	}

	series, err := r.Loader.Load(ctx, ticker)
	if err != nil {
		return fail(err)
	}
	sec.Series = series
	sec.Status = presenter.StatusDone

	raw := presenter.ShowRaw(series, ticker)
	raw.Figure = raw.Figure.Window(sel.From, sel.To)
	sec.Raw = &raw

	frame, err := r.Forecaster.Forecast(series, horizon)
	if err != nil {
		return fail(err)
	}
	sec.Frame = frame

	fv := presenter.ShowForecast(frame, ticker, sel.HorizonYears)
	fv.Figure = fv.Figure.Window(sel.From, sel.To)
	sec.Forecast = &fv

	r.recordForecast(series, frame)
	return sec
}

func (r *Runner) compare(sel Selection, a, b *StockSection) *ComparisonSection {
	c := &ComparisonSection{Heading: RecommendationHeading, PlotHeading: CombinedPlotHeading}
	if !a.OK() || !b.OK() {
		failed := a
		if a.OK() {
			failed = b
		}
		c.Err = failed.Err
		c.Error = "comparison unavailable: " + failed.Error
		return c
	}

	rec, err := compare.Compare(a.Frame, a.Label, b.Frame, b.Label)
	if err != nil {
		c.Err, c.Error = err, err.Error()
		return c
	}
	c.Recommendation = rec
	c.PeakLines = compare.PeakLines(rec)
	fig := chart.CombinedFigure(a.Frame, a.Label, b.Frame, b.Label).Window(sel.From, sel.To)
	c.Figure = &fig

	if err := r.Recorder.RecordRecommendation(&recorder.RecommendationEvent{
		Label1: rec.Label1, Label2: rec.Label2,
		Peak1: rec.Peak1, Peak2: rec.Peak2,
		Winner: rec.Winner, HorizonYears: sel.HorizonYears,
	}); err != nil {
		log.Error().Err(err).Msg("record recommendation")
	}
	log.Info().Str("winner", rec.Winner).Float64("peak1", rec.Peak1).Float64("peak2", rec.Peak2).Msg("recommendation")
	return c
}

func (r *Runner) recordForecast(series *model.PriceSeries, frame *model.ForecastFrame) {
	peak, _ := frame.MaxPredicted()
	last := frame.Points[len(frame.Points)-1]
	run := &recorder.ForecastRun{
		Symbol:         series.Symbol,
		Provider:       r.Provider,
		HorizonDays:    frame.HorizonDays,
		HistoryLen:     frame.HistoryLen,
		FirstDate:      series.First(),
		LastDate:       series.Last(),
		LastClose:      series.Bars[len(series.Bars)-1].Close,
		PeakPredicted:  peak,
		FinalPredicted: last.Predicted,
		FinalLower:     last.Lower,
		FinalUpper:     last.Upper,
	}
	if err := r.Recorder.RecordForecast(run); err != nil {
		log.Error().Err(err).Str("ticker", series.Symbol).Msg("record forecast")
	}
}
