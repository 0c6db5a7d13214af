package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"StockTrends/internal/model"
)

// ErrForecast is returned when the model cannot be fit or evaluated.
var ErrForecast = errors.New("forecast failed")

// noiseScale is the assumed observation noise of the scaled series. It turns
// the prior scales into ridge penalties: lambda = noiseScale^2 / scale^2.
const noiseScale = 0.02

// offsetPriorScale bounds the intercept and base growth rate.
const offsetPriorScale = 5.0

// TrainingFrame is the (date, value) projection the model is fit on.
type TrainingFrame struct {
	DS []time.Time
	Y  []float64
}

// NewTrainingFrame projects a price series onto its closing prices.
func NewTrainingFrame(series *model.PriceSeries) TrainingFrame {
	tf := TrainingFrame{
		DS: make([]time.Time, series.Len()),
		Y:  make([]float64, series.Len()),
	}
	for i, b := range series.Bars {
		tf.DS[i] = b.Time
		tf.Y[i] = b.Close
	}
	return tf
}

// Model is an additive trend + seasonality regression.
type Model struct {
	opts Options

	start    time.Time
	spanDays float64
	yScale   float64

	changepoints  []float64 // scaled time
	seasonalities []seasonality
	beta          []float64 // intercept, slope, deltas..., fourier coefficients...
	sigma         float64   // residual std, scaled units
	lastDate      time.Time
	fitted        bool
}

// NewModel creates an unfitted model.
func NewModel(opts Options) *Model {
	return &Model{opts: opts.withDefaults()}
}

func (m *Model) scaledTime(t time.Time) float64 {
	return t.Sub(m.start).Hours() / 24 / m.spanDays
}

func (m *Model) numParams() int {
	n := 2 + len(m.changepoints)
	for _, s := range m.seasonalities {
		n += 2 * s.order
	}
	return n
}

// row builds the design row for date t.
func (m *Model) row(dst []float64, t time.Time) []float64 {
	dst = dst[:0]
	ts := m.scaledTime(t)
	dst = append(dst, 1, ts)
	for _, cp := range m.changepoints {
		dst = append(dst, math.Max(ts-cp, 0))
	}
	for _, s := range m.seasonalities {
		dst = fourier(dst, t, s)
	}
	return dst
}

func (m *Model) penalties() []float64 {
	p := make([]float64, 0, m.numParams())
	offset := noiseScale * noiseScale / (offsetPriorScale * offsetPriorScale)
	p = append(p, offset, offset)
	cp := noiseScale * noiseScale / (m.opts.ChangepointPriorScale * m.opts.ChangepointPriorScale)
	for range m.changepoints {
		p = append(p, cp)
	}
	season := noiseScale * noiseScale / (m.opts.SeasonalityPriorScale * m.opts.SeasonalityPriorScale)
	for _, s := range m.seasonalities {
		for i := 0; i < 2*s.order; i++ {
			p = append(p, season)
		}
	}
	return p
}

func enabled(force *bool, auto bool) bool {
	if force != nil {
		return *force
	}
	return auto
}

// Fit estimates the model parameters from tf.
func (m *Model) Fit(tf TrainingFrame) error {
	if len(tf.DS) != len(tf.Y) {
		return fmt.Errorf("%w: %d dates but %d values", ErrForecast, len(tf.DS), len(tf.Y))
	}
	n := len(tf.DS)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return tf.DS[order[a]].Before(tf.DS[order[b]]) })
	ds := make([]time.Time, n)
	y := make([]float64, n)
	for i, j := range order {
		ds[i], y[i] = tf.DS[j], tf.Y[j]
	}

	distinct := 0
	minY, maxY, absMax := math.Inf(1), math.Inf(-1), 0.0
	for i := range ds {
		if i == 0 || !ds[i].Equal(ds[i-1]) {
			distinct++
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("%w: non-finite value at %s", ErrForecast, ds[i].Format("2006-01-02"))
		}
		minY = math.Min(minY, y[i])
		maxY = math.Max(maxY, y[i])
		absMax = math.Max(absMax, math.Abs(y[i]))
	}
	if distinct < 2 {
		return fmt.Errorf("%w: need at least 2 distinct dates, got %d", ErrForecast, distinct)
	}
	if maxY == minY {
		return fmt.Errorf("%w: series has no variance", ErrForecast)
	}

	m.start = ds[0]
	m.lastDate = ds[n-1]
	m.spanDays = ds[n-1].Sub(ds[0]).Hours() / 24
	m.yScale = absMax

	m.changepoints = m.changepoints[:0]
	histSize := int(math.Floor(float64(n) * m.opts.ChangepointRange))
	for _, idx := range changepointIndexes(histSize, m.opts.ChangepointCount) {
		m.changepoints = append(m.changepoints, m.scaledTime(ds[idx]))
	}

	minGap := math.Inf(1)
	for i := 1; i < n; i++ {
		if g := ds[i].Sub(ds[i-1]).Hours() / 24; g > 0 {
			minGap = math.Min(minGap, g)
		}
	}
	m.seasonalities = m.seasonalities[:0]
	if enabled(m.opts.YearlySeasonality, m.spanDays >= 730) {
		m.seasonalities = append(m.seasonalities, seasonality{name: ComponentYearly, period: 365.25, order: m.opts.YearlyOrder})
	}
	if enabled(m.opts.WeeklySeasonality, m.spanDays >= 14 && minGap < 7) {
		m.seasonalities = append(m.seasonalities, seasonality{name: ComponentWeekly, period: 7, order: m.opts.WeeklyOrder})
	}

	p := m.numParams()
	a := mat.NewDense(n+p, p, nil)
	b := mat.NewVecDense(n+p, nil)
	buf := make([]float64, 0, p)
	for i := range ds {
		buf = m.row(buf, ds[i])
		a.SetRow(i, buf)
		b.SetVec(i, y[i]/m.yScale)
	}
	for j, lambda := range m.penalties() {
		a.Set(n+j, j, math.Sqrt(lambda))
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return fmt.Errorf("%w: least squares: %v", ErrForecast, err)
	}
	m.beta = make([]float64, p)
	for j := range m.beta {
		m.beta[j] = beta.AtVec(j)
	}

	var sse float64
	for i := range ds {
		buf = m.row(buf, ds[i])
		r := y[i]/m.yScale - dot(buf, m.beta)
		sse += r * r
	}
	m.sigma = math.Sqrt(sse / float64(n))
	m.fitted = true
	return nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// MakeFuture returns the dates strictly after the last training date, one
// per calendar day, for horizonDays days.
func (m *Model) MakeFuture(horizonDays int) []time.Time {
	out := make([]time.Time, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		out = append(out, m.lastDate.AddDate(0, 0, i))
	}
	return out
}

// components splits the prediction for t into trend and named seasonal
// parts, in scaled units.
func (m *Model) components(t time.Time) (trend float64, seasonal map[string]float64) {
	row := m.row(make([]float64, 0, len(m.beta)), t)
	base := 2 + len(m.changepoints)
	trend = dot(row[:base], m.beta[:base])
	seasonal = make(map[string]float64, len(m.seasonalities))
	off := base
	for _, s := range m.seasonalities {
		w := 2 * s.order
		seasonal[s.name] = dot(row[off:off+w], m.beta[off:off+w])
		off += w
	}
	return trend, seasonal
}

// trendStd returns the standard deviation of the simulated trend at scaled
// time ts. Beyond the history, slope changes arrive as a Poisson process
// with the fitted changepoint rate and Laplace magnitudes whose scale is the
// mean absolute fitted change; the variance of that random walk integrates
// to rate * 2b^2 * h^3 / 3.
func (m *Model) trendStd(ts float64) float64 {
	h := ts - 1
	if h <= 0 || len(m.changepoints) == 0 {
		return 0
	}
	var meanAbs float64
	for _, d := range m.beta[2 : 2+len(m.changepoints)] {
		meanAbs += math.Abs(d)
	}
	meanAbs = meanAbs/float64(len(m.changepoints)) + 1e-8
	rate := float64(len(m.changepoints))
	return math.Sqrt(rate * 2 * meanAbs * meanAbs * h * h * h / 3)
}

// Predict evaluates the model for every date in dates.
func (m *Model) Predict(dates []time.Time) ([]model.ForecastPoint, error) {
	if !m.fitted {
		return nil, fmt.Errorf("%w: model is not fitted", ErrForecast)
	}
	z := distuv.UnitNormal.Quantile(0.5 + m.opts.IntervalWidth/2)

	out := make([]model.ForecastPoint, len(dates))
	for i, t := range dates {
		trend, seasonal := m.components(t)
		additive := 0.0
		for _, v := range seasonal {
			additive += v
		}
		yhat := (trend + additive) * m.yScale
		ts := m.scaledTime(t)
		ts2 := m.trendStd(ts)
		sd := math.Sqrt(m.sigma*m.sigma+ts2*ts2) * m.yScale
		out[i] = model.ForecastPoint{
			Date:      t,
			Predicted: yhat,
			Lower:     yhat - z*sd,
			Upper:     yhat + z*sd,
			Trend:     trend * m.yScale,
			Weekly:    seasonal[ComponentWeekly] * m.yScale,
			Yearly:    seasonal[ComponentYearly] * m.yScale,
			Additive:  additive * m.yScale,
		}
	}
	return out, nil
}

// Profiles evaluates each enabled seasonality over its reference period.
func (m *Model) Profiles() []model.SeasonalProfile {
	var out []model.SeasonalProfile
	for _, s := range m.seasonalities {
		days := 7
		if s.name == ComponentYearly {
			days = 365
		}
		dates := referenceDates(days)
		vals := make([]float64, len(dates))
		for i, t := range dates {
			_, seasonal := m.components(t)
			vals[i] = seasonal[s.name] * m.yScale
		}
		out = append(out, model.SeasonalProfile{Name: s.name, Dates: dates, Values: vals})
	}
	return out
}

// Seasonalities returns the names of the enabled seasonal components.
func (m *Model) Seasonalities() []string {
	names := make([]string, len(m.seasonalities))
	for i, s := range m.seasonalities {
		names[i] = s.name
	}
	return names
}

// Changepoints returns the changepoint dates.
func (m *Model) Changepoints() []time.Time {
	out := make([]time.Time, len(m.changepoints))
	for i, cp := range m.changepoints {
		out[i] = m.start.Add(time.Duration(cp * m.spanDays * 24 * float64(time.Hour)))
	}
	return out
}
