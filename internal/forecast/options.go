// Package forecast fits an additive time-series model (piecewise-linear
// trend plus Fourier seasonalities) to a daily price series and extends it
// over a calendar-day horizon with uncertainty bounds.
package forecast

// Options configures the additive model. Zero values are replaced by the
// defaults from DefaultOptions.
type Options struct {
	ChangepointCount      int     `yaml:"changepoints"`
	ChangepointRange      float64 `yaml:"changepoint_range"`
	ChangepointPriorScale float64 `yaml:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale"`
	YearlyOrder           int     `yaml:"yearly_order"`
	WeeklyOrder           int     `yaml:"weekly_order"`
	IntervalWidth         float64 `yaml:"interval_width"`

	// nil means decide from the length of the history.
	YearlySeasonality *bool `yaml:"yearly_seasonality"`
	WeeklySeasonality *bool `yaml:"weekly_seasonality"`
}

// DefaultOptions returns the stock model settings.
func DefaultOptions() Options {
	return Options{
		ChangepointCount:      25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		YearlyOrder:           10,
		WeeklyOrder:           3,
		IntervalWidth:         0.80,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ChangepointCount < 0 {
		o.ChangepointCount = 0
	} else if o.ChangepointCount == 0 {
		o.ChangepointCount = d.ChangepointCount
	}
	if o.ChangepointRange <= 0 || o.ChangepointRange > 1 {
		o.ChangepointRange = d.ChangepointRange
	}
	if o.ChangepointPriorScale <= 0 {
		o.ChangepointPriorScale = d.ChangepointPriorScale
	}
	if o.SeasonalityPriorScale <= 0 {
		o.SeasonalityPriorScale = d.SeasonalityPriorScale
	}
	if o.YearlyOrder <= 0 {
		o.YearlyOrder = d.YearlyOrder
	}
	if o.WeeklyOrder <= 0 {
		o.WeeklyOrder = d.WeeklyOrder
	}
	if o.IntervalWidth <= 0 || o.IntervalWidth >= 1 {
		o.IntervalWidth = d.IntervalWidth
	}
	return o
}
