// Package presenter turns loaded series and forecast frames into display
// views: a short tabular preview plus the figures to draw.
package presenter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"StockTrends/internal/calculator"
	"StockTrends/internal/chart"
	"StockTrends/internal/model"
)

// PreviewRows is the number of trailing rows shown in every table preview.
const PreviewRows = 5

// Section status text.
const (
	StatusLoading = "Loading data..."
	StatusDone    = "Loading data... done!"
)

// RawRow is one formatted row of the raw data preview.
type RawRow struct {
	Date     string `json:"date"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	AdjClose string `json:"adj_close"`
	Volume   string `json:"volume"`
}

// RawView is the raw data section for one stock.
type RawView struct {
	Label       string              `json:"label"`
	Heading     string              `json:"heading"`
	PlotHeading string              `json:"plot_heading"`
	Status      string              `json:"status"`
	Warning     string              `json:"warning,omitempty"`
	Rows        []RawRow            `json:"rows"`
	Summary     *calculator.Summary `json:"summary,omitempty"`
	Figure      chart.Figure        `json:"figure"`
}

// ForecastRow is one formatted row of the forecast preview.
type ForecastRow struct {
	Date      string `json:"ds"`
	Predicted string `json:"yhat"`
	Lower     string `json:"yhat_lower"`
	Upper     string `json:"yhat_upper"`
	Trend     string `json:"trend"`
}

// ForecastView is the forecast section for one stock.
type ForecastView struct {
	Label             string         `json:"label"`
	HorizonYears      int            `json:"horizon_years"`
	Heading           string         `json:"heading"`
	ComponentsHeading string         `json:"components_heading"`
	Warning           string         `json:"warning,omitempty"`
	Rows              []ForecastRow  `json:"rows"`
	Figure            chart.Figure   `json:"figure"`
	Components        []chart.Figure `json:"components"`
}

// RawColumns and ForecastColumns are the table headers of the previews.
var (
	RawColumns      = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}
	ForecastColumns = []string{"ds", "yhat", "yhat_lower", "yhat_upper", "trend"}
)

func price(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

// ShowRaw builds the raw data view: the last rows of the series and an
// open/close figure with a range slider.
func ShowRaw(series *model.PriceSeries, label string) RawView {
	v := RawView{
		Label:       label,
		Heading:     fmt.Sprintf("Raw data for %s", label),
		PlotHeading: fmt.Sprintf("Raw data plot for %s", label),
		Status:      StatusDone,
		Figure:      chart.RawFigure(series, label),
	}
	if series.Len() == 0 {
		v.Warning = fmt.Sprintf("No data available for %s", label)
		return v
	}
	for _, b := range series.Tail(PreviewRows) {
		v.Rows = append(v.Rows, RawRow{
			Date:     b.Time.Format("2006-01-02"),
			Open:     price(b.Open),
			High:     price(b.High),
			Low:      price(b.Low),
			Close:    price(b.Close),
			AdjClose: price(b.AdjClose),
			Volume:   decimal.NewFromFloat(b.Volume).Round(0).String(),
		})
	}
	if sum, err := calculator.Summarize(series); err == nil {
		v.Summary = sum
	}
	return v
}

// ShowForecast builds the forecast view: the last rows of the frame, the
// forecast figure and the decomposition figures.
func ShowForecast(frame *model.ForecastFrame, label string, horizonYears int) ForecastView {
	v := ForecastView{
		Label:             label,
		HorizonYears:      horizonYears,
		Heading:           fmt.Sprintf("Forecast data for %s", label),
		ComponentsHeading: fmt.Sprintf("Forecast components for %s", label),
	}
	if frame.Len() == 0 {
		v.Warning = fmt.Sprintf("No forecast available for %s", label)
		return v
	}
	for _, p := range frame.Tail(PreviewRows) {
		v.Rows = append(v.Rows, ForecastRow{
			Date:      p.Date.Format("2006-01-02"),
			Predicted: price(p.Predicted),
			Lower:     price(p.Lower),
			Upper:     price(p.Upper),
			Trend:     price(p.Trend),
		})
	}
	v.Figure = chart.ForecastFigure(frame, label, horizonYears)
	v.Components = chart.ComponentFigures(frame, label)
	return v
}

// SummaryLine formats the summary statistics for display.
func (v RawView) SummaryLine() string {
	s := v.Summary
	if s == nil {
		return ""
	}
	line := fmt.Sprintf("Last close %s | 52w range %s - %s (%.0f%%) | 30d range %s - %s",
		price(s.LastClose), price(s.Low52w), price(s.High52w), s.Position52w*100, price(s.Low30d), price(s.High30d))
	if s.SMA200 > 0 {
		line += " | SMA200 " + price(s.SMA200)
	}
	return line
}

// Cells flattens a raw row for table renderers.
func (r RawRow) Cells() []string {
	return []string{r.Date, r.Open, r.High, r.Low, r.Close, r.AdjClose, r.Volume}
}

// Cells flattens a forecast row for table renderers.
func (r ForecastRow) Cells() []string {
	return []string{r.Date, r.Predicted, r.Lower, r.Upper, r.Trend}
}
