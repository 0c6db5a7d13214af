package chart

import (
	"fmt"
	"time"

	"StockTrends/internal/model"
)

// RawFigure plots opening and closing prices of a series.
func RawFigure(series *model.PriceSeries, label string) Figure {
	n := series.Len()
	x := make([]time.Time, n)
	open := make([]float64, n)
	closing := make([]float64, n)
	for i := 0; i < n; i++ {
		b := series.Bars[i]
		x[i], open[i], closing[i] = b.Time, b.Open, b.Close
	}
	return Figure{
		Title:       fmt.Sprintf("Time Series data for %s with Rangeslider", label),
		XFormat:     "2006-01",
		RangeSlider: true,
		Traces: []Trace{
			{Name: "stock_open", Mode: ModeLines, Color: "steelblue", X: x, Y: open},
			{Name: "stock_close", Mode: ModeLines, Color: "orange", X: x, Y: closing},
		},
	}
}

// ForecastFigure overlays observed values, the point forecast and its
// confidence band.
func ForecastFigure(frame *model.ForecastFrame, label string, horizonYears int) Figure {
	n := frame.Len()
	x := make([]time.Time, n)
	yhat := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	var ax []time.Time
	var ay []float64
	for i, p := range frame.Points {
		x[i], yhat[i], lower[i], upper[i] = p.Date, p.Predicted, p.Lower, p.Upper
		if p.HasActual {
			ax = append(ax, p.Date)
			ay = append(ay, p.Actual)
		}
	}
	return Figure{
		Title:       fmt.Sprintf("Forecast plot for %s for %d years", label, horizonYears),
		XTitle:      "ds",
		YTitle:      "y",
		XFormat:     "2006-01",
		RangeSlider: true,
		Traces: []Trace{
			{Name: "Actual", Mode: ModeMarkers, Color: "black", X: ax, Y: ay},
			{Name: "Predicted", Mode: ModeLines, Color: "blue", Width: 2, X: x, Y: yhat},
		},
		Bands: []Band{
			{Name: "Uncertainty", Color: "lightblue", X: x, Lower: lower, Upper: upper},
		},
	}
}

// ComponentFigures returns the decomposition view: the trend over the whole
// frame followed by one figure per seasonal profile.
func ComponentFigures(frame *model.ForecastFrame, label string) []Figure {
	n := frame.Len()
	x := make([]time.Time, n)
	trend := make([]float64, n)
	for i, p := range frame.Points {
		x[i], trend[i] = p.Date, p.Trend
	}
	figs := []Figure{{
		Title:   fmt.Sprintf("Forecast components for %s: trend", label),
		XTitle:  "ds",
		YTitle:  "trend",
		XFormat: "2006-01",
		Traces:  []Trace{{Name: "trend", Mode: ModeLines, Color: "blue", X: x, Y: trend}},
	}}
	for _, p := range frame.Profiles {
		format, axis := "Jan 2", "Day of year"
		if len(p.Dates) <= 7 {
			format, axis = "Mon", "Day of week"
		}
		figs = append(figs, Figure{
			Title:   fmt.Sprintf("Forecast components for %s: %s", label, p.Name),
			XTitle:  axis,
			YTitle:  p.Name,
			XFormat: format,
			Traces:  []Trace{{Name: p.Name, Mode: ModeLines, Color: "blue", X: p.Dates, Y: p.Values}},
		})
	}
	return figs
}

// CombinedFigure overlays the point forecasts of two frames.
func CombinedFigure(f1 *model.ForecastFrame, label1 string, f2 *model.ForecastFrame, label2 string) Figure {
	trace := func(f *model.ForecastFrame, name, color string) Trace {
		t := Trace{Name: name + " Forecast", Mode: ModeLines, Color: color, Width: 2}
		for _, p := range f.Points {
			t.X = append(t.X, p.Date)
			t.Y = append(t.Y, p.Predicted)
		}
		return t
	}
	return Figure{
		Title:       fmt.Sprintf("Combined Forecast for %s and %s", label1, label2),
		XTitle:      "Date",
		YTitle:      "Stock Price",
		XFormat:     "2006-01",
		RangeSlider: true,
		Traces: []Trace{
			trace(f1, label1, "blue"),
			trace(f2, label2, "red"),
		},
	}
}
