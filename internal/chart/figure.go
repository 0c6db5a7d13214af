// Package chart describes figures as plain data (traces, bands, titles) and
// renders them to SVG.
package chart

import "time"

// Trace modes.
const (
	ModeLines   = "lines"
	ModeMarkers = "markers"
)

// Trace is one x/y series of a figure.
type Trace struct {
	Name  string      `json:"name"`
	Mode  string      `json:"mode"`
	Color string      `json:"color,omitempty"`
	Width float64     `json:"width,omitempty"`
	X     []time.Time `json:"x"`
	Y     []float64   `json:"y"`
}

// Band is a shaded area between two curves sharing the same x values.
type Band struct {
	Name  string      `json:"name"`
	Color string      `json:"color,omitempty"`
	X     []time.Time `json:"x"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`
}

// Figure is a renderable chart specification.
type Figure struct {
	Title       string  `json:"title"`
	XTitle      string  `json:"xaxis_title,omitempty"`
	YTitle      string  `json:"yaxis_title,omitempty"`
	XFormat     string  `json:"xaxis_format,omitempty"` // time layout for tick labels
	RangeSlider bool    `json:"xaxis_rangeslider_visible"`
	Traces      []Trace `json:"traces"`
	Bands       []Band  `json:"bands,omitempty"`
}

// Points returns the total number of plotted points.
func (f *Figure) Points() int {
	n := 0
	for _, t := range f.Traces {
		n += len(t.X)
	}
	return n
}

// Window returns a copy of the figure restricted to [from, to]. A zero bound
// is open. Figures without a range slider are returned unchanged.
func (f Figure) Window(from, to time.Time) Figure {
	if !f.RangeSlider || (from.IsZero() && to.IsZero()) {
		return f
	}
	in := func(t time.Time) bool {
		return (from.IsZero() || !t.Before(from)) && (to.IsZero() || !t.After(to))
	}

	traces := make([]Trace, len(f.Traces))
	for i, tr := range f.Traces {
		out := tr
		out.X, out.Y = nil, nil
		for j, x := range tr.X {
			if in(x) {
				out.X = append(out.X, x)
				out.Y = append(out.Y, tr.Y[j])
			}
		}
		traces[i] = out
	}
	bands := make([]Band, len(f.Bands))
	for i, b := range f.Bands {
		out := b
		out.X, out.Lower, out.Upper = nil, nil, nil
		for j, x := range b.X {
			if in(x) {
				out.X = append(out.X, x)
				out.Lower = append(out.Lower, b.Lower[j])
				out.Upper = append(out.Upper, b.Upper[j])
			}
		}
		bands[i] = out
	}
	f.Traces = traces
	if len(bands) > 0 {
		f.Bands = bands
	}
	return f
}
