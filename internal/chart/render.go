package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default SVG size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var palette = map[string]color.RGBA{
	"blue":      {R: 31, G: 119, B: 180, A: 255},
	"red":       {R: 214, G: 39, B: 40, A: 255},
	"black":     {A: 255},
	"orange":    {R: 255, G: 127, B: 14, A: 255},
	"steelblue": {R: 70, G: 130, B: 180, A: 255},
	"lightblue": {R: 0, G: 114, B: 178, A: 50},
}

func colorOf(name string) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

func toXYs(x []int64, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(x[i]), Y: y[i]})
	}
	return xys
}

func traceXYs(t Trace) plotter.XYs {
	x := make([]int64, len(t.X))
	for i, v := range t.X {
		x[i] = v.Unix()
	}
	return toXYs(x, t.Y)
}

// bandPolygon walks the upper curve forward and the lower curve back.
func bandPolygon(b Band) plotter.XYs {
	xys := make(plotter.XYs, 0, 2*len(b.X))
	for i, x := range b.X {
		xys = append(xys, plotter.XY{X: float64(x.Unix()), Y: b.Upper[i]})
	}
	for i := len(b.X) - 1; i >= 0; i-- {
		xys = append(xys, plotter.XY{X: float64(b.X[i].Unix()), Y: b.Lower[i]})
	}
	return xys
}

// Plot converts the figure into a gonum plot.
func (f Figure) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XTitle
	p.Y.Label.Text = f.YTitle
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	drawn := 0
	for _, b := range f.Bands {
		if len(b.X) < 2 {
			continue
		}
		poly, err := plotter.NewPolygon(bandPolygon(b))
		if err != nil {
			return nil, fmt.Errorf("band %q: %w", b.Name, err)
		}
		poly.Color = colorOf(b.Color)
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(b.Name, poly)
		drawn++
	}

	for _, t := range f.Traces {
		xys := traceXYs(t)
		if len(xys) == 0 {
			continue
		}
		if t.Mode == ModeMarkers {
			s, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, fmt.Errorf("trace %q: %w", t.Name, err)
			}
			s.GlyphStyle.Color = colorOf(t.Color)
			s.GlyphStyle.Radius = vg.Points(1)
			p.Add(s)
			p.Legend.Add(t.Name, s)
		} else {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("trace %q: %w", t.Name, err)
			}
			l.LineStyle.Color = colorOf(t.Color)
			if t.Width > 0 {
				l.LineStyle.Width = vg.Points(t.Width)
			}
			p.Add(l)
			p.Legend.Add(t.Name, l)
		}
		drawn++
	}

	if drawn == 0 {
		// Nothing to plot; keep the axes finite.
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		return p, nil
	}
	if f.XFormat != "" {
		p.X.Tick.Marker = plot.TimeTicks{Format: f.XFormat}
	}
	return p, nil
}

// RenderSVG renders the figure as an SVG document.
func RenderSVG(f Figure, width, height vg.Length) ([]byte, error) {
	p, err := f.Plot()
	if err != nil {
		return nil, err
	}
	w, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return nil, fmt.Errorf("svg writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}
