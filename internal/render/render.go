// Package render draws static PNG snapshots of chart specifications with gonum/plot.
// Selections and zoom are dropped; everything else in the spec is honored.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/chart"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// ErrUnsupportedMark is returned for marks the renderer cannot draw
var ErrUnsupportedMark = errors.New("unsupported mark")

var namedColors = map[string]color.Color{
	"grey":  color.RGBA{R: 128, G: 128, B: 128, A: 255},
	"gray":  color.RGBA{R: 128, G: 128, B: 128, A: 255},
	"red":   color.RGBA{R: 220, G: 20, B: 20, A: 255},
	"black": color.Black,
}

// PNG writes spec as a PNG image sized Width x Height points
func PNG(w io.Writer, spec chart.Spec) error {
	p, err := Plot(spec)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Points(float64(spec.Width)), vg.Points(float64(spec.Height)), "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", spec.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", spec.Name, err)
	}
	return nil
}

// Plot converts spec into a gonum plot
func Plot(spec chart.Spec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = spec.Title

	switch spec.Mark.Type {
	case chart.MarkLine:
		if err := addLines(p, spec); err != nil {
			return nil, fmt.Errorf("render %s: %w", spec.Name, err)
		}
	case chart.MarkBoxplot:
		if err := addBox(p, spec); err != nil {
			return nil, fmt.Errorf("render %s: %w", spec.Name, err)
		}
	default:
		return nil, fmt.Errorf("render %s: %w: %q", spec.Name, ErrUnsupportedMark, spec.Mark.Type)
	}
	return p, nil
}

func addLines(p *plot.Plot, spec chart.Spec) error {
	enc := spec.Encoding
	if enc.X == nil || enc.Y == nil {
		return errors.New("line chart requires x and y channels")
	}
	p.X.Label.Text = enc.X.Title
	p.Y.Label.Text = enc.Y.Title

	xOf, err := xAxis(p, enc.X)
	if err != nil {
		return err
	}

	var order []string
	colorOf := func(model.Record) string { return "" }
	if enc.Color != nil {
		order = enc.Color.Sort
		colorOf = column(enc.Color.Field)
		p.Legend.Top = true
	}

	series := make(map[string]plotter.XYs)
	for _, r := range spec.Data {
		x, ok := xOf(r)
		if !ok {
			continue
		}
		k := colorOf(r)
		series[k] = append(series[k], plotter.XY{X: x, Y: r.Val})
	}
	if len(order) == 0 {
		for k := range series {
			order = append(order, k)
		}
		sort.Strings(order)
	}

	colors := seriesColors(enc.Color, len(order))
	for i, k := range order {
		xys, ok := series[k]
		if !ok {
			continue
		}
		sort.SliceStable(xys, func(a, b int) bool { return xys[a].X < xys[b].X })

		l, s, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("series %q: %w", k, err)
		}
		l.Color = colors[i]
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(l, s)
		if k != "" {
			p.Legend.Add(k, l, s)
		}
	}
	return nil
}

// xAxis configures the x axis for the channel type and returns the position of a record
func xAxis(p *plot.Plot, ch *chart.Channel) (func(model.Record) (float64, bool), error) {
	switch ch.Type {
	case chart.Temporal:
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
		return func(r model.Record) (float64, bool) {
			return float64(r.Date.Unix()), true
		}, nil
	case chart.Ordinal, chart.Nominal:
		pos := make(map[string]float64, len(ch.Sort))
		for i, v := range ch.Sort {
			pos[v] = float64(i)
		}
		if len(ch.Sort) > 0 {
			p.NominalX(ch.Sort...)
		}
		get := column(ch.Field)
		return func(r model.Record) (float64, bool) {
			x, ok := pos[get(r)]
			return x, ok
		}, nil
	case chart.Quantitative:
		return func(r model.Record) (float64, bool) { return r.Val, true }, nil
	default:
		return nil, fmt.Errorf("unsupported x type %q", ch.Type)
	}
}

func addBox(p *plot.Plot, spec chart.Spec) error {
	x := spec.Encoding.X
	if x == nil {
		return errors.New("box plot requires an x channel")
	}
	p.X.Label.Text = x.Title
	if x.Scale != nil {
		if x.Scale.Type == chart.ScaleLog {
			p.X.Scale = plot.LogScale{}
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		}
		if len(x.Scale.Domain) == 2 {
			p.X.Min, p.X.Max = x.Scale.Domain[0], x.Scale.Domain[1]
		}
	}
	p.HideY()

	values := make(plotter.Values, 0, len(spec.Data))
	for _, r := range spec.Data {
		// Log axes cannot place non-positive values.
		if x.Scale != nil && x.Scale.Type == chart.ScaleLog && r.Val <= 0 {
			continue
		}
		values = append(values, r.Val)
	}
	if len(values) == 0 {
		return nil
	}

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, values)
	if err != nil {
		return err
	}
	box.Horizontal = true
	c := lookupColor(spec.Mark.Color)
	box.BoxStyle.Color = c
	box.MedianStyle.Color = c
	box.WhiskerStyle.Color = c
	box.GlyphStyle.Color = c
	p.Add(box)
	return nil
}

func seriesColors(ch *chart.Channel, n int) []color.Color {
	out := make([]color.Color, n)
	if ch != nil && ch.Scale != nil && ch.Scale.Scheme != "" {
		for i := range out {
			t := 1.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			out[i] = sequential(t)
		}
		return out
	}
	for i := range out {
		out[i] = plotutil.Color(i)
	}
	return out
}

// yellowOrangeRed holds the stops of the sequential scheme, light to dark
var yellowOrangeRed = []color.RGBA{
	{R: 255, G: 255, B: 178, A: 255},
	{R: 253, G: 141, B: 60, A: 255},
	{R: 189, G: 0, B: 38, A: 255},
}

// sequential interpolates the scheme at t in [0, 1]
func sequential(t float64) color.Color {
	stops := yellowOrangeRed
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*f) }
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func lookupColor(name string) color.Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return color.Black
}

func column(field string) func(model.Record) string {
	switch field {
	case chart.FieldAge:
		return func(r model.Record) string { return r.AgeName }
	case chart.FieldSex:
		return func(r model.Record) string { return r.SexName }
	case chart.FieldRace:
		return func(r model.Record) string { return r.RaceName }
	default:
		return func(model.Record) string { return "" }
	}
}
