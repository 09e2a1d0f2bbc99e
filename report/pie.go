// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Pie renders counts as a pie chart, one wedge per label, and saves
// it to path as a 6x6 inch image in the format named by the path
// extension. Counts are normalised, so they need not sum to one.
func Pie(path string, labels []string, counts []float64) error {
	if len(labels) != len(counts) {
		return fmt.Errorf("report: %d labels for %d counts", len(labels), len(counts))
	}
	var total float64
	for _, v := range counts {
		if v < 0 {
			return errors.New("report: negative count")
		}
		total += v
	}
	if total == 0 {
		return errors.New("report: no counts to plot")
	}

	w := pie{fracs: make([]float64, len(counts)), cols: make([]color.Color, len(counts))}
	for i, v := range counts {
		w.fracs[i] = v / total
		w.cols[i] = palette.HSVA{H: float64(i) / float64(len(counts)), S: 0.65, V: 0.9, A: 1}
	}

	p := plot.New()
	p.HideAxes()
	p.Add(w)
	for i, l := range labels {
		p.Legend.Add(l, swatch{w.cols[i]})
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// pie draws wedge fractions anticlockwise from the x axis around the
// canvas centre, labelling each wedge with its percentage.
type pie struct {
	fracs []float64
	cols  []color.Color
}

func (p pie) Plot(c draw.Canvas, plt *plot.Plot) {
	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(11)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	w, h := c.Max.X-c.Min.X, c.Max.Y-c.Min.Y
	r := w
	if h < w {
		r = h
	}
	r *= 0.4
	ctr := c.Center()

	start := 0.0
	for i, f := range p.fracs {
		delta := 2 * math.Pi * f

		var path vg.Path
		path.Move(ctr)
		path.Line(vg.Point{X: ctr.X + r*cos(start), Y: ctr.Y + r*sin(start)})
		path.Arc(ctr, r, start, delta)
		path.Close()
		c.SetColor(p.cols[i])
		c.Fill(path)

		mid := start + delta/2
		pt := vg.Point{X: ctr.X + 0.6*r*cos(mid), Y: ctr.Y + 0.6*r*sin(mid)}
		c.FillText(sty, pt, fmt.Sprintf("%.1f%%", 100*f))

		start += delta
	}
}

// swatch is a filled legend thumbnail in a wedge's colour.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(s.Color, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	})
}

func cos(th float64) vg.Length { return vg.Length(math.Cos(th)) }
func sin(th float64) vg.Length { return vg.Length(math.Sin(th)) }
