// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plot

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// markEvery places a marker on every n-th point of a runtime series.
const markEvery = 2

// yRange tracks the positive extent of everything drawn on a log axis.
type yRange struct {
	min, max float64
}

func newYRange() yRange {
	return yRange{min: math.Inf(1), max: math.Inf(-1)}
}

func (r *yRange) include(v float64) {
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
}

// apply fixes the Y limits on every plot so panels share one scale.
func (r yRange) apply(plots ...*plot.Plot) {
	lo, hi := r.min, r.max
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 1, 10
	}
	if lo == hi {
		lo, hi = lo/2, hi*2
	}
	for _, p := range plots {
		p.Y.Min, p.Y.Max = lo, hi
	}
}

// points pairs xs with ys scaled by scale, dropping values a log axis
// cannot show. The shorter slice wins.
func points(xs, ys []float64, scale float64) plotter.XYs {
	n := min(len(xs), len(ys))
	out := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		y := ys[i] * scale
		if y <= 0 || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		out = append(out, plotter.XY{X: xs[i], Y: y})
	}
	return out
}

// addSeries draws one library's series on p and widens yr. every selects
// which points get a marker.
func addSeries(p *plot.Plot, lib string, xys plotter.XYs, every int, yr *yRange) error {
	if len(xys) == 0 {
		return nil
	}
	st, err := StyleFor(lib)
	if err != nil {
		return err
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.LineStyle = st.Line()

	marked := make(plotter.XYs, 0, len(xys)/every+1)
	for i := 0; i < len(xys); i += every {
		marked = append(marked, xys[i])
	}
	scatter, err := plotter.NewScatter(marked)
	if err != nil {
		return err
	}
	scatter.GlyphStyle = st.Glyph()

	p.Add(line, scatter)
	for _, xy := range xys {
		yr.include(xy.Y)
	}
	return nil
}
