// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plot

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrUnknownLibrary is returned for a series with no assigned style.
var ErrUnknownLibrary = errors.New("library has no plot style")

// Reference is drawn solid with x markers; every other library is dashed
// with dot markers.
const Reference = "phylo-rs"

// Libraries lists every charted library in palette order.
var Libraries = []string{
	"phylo-rs", "phylotree", "CompactTree", "genesis",
	"gotree", "dendropy", "treeswift", "ape",
}

// seaborn "colorblind" palette, first eight entries
var palette = []color.RGBA{
	{R: 0x01, G: 0x73, B: 0xB2, A: 0xFF},
	{R: 0xDE, G: 0x8F, B: 0x05, A: 0xFF},
	{R: 0x02, G: 0x9E, B: 0x73, A: 0xFF},
	{R: 0xD5, G: 0x5E, B: 0x00, A: 0xFF},
	{R: 0xCC, G: 0x78, B: 0xBC, A: 0xFF},
	{R: 0xCA, G: 0x91, B: 0x61, A: 0xFF},
	{R: 0xFB, G: 0xAF, B: 0xE4, A: 0xFF},
	{R: 0x94, G: 0x94, B: 0x94, A: 0xFF},
}

var gridColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}

// Style is the look of one library's series.
type Style struct {
	Color color.Color
	Solid bool
}

// StyleFor returns the style assigned to lib.
func StyleFor(lib string) (Style, error) {
	for i, name := range Libraries {
		if name == lib {
			return Style{Color: palette[i], Solid: lib == Reference}, nil
		}
	}
	return Style{}, fmt.Errorf("%w: %q", ErrUnknownLibrary, lib)
}

// Line returns the connecting line style.
func (s Style) Line() draw.LineStyle {
	ls := draw.LineStyle{Color: s.Color, Width: vg.Points(1)}
	if !s.Solid {
		ls.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	return ls
}

// Glyph returns the marker style.
func (s Style) Glyph() draw.GlyphStyle {
	if s.Solid {
		return draw.GlyphStyle{Color: s.Color, Radius: vg.Points(3), Shape: draw.CrossGlyph{}}
	}
	return draw.GlyphStyle{Color: s.Color, Radius: vg.Points(1.5), Shape: draw.CircleGlyph{}}
}

// legendEntries adds every library to leg, whether or not it has data.
func legendEntries(leg *plot.Legend) {
	for _, lib := range Libraries {
		st, _ := StyleFor(lib)
		line := &plotter.Line{LineStyle: st.Line()}
		marker := &plotter.Scatter{GlyphStyle: st.Glyph()}
		leg.Add(lib, line, marker)
	}
}

// addGrid draws thin dashed grey grid lines.
func addGrid(p *plot.Plot) {
	g := plotter.NewGrid()
	ls := draw.LineStyle{
		Color:  gridColor,
		Width:  vg.Points(0.5),
		Dashes: []vg.Length{vg.Points(2), vg.Points(2)},
	}
	g.Vertical = ls
	g.Horizontal = ls
	p.Add(g)
}

// logY switches the Y axis to a log scale.
func logY(p *plot.Plot) {
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
}
