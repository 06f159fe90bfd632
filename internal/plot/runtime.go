// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plot

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jeranaias/phylobench/internal/table"
)

// AxisRow is the runtime-table row holding the taxa sizes.
const AxisRow = "algorithms"

// Method is one panel of the runtime figure.
type Method struct {
	Key   string
	Title string
}

// Methods lists the runtime panels in order.
var Methods = []Method{
	{Key: "traverse", Title: "Tree Traversal"},
	{Key: "lca", Title: "Least Common Ancestor Retrieval"},
	{Key: "nni", Title: "Nearest Neighbor Interchange"},
	{Key: "yts", Title: "Yule Tree Simulation"},
	{Key: "contract", Title: "Tree Contraction"},
	{Key: "rfs", Title: "Robinson Foulds metric computation"},
}

const (
	gridRows = 3
	gridCols = 2
)

// RuntimeTaxa returns the default x axis: 200 to 10000 in steps of 200.
func RuntimeTaxa() []float64 {
	xs := make([]float64, 0, 50)
	for x := 200; x <= 10000; x += 200 {
		xs = append(xs, float64(x))
	}
	return xs
}

// LibraryKey strips the trailing operation segment from a column name
// ("phylo-rs-lca" -> "phylo-rs").
func LibraryKey(column string) string {
	i := strings.LastIndex(column, "-")
	if i < 0 {
		return ""
	}
	return column[:i]
}

// PanelTitle returns the lettered title of panel i.
func PanelTitle(i int) string {
	return fmt.Sprintf("(%c) %s", 'A'+i, Methods[i].Title)
}

// Runtime builds the runtime panels from a runtimes table, indexed
// [row][col] with method i at row i%3, column i/3. Values are seconds
// and are drawn in milliseconds. All panels share both axes.
func Runtime(tbl *table.Table) ([][]*plot.Plot, error) {
	xs := RuntimeTaxa()
	if row, ok := tbl.Row(AxisRow); ok && len(row.Values) > 0 {
		xs = row.Values
	}
	columns := tbl.Without(AxisRow)

	plots := make([][]*plot.Plot, gridRows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, gridCols)
	}

	yr := newYRange()
	var all []*plot.Plot
	for i, m := range Methods {
		p := plot.New()
		p.Title.Text = PanelTitle(i)
		logY(p)
		addGrid(p)

		for _, col := range columns {
			if !strings.Contains(col.Label, m.Key) {
				continue
			}
			lib := LibraryKey(col.Label)
			if err := addSeries(p, lib, points(xs, col.Values, 1000), markEvery, &yr); err != nil {
				return nil, fmt.Errorf("column %q: %w", col.Label, err)
			}
		}

		plots[i%gridRows][i/gridRows] = p
		all = append(all, p)
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	for _, p := range all {
		p.X.Min, p.X.Max = lo, hi
	}
	yr.apply(all...)
	return plots, nil
}

// WriteRuntime reads csvPath and writes the runtime figure to pngPath.
func WriteRuntime(csvPath, pngPath string, opts Options) error {
	tbl, err := table.Read(csvPath, false)
	if err != nil {
		return err
	}
	plots, err := Runtime(tbl)
	if err != nil {
		return err
	}
	data, err := renderPNG(opts, func(dc draw.Canvas) { drawRuntime(dc, plots) })
	if err != nil {
		return err
	}
	return savePNG(pngPath, data)
}

func figureText(size vg.Length) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
}

// drawRuntime lays out the panel grid with a figure title, shared axis
// labels and a legend strip on the right.
func drawRuntime(dc draw.Canvas, plots [][]*plot.Plot) {
	var (
		titleH = vg.Points(30)
		labelW = vg.Points(24)
		legW   = vg.Inch * 1.3
	)
	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y

	grid := draw.Crop(dc, labelW, -legW, labelW, -titleH)
	tiles := draw.Tiles{
		Rows:      gridRows,
		Cols:      gridCols,
		PadX:      vg.Points(8),
		PadY:      vg.Points(8),
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, grid)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	title := figureText(16)
	dc.FillText(title, vg.Point{X: dc.Min.X + w/2, Y: dc.Max.Y - titleH/2}, "Runtime scalability analysis")

	xlabel := figureText(13)
	dc.FillText(xlabel, vg.Point{X: grid.Min.X + (grid.Max.X-grid.Min.X)/2, Y: dc.Min.Y + labelW/2}, "Taxa Size")

	ylabel := figureText(13)
	ylabel.Rotation = math.Pi / 2
	dc.FillText(ylabel, vg.Point{X: dc.Min.X + labelW/2, Y: grid.Min.Y + (grid.Max.Y-grid.Min.Y)/2}, "Time (ms)")

	leg := plot.NewLegend()
	leg.Top = true
	legendEntries(&leg)
	legC := draw.Crop(dc, w-legW, 0, h/3, -h/3)
	leg.Draw(legC)
}
