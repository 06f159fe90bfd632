// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jeranaias/phylobench/internal/table"
)

// MemoryTaxa is the default x axis of the memory figure.
var MemoryTaxa = []float64{1000, 2000, 5000, 10000, 20000, 50000, 100000, 200000, 500000, 1000000}

// memoryCaps limits series that were only measured on the smaller trees.
var memoryCaps = map[string]int{"dendropy": 6}

var memoryTicks = plot.ConstantTicks{
	{Value: 1000, Label: "1K"},
	{Value: 100000, Label: "100K"},
	{Value: 200000, Label: "200K"},
	{Value: 500000, Label: "500K"},
	{Value: 1000000, Label: "1M"},
}

// Memory builds the memory figure from a mem-util table (header row
// first, then one row per library in MB). Numeric header cells replace
// MemoryTaxa as the x axis.
func Memory(tbl *table.Table) (*plot.Plot, error) {
	xs, ok := tbl.HeaderFloats()
	if !ok {
		xs = MemoryTaxa
	}

	p := plot.New()
	p.X.Label.Text = "Taxa Size"
	p.Y.Label.Text = "Memory (Mb)"
	p.X.Tick.Marker = memoryTicks
	logY(p)
	addGrid(p)

	yr := newYRange()
	for _, row := range tbl.Rows {
		vals := row.Values
		if n, capped := memoryCaps[row.Label]; capped && len(vals) > n {
			vals = vals[:n]
		}
		if err := addSeries(p, row.Label, points(xs, vals, 1), 1, &yr); err != nil {
			return nil, err
		}
	}

	p.X.Min, p.X.Max = xs[0], xs[len(xs)-1]
	yr.apply(p)

	p.Legend.Top = true
	legendEntries(&p.Legend)
	return p, nil
}

// WriteMemory reads csvPath and writes the memory figure to pngPath.
func WriteMemory(csvPath, pngPath string, opts Options) error {
	tbl, err := table.Read(csvPath, true)
	if err != nil {
		return err
	}
	p, err := Memory(tbl)
	if err != nil {
		return err
	}
	data, err := renderPNG(opts, func(dc draw.Canvas) { p.Draw(dc) })
	if err != nil {
		return err
	}
	return savePNG(pngPath, data)
}
