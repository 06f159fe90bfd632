// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plot

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jeranaias/phylobench/internal/util"
)

// Options sets the figure size.
type Options struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// DefaultOptions matches a 10x8 inch figure at 300 dpi.
func DefaultOptions() Options {
	return Options{WidthIn: 10, HeightIn: 8, DPI: 300}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WidthIn <= 0 {
		o.WidthIn = d.WidthIn
	}
	if o.HeightIn <= 0 {
		o.HeightIn = d.HeightIn
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	return o
}

// renderPNG draws onto a fresh image canvas and encodes it as PNG.
func renderPNG(opts Options, drawFn func(dc draw.Canvas)) ([]byte, error) {
	opts = opts.withDefaults()
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.WidthIn)*vg.Inch, vg.Length(opts.HeightIn)*vg.Inch),
		vgimg.UseDPI(opts.DPI),
	)
	drawFn(draw.New(img))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func savePNG(path string, data []byte) error {
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
