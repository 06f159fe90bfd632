// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/phylobench/internal/table"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// small keeps test renders fast.
var small = Options{WidthIn: 4, HeightIn: 3, DPI: 50}

const memoryCSV = `library,1000,2000,5000,10000,20000,50000
phylo-rs,0.5,1,2.5,5,10,25
gotree,1,2,5,10,20,50
`

const runtimeCSV = `algorithms,200,400,600,800,1000,1200
phylo-rs-lca,0.001,0.001,0.002,0.002,0.003,0.004
gotree-lca,0.002,0.002,0.003,0.003,0.004,0.004
phylo-rs-rfs,0.001,0.002,0.002,0.003,0.003,0.004
gotree-traverse,0.001,0.001,0.001,0.002,0.002,0.002
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "output is not a PNG")
}

// =============================================================================
// STYLE TESTS
// =============================================================================

func TestStyleFor(t *testing.T) {
	ref, err := StyleFor("phylo-rs")
	require.NoError(t, err)
	assert.True(t, ref.Solid)
	assert.Empty(t, ref.Line().Dashes)

	gt, err := StyleFor("gotree")
	require.NoError(t, err)
	assert.False(t, gt.Solid)
	assert.NotEmpty(t, gt.Line().Dashes)
	assert.Equal(t, palette[4], gt.Color)

	_, err = StyleFor("ete3")
	assert.True(t, errors.Is(err, ErrUnknownLibrary))
}

func TestLibraries_PaletteSize(t *testing.T) {
	assert.Len(t, palette, len(Libraries))
}

func TestPoints(t *testing.T) {
	xys := points([]float64{1, 2, 3, 4}, []float64{0.5, 0, -1, 2, 9}, 1000)
	require.Len(t, xys, 2)
	assert.Equal(t, 1.0, xys[0].X)
	assert.Equal(t, 500.0, xys[0].Y)
	assert.Equal(t, 4.0, xys[1].X)
	assert.Equal(t, 2000.0, xys[1].Y)
}

// =============================================================================
// MEMORY FIGURE TESTS
// =============================================================================

func TestWriteMemory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "memory-scalability.png")
	require.NoError(t, WriteMemory(writeCSV(t, memoryCSV), out, small))
	assertPNG(t, out)
}

func TestMemory_Axes(t *testing.T) {
	tbl, err := table.Parse(strings.NewReader(memoryCSV), true)
	require.NoError(t, err)

	p, err := Memory(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.X.Min)
	assert.Equal(t, 50000.0, p.X.Max)
	assert.Equal(t, 0.5, p.Y.Min)
	assert.Equal(t, 50.0, p.Y.Max)
	assert.Equal(t, "Memory (Mb)", p.Y.Label.Text)
}

func TestMemory_DefaultTaxa(t *testing.T) {
	tbl := &table.Table{
		Header: []string{"library", "a", "b"},
		Rows:   []table.Row{{Label: "dendropy", Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}},
	}
	p, err := Memory(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.X.Min)
	assert.Equal(t, 1000000.0, p.X.Max)
	assert.Equal(t, 6.0, p.Y.Max, "dendropy is capped at six points")
}

func TestWriteMemory_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "m.png")

	err := WriteMemory(filepath.Join(t.TempDir(), "missing.csv"), out, small)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = WriteMemory(writeCSV(t, "library,1000\nnewlib,1\n"), out, small)
	assert.ErrorIs(t, err, ErrUnknownLibrary)

	err = WriteMemory(writeCSV(t, "library,1000\ngotree,abc\n"), out, small)
	var cellErr *table.CellError
	assert.True(t, errors.As(err, &cellErr))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no PNG on error")
}

// =============================================================================
// RUNTIME FIGURE TESTS
// =============================================================================

func TestLibraryKey(t *testing.T) {
	assert.Equal(t, "phylo-rs", LibraryKey("phylo-rs-lca"))
	assert.Equal(t, "CompactTree", LibraryKey("CompactTree-traverse"))
	assert.Equal(t, "", LibraryKey("gotree"))
}

func TestPanelTitle(t *testing.T) {
	assert.Equal(t, "(A) Tree Traversal", PanelTitle(0))
	assert.Equal(t, "(F) Robinson Foulds metric computation", PanelTitle(5))
}

func TestRuntimeTaxa(t *testing.T) {
	xs := RuntimeTaxa()
	require.Len(t, xs, 50)
	assert.Equal(t, 200.0, xs[0])
	assert.Equal(t, 10000.0, xs[49])
}

func TestRuntime_Layout(t *testing.T) {
	tbl, err := table.Parse(strings.NewReader(runtimeCSV), false)
	require.NoError(t, err)

	plots, err := Runtime(tbl)
	require.NoError(t, err)
	require.Len(t, plots, 3)

	assert.Equal(t, "(A) Tree Traversal", plots[0][0].Title.Text)
	assert.Equal(t, "(B) Least Common Ancestor Retrieval", plots[1][0].Title.Text)
	assert.Equal(t, "(D) Yule Tree Simulation", plots[0][1].Title.Text)
	assert.Equal(t, "(F) Robinson Foulds metric computation", plots[2][1].Title.Text)

	for _, row := range plots {
		require.Len(t, row, 2)
		for _, p := range row {
			assert.Equal(t, 200.0, p.X.Min)
			assert.Equal(t, 1200.0, p.X.Max)
			assert.InDelta(t, 1.0, p.Y.Min, 1e-9, "seconds are drawn as ms on a shared scale")
			assert.InDelta(t, 4.0, p.Y.Max, 1e-9)
		}
	}
}

func TestWriteRuntime(t *testing.T) {
	out := filepath.Join(t.TempDir(), "runtime-scalability.png")
	require.NoError(t, WriteRuntime(writeCSV(t, runtimeCSV), out, small))
	assertPNG(t, out)
}

func TestWriteRuntime_UnknownLibrary(t *testing.T) {
	out := filepath.Join(t.TempDir(), "r.png")
	err := WriteRuntime(writeCSV(t, "algorithms,200\nmystery-lca,0.1\n"), out, small)
	assert.ErrorIs(t, err, ErrUnknownLibrary)
}
