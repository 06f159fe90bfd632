// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memoryCSV = `library,1000,2000,5000
phylo-rs,1.5,3,7.25
dendropy,4,8
`

func TestParse_Header(t *testing.T) {
	tbl, err := Parse(strings.NewReader(memoryCSV), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"library", "1000", "2000", "5000"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "phylo-rs", tbl.Rows[0].Label)
	assert.Equal(t, []float64{1.5, 3, 7.25}, tbl.Rows[0].Values)
	assert.Equal(t, []float64{4, 8}, tbl.Rows[1].Values, "ragged rows are kept")

	xs, ok := tbl.HeaderFloats()
	require.True(t, ok)
	assert.Equal(t, []float64{1000, 2000, 5000}, xs)
}

func TestParse_NoHeader(t *testing.T) {
	in := "algorithms,200,400\ngotree-lca,0.001,0.002\n"
	tbl, err := Parse(strings.NewReader(in), false)
	require.NoError(t, err)

	row, ok := tbl.Row("algorithms")
	require.True(t, ok)
	assert.Equal(t, []float64{200, 400}, row.Values)

	rest := tbl.Without("algorithms")
	require.Len(t, rest, 1)
	assert.Equal(t, "gotree-lca", rest[0].Label)

	_, ok = tbl.HeaderFloats()
	assert.False(t, ok)
}

func TestParse_TrailingComma(t *testing.T) {
	tbl, err := Parse(strings.NewReader("a,1,2,\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, tbl.Rows[0].Values)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader("a,1,x\n"), false)
	var cellErr *CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 1, cellErr.Line)
	assert.Equal(t, 3, cellErr.Column)
	assert.Equal(t, "x", cellErr.Cell)

	_, err = Parse(strings.NewReader("header,1\n"), true)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "none.csv"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "runtimes.csv")
	tbl := &Table{Rows: []Row{
		{Label: "algorithms", Values: []float64{200, 400}},
		{Label: "gotree-rfs", Values: []float64{0.0005, 0.00125}},
	}}
	require.NoError(t, tbl.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "algorithms,200,400\ngotree-rfs,0.0005,0.00125\n", string(data))

	back, err := Read(path, false)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, back.Rows)
}

func TestWrite_Header(t *testing.T) {
	var buf bytes.Buffer
	tbl := &Table{Header: []string{"lib", "1"}, Rows: []Row{{Label: "x", Values: []float64{2}}}}
	require.NoError(t, tbl.Write(&buf))
	assert.Equal(t, "lib,1\nx,2\n", buf.String())
}
