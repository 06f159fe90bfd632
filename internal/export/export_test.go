// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/phylobench/internal/table"
)

func runtimeTable() *table.Table {
	return &table.Table{Rows: []table.Row{
		{Label: "algorithms", Values: []float64{200, 400}},
		{Label: "gotree-lca", Values: []float64{0.5, math.NaN()}},
		{Label: "phylo-rs-lca", Values: []float64{0.125, 0.25}},
	}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"", FormatCSV, false},
		{"MD", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{" json ", FormatJSON, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatMarkdown, FormatForPath("out/runtimes.md"))
	assert.Equal(t, FormatJSON, FormatForPath("RUNTIMES.JSON"))
	assert.Equal(t, FormatCSV, FormatForPath("runtimes.csv"))
	assert.Equal(t, FormatCSV, FormatForPath("runtimes"))
}

func TestNew(t *testing.T) {
	for _, f := range Formats() {
		exp, err := New(f, nil)
		require.NoError(t, err, f)
		assert.NotEmpty(t, exp.FileExtension())
		assert.NotEmpty(t, exp.MimeType())
	}
	_, err := New("xml", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCSVExporter_RoundTrip(t *testing.T) {
	out, err := (&CSVExporter{}).Export(runtimeTable())
	require.NoError(t, err)
	assert.Contains(t, string(out), "gotree-lca,0.5,NaN\n")

	back, err := table.Parse(strings.NewReader(string(out)), false)
	require.NoError(t, err)
	require.Len(t, back.Rows, 3)
	assert.Equal(t, []float64{200, 400}, back.Rows[0].Values)
	assert.True(t, math.IsNaN(back.Rows[1].Values[1]))
}

func TestMarkdownExporter(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = true
	opts.Generated = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	out, err := NewMarkdownExporter(opts).Export(runtimeTable())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "series: 2\n")
	assert.Contains(t, md, "exported: 2025-03-01T12:00:00Z\n")
	assert.Contains(t, md, "| series | 200 | 400 |\n| --- | ---: | ---: |\n")
	assert.Contains(t, md, "| gotree-lca | 0.5 | - |\n")
	assert.Contains(t, md, "| phylo-rs-lca | 0.125 | 0.25 |\n")
}

func TestMarkdownExporter_HeaderTable(t *testing.T) {
	tbl := &table.Table{
		Header: []string{"library", "1000", "2000"},
		Rows:   []table.Row{{Label: "a|b", Values: []float64{1}}},
	}
	opts := &Options{Precision: -1}
	out, err := NewMarkdownExporter(opts).Export(tbl)
	require.NoError(t, err)
	assert.Equal(t, "| series | 1000 | 2000 |\n| --- | ---: | ---: |\n| a\\|b | 1 | - |\n", string(out))
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(runtimeTable())
	require.NoError(t, err)

	var doc jsonTable
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, []string{"200", "400"}, doc.Columns)
	require.Len(t, doc.Series, 2)

	lca := doc.Series[0]
	assert.Equal(t, "gotree", lca.Library)
	assert.Equal(t, "lca", lca.Operation)
	require.NotNil(t, lca.Values[0])
	assert.Equal(t, 0.5, *lca.Values[0])
	assert.Nil(t, lca.Values[1])

	assert.Equal(t, "phylo-rs", doc.Series[1].Library)
}

func TestJSONExporter_Precision(t *testing.T) {
	tbl := &table.Table{Rows: []table.Row{
		{Label: "algorithms", Values: []float64{200}},
		{Label: "gotree-yts", Values: []float64{0.123456}},
	}}
	out, err := NewJSONExporter(&Options{Precision: 2}).Export(tbl)
	require.NoError(t, err)
	assert.Contains(t, string(out), "0.12")
	assert.NotContains(t, string(out), "0.123")
}

func TestExporters_Empty(t *testing.T) {
	axisOnly := &table.Table{Rows: []table.Row{{Label: "algorithms", Values: []float64{200}}}}
	for _, f := range Formats() {
		exp, err := New(f, nil)
		require.NoError(t, err)
		_, err = exp.Export(nil)
		assert.Error(t, err, f)
		if f != FormatCSV {
			_, err = exp.Export(axisOnly)
			assert.Error(t, err, f)
		}
	}
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runtimes.md")
	exp, err := New(FormatForPath(path), nil)
	require.NoError(t, err)

	require.NoError(t, ExportToFile(runtimeTable(), exp, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Runtime (s)")
}
