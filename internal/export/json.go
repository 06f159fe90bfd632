// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/jeranaias/phylobench/internal/table"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders a table as a list of series.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonTable is the exported document.
type jsonTable struct {
	Title   string       `json:"title,omitempty"`
	Columns []string     `json:"columns"`
	Series  []jsonSeries `json:"series"`
}

// jsonSeries holds one row. Missing values are null.
type jsonSeries struct {
	Name      string     `json:"name"`
	Library   string     `json:"library"`
	Operation string     `json:"operation,omitempty"`
	Values    []*float64 `json:"values"`
}

// Export converts a table to indented JSON.
func (e *JSONExporter) Export(tbl *table.Table) ([]byte, error) {
	if tbl == nil {
		return nil, errEmptyTable
	}
	heads, rows := columns(tbl, e.options.Precision)
	if len(rows) == 0 {
		return nil, errEmptyTable
	}

	doc := jsonTable{Title: e.options.Title, Columns: heads}
	for _, r := range rows {
		lib, op := splitSeries(r.Label)
		s := jsonSeries{Name: r.Label, Library: lib, Operation: op, Values: make([]*float64, len(heads))}
		for i := range heads {
			if i >= len(r.Values) || math.IsNaN(r.Values[i]) || math.IsInf(r.Values[i], 0) {
				continue
			}
			v := e.round(r.Values[i])
			s.Values[i] = &v
		}
		doc.Series = append(doc.Series, s)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// round applies the configured precision.
func (e *JSONExporter) round(v float64) float64 {
	if e.options.Precision < 0 {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', e.options.Precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
