// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"

	"github.com/jeranaias/phylobench/internal/table"
)

// CSVExporter writes the table back in its CSV form. Sizes a series was
// never measured at are written as NaN, which table.Parse reads back.
type CSVExporter struct{}

// Export renders tbl as CSV.
func (e *CSVExporter) Export(tbl *table.Table) ([]byte, error) {
	if tbl == nil || len(tbl.Rows) == 0 {
		return nil, errEmptyTable
	}
	var buf bytes.Buffer
	if err := tbl.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for CSV.
func (e *CSVExporter) FileExtension() string {
	return ".csv"
}

// MimeType returns the MIME type for CSV.
func (e *CSVExporter) MimeType() string {
	return "text/csv"
}
