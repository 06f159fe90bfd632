// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/phylobench/internal/table"
	"github.com/jeranaias/phylobench/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a result table to one output format.
type Exporter interface {
	// Export renders the table.
	Export(tbl *table.Table) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type of the rendered output.
	MimeType() string
}

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned by New and ParseFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// errEmptyTable is returned when there is nothing to export.
var errEmptyTable = errors.New("table has no series")

// axisRow labels the row carrying taxa sizes in exported runtime tables.
const axisRow = "algorithms"

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatMarkdown, FormatJSON}
}

// ParseFormat accepts a format name or its common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q (known: %v)", ErrUnknownFormat, s, Formats())
}

// FormatForPath guesses the format from a file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	}
	return FormatCSV
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// Title heads Markdown output and is stored in JSON output.
	Title string

	// Precision is the number of significant digits; -1 prints the
	// shortest exact representation.
	Precision int

	// IncludeMetadata adds a front matter block to Markdown output.
	IncludeMetadata bool

	// Generated stamps the metadata. Zero omits the timestamp.
	Generated time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		Title:     "Runtime (s)",
		Precision: -1,
	}
}

// New returns the exporter for format.
func New(format Format, opts *Options) (Exporter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch format {
	case FormatCSV:
		return &CSVExporter{}, nil
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders tbl with exporter and writes it atomically to path.
func ExportToFile(tbl *table.Table, exporter Exporter, path string) error {
	content, err := exporter.Export(tbl)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// columns splits a table into column headings and data rows. A header
// wins; otherwise a leading algorithms row supplies the headings.
func columns(tbl *table.Table, prec int) ([]string, []table.Row) {
	if len(tbl.Header) > 1 {
		return tbl.Header[1:], tbl.Rows
	}
	if len(tbl.Rows) > 0 && tbl.Rows[0].Label == axisRow {
		heads := make([]string, len(tbl.Rows[0].Values))
		for i, v := range tbl.Rows[0].Values {
			heads[i] = formatValue(v, prec)
		}
		return heads, tbl.Rows[1:]
	}

	width := 0
	for _, r := range tbl.Rows {
		width = max(width, len(r.Values))
	}
	heads := make([]string, width)
	for i := range heads {
		heads[i] = strconv.Itoa(i + 1)
	}
	return heads, tbl.Rows
}

// formatValue prints v, or "" for NaN.
func formatValue(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', prec, 64)
}

// splitSeries separates a "<library>-<op>" label at its last dash.
func splitSeries(label string) (lib, op string) {
	i := strings.LastIndex(label, "-")
	if i <= 0 {
		return label, ""
	}
	return label[:i], label[i+1:]
}
