// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/phylobench/internal/table"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders a table as a Markdown pipe table.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a table to Markdown. Missing values print as "-".
func (e *MarkdownExporter) Export(tbl *table.Table) ([]byte, error) {
	if tbl == nil {
		return nil, errEmptyTable
	}
	heads, rows := columns(tbl, e.options.Precision)
	if len(rows) == 0 {
		return nil, errEmptyTable
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %q\n", e.options.Title)
		fmt.Fprintf(&sb, "series: %d\n", len(rows))
		fmt.Fprintf(&sb, "sizes: %d\n", len(heads))
		if !e.options.Generated.IsZero() {
			fmt.Fprintf(&sb, "exported: %s\n", e.options.Generated.Format(time.RFC3339))
		}
		sb.WriteString("generator: phylobench\n")
		sb.WriteString("---\n\n")
	}

	if e.options.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(e.options.Title))
	}

	sb.WriteString("| series |")
	for _, h := range heads {
		fmt.Fprintf(&sb, " %s |", escapeMarkdown(h))
	}
	sb.WriteString("\n| --- |")
	sb.WriteString(strings.Repeat(" ---: |", len(heads)))
	sb.WriteString("\n")

	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s |", escapeMarkdown(r.Label))
		for i := range heads {
			cell := "-"
			if i < len(r.Values) {
				if s := formatValue(r.Values[i], e.options.Precision); s != "" {
					cell = s
				}
			}
			fmt.Fprintf(&sb, " %s |", cell)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// escapeMarkdown protects pipe characters inside table cells.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
