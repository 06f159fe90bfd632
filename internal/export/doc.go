// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders aggregated result tables for use outside phylobench.
//
// # Key Types
//
//   - Format: Export format enumeration (CSV, Markdown, JSON)
//   - Exporter: Converts a table to bytes in one format
//   - Options: Title, precision and metadata settings
//
// # Supported Formats
//
//   - CSV: The runtimes.csv shape consumed by "phylobench plot runtime"
//   - Markdown: A pipe table for READMEs and reports
//   - JSON: Series with null for sizes a library was not measured at
//
// # Usage
//
//	exp, err := export.New(export.FormatMarkdown, nil)
//	if err != nil {
//	    return err
//	}
//	err = export.ExportToFile(tbl, exp, "runtimes.md")
package export
