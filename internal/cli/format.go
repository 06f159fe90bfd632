// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/jeranaias/phylobench/internal/util"
)

// column describes one column of a text table.
type column struct {
	Title    string
	MaxWidth int
	Right    bool
}

// renderTable lays rows out in aligned columns sized by display width.
// Cells wider than a column's MaxWidth are truncated.
func renderTable(cols []column, rows [][]string) string {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = util.StringWidth(c.Title)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(cols) {
				break
			}
			if c := cols[i]; c.MaxWidth > 0 {
				cell = util.TruncateWidth(cell, c.MaxWidth)
			}
			widths[i] = max(widths[i], util.StringWidth(cell))
		}
	}

	var b strings.Builder
	line := func(cells []string, header bool) {
		for i, c := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if c.MaxWidth > 0 {
				cell = util.TruncateWidth(cell, c.MaxWidth)
			}
			if c.Right {
				cell = util.PadLeft(cell, widths[i])
			} else {
				cell = util.PadRight(cell, widths[i])
			}
			if header {
				cell = HeaderStyle.Render(cell)
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	titles := make([]string, len(cols))
	total := 0
	for i, c := range cols {
		titles[i] = c.Title
		total += widths[i]
	}
	total += 2 * (len(cols) - 1)

	line(titles, true)
	b.WriteString(RenderSeparator(total))
	b.WriteString("\n")
	for _, row := range rows {
		line(row, false)
	}
	return b.String()
}
