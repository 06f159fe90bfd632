// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/jeranaias/phylobench/internal/sweep"
	"github.com/jeranaias/phylobench/internal/util"
)

// progressBar draws a single, redrawn progress line for sweep phases.
// It renders statically; there is no event loop behind it.
type progressBar struct {
	w       io.Writer
	bar     progress.Model
	enabled bool
	phase   string
}

func newProgressBar(w io.Writer, enabled bool) *progressBar {
	width := min(40, GetTerminalWidth()-30)
	return &progressBar{
		w:       w,
		enabled: enabled,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(max(width, 10)),
			progress.WithColorProfile(GetColorProfile()),
		),
	}
}

// Update redraws the bar for p.
func (pb *progressBar) Update(p sweep.Progress) {
	if !pb.enabled || p.Total == 0 {
		return
	}
	if pb.phase != "" && pb.phase != p.Phase {
		fmt.Fprintln(pb.w)
	}
	pb.phase = p.Phase
	pct := float64(p.Done) / float64(p.Total)
	fmt.Fprintf(pb.w, "\r%s %s %s/%s",
		util.PadRight(p.Phase, 9),
		pb.bar.ViewAs(pct),
		util.FormatCount(p.Done),
		util.FormatCount(p.Total))
}

// Done ends the current line.
func (pb *progressBar) Done() {
	if pb.enabled && pb.phase != "" {
		fmt.Fprintln(pb.w)
	}
}
