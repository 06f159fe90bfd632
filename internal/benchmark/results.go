// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Result is one timed run of an operation.
type Result struct {
	Library   string        `json:"library"`
	Operation string        `json:"operation"`
	Paths     []string      `json:"paths"`
	Taxa      int           `json:"taxa"`
	SampleLen int           `json:"sample_len"`
	StartTime time.Time     `json:"start_time"`
	Elapsed   time.Duration `json:"elapsed"`
	Output    string        `json:"output,omitempty"`
}

// Unit names the measurement unit stored with a Record.
type Unit string

const (
	UnitSeconds      Unit = "s"
	UnitMilliseconds Unit = "ms"
	UnitMegabytes    Unit = "MB"
)

// Record is a single measurement keyed by (library, operation, taxa).
type Record struct {
	RunID     string    `json:"run_id"`
	Library   string    `json:"library"`
	Operation string    `json:"operation"`
	Taxa      int       `json:"taxa"`
	Value     float64   `json:"value"`
	Unit      Unit      `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// Record converts a timed run into a measurement in seconds.
func (r *Result) Record(runID string) Record {
	return Record{
		RunID:     runID,
		Library:   r.Library,
		Operation: r.Operation,
		Taxa:      r.Taxa,
		Value:     r.Elapsed.Seconds(),
		Unit:      UnitSeconds,
		CreatedAt: r.StartTime,
	}
}

// =============================================================================
// RESULT COMPUTATION
// =============================================================================

// MeanMillis returns total/n in milliseconds. It is the figure written to
// the sweep CSVs: the whole loop is timed once and divided by the
// iteration count.
func MeanMillis(total time.Duration, n int) float64 {
	if n <= 0 || total < 0 {
		return 0
	}
	return float64(total) / float64(time.Millisecond) / float64(n)
}

// MeanElapsed averages the elapsed time of a set of runs.
func MeanElapsed(results []*Result) time.Duration {
	if len(results) == 0 {
		return 0
	}
	var total time.Duration
	for _, r := range results {
		total += r.Elapsed
	}
	return total / time.Duration(len(results))
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// FormatSeconds renders a duration as bare seconds, the form the timing
// scripts print after "Internal time:".
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'g', -1, 64)
}

// FormatDuration formats duration for display.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "N/A"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// FormatBytes formats a byte count as MB with two decimals.
func FormatBytes(b float64) string {
	return fmt.Sprintf("%.2f MB", b/1e6)
}

// =============================================================================
// SUMMARY GENERATION
// =============================================================================

// Summary returns a text summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Library: %s\n"+
			"Operation: %s\n"+
			"Taxa: %d\n"+
			"Elapsed: %s",
		r.Library,
		r.Operation,
		r.Taxa,
		FormatDuration(r.Elapsed),
	)
}
