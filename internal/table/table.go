// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package table reads and writes the aggregated benchmark CSV tables.
//
// A table is an optional header row followed by rows of the form
// label,v1,v2,...,vn. Row order is preserved because series order decides
// colour and style when the table is plotted. Rows may be ragged.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/phylobench/internal/util"
)

// ErrEmpty is returned when a table has no data rows.
var ErrEmpty = errors.New("table has no data rows")

// CellError reports a cell that is not a float.
type CellError struct {
	Line   int
	Column int
	Cell   string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("line %d column %d: %q is not a number", e.Line, e.Column, e.Cell)
}

func (e *CellError) Unwrap() error { return e.Err }

// Row is one labelled series.
type Row struct {
	Label  string
	Values []float64
}

// Table is a parsed CSV table.
type Table struct {
	Header []string
	Rows   []Row
}

// Read loads the table at path. When header is true the first record is
// kept verbatim in Table.Header and not parsed as numbers.
func Read(path string, header bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a table from r.
func Parse(r io.Reader, header bool) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Table{}
	for i, rec := range records {
		if i == 0 && header {
			t.Header = rec
			continue
		}
		row := Row{Label: strings.TrimSpace(rec[0])}
		for j, cell := range rec[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" && j == len(rec)-2 {
				// trailing comma
				break
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &CellError{Line: i + 1, Column: j + 2, Cell: cell, Err: err}
			}
			row.Values = append(row.Values, v)
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, ErrEmpty
	}
	return t, nil
}

// Row returns the row with the given label.
func (t *Table) Row(label string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// Without returns the rows whose label is not in skip, in order.
func (t *Table) Without(skip ...string) []Row {
	out := make([]Row, 0, len(t.Rows))
outer:
	for _, r := range t.Rows {
		for _, s := range skip {
			if r.Label == s {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

// HeaderFloats parses the header cells after the first as numbers. It
// reports false if there is no header or any cell is not numeric.
func (t *Table) HeaderFloats() ([]float64, bool) {
	if len(t.Header) < 2 {
		return nil, false
	}
	xs := make([]float64, 0, len(t.Header)-1)
	for _, cell := range t.Header[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, false
		}
		xs = append(xs, v)
	}
	return xs, true
}

// Write encodes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return err
		}
	}
	for _, r := range t.Rows {
		rec := make([]string, 0, len(r.Values)+1)
		rec = append(rec, r.Label)
		for _, v := range r.Values {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path atomically.
func (t *Table) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
