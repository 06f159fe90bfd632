// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"math"
	"sort"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/table"
)

// AxisRow labels the taxa-size row of an exported table.
const AxisRow = "algorithms"

// Export folds timing records (unit seconds) into a runtimes table: an
// algorithms row with every taxa size seen, then one <library>-<op> row
// holding the mean seconds at each size. Sizes a series lacks are NaN.
// An empty op exports every operation.
func (s *Store) Export(ctx context.Context, op string) (*table.Table, error) {
	query := `
		SELECT library, operation, taxa, AVG(value)
		FROM records
		WHERE unit = ?`
	args := []any{string(benchmark.UnitSeconds)}
	if op != "" {
		query += " AND operation = ?"
		args = append(args, op)
	}
	query += " GROUP BY library, operation, taxa ORDER BY operation, library, taxa"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type key struct{ lib, op string }
	means := make(map[key]map[int]float64)
	var order []key
	sizes := make(map[int]struct{})

	for rows.Next() {
		var k key
		var taxa int
		var mean float64
		if err := rows.Scan(&k.lib, &k.op, &taxa, &mean); err != nil {
			return nil, err
		}
		if _, ok := means[k]; !ok {
			means[k] = make(map[int]float64)
			order = append(order, k)
		}
		means[k][taxa] = mean
		sizes[taxa] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, ErrNoRecords
	}

	axis := make([]int, 0, len(sizes))
	for n := range sizes {
		axis = append(axis, n)
	}
	sort.Ints(axis)

	tbl := &table.Table{}
	header := table.Row{Label: AxisRow, Values: make([]float64, len(axis))}
	for i, n := range axis {
		header.Values[i] = float64(n)
	}
	tbl.Rows = append(tbl.Rows, header)

	for _, k := range order {
		row := table.Row{Label: k.lib + "-" + k.op, Values: make([]float64, len(axis))}
		for i, n := range axis {
			v, ok := means[k][n]
			if !ok {
				v = math.NaN()
			}
			row.Values[i] = v
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}
