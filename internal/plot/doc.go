// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plot renders the aggregated benchmark tables as log-scale
// scalability charts.
//
// Two figures are produced:
//
//   - Memory: one line per library over the taxa sizes of mem-util.csv.
//   - Runtime: a 3x2 grid, one panel per operation, from runtimes.csv.
//
// Every library has a fixed colour from the colorblind palette and a fixed
// line style, so the same library looks the same in every figure.
package plot
