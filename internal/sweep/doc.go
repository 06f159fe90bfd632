// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sweep runs the batch runtime sweep over a file of tree pairs.
//
// Each line of the input holds two tab-separated Newick trees. Only the
// first is used. For every phase (contract, postord, mrca) and every line,
// the sweep pre-draws one subsample per iteration, then times Iterations
// rounds of parse-plus-operation and writes one row:
//
//	<taxa>,<total_ms/Iterations>
//
// to <prefix>-<phase>-times.csv. Nothing is cached between rounds: every
// round re-parses the line.
package sweep
