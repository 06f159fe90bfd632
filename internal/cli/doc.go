// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the phylobench command line.
//
// Commands are built with cobra and share one app value carrying the global
// flags, the loaded configuration and the slog logger:
//
//	phylobench time <op> <tree.nwk> [tree2.nwk]
//	phylobench mem read-newick <tree.nwk>
//	phylobench sweep [sim_trees]
//	phylobench plot memory|runtime
//	phylobench results list|export
//
// # Exit Codes
//
//   - 0: success
//   - 1: general error
//   - 2: usage error (bad arguments, unknown operation or library)
//   - 3: configuration error
//   - 7: input not found
//   - 130: interrupted
//
// Every command accepts --json for machine-readable output.
package cli
