// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the phylobench commands.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe writes for CSVs and PNGs
//
// Display:
//   - StringWidth, TruncateWidth, PadRight: Terminal-column aware text
//   - FormatCount: Thousands-separated integers (10,000 taxa)
//
// # Usage
//
//	err := util.AtomicWriteFile("runtimes.csv", data, 0644)
//	cell := util.PadRight(util.TruncateWidth(name, 20), 20)
package util
