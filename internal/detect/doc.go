// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect describes the machine a benchmark ran on.
//
// Timings are only comparable on the same hardware, so recorded runs carry
// the host's CPU model, core count, memory and Go version.
//
// # Sources
//
//   - Linux: /proc/cpuinfo and /proc/meminfo
//   - macOS: sysctl (machdep.cpu.brand_string, hw.memsize)
//   - Windows: Get-CimInstance via PowerShell
//
// # Usage
//
//	host := detect.DetectHostCached()
//	fmt.Println(host)
//	err := st.SetRunMeta(ctx, runID, host.Meta())
package detect
