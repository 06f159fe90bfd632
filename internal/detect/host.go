// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// hostDetectTimeout bounds the external commands used for detection.
const hostDetectTimeout = 5 * time.Second

// unknownCPU is reported when the model name cannot be read.
const unknownCPU = "unknown CPU"

// =============================================================================
// HOST INFO
// =============================================================================

// Host describes the benchmarking machine.
type Host struct {
	OS         string
	Arch       string
	CPUModel   string
	CPUs       int
	MemTotalMB uint64
	GoVersion  string
	Hostname   string
}

// String returns a one-line summary.
func (h *Host) String() string {
	s := fmt.Sprintf("%s (%d CPUs) %s/%s", h.CPUModel, h.CPUs, h.OS, h.Arch)
	if h.MemTotalMB > 0 {
		s += fmt.Sprintf(", %d MB RAM", h.MemTotalMB)
	}
	return s + ", " + h.GoVersion
}

// Meta flattens the host into ledger metadata keys.
func (h *Host) Meta() map[string]string {
	return map[string]string{
		"os":         h.OS,
		"arch":       h.Arch,
		"cpu_model":  h.CPUModel,
		"cpus":       strconv.Itoa(h.CPUs),
		"mem_mb":     strconv.FormatUint(h.MemTotalMB, 10),
		"go_version": h.GoVersion,
		"hostname":   h.Hostname,
	}
}

// =============================================================================
// DETECTION
// =============================================================================

// Cache for host detection results; hardware does not change mid-run.
var (
	hostCache   *Host
	hostCacheMu sync.Mutex
)

// DetectHost inspects the current machine. Fields that cannot be read are
// left at their fallbacks rather than failing.
func DetectHost(ctx context.Context) *Host {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hostDetectTimeout)
		defer cancel()
	}

	hostname, _ := os.Hostname()
	h := &Host{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
		Hostname:  hostname,
	}
	h.CPUModel = cpuModel(ctx)
	h.MemTotalMB = memTotalMB(ctx)
	return h
}

// DetectHostCached returns the first detection result of the process.
func DetectHostCached() *Host {
	hostCacheMu.Lock()
	defer hostCacheMu.Unlock()
	if hostCache == nil {
		hostCache = DetectHost(context.Background())
	}
	return hostCache
}

// ClearHostCache forces fresh detection on the next cached call.
func ClearHostCache() {
	hostCacheMu.Lock()
	defer hostCacheMu.Unlock()
	hostCache = nil
}

func cpuModel(ctx context.Context) string {
	var model string
	switch runtime.GOOS {
	case "linux":
		if data, err := os.ReadFile("/proc/cpuinfo"); err == nil {
			model = parseCPUInfo(string(data))
		}
	case "darwin":
		model = commandOutput(ctx, "sysctl", "-n", "machdep.cpu.brand_string")
	case "windows":
		model = commandOutput(ctx, "powershell", "-NoProfile", "-Command",
			`(Get-CimInstance Win32_Processor | Select-Object -First 1).Name`)
	}
	if model == "" {
		return unknownCPU
	}
	return model
}

func memTotalMB(ctx context.Context) uint64 {
	switch runtime.GOOS {
	case "linux":
		if data, err := os.ReadFile("/proc/meminfo"); err == nil {
			return parseMemInfo(string(data))
		}
	case "darwin":
		if b, err := strconv.ParseUint(commandOutput(ctx, "sysctl", "-n", "hw.memsize"), 10, 64); err == nil {
			return b / 1024 / 1024
		}
	case "windows":
		out := commandOutput(ctx, "powershell", "-NoProfile", "-Command",
			`[Math]::Round((Get-CimInstance Win32_ComputerSystem).TotalPhysicalMemory / 1MB, 0)`)
		if mb, err := strconv.ParseUint(out, 10, 64); err == nil {
			return mb
		}
	}
	return 0
}

// commandOutput runs name and returns its trimmed stdout, or "" on failure.
func commandOutput(ctx context.Context, name string, args ...string) string {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// parseCPUInfo returns the first "model name" (x86) or "Model" (ARM) value.
func parseCPUInfo(data string) string {
	var fallback string
	for _, line := range strings.Split(data, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "model name":
			if value != "" {
				return value
			}
		case "Model", "Hardware":
			if fallback == "" {
				fallback = value
			}
		}
	}
	return fallback
}

// parseMemInfo returns MemTotal in MB, or 0.
func parseMemInfo(data string) uint64 {
	for _, line := range strings.Split(data, "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			if kb, err := strconv.ParseUint(parts[1], 10, 64); err == nil {
				return kb / 1024
			}
		}
		break
	}
	return 0
}
