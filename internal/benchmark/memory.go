// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"fmt"
	"os"
	"runtime"

	"github.com/jeranaias/phylobench/internal/phylo"
)

// MemResult summarises heap growth across repeated parses of one tree.
type MemResult struct {
	Path   string
	Taxa   int
	Trials int

	// MeanLiveBytes is the mean change in live heap (after a forced GC)
	// caused by holding one parsed tree. Every trial is included.
	MeanLiveBytes float64
	// Positive counts trials whose live-heap delta was above zero.
	Positive int

	// AllocBytesPerOp and MallocsPerOp are total allocation volume per
	// parse, including garbage.
	AllocBytesPerOp uint64
	MallocsPerOp    uint64
}

// MeanLiveMB returns MeanLiveBytes in megabytes (10^6 bytes).
func (m MemResult) MeanLiveMB() float64 {
	return m.MeanLiveBytes / 1e6
}

// Record converts the measurement into a ledger record in MB.
func (m MemResult) Record(runID string) Record {
	return Record{
		RunID:     runID,
		Library:   Library,
		Operation: "read-newick",
		Taxa:      m.Taxa,
		Value:     m.MeanLiveMB(),
		Unit:      UnitMegabytes,
	}
}

// MeasureParseMemory parses the tree at path trials times and reports how
// much the live heap grows per parsed tree. The file is read once up front
// so I/O buffers do not count against the parse.
func MeasureParseMemory(path string, trials int) (MemResult, error) {
	if trials <= 0 {
		return MemResult{}, fmt.Errorf("trials must be positive, got %d", trials)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return MemResult{}, err
	}
	src := string(data)

	res := MemResult{Path: path, Trials: trials}
	var liveSum float64
	var m0, m1 runtime.MemStats
	var allocBytes, mallocs uint64

	for i := 0; i < trials; i++ {
		runtime.GC()
		runtime.ReadMemStats(&m0)

		t, err := phylo.ParseString(src)
		if err != nil {
			return MemResult{}, fmt.Errorf("%s: %w", path, err)
		}

		runtime.GC()
		runtime.ReadMemStats(&m1)
		if res.Taxa == 0 {
			res.Taxa = phylo.NumTips(t)
		}
		runtime.KeepAlive(t)

		delta := int64(m1.HeapAlloc) - int64(m0.HeapAlloc)
		liveSum += float64(delta)
		if delta > 0 {
			res.Positive++
		}
		allocBytes += m1.TotalAlloc - m0.TotalAlloc
		mallocs += m1.Mallocs - m0.Mallocs
	}

	res.MeanLiveBytes = liveSum / float64(trials)
	res.AllocBytesPerOp = allocBytes / uint64(trials)
	res.MallocsPerOp = mallocs / uint64(trials)
	return res, nil
}
