// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/phylobench/internal/benchmark"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func rec(runID, lib, op string, taxa int, secs float64) benchmark.Record {
	return benchmark.Record{
		RunID:     runID,
		Library:   lib,
		Operation: op,
		Taxa:      taxa,
		Value:     secs,
		Unit:      benchmark.UnitSeconds,
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	base := time.Now().Add(-time.Hour)
	r1 := rec("run-a", "gotree", "lca", 200, 0.001)
	r1.CreatedAt = base
	r2 := rec("run-a", "gotree", "contract", 200, 0.004)
	r2.CreatedAt = base.Add(time.Minute)
	r3 := rec("run-b", "gotree", "lca", 400, 0.002)

	require.NoError(t, st.Insert(ctx, r1, r2))
	require.NoError(t, st.Insert(ctx, r3))
	require.NoError(t, st.Insert(ctx))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := st.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "run-b", all[0].RunID, "newest first")
	assert.False(t, all[0].CreatedAt.IsZero(), "zero timestamps are stamped on insert")
	assert.Equal(t, benchmark.UnitSeconds, all[0].Unit)

	lca, err := st.List(ctx, Filter{Operation: "lca"})
	require.NoError(t, err)
	assert.Len(t, lca, 2)

	runA, err := st.List(ctx, Filter{RunID: "run-a", Limit: 1})
	require.NoError(t, err)
	require.Len(t, runA, 1)
	assert.Equal(t, "contract", runA[0].Operation)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.Insert(ctx,
		rec("r", "gotree", "lca", 200, 0.001),
		rec("r", "gotree", "lca", 200, 0.003),
		rec("r", "gotree", "lca", 400, 0.004),
		rec("r", "phylo-rs", "lca", 400, 0.0005),
		rec("r", "gotree", "rfs", 200, 0.010),
	))
	mem := benchmark.MemResult{Taxa: 200, MeanLiveBytes: 5e6}
	require.NoError(t, st.Insert(ctx, mem.Record("r")))

	tbl, err := st.Export(ctx, "lca")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 3)

	assert.Equal(t, AxisRow, tbl.Rows[0].Label)
	assert.Equal(t, []float64{200, 400}, tbl.Rows[0].Values)

	assert.Equal(t, "gotree-lca", tbl.Rows[1].Label)
	assert.InDelta(t, 0.002, tbl.Rows[1].Values[0], 1e-12, "mean of repeated measurements")
	assert.InDelta(t, 0.004, tbl.Rows[1].Values[1], 1e-12)

	assert.Equal(t, "phylo-rs-lca", tbl.Rows[2].Label)
	assert.True(t, math.IsNaN(tbl.Rows[2].Values[0]))
	assert.InDelta(t, 0.0005, tbl.Rows[2].Values[1], 1e-12)

	every, err := st.Export(ctx, "")
	require.NoError(t, err)
	require.Len(t, every.Rows, 4, "memory records are not exported")
	assert.Equal(t, "gotree-rfs", every.Rows[3].Label)
}

func TestExport_Empty(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Export(context.Background(), "nni")
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Insert(ctx, rec("r", "gotree", "yts", 200, 0.1)))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, path, st.Path())
}

func TestRunMeta(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.RunMeta(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoRecords)

	require.NoError(t, st.SetRunMeta(ctx, "run-a", map[string]string{"cpus": "8", "os": "linux"}))
	require.NoError(t, st.SetRunMeta(ctx, "run-b", map[string]string{"cpus": "2"}))
	require.NoError(t, st.SetRunMeta(ctx, "run-a", map[string]string{"cpus": "16"}))
	require.NoError(t, st.SetRunMeta(ctx, "run-c", nil))

	meta, err := st.RunMeta(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cpus": "16", "os": "linux"}, meta)

	meta, err = st.RunMeta(ctx, "run-b")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cpus": "2"}, meta)
}
