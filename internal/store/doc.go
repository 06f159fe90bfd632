// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store keeps a SQLite ledger of benchmark measurements.
//
// Records come from single timed runs, sweep rows and memory runs. Each
// invocation tags its records with one run ID so a sweep can be told
// apart from the next. Export folds the ledger back into the runtimes
// table shape consumed by the runtime figure.
//
// # Usage
//
//	st, err := store.Open("phylobench.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	runID := store.NewRunID()
//	err = st.Insert(ctx, res.Record(runID))
//	tbl, err := st.Export(ctx, "lca")
package store
