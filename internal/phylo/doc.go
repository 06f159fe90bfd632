// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package phylo wraps the gotree library calls that phylobench times.
//
// Every tree algorithm (Newick parsing, postorder traversal, least common
// ancestor, tip removal, Yule simulation, nearest neighbor interchange and
// Robinson-Foulds comparison) is delegated to
// github.com/evolbioinfo/gotree.
//
// # Usage
//
//	t, err := phylo.ReadFile("tree.nwk")
//	if err != nil {
//	    return err
//	}
//	lca, err := phylo.LCA(t, "Tip3", "Tip17")
package phylo
