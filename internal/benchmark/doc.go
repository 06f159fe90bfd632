// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package benchmark times single phylogenetic tree operations.
//
// Each operation loads one or two Newick trees, optionally draws a random
// taxon subsample, and runs exactly one gotree call while a wall-clock timer
// is active. Preparation (parsing, sampling) stays outside the timer unless
// the operation is the parse itself.
//
// # Key Types
//
//   - Op: Operation definition (name, tree arity, timed function)
//   - Runner: Executes an Op against tree files
//   - Result: One timed run with elapsed time and printable output
//   - MemResult: Heap growth measured across repeated parses
//
// # Usage
//
//	runner := benchmark.NewRunner(benchmark.Options{SampleSize: 100})
//	res, err := runner.Run(ctx, "lca", []string{"tree.nwk"})
//	fmt.Printf("Internal time: %v\n", res.Elapsed.Seconds())
//
// # Operations
//
//   - read-newick: Parse a tree and render it back to Newick
//   - traverse: Postorder traversal (parse included unless excluded)
//   - lca: Least common ancestor of a random subsample
//   - contract: Restrict the tree to a random subsample
//   - nni: Apply the first nearest neighbor interchange gotree proposes
//   - yts: Simulate a Yule tree with the input's tip count
//   - rfs: Robinson-Foulds distance between two trees, unrooted before
//     the timer; bitset indexing is timed
package benchmark
