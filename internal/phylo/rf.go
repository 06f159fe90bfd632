// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package phylo

import (
	"errors"
	"fmt"

	"github.com/evolbioinfo/gotree/tree"
)

// ErrTaxaMismatch is returned when two trees do not share the same tip set.
var ErrTaxaMismatch = errors.New("trees have different taxa")

// Unroot removes a bifurcating root so each split is carried by one edge.
// Unrooted trees are left alone.
func Unroot(t *tree.Tree) {
	t.UnRoot()
}

// RF returns the Robinson-Foulds distance between t1 and t2: the number of
// internal edges whose bipartition appears in only one of the trees.
//
// The bitset indexes of both trees are rebuilt first. A rooted tree carries
// its root split on two edges, so callers wanting the unrooted distance
// pass the trees through Unroot beforehand.
func RF(t1, t2 *tree.Tree) (int, error) {
	if err := t1.ReinitIndexes(); err != nil {
		return 0, fmt.Errorf("index first tree: %w", err)
	}
	if err := t2.ReinitIndexes(); err != nil {
		return 0, fmt.Errorf("index second tree: %w", err)
	}
	if err := t1.CompareTipIndexes(t2); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTaxaMismatch, err)
	}

	only1, _, err := t1.CommonEdges(t2, false)
	if err != nil {
		return 0, fmt.Errorf("compare edges: %w", err)
	}
	only2, _, err := t2.CommonEdges(t1, false)
	if err != nil {
		return 0, fmt.Errorf("compare edges: %w", err)
	}
	return only1 + only2, nil
}
