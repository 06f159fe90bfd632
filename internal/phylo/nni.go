// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package phylo

import (
	"errors"

	"github.com/evolbioinfo/gotree/tree"
)

// ErrNoNNI is returned for trees without an internal edge joining two
// degree-3 nodes.
var ErrNoNNI = errors.New("tree has no nearest neighbor interchange")

// FirstNNI returns the first nearest neighbor interchange gotree's NNI
// rearranger proposes for t. The move is not applied.
func FirstNNI(t *tree.Tree) (tree.Rearrangement, error) {
	var first tree.Rearrangement
	r := &tree.NNIRearranger{}
	r.Rearrange(t, func(m tree.Rearrangement) bool {
		first = m
		return false
	})
	if first == nil {
		return nil, ErrNoNNI
	}
	return first, nil
}
