// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package phylo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
)

// ErrNoTaxa is returned when an operation needs at least one tip name.
var ErrNoTaxa = errors.New("no taxa given")

// Parse reads one Newick tree from r.
func Parse(r io.Reader) (*tree.Tree, error) {
	t, err := newick.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse newick: %w", err)
	}
	return t, nil
}

// ParseString parses a Newick string such as one field of a sim_trees line.
func ParseString(s string) (*tree.Tree, error) {
	return Parse(strings.NewReader(strings.TrimSpace(s)))
}

// ReadFile opens and parses a Newick file.
func ReadFile(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// TipNames returns the tip labels in gotree's tip order.
func TipNames(t *tree.Tree) []string {
	tips := t.Tips()
	names := make([]string, len(tips))
	for i, n := range tips {
		names[i] = n.Name()
	}
	return names
}

// NumTips returns the number of tips (the taxa count used in CSV rows).
func NumTips(t *tree.Tree) int {
	return len(t.Tips())
}

// PostOrder materialises a postorder walk, children before parents.
func PostOrder(t *tree.Tree) []*tree.Node {
	var nodes []*tree.Node
	t.PostOrder(func(cur *tree.Node, prev *tree.Node, e *tree.Edge) bool {
		nodes = append(nodes, cur)
		return true
	})
	return nodes
}

// LCA returns the least common ancestor of the named tips on a rooted tree.
func LCA(t *tree.Tree, names ...string) (*tree.Node, error) {
	if len(names) == 0 {
		return nil, ErrNoTaxa
	}
	lca, _, _, err := t.LeastCommonAncestorRooted(nil, names...)
	if err != nil {
		return nil, fmt.Errorf("lca of %d taxa: %w", len(names), err)
	}
	return lca, nil
}

// Contract reduces t in place to the topology induced by keep.
func Contract(t *tree.Tree, keep []string) error {
	if len(keep) == 0 {
		return ErrNoTaxa
	}
	if err := t.RemoveTips(true, keep...); err != nil {
		return fmt.Errorf("contract to %d taxa: %w", len(keep), err)
	}
	return nil
}

// Yule simulates a rooted binary Yule tree with ntips tips.
func Yule(ntips int) (*tree.Tree, error) {
	t, err := tree.RandomYuleBinaryTree(ntips, true)
	if err != nil {
		return nil, fmt.Errorf("yule simulation with %d tips: %w", ntips, err)
	}
	return t, nil
}
