// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"errors"
	"fmt"
	"sort"

	"github.com/evolbioinfo/gotree/tree"

	"github.com/jeranaias/phylobench/internal/phylo"
)

// Library is the name recorded for measurements taken by this harness.
const Library = "gotree"

// =============================================================================
// OPERATION DEFINITIONS
// =============================================================================

// Op represents a single benchmarked operation.
type Op struct {
	Name        string
	Description string

	// Trees is the number of tree file arguments.
	Trees int

	// ParsesInside marks operations whose timed region includes parsing.
	ParsesInside bool

	// Sampled operations receive a random taxon subsample in Input.Taxa.
	Sampled bool

	// Prepare runs after parsing and subsampling, outside the timer.
	Prepare func(in *Input) error

	// Run is the timed region.
	Run func(in *Input) (any, error)
}

// Input is everything prepared for an operation before the timer starts.
type Input struct {
	Paths []string
	Trees []*tree.Tree
	Taxa  []string
	Move  tree.Rearrangement

	// tips is the tip count of the first tree, taken before the
	// operation can modify it.
	tips int
}

// ErrUnknownOp is returned by Lookup for names that are not registered.
var ErrUnknownOp = errors.New("unknown operation")

// ErrArity is returned when an operation gets the wrong number of trees.
var ErrArity = errors.New("wrong number of tree files")

// =============================================================================
// STANDARD OPERATIONS
// =============================================================================

// GetStandardOps returns the operation table keyed by name.
func GetStandardOps() map[string]Op {
	return map[string]Op{
		"read-newick": {
			Name:         "read-newick",
			Description:  "Parse a Newick file and write it back out",
			Trees:        1,
			ParsesInside: true,
			Run: func(in *Input) (any, error) {
				t, err := phylo.ReadFile(in.Paths[0])
				if err != nil {
					return nil, err
				}
				return t.Newick(), nil
			},
		},
		"traverse": {
			Name:         "traverse",
			Description:  "Postorder traversal over every node",
			Trees:        1,
			ParsesInside: true,
			Run: func(in *Input) (any, error) {
				t, err := treeOrParse(in, 0)
				if err != nil {
					return nil, err
				}
				return phylo.PostOrder(t), nil
			},
		},
		"lca": {
			Name:        "lca",
			Description: "Least common ancestor of a random taxon subsample",
			Trees:       1,
			Sampled:     true,
			Run: func(in *Input) (any, error) {
				return phylo.LCA(in.Trees[0], in.Taxa...)
			},
		},
		"contract": {
			Name:        "contract",
			Description: "Restrict the tree to a random taxon subsample",
			Trees:       1,
			Sampled:     true,
			Run: func(in *Input) (any, error) {
				t := in.Trees[0]
				if err := phylo.Contract(t, in.Taxa); err != nil {
					return nil, err
				}
				return t, nil
			},
		},
		"yts": {
			Name:        "yts",
			Description: "Simulate a Yule tree with the input's tip count",
			Trees:       1,
			Run: func(in *Input) (any, error) {
				return phylo.Yule(phylo.NumTips(in.Trees[0]))
			},
		},
		"nni": {
			Name:        "nni",
			Description: "Apply the first nearest neighbor interchange",
			Trees:       1,
			Prepare: func(in *Input) error {
				m, err := phylo.FirstNNI(in.Trees[0])
				if err != nil {
					return err
				}
				in.Move = m
				return nil
			},
			Run: func(in *Input) (any, error) {
				if err := in.Move.Apply(); err != nil {
					return nil, err
				}
				return in.Trees[0], nil
			},
		},
		"rfs": {
			Name:        "rfs",
			Description: "Robinson-Foulds distance between two trees",
			Trees:       2,
			Prepare: func(in *Input) error {
				for _, t := range in.Trees {
					phylo.Unroot(t)
				}
				return nil
			},
			Run: func(in *Input) (any, error) {
				return phylo.RF(in.Trees[0], in.Trees[1])
			},
		},
	}
}

// Lookup returns the named operation.
func Lookup(name string) (Op, error) {
	op, ok := GetStandardOps()[name]
	if !ok {
		return Op{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownOp, name, OpNames())
	}
	return op, nil
}

// OpNames lists the registered operation names in sorted order.
func OpNames() []string {
	ops := GetStandardOps()
	names := make([]string, 0, len(ops))
	for n := range ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// treeOrParse returns the pre-parsed tree i, parsing it now if the runner
// left parsing to the timed region.
func treeOrParse(in *Input, i int) (*tree.Tree, error) {
	if i < len(in.Trees) && in.Trees[i] != nil {
		return in.Trees[i], nil
	}
	return phylo.ReadFile(in.Paths[i])
}

// describe renders an operation's return value the way the timing scripts
// print it before the time line.
func describe(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case *tree.Tree:
		return r.Newick()
	case *tree.Node:
		if r.Name() != "" {
			return r.Name()
		}
		return "(unnamed node)"
	case []*tree.Node:
		return fmt.Sprintf("%d nodes visited", len(r))
	default:
		return fmt.Sprint(r)
	}
}
