// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package phylo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quartet = "((A:1,B:1)AB:1,(C:1,D:1)CD:1)root;"

func TestParseString_TipsAndNames(t *testing.T) {
	tr, err := ParseString(quartet + "\n")
	require.NoError(t, err)

	assert.Equal(t, 4, NumTips(tr))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, TipNames(tr))
}

func TestParseString_Malformed(t *testing.T) {
	_, err := ParseString("((A,B),(C,D)")
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.nwk")
	require.NoError(t, os.WriteFile(path, []byte(quartet), 0644))

	tr, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, NumTips(tr))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.nwk"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPostOrder_ChildrenFirst(t *testing.T) {
	tr, err := ParseString(quartet)
	require.NoError(t, err)

	nodes := PostOrder(tr)
	require.Len(t, nodes, 7)

	pos := make(map[string]int)
	for i, n := range nodes {
		pos[n.Name()] = i
	}
	assert.Less(t, pos["A"], pos["AB"])
	assert.Less(t, pos["B"], pos["AB"])
	assert.Less(t, pos["C"], pos["CD"])
	assert.Equal(t, len(nodes)-1, pos["root"], "root is visited last")
}

func TestLCA(t *testing.T) {
	tr, err := ParseString(quartet)
	require.NoError(t, err)

	lca, err := LCA(tr, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "AB", lca.Name())

	lca, err = LCA(tr, "A", "D")
	require.NoError(t, err)
	assert.Equal(t, "root", lca.Name())

	_, err = LCA(tr)
	require.ErrorIs(t, err, ErrNoTaxa)

	_, err = LCA(tr, "A", "Tip99")
	require.Error(t, err)
}

func TestContract(t *testing.T) {
	tr, err := ParseString("(((A,B),C),(D,E));")
	require.NoError(t, err)

	require.NoError(t, Contract(tr, []string{"A", "C", "E"}))
	assert.ElementsMatch(t, []string{"A", "C", "E"}, TipNames(tr))

	require.ErrorIs(t, Contract(tr, nil), ErrNoTaxa)
}

func TestYule(t *testing.T) {
	tr, err := Yule(25)
	require.NoError(t, err)
	assert.Equal(t, 25, NumTips(tr))
}

func TestRF(t *testing.T) {
	tests := []struct {
		name string
		t1   string
		t2   string
		want int
	}{
		{"identical", "(((A,B),C),(D,E));", "(((A,B),C),(D,E));", 0},
		{"rerooted identical", "(((A,B),C),(D,E));", "((A,B),(C,(D,E)));", 0},
		{"one swap", "(((A,B),C),(D,E));", "(((A,C),B),(D,E));", 2},
		{"star vs resolved", "(A,B,C,D,E);", "(((A,B),C),(D,E));", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t1, err := ParseString(tt.t1)
			require.NoError(t, err)
			t2, err := ParseString(tt.t2)
			require.NoError(t, err)
			Unroot(t1)
			Unroot(t2)

			got, err := RF(t1, t2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := RF(t2, t1)
			require.NoError(t, err)
			assert.Equal(t, got, back, "RF is symmetric")
		})
	}
}

func TestRF_MatchesCommonEdges(t *testing.T) {
	for i := 0; i < 10; i++ {
		a, err := Yule(50)
		require.NoError(t, err)
		b, err := Yule(50)
		require.NoError(t, err)

		got, err := RF(a, b)
		require.NoError(t, err)

		onlyA, _, err := a.CommonEdges(b, false)
		require.NoError(t, err)
		onlyB, _, err := b.CommonEdges(a, false)
		require.NoError(t, err)
		assert.Equal(t, onlyA+onlyB, got)
	}
}

func TestRF_RootedCountsRootSplitTwice(t *testing.T) {
	t1, err := ParseString("(((A,B),C),(D,E));")
	require.NoError(t, err)
	t2, err := ParseString("(((A,B),D),(C,E));")
	require.NoError(t, err)

	rooted, err := RF(t1, t2)
	require.NoError(t, err)

	Unroot(t1)
	Unroot(t2)
	unrooted, err := RF(t1, t2)
	require.NoError(t, err)
	assert.Equal(t, 2, unrooted)
	assert.Equal(t, unrooted+2, rooted)
}

func TestRF_TaxaMismatch(t *testing.T) {
	t1, err := ParseString("((A,B),(C,D));")
	require.NoError(t, err)
	t2, err := ParseString("((A,B),(C,X));")
	require.NoError(t, err)
	t3, err := ParseString("((A,B),C);")
	require.NoError(t, err)

	_, err = RF(t1, t2)
	require.ErrorIs(t, err, ErrTaxaMismatch)
	_, err = RF(t1, t3)
	require.ErrorIs(t, err, ErrTaxaMismatch)
}

func TestFirstNNI(t *testing.T) {
	tr, err := ParseString("(((A,B),C),(D,E));")
	require.NoError(t, err)
	orig := tr.Clone()

	move, err := FirstNNI(tr)
	require.NoError(t, err)
	require.NoError(t, move.Apply())
	assert.Equal(t, 5, NumTips(tr))

	Unroot(tr)
	Unroot(orig)
	d, err := RF(tr, orig)
	require.NoError(t, err)
	assert.Equal(t, 2, d, "one interchange changes exactly one split")
}

func TestFirstNNI_NoInternalEdge(t *testing.T) {
	tr, err := ParseString("((A,B),(C,D));")
	require.NoError(t, err)

	_, err = FirstNNI(tr)
	require.ErrorIs(t, err, ErrNoNNI)
}
