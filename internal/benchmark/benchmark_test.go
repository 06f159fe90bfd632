// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/phylobench/internal/phylo"
	"github.com/jeranaias/phylobench/internal/sample"
)

const sixTips = "(((Tip0:1,Tip1:1):1,(Tip2:1,Tip3:1):1):1,(Tip4:1,Tip5:1):1);"

func writeTree(t *testing.T, name, newick string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(newick+"\n"), 0644))
	return path
}

func newTestRunner(opts Options) *Runner {
	if opts.Rand == nil {
		opts.Rand = sample.NewRand(42)
	}
	return NewRunner(opts)
}

// =============================================================================
// OPERATION TABLE TESTS
// =============================================================================

func TestOpNames(t *testing.T) {
	assert.Equal(t,
		[]string{"contract", "lca", "nni", "read-newick", "rfs", "traverse", "yts"},
		OpNames())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("spr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOp))
	assert.Contains(t, err.Error(), "read-newick")
}

func TestGetStandardOps_Arity(t *testing.T) {
	for name, op := range GetStandardOps() {
		assert.Equal(t, name, op.Name)
		want := 1
		if name == "rfs" {
			want = 2
		}
		assert.Equal(t, want, op.Trees, name)
		assert.NotNil(t, op.Run, name)
	}
}

// =============================================================================
// RUNNER TESTS
// =============================================================================

func TestRunner_Operations(t *testing.T) {
	path := writeTree(t, "six.nwk", sixTips)

	tests := []struct {
		op     string
		paths  []string
		sample int
		check  func(t *testing.T, res *Result)
	}{
		{
			op:    "read-newick",
			paths: []string{path},
			check: func(t *testing.T, res *Result) {
				assert.Contains(t, res.Output, "Tip0")
				assert.True(t, strings.HasSuffix(res.Output, ";"))
			},
		},
		{
			op:    "traverse",
			paths: []string{path},
			check: func(t *testing.T, res *Result) {
				// 6 tips + 5 internal nodes
				assert.Equal(t, "11 nodes visited", res.Output)
			},
		},
		{
			op:     "lca",
			paths:  []string{path},
			sample: 2,
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 2, res.SampleLen)
				assert.NotEmpty(t, res.Output)
			},
		},
		{
			op:     "contract",
			paths:  []string{path},
			sample: 3,
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 3, res.SampleLen)
				assert.Equal(t, 3, strings.Count(res.Output, "Tip"))
			},
		},
		{
			op:    "yts",
			paths: []string{path},
			check: func(t *testing.T, res *Result) {
				assert.True(t, strings.HasSuffix(res.Output, ";"))
			},
		},
		{
			op:    "nni",
			paths: []string{path},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 6, strings.Count(res.Output, "Tip"))
				assert.NotEqual(t, sixTips, res.Output)
			},
		},
		{
			op:    "rfs",
			paths: []string{path, path},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, "0", res.Output)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			r := newTestRunner(Options{Universe: 6, SampleSize: tt.sample, LabelPrefix: "Tip"})
			res, err := r.Run(context.Background(), tt.op, tt.paths)
			require.NoError(t, err)

			assert.Equal(t, Library, res.Library)
			assert.Equal(t, tt.op, res.Operation)
			assert.Equal(t, 6, res.Taxa)
			assert.GreaterOrEqual(t, res.Elapsed, time.Duration(0))
			tt.check(t, res)
		})
	}
}

func TestRunner_FromTree(t *testing.T) {
	path := writeTree(t, "named.nwk", "((A:1,B:1):1,(C:1,D:1):1);")
	r := newTestRunner(Options{SampleSize: 2, FromTree: true})

	res, err := r.Run(context.Background(), "lca", []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SampleLen)
	assert.Equal(t, 4, res.Taxa)
}

func TestRunner_Errors(t *testing.T) {
	path := writeTree(t, "six.nwk", sixTips)
	bad := writeTree(t, "bad.nwk", "((A,B);")

	t.Run("wrong arity", func(t *testing.T) {
		_, err := newTestRunner(Options{}).Run(context.Background(), "rfs", []string{path})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrArity)
		assert.Contains(t, err.Error(), "expects 2")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newTestRunner(Options{}).Run(context.Background(), "yts", []string{filepath.Join(t.TempDir(), "nope.nwk")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("malformed newick", func(t *testing.T) {
		_, err := newTestRunner(Options{}).Run(context.Background(), "yts", []string{bad})
		require.Error(t, err)
	})

	t.Run("sample larger than universe", func(t *testing.T) {
		_, err := newTestRunner(Options{Universe: 6, SampleSize: 7}).Run(context.Background(), "lca", []string{path})
		require.Error(t, err)
		assert.True(t, errors.Is(err, sample.ErrSampleTooLarge))
	})

	t.Run("nni without internal edge", func(t *testing.T) {
		quartet := writeTree(t, "quartet.nwk", "((A,B),(C,D));")
		_, err := newTestRunner(Options{}).Run(context.Background(), "nni", []string{quartet})
		require.Error(t, err)
		assert.ErrorIs(t, err, phylo.ErrNoNNI)
	})

	t.Run("rfs over different taxa", func(t *testing.T) {
		other := writeTree(t, "other.nwk", "(((A:1,B:1):1,(C:1,D:1):1):1,(E:1,F:1):1);")
		_, err := newTestRunner(Options{}).Run(context.Background(), "rfs", []string{path, other})
		require.Error(t, err)
		assert.ErrorIs(t, err, phylo.ErrTaxaMismatch)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestRunner(Options{}).Run(ctx, "yts", []string{path})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunner_RunRepeated(t *testing.T) {
	path := writeTree(t, "six.nwk", sixTips)
	r := newTestRunner(Options{Universe: 6, SampleSize: 3, LabelPrefix: "Tip"})

	results, err := r.RunRepeated(context.Background(), "contract", []string{path}, 5)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, res := range results {
		assert.Equal(t, 6, res.Taxa, "every trial re-parses the original tree")
	}

	_, err = r.RunRepeated(context.Background(), "contract", []string{path}, 0)
	assert.Error(t, err)
}

// =============================================================================
// RESULT HELPER TESTS
// =============================================================================

func TestMeanMillis(t *testing.T) {
	assert.InDelta(t, 2.5, MeanMillis(250*time.Millisecond, 100), 1e-9)
	assert.Equal(t, 0.0, MeanMillis(time.Second, 0))
	assert.Equal(t, 0.0, MeanMillis(-time.Second, 10))
}

func TestMeanElapsed(t *testing.T) {
	assert.Equal(t, time.Duration(0), MeanElapsed(nil))
	got := MeanElapsed([]*Result{{Elapsed: time.Second}, {Elapsed: 3 * time.Second}})
	assert.Equal(t, 2*time.Second, got)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "N/A"},
		{500 * time.Microsecond, "500.0µs"},
		{1500 * time.Microsecond, "1.50ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestResult_Record(t *testing.T) {
	now := time.Now()
	res := &Result{Library: Library, Operation: "lca", Taxa: 200, StartTime: now, Elapsed: 1500 * time.Millisecond}
	rec := res.Record("run-1")

	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, "lca", rec.Operation)
	assert.Equal(t, 200, rec.Taxa)
	assert.InDelta(t, 1.5, rec.Value, 1e-9)
	assert.Equal(t, UnitSeconds, rec.Unit)
	assert.Equal(t, "1.5", FormatSeconds(res.Elapsed))
}

// =============================================================================
// MEMORY TESTS
// =============================================================================

func TestMeasureParseMemory(t *testing.T) {
	path := writeTree(t, "six.nwk", sixTips)

	res, err := MeasureParseMemory(path, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Trials)
	assert.Equal(t, 6, res.Taxa)
	assert.LessOrEqual(t, res.Positive, 3)
	assert.Greater(t, res.AllocBytesPerOp, uint64(0))
	assert.Equal(t, UnitMegabytes, res.Record("r").Unit)
}

func TestMeasureParseMemory_Errors(t *testing.T) {
	path := writeTree(t, "six.nwk", sixTips)

	_, err := MeasureParseMemory(path, 0)
	assert.Error(t, err)

	_, err = MeasureParseMemory(filepath.Join(t.TempDir(), "missing.nwk"), 1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResultSummary(t *testing.T) {
	res := &Result{Library: Library, Operation: "traverse", Taxa: 1000, Elapsed: 2500 * time.Microsecond}
	assert.Equal(t, "Library: gotree\nOperation: traverse\nTaxa: 1000\nElapsed: 2.50ms", res.Summary())
}

func TestRunner_TaxaCountReparseFails(t *testing.T) {
	r := newTestRunner(Options{})
	in := &Input{Paths: []string{filepath.Join(t.TempDir(), "gone.nwk")}}

	n, err := r.taxaCount(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Zero(t, n)
}

func TestRunner_ContractKeepsOriginalTaxa(t *testing.T) {
	path := writeTree(t, "six.nwk", sixTips)
	r := newTestRunner(Options{Universe: 6, SampleSize: 2, LabelPrefix: "Tip"})

	res, err := r.Run(context.Background(), "contract", []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(res.Output, "Tip"))
	assert.Equal(t, 6, res.Taxa)
}
