// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/evolbioinfo/gotree/tree"

	"github.com/jeranaias/phylobench/internal/phylo"
	"github.com/jeranaias/phylobench/internal/sample"
)

// =============================================================================
// BENCHMARK RUNNER
// =============================================================================

// Options configures a Runner.
type Options struct {
	// Universe and SampleSize define the synthetic subsample
	// (SampleSize labels out of Universe).
	Universe   int
	SampleSize int
	// LabelPrefix is prepended to sampled indexes ("Tip" -> "Tip17").
	LabelPrefix string
	// FromTree samples from the tree's own tip names instead of the
	// synthetic universe.
	FromTree bool
	// ExcludeParse moves parsing out of the timed region for operations
	// that would otherwise include it.
	ExcludeParse bool
	// Rand drives subsampling. Nil means a fresh unseeded generator.
	Rand *rand.Rand
	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// Runner executes benchmark operations.
// Note: Runner is not thread-safe; it owns a single random generator.
type Runner struct {
	opts Options
	rng  *rand.Rand
	log  *slog.Logger
}

// NewRunner creates a new benchmark runner.
func NewRunner(opts Options) *Runner {
	if opts.Universe == 0 {
		opts.Universe = 200
	}
	if opts.SampleSize == 0 {
		opts.SampleSize = opts.Universe / 2
	}
	rng := opts.Rand
	if rng == nil {
		rng = sample.NewRand(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, rng: rng, log: logger}
}

// Run prepares the inputs for the named operation and times one call.
func (r *Runner) Run(ctx context.Context, opName string, paths []string) (*Result, error) {
	op, err := Lookup(opName)
	if err != nil {
		return nil, err
	}
	if len(paths) != op.Trees {
		return nil, fmt.Errorf("%w: %s expects %d tree file(s), got %d", ErrArity, op.Name, op.Trees, len(paths))
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	in, err := r.prepare(op, paths)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Library:   Library,
		Operation: op.Name,
		Paths:     paths,
		SampleLen: len(in.Taxa),
		StartTime: time.Now(),
	}

	start := time.Now()
	out, err := op.Run(in)
	result.Elapsed = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Name, err)
	}

	result.Output = describe(out)
	if result.Taxa, err = r.taxaCount(in); err != nil {
		return nil, fmt.Errorf("%s: count taxa: %w", op.Name, err)
	}

	r.log.Debug("operation timed",
		"op", op.Name,
		"taxa", result.Taxa,
		"sample", result.SampleLen,
		"elapsed", result.Elapsed)

	return result, nil
}

// RunRepeated runs an operation n times, preparing fresh inputs (and a
// fresh subsample) for every trial. It returns every trial so callers can
// average them.
func (r *Runner) RunRepeated(ctx context.Context, opName string, paths []string, n int) ([]*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("repeat count must be positive, got %d", n)
	}
	results := make([]*Result, 0, n)
	for i := 0; i < n; i++ {
		res, err := r.Run(ctx, opName, paths)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// prepare does everything that must not be timed: parsing (unless the
// operation times its own parse) and subsampling.
func (r *Runner) prepare(op Op, paths []string) (*Input, error) {
	in := &Input{Paths: paths}

	parseNow := !op.ParsesInside || (r.opts.ExcludeParse && op.Name != "read-newick")
	if parseNow {
		in.Trees = make([]*tree.Tree, len(paths))
		for i, p := range paths {
			t, err := phylo.ReadFile(p)
			if err != nil {
				return nil, err
			}
			in.Trees[i] = t
		}
		in.tips = phylo.NumTips(in.Trees[0])
	}

	if op.Sampled {
		var err error
		if r.opts.FromTree {
			in.Taxa, err = sample.Names(r.rng, phylo.TipNames(in.Trees[0]), r.opts.SampleSize)
		} else {
			in.Taxa, err = sample.Labels(r.rng, r.opts.Universe, r.opts.SampleSize, r.opts.LabelPrefix)
		}
		if err != nil {
			return nil, fmt.Errorf("draw subsample: %w", err)
		}
	}

	if op.Prepare != nil {
		if err := op.Prepare(in); err != nil {
			return nil, fmt.Errorf("%s: %w", op.Name, err)
		}
	}

	return in, nil
}

// taxaCount reports the tip count of the first input tree, re-parsing it
// when the operation parsed inside the timer and discarded the tree.
func (r *Runner) taxaCount(in *Input) (int, error) {
	if in.tips > 0 {
		return in.tips, nil
	}
	t, err := phylo.ReadFile(in.Paths[0])
	if err != nil {
		return 0, err
	}
	return phylo.NumTips(t), nil
}
