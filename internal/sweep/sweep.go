// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sweep

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evolbioinfo/gotree/tree"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/phylo"
	"github.com/jeranaias/phylobench/internal/sample"
)

// ErrNoTrees is returned when the input file has no tree lines.
var ErrNoTrees = errors.New("no trees in input")

// =============================================================================
// PHASES
// =============================================================================

// Phase is one timed operation of the sweep.
type Phase struct {
	// Name is the file-name segment ("contract" -> gotree-contract-times.csv).
	Name string
	// Title is logged when the phase starts.
	Title string
	// Op is the runtime-table operation key this phase feeds.
	Op string
	// SampleSize returns how many labels to draw per round; 0 means none.
	SampleSize func(universe int) int
	// Run is the timed operation on a freshly parsed tree.
	Run func(t *tree.Tree, taxa []string) error
}

// Phases returns the sweep phases in execution order.
func Phases() []Phase {
	return []Phase{
		{
			Name:       "contract",
			Title:      "Contract",
			Op:         "contract",
			SampleSize: func(u int) int { return u / 2 },
			Run: func(t *tree.Tree, taxa []string) error {
				return phylo.Contract(t, taxa)
			},
		},
		{
			Name:       "postord",
			Title:      "Postord",
			Op:         "traverse",
			SampleSize: func(int) int { return 0 },
			Run: func(t *tree.Tree, _ []string) error {
				phylo.PostOrder(t)
				return nil
			},
		},
		{
			Name:       "mrca",
			Title:      "MRCA",
			Op:         "lca",
			SampleSize: func(int) int { return 2 },
			Run: func(t *tree.Tree, taxa []string) error {
				_, err := phylo.LCA(t, taxa...)
				return err
			},
		},
	}
}

// FileName returns the output file name for a phase.
func FileName(prefix, phase string) string {
	return fmt.Sprintf("%s-%s-times.csv", prefix, phase)
}

// =============================================================================
// INPUT
// =============================================================================

// Pair is one line of the sweep input.
type Pair struct {
	First  string
	Second string
}

// ReadPairs loads tab-separated tree pairs from path. Blank lines are
// skipped.
func ReadPairs(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pairs, err := ParsePairs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

// ParsePairs reads tree pairs from r.
func ParsePairs(r io.Reader) ([]Pair, error) {
	sc := bufio.NewScanner(r)
	// Newick lines for 10k-taxa trees run to hundreds of kilobytes.
	sc.Buffer(make([]byte, 0, 1<<20), 64<<20)

	var pairs []Pair
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		first, second, _ := strings.Cut(line, "\t")
		pairs = append(pairs, Pair{First: first, Second: second})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, ErrNoTrees
	}
	return pairs, nil
}

// =============================================================================
// RUNNER
// =============================================================================

// Row is one written CSV row.
type Row struct {
	Taxa   int
	MeanMS float64
}

// PhaseResult is the outcome of one phase.
type PhaseResult struct {
	Phase string
	Path  string
	Rows  []Row
}

// Progress reports a finished line within a phase.
type Progress struct {
	Phase string
	Done  int
	Total int
}

// Options configures a sweep.
type Options struct {
	Iterations  int
	Universe    int
	LabelPrefix string
	Prefix      string
	OutDir      string

	Rand   *rand.Rand
	Logger *slog.Logger

	// OnProgress is called after each line. May be nil.
	OnProgress func(Progress)
	// OnRecord receives every row as a ledger record in seconds. May be nil.
	OnRecord func(benchmark.Record)
	// RunID tags records passed to OnRecord.
	RunID string
}

func (o *Options) setDefaults() {
	if o.Iterations <= 0 {
		o.Iterations = 100
	}
	if o.Universe <= 0 {
		o.Universe = 200
	}
	if o.Prefix == "" {
		o.Prefix = benchmark.Library
	}
	if o.OutDir == "" {
		o.OutDir = "."
	}
	if o.Rand == nil {
		o.Rand = sample.NewRand(0)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Run executes every phase over pairs and writes one CSV per phase.
func Run(ctx context.Context, pairs []Pair, opts Options) ([]PhaseResult, error) {
	opts.setDefaults()
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var results []PhaseResult
	for _, ph := range Phases() {
		opts.Logger.Info(ph.Title)

		path := filepath.Join(opts.OutDir, FileName(opts.Prefix, ph.Name))
		rows, err := runPhaseFile(ctx, ph, pairs, opts, path)
		results = append(results, PhaseResult{Phase: ph.Name, Path: path, Rows: rows})
		if err != nil {
			return results, fmt.Errorf("%s phase: %w", ph.Name, err)
		}
	}
	return results, nil
}

func runPhaseFile(ctx context.Context, ph Phase, pairs []Pair, opts Options, path string) ([]Row, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	rows, err := RunPhase(ctx, ph, pairs, opts, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return rows, err
}

// RunPhase times one phase over every pair, writing a row to w as each
// line finishes.
func RunPhase(ctx context.Context, ph Phase, pairs []Pair, opts Options, w io.Writer) ([]Row, error) {
	opts.setDefaults()
	size := ph.SampleSize(opts.Universe)

	rows := make([]Row, 0, len(pairs))
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		row, err := timeLine(ph, p.First, size, opts)
		if err != nil {
			return rows, fmt.Errorf("line %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintf(w, "%d,%v\n", row.Taxa, row.MeanMS); err != nil {
			return rows, err
		}
		rows = append(rows, row)

		opts.Logger.Debug("sweep row", "phase", ph.Name, "taxa", row.Taxa, "mean_ms", row.MeanMS)
		if opts.OnRecord != nil {
			opts.OnRecord(benchmark.Record{
				RunID:     opts.RunID,
				Library:   benchmark.Library,
				Operation: ph.Op,
				Taxa:      row.Taxa,
				Value:     row.MeanMS / 1000,
				Unit:      benchmark.UnitSeconds,
				CreatedAt: time.Now(),
			})
		}
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Phase: ph.Name, Done: i + 1, Total: len(pairs)})
		}
	}
	return rows, nil
}

// timeLine runs Iterations rounds of parse+op on one Newick string. The
// taxa count comes from an untimed parse since some operations mutate the
// tree.
func timeLine(ph Phase, newick string, size int, opts Options) (Row, error) {
	probe, err := phylo.ParseString(newick)
	if err != nil {
		return Row{}, err
	}
	taxa := phylo.NumTips(probe)

	var subsamples [][]string
	if size > 0 {
		subsamples, err = sample.Batch(opts.Rand, opts.Iterations, opts.Universe, size, opts.LabelPrefix)
		if err != nil {
			return Row{}, err
		}
	}

	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		t, err := phylo.ParseString(newick)
		if err != nil {
			return Row{}, err
		}
		var sub []string
		if subsamples != nil {
			sub = subsamples[i]
		}
		if err := ph.Run(t, sub); err != nil {
			return Row{}, err
		}
	}
	total := time.Since(start)

	return Row{Taxa: taxa, MeanMS: benchmark.MeanMillis(total, opts.Iterations)}, nil
}
