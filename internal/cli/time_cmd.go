// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/sample"
	"github.com/jeranaias/phylobench/internal/store"
)

type timeFlags struct {
	sampleSize   int
	universe     int
	labelPrefix  string
	fromTree     bool
	excludeParse bool
	repeat       int
	seed         uint64
	record       bool
	quiet        bool
}

// timeOutput is the --json payload of the time command.
type timeOutput struct {
	RunID       string    `json:"run_id,omitempty"`
	Library     string    `json:"library"`
	Operation   string    `json:"operation"`
	Taxa        int       `json:"taxa"`
	SampleSize  int       `json:"sample_size,omitempty"`
	Seconds     []float64 `json:"seconds"`
	MeanSeconds float64   `json:"mean_seconds"`
	Output      string    `json:"output,omitempty"`
}

func newTimeCommand(a *app) *cobra.Command {
	var f timeFlags

	cmd := &cobra.Command{
		Use:   "time <op> <tree.nwk> [tree2.nwk]",
		Short: "Time one tree operation",
		Long: `Time a single gotree operation on one (or, for rfs, two) Newick files.

Operations:
  read-newick  parse the file and render it back to Newick (parse is timed)
  traverse     postorder traversal (parse is timed unless --exclude-parse)
  lca          least common ancestor of a random taxon subsample
  contract     restrict the tree to a random taxon subsample
  nni          apply the first nearest neighbor interchange
  yts          simulate a Yule tree with the input's tip count
  rfs          Robinson-Foulds distance between two (unrooted) trees

The result is printed, followed by "Internal time: <seconds>".`,
		Args:      argsRange(2, 3),
		ValidArgs: benchmark.OpNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTime(cmd, f, args[0], args[1:])
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.sampleSize, "sample-size", "n", 0, "subsample size for lca/contract (default sample.size)")
	fl.IntVar(&f.universe, "universe", 0, "synthetic label universe (default sample.universe)")
	fl.StringVar(&f.labelPrefix, "label-prefix", "", "synthetic label prefix (default sample.label_prefix)")
	fl.BoolVar(&f.fromTree, "from-tree", false, "draw the subsample from the tree's own tip names")
	fl.BoolVar(&f.excludeParse, "exclude-parse", false, "keep parsing out of the timed region")
	fl.IntVarP(&f.repeat, "repeat", "r", 1, "number of trials, each with a fresh subsample")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed (0 = random)")
	fl.BoolVar(&f.record, "record", false, "store the measurements in the results ledger")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "print only the timing lines")
	return cmd
}

func (a *app) runTime(cmd *cobra.Command, f timeFlags, opName string, paths []string) error {
	if _, err := benchmark.Lookup(opName); err != nil {
		return err
	}
	if f.repeat <= 0 {
		return NewValidationErrorWithExample("repeat", fmt.Sprint(f.repeat), "must be positive", "--repeat 10")
	}

	opts := benchmark.Options{
		Universe:     a.cfg.Sample.Universe,
		SampleSize:   a.cfg.Sample.Size,
		LabelPrefix:  a.cfg.Sample.LabelPrefix,
		FromTree:     f.fromTree,
		ExcludeParse: f.excludeParse,
		Rand:         sample.NewRand(f.seed),
		Logger:       a.log,
	}
	if cmd.Flags().Changed("universe") {
		opts.Universe = f.universe
		if !cmd.Flags().Changed("sample-size") {
			opts.SampleSize = f.universe / 2
		}
	}
	if cmd.Flags().Changed("sample-size") {
		opts.SampleSize = f.sampleSize
	}
	if cmd.Flags().Changed("label-prefix") {
		opts.LabelPrefix = f.labelPrefix
	}

	runner := benchmark.NewRunner(opts)
	results, err := runner.RunRepeated(cmd.Context(), opName, paths, f.repeat)
	if err != nil {
		return err
	}

	var runID string
	if f.record {
		runID = store.NewRunID()
		recs := make([]benchmark.Record, len(results))
		for i, r := range results {
			recs[i] = r.Record(runID)
		}
		if err := a.saveRecords(cmd, "time", recs); err != nil {
			return err
		}
	}

	mean := benchmark.MeanElapsed(results)
	out := cmd.OutOrStdout()

	if a.jsonOut {
		data := timeOutput{
			RunID:       runID,
			Library:     benchmark.Library,
			Operation:   opName,
			Taxa:        results[0].Taxa,
			SampleSize:  results[0].SampleLen,
			MeanSeconds: mean.Seconds(),
		}
		for _, r := range results {
			data.Seconds = append(data.Seconds, r.Elapsed.Seconds())
		}
		if !f.quiet {
			data.Output = results[len(results)-1].Output
		}
		return NewJSONResponse("time", data).Print(out)
	}

	if a.verbose {
		for _, r := range results {
			fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render(r.Summary()))
		}
	}
	for _, r := range results {
		if !f.quiet && r.Output != "" {
			fmt.Fprintln(out, strings.TrimRight(r.Output, "\n"))
		}
		fmt.Fprintf(out, "\nInternal time: %s\n", benchmark.FormatSeconds(r.Elapsed))
	}
	if len(results) > 1 {
		fmt.Fprintf(out, "Mean time: %s (%d trials)\n", benchmark.FormatSeconds(mean), len(results))
	}
	return nil
}
