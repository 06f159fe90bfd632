// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/sample"
	"github.com/jeranaias/phylobench/internal/store"
	"github.com/jeranaias/phylobench/internal/sweep"
	"github.com/jeranaias/phylobench/internal/util"
)

type sweepFlags struct {
	iterations  int
	universe    int
	prefix      string
	outDir      string
	labelPrefix string
	seed        uint64
	record      bool
	noProgress  bool
}

// sweepOutput is the --json payload of the sweep command.
type sweepOutput struct {
	RunID  string             `json:"run_id,omitempty"`
	Input  string             `json:"input"`
	Trees  int                `json:"trees"`
	Phases []sweepPhaseOutput `json:"phases"`
}

type sweepPhaseOutput struct {
	Phase string `json:"phase"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

func newSweepCommand(a *app) *cobra.Command {
	var f sweepFlags

	cmd := &cobra.Command{
		Use:   "sweep [sim_trees]",
		Short: "Run the contract/postorder/MRCA sweep over simulated trees",
		Long: `Read tab-separated tree pairs (one per line) and, for each of the
contract, postord and mrca phases, time --iterations rounds of
parse-plus-operation per tree. Each phase writes rows of
"<taxa>,<mean ms>" to <prefix>-<phase>-times.csv.

Use --prefix treeswift to reproduce the historical file names.`,
		Args: argsRange(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Sweep.Input
			if len(args) == 1 {
				input = args[0]
			}
			return a.runSweep(cmd, f, input)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.iterations, "iterations", "n", 0, "timed rounds per tree (default sweep.iterations)")
	fl.IntVar(&f.universe, "universe", 0, "label universe for subsamples (default sample.universe)")
	fl.StringVar(&f.prefix, "prefix", "", "output file prefix (default sweep.prefix)")
	fl.StringVarP(&f.outDir, "out-dir", "o", "", "output directory (default sweep.out_dir)")
	fl.StringVar(&f.labelPrefix, "label-prefix", "", "subsample label prefix (default sweep.label_prefix)")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed (0 = random)")
	fl.BoolVar(&f.record, "record", false, "store every row in the results ledger")
	fl.BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func (a *app) runSweep(cmd *cobra.Command, f sweepFlags, input string) error {
	pairs, err := sweep.ReadPairs(input)
	if err != nil {
		return err
	}

	opts := sweep.Options{
		Iterations:  a.cfg.Sweep.Iterations,
		Universe:    a.cfg.Sample.Universe,
		LabelPrefix: a.cfg.Sweep.LabelPrefix,
		Prefix:      a.cfg.Sweep.Prefix,
		OutDir:      a.cfg.Sweep.OutDir,
		Rand:        sample.NewRand(f.seed),
		Logger:      a.log,
	}
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		if f.iterations <= 0 {
			return NewValidationErrorWithExample("iterations", fmt.Sprint(f.iterations), "must be positive", "--iterations 100")
		}
		opts.Iterations = f.iterations
	}
	if flags.Changed("universe") {
		opts.Universe = f.universe
	}
	if flags.Changed("prefix") {
		opts.Prefix = f.prefix
	}
	if flags.Changed("out-dir") {
		opts.OutDir = f.outDir
	}
	if flags.Changed("label-prefix") {
		opts.LabelPrefix = f.labelPrefix
	}

	bar := newProgressBar(cmd.ErrOrStderr(), !f.noProgress && !a.jsonOut && IsStderrTTY())
	opts.OnProgress = bar.Update

	var pending []benchmark.Record
	if f.record {
		opts.RunID = store.NewRunID()
		opts.OnRecord = func(r benchmark.Record) { pending = append(pending, r) }
	}

	a.log.Info("sweep starting",
		"input", input,
		"trees", util.FormatCount(len(pairs)),
		"iterations", opts.Iterations)

	results, err := sweep.Run(cmd.Context(), pairs, opts)
	bar.Done()

	// Rows already written are kept even when the sweep stops early.
	if len(pending) > 0 {
		if rerr := a.saveRecords(cmd, "sweep", pending); rerr != nil && err == nil {
			err = rerr
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		data := sweepOutput{RunID: opts.RunID, Input: input, Trees: len(pairs)}
		for _, r := range results {
			data.Phases = append(data.Phases, sweepPhaseOutput{Phase: r.Phase, Path: r.Path, Rows: len(r.Rows)})
		}
		return NewJSONResponse("sweep", data).Print(out)
	}

	for _, r := range results {
		fmt.Fprintf(out, "%s %s (%d rows)\n", SuccessStyle.Render("wrote"), r.Path, len(r.Rows))
	}
	return nil
}
