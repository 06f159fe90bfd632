// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/store"
	"github.com/jeranaias/phylobench/internal/util"
)

// memOutput is the --json payload of the mem command.
type memOutput struct {
	RunID           string  `json:"run_id,omitempty"`
	Path            string  `json:"path"`
	Taxa            int     `json:"taxa"`
	Trials          int     `json:"trials"`
	PositiveTrials  int     `json:"positive_trials"`
	MeanLiveMB      float64 `json:"mean_live_mb"`
	AllocBytesPerOp uint64  `json:"alloc_bytes_per_op"`
	MallocsPerOp    uint64  `json:"mallocs_per_op"`
}

func newMemCommand(a *app) *cobra.Command {
	var (
		iters  int
		record bool
	)

	cmd := &cobra.Command{
		Use:   "mem read-newick <tree.nwk>",
		Short: "Measure heap growth of parsing a Newick file",
		Long: `Parse the tree --iter times and report how much the live heap grows per
parsed tree (after a forced GC), averaged over all trials, in MB.

The trailing "taxa,MB" line matches the rows of mem-util.csv.`,
		Args: argsRange(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "read-newick" {
				return fmt.Errorf("%w: mem supports only read-newick, got %q", benchmark.ErrUnknownOp, args[0])
			}
			if iters <= 0 {
				return NewValidationErrorWithExample("iter", fmt.Sprint(iters), "must be positive", "--iter 10")
			}
			return a.runMem(cmd, args[1], iters, record)
		},
	}
	cmd.Flags().IntVarP(&iters, "iter", "i", 10, "number of parse trials")
	cmd.Flags().BoolVar(&record, "record", false, "store the measurement in the results ledger")
	return cmd
}

func (a *app) runMem(cmd *cobra.Command, path string, iters int, record bool) error {
	res, err := benchmark.MeasureParseMemory(path, iters)
	if err != nil {
		return err
	}
	a.log.Debug("memory measured", "path", path, "trials", res.Trials, "positive", res.Positive)

	var runID string
	if record {
		runID = store.NewRunID()
		if err := a.saveRecords(cmd, "mem", []benchmark.Record{res.Record(runID)}); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		return NewJSONResponse("mem", memOutput{
			RunID:           runID,
			Path:            path,
			Taxa:            res.Taxa,
			Trials:          res.Trials,
			PositiveTrials:  res.Positive,
			MeanLiveMB:      res.MeanLiveMB(),
			AllocBytesPerOp: res.AllocBytesPerOp,
			MallocsPerOp:    res.MallocsPerOp,
		}).Print(out)
	}

	fmt.Fprintln(out, TitleStyle.Render("Parse memory: "+path))
	fmt.Fprintln(out, RenderField("Taxa", util.FormatCount(res.Taxa)))
	fmt.Fprintln(out, RenderField("Trials", fmt.Sprintf("%d (%d with positive delta)", res.Trials, res.Positive)))
	fmt.Fprintln(out, RenderField("Live heap", benchmark.FormatBytes(res.MeanLiveBytes)))
	fmt.Fprintln(out, RenderField("Allocated/parse", benchmark.FormatBytes(float64(res.AllocBytesPerOp))))
	fmt.Fprintln(out, RenderField("Mallocs/parse", util.FormatCount(int(res.MallocsPerOp))))
	fmt.Fprintf(out, "%d,%v\n", res.Taxa, res.MeanLiveMB())
	return nil
}
