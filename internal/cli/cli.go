// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command and shared state for phylobench.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/config"
	"github.com/jeranaias/phylobench/internal/detect"
	"github.com/jeranaias/phylobench/internal/store"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries global flags and the loaded configuration to subcommands.
type app struct {
	configPath string
	dbPath     string
	verbose    bool
	jsonOut    bool

	cfg *config.Config
	log *slog.Logger
}

// Execute runs the command line with the process's stdout and stderr and
// returns the exit code.
func Execute(ctx context.Context, args []string) int {
	return ExecuteWith(ctx, args, os.Stdout, os.Stderr)
}

// ExecuteWith runs the command line against the given writers.
func ExecuteWith(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	err = classify(ctx, err)
	DisplayError(stderr, err, a.jsonOut)
	return GetExitCode(err)
}

// classify tags errors cobra raises itself so they map to exit codes.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", errInterrupted, err)
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") {
		return usageErrorf("%s", msg)
	}
	return err
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "phylobench",
		Short: "Benchmark phylogenetic tree operations with gotree",
		Long: `phylobench times phylogenetic tree operations (Newick parsing, postorder
traversal, LCA, contraction, Yule simulation, Robinson-Foulds) on the gotree
library, sweeps them over simulated trees, and plots the collected tables.

Examples:
  phylobench time lca tree.nwk --sample-size 2 --from-tree
  phylobench time rfs t1.nwk t2.nwk
  phylobench mem read-newick tree.nwk --iter 20
  phylobench sweep sim_trees --iterations 100
  phylobench plot runtime
  phylobench results export --op lca`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML config file (default ./phylobench.toml if present)")
	pf.StringVar(&a.dbPath, "db", "", "results ledger path (overrides store.path)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")
	pf.BoolVar(&a.jsonOut, "json", false, "machine-readable JSON output")

	root.AddCommand(
		newTimeCommand(a),
		newMemCommand(a),
		newSweepCommand(a),
		newPlotCommand(a),
		newResultsCommand(a),
		newVersionCommand(),
	)
	return root, a
}

// setup loads configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
	slog.SetDefault(a.log)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return &configError{Err: err}
	}
	if a.dbPath != "" {
		cfg.Store.Path = a.dbPath
	}
	config.SetGlobal(cfg)
	a.cfg = cfg

	a.log.Debug("configuration loaded",
		"config", a.configPath,
		"universe", cfg.Sample.Universe,
		"sample_size", cfg.Sample.Size,
		"store", cfg.Store.Path)
	return nil
}

// openStore opens the results ledger named by the configuration.
func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, NewCommandError("store", "open", err)
	}
	return st, nil
}

// saveRecords writes recs and a description of this machine to the ledger.
// All records share one run ID.
func (a *app) saveRecords(cmd *cobra.Command, command string, recs []benchmark.Record) error {
	if len(recs) == 0 {
		return nil
	}
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if err := st.Insert(ctx, recs...); err != nil {
		return NewCommandError(command, "record", err)
	}
	runID := recs[0].RunID
	if err := st.SetRunMeta(ctx, runID, detect.DetectHostCached().Meta()); err != nil {
		return NewCommandError(command, "record", err)
	}
	a.log.Info("recorded", "run_id", runID, "records", len(recs), "db", st.Path())
	return nil
}

// argsRange validates positional argument counts as usage errors.
func argsRange(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || len(args) > max {
			if min == max {
				return usageErrorf("%s takes %d argument(s), got %d", cmd.CommandPath(), min, len(args))
			}
			return usageErrorf("%s takes %d to %d arguments, got %d", cmd.CommandPath(), min, max, len(args))
		}
		return nil
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  argsRange(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "phylobench %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			fmt.Fprintf(w, "host: %s\n", detect.DetectHostCached())
			return nil
		},
	}
}
