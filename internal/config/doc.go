// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for phylobench.
//
// Configuration is read from a TOML file layered over built-in defaults,
// then environment variables are applied and the result is validated.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - SampleConfig: Random taxon subsample settings
//   - SweepConfig: Batch sweep settings (input file, iterations, outputs)
//   - PlotConfig: Chart input/output paths and canvas size
//   - StoreConfig: Results ledger location
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PHYLOBENCH_*)
//   - ./phylobench.toml (or the path passed to --config)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	iters := cfg.Sweep.Iterations
package config
