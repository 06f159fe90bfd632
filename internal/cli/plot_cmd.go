// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/phylobench/internal/plot"
)

type plotFlags struct {
	width  float64
	height float64
	dpi    int
}

func newPlotCommand(a *app) *cobra.Command {
	var f plotFlags

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render scalability charts from aggregated CSV tables",
	}
	pf := cmd.PersistentFlags()
	pf.Float64Var(&f.width, "width", 0, "figure width in inches (default plot.width_in)")
	pf.Float64Var(&f.height, "height", 0, "figure height in inches (default plot.height_in)")
	pf.IntVar(&f.dpi, "dpi", 0, "output resolution (default plot.dpi)")

	cmd.AddCommand(
		newPlotSubcommand(a, &f, "memory", "Plot parse memory per library (mem-util.csv)",
			func() (string, string) { return a.cfg.Plot.MemoryCSV, a.cfg.Plot.MemoryPNG },
			plot.WriteMemory),
		newPlotSubcommand(a, &f, "runtime", "Plot the 3x2 runtime grid (runtimes.csv)",
			func() (string, string) { return a.cfg.Plot.RuntimeCSV, a.cfg.Plot.RuntimePNG },
			plot.WriteRuntime),
	)
	return cmd
}

func newPlotSubcommand(a *app, f *plotFlags, name, short string,
	paths func() (string, string), write func(csvPath, pngPath string, opts plot.Options) error) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  argsRange(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, pngPath := paths()
			if in != "" {
				csvPath = in
			}
			if out != "" {
				pngPath = out
			}
			opts, err := a.plotOptions(cmd, f)
			if err != nil {
				return err
			}

			a.log.Debug("rendering", "figure", name, "in", csvPath, "out", pngPath, "dpi", opts.DPI)
			if err := write(csvPath, pngPath, opts); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.jsonOut {
				return NewJSONResponse("plot "+name, map[string]string{"in": csvPath, "out": pngPath}).Print(w)
			}
			fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Wrote"), pngPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input CSV table")
	cmd.Flags().StringVar(&out, "out", "", "output PNG")
	return cmd
}

// plotOptions merges the [plot] config section with explicit flags.
func (a *app) plotOptions(cmd *cobra.Command, f *plotFlags) (plot.Options, error) {
	opts := plot.Options{
		WidthIn:  a.cfg.Plot.WidthIn,
		HeightIn: a.cfg.Plot.HeightIn,
		DPI:      a.cfg.Plot.DPI,
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.WidthIn = f.width
	}
	if flags.Changed("height") {
		opts.HeightIn = f.height
	}
	if flags.Changed("dpi") {
		opts.DPI = f.dpi
	}
	switch {
	case opts.WidthIn <= 0:
		return opts, NewValidationErrorWithExample("width", fmt.Sprint(opts.WidthIn), "must be positive", "--width 10")
	case opts.HeightIn <= 0:
		return opts, NewValidationErrorWithExample("height", fmt.Sprint(opts.HeightIn), "must be positive", "--height 8")
	case opts.DPI <= 0:
		return opts, NewValidationErrorWithExample("dpi", fmt.Sprint(opts.DPI), "must be positive", "--dpi 300")
	}
	return opts, nil
}
