// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/export"
	"github.com/jeranaias/phylobench/internal/store"
)

func newResultsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect and export the results ledger",
	}
	cmd.AddCommand(newResultsListCommand(a), newResultsExportCommand(a))
	return cmd
}

// recordOutput is the --json shape of one ledger record.
type recordOutput struct {
	RunID     string  `json:"run_id"`
	Library   string  `json:"library"`
	Operation string  `json:"operation"`
	Taxa      int     `json:"taxa"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	CreatedAt string  `json:"created_at"`
}

func newResultsListCommand(a *app) *cobra.Command {
	var (
		limit int
		filt  store.Filter
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent measurements",
		Args:  argsRange(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return NewValidationErrorWithExample("limit", strconv.Itoa(limit), "must not be negative", "--limit 20")
			}
			filt.Limit = limit

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), filt)
			if err != nil {
				return NewCommandError("results", "list", err)
			}

			var host map[string]string
			if filt.RunID != "" {
				host, err = st.RunMeta(cmd.Context(), filt.RunID)
				if err != nil && !errors.Is(err, store.ErrNoRecords) {
					return NewCommandError("results", "list", err)
				}
			}
			return a.printRecords(cmd, recs, host)
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&limit, "limit", "n", 20, "maximum records to show (0 = all)")
	fl.StringVar(&filt.Operation, "op", "", "only this operation")
	fl.StringVar(&filt.Library, "library", "", "only this library")
	fl.StringVar(&filt.RunID, "run", "", "only this run ID")
	return cmd
}

// listOutput is the --json payload of results list.
type listOutput struct {
	Host    map[string]string `json:"host,omitempty"`
	Records []recordOutput    `json:"records"`
}

func (a *app) printRecords(cmd *cobra.Command, recs []benchmark.Record, host map[string]string) error {
	w := cmd.OutOrStdout()
	if a.jsonOut {
		data := listOutput{Host: host, Records: make([]recordOutput, 0, len(recs))}
		for _, r := range recs {
			data.Records = append(data.Records, recordOutput{
				RunID:     r.RunID,
				Library:   r.Library,
				Operation: r.Operation,
				Taxa:      r.Taxa,
				Value:     r.Value,
				Unit:      string(r.Unit),
				CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return NewJSONResponse("results list", data).Print(w)
	}

	if host != nil {
		fmt.Fprintln(w, RenderField("CPU", fmt.Sprintf("%s (%s cores)", host["cpu_model"], host["cpus"])))
		fmt.Fprintln(w, RenderField("Memory", host["mem_mb"]+" MB"))
		fmt.Fprintln(w, RenderField("Platform", host["os"]+"/"+host["arch"]+", "+host["go_version"]))
		fmt.Fprintln(w)
	}

	if len(recs) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No records."))
		return nil
	}

	cols := []column{
		{Title: "RUN", MaxWidth: 8},
		{Title: "LIBRARY"},
		{Title: "OP"},
		{Title: "TAXA", Right: true},
		{Title: "VALUE", Right: true},
		{Title: "UNIT"},
		{Title: "WHEN"},
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			shortID(r.RunID),
			r.Library,
			r.Operation,
			strconv.Itoa(r.Taxa),
			strconv.FormatFloat(r.Value, 'g', 6, 64),
			string(r.Unit),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Fprint(w, renderTable(cols, rows))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newResultsExportCommand(a *app) *cobra.Command {
	var op, out, format string
	var precision int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export mean timings as a runtimes.csv-shaped table",
		Long: `Average the recorded timings (seconds) per library, operation and taxa
size and write them as an "algorithms" row followed by one
<library>-<op> row per series. The CSV output feeds "phylobench plot runtime".

--format picks csv, markdown or json; with --out and no --format the file
extension decides.`,
		Args: argsRange(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if op != "" {
				if _, err := benchmark.Lookup(op); err != nil {
					return err
				}
			}

			fmtName := export.FormatCSV
			if cmd.Flags().Changed("format") {
				f, err := export.ParseFormat(format)
				if err != nil {
					return NewValidationErrorWithExample("format", format, err.Error(), "--format markdown")
				}
				fmtName = f
			} else if out != "" {
				fmtName = export.FormatForPath(out)
			}

			opts := export.DefaultOptions()
			opts.Precision = precision
			opts.IncludeMetadata = out != ""
			opts.Generated = time.Now()
			if op != "" {
				opts.Title = fmt.Sprintf("%s runtime (s)", op)
			}
			exp, err := export.New(fmtName, opts)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			tbl, err := st.Export(cmd.Context(), op)
			if err != nil {
				return err
			}

			if out == "" {
				data, err := exp.Export(tbl)
				if err != nil {
					return NewCommandError("results", "export", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := export.ExportToFile(tbl, exp, out); err != nil {
				return NewCommandError("results", "export", err)
			}
			a.log.Info("exported", "op", op, "format", fmtName, "series", len(tbl.Rows)-1, "path", out)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&op, "op", "", "operation to export (default all)")
	fl.StringVarP(&out, "out", "o", "", "output file (default stdout)")
	fl.StringVarP(&format, "format", "f", "csv", "output format: csv, markdown or json")
	fl.IntVar(&precision, "precision", -1, "significant digits (-1 = exact)")
	return cmd
}
