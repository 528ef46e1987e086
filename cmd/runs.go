package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/kilianp07/tripduration/app"
	"github.com/kilianp07/tripduration/core/model"
	"github.com/kilianp07/tripduration/core/runlog"
	"github.com/kilianp07/tripduration/pkg/export"
)

type runsOptions struct {
	limit  int
	winner string
	since  time.Duration
	format string
	chart  string
}

func newRunsCmd() *cobra.Command {
	var opts runsOptions
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past training runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(ctx context.Context, svc *app.Service) error {
				return listRuns(ctx, cmd.OutOrStdout(), svc, opts, time.Now())
			})
		},
	}
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "show only the most recent runs (0 for all)")
	cmd.Flags().StringVar(&opts.winner, "winner", "", "only runs won by this model")
	cmd.Flags().DurationVar(&opts.since, "since", 0, "only runs newer than this duration")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format: table, json or csv")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "also write an HTML chart of the RMSE history to this file")
	return cmd
}

func listRuns(ctx context.Context, w io.Writer, svc *app.Service, opts runsOptions, now time.Time) error {
	q := runlog.Query{Winner: opts.winner, Limit: opts.limit}
	if opts.since > 0 {
		q.Start = now.Add(-opts.since)
	}
	runs, err := svc.Runs(ctx, q)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if opts.chart != "" {
		html, err := export.RMSEChartHTML(runs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.chart, []byte(html), 0o644); err != nil {
			return err
		}
	}
	switch opts.format {
	case "json":
		return export.WriteRunsJSON(w, runs)
	case "csv":
		return export.WriteRunsCSV(w, runs)
	case "table":
		if len(runs) == 0 {
			_, err := fmt.Fprintln(w, "No training runs recorded")
			return err
		}
		_, err := fmt.Fprintln(w, renderRuns(runs))
		return err
	}
	return fmt.Errorf("unknown format %q", opts.format)
}

func renderRuns(runs []runlog.Run) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Time", "Rows", "Train/Test", "Linear RMSE", "Forest RMSE", "Winner"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			shortID(r.ID),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.Rows),
			fmt.Sprintf("%d/%d", r.TrainRows, r.TestRows),
			scoreCell(r, model.LinearRegressionName),
			scoreCell(r, model.RandomForestName),
			r.Winner,
		})
	}
	cfgs := []table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	}
	tw.SetColumnConfigs(cfgs)
	return tw.Render()
}

func scoreCell(r runlog.Run, name string) string {
	v, ok := r.Score(name)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
