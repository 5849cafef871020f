package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/spf13/cobra"

	"wrangler/internal/plot"
)

func newPlotCmd() *cobra.Command {
	var (
		sheet string
		out   string
		bins  int
		line  string
	)

	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Write an HTML page of distribution charts for one sheet",
		Long: `Write histograms, normal Q-Q plots, a box plot and a correlation heatmap
for the numeric columns of a sheet into one HTML page.

--line x,left,right adds a line chart of two columns against x, each on
its own y axis.

Example: wrangler plot clients.xlsx --sheet Clients --out clients.html --line month,revenue,churn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			if out == "" {
				stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				out = stem + "_plots.html"
			}
			return runPlot(cmd.Context(), e, args[0], sheet, out, bins, line)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to plot (default: first sheet)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output HTML file (default: <file>_plots.html)")
	cmd.Flags().IntVar(&bins, "bins", 10, "Histogram bins")
	cmd.Flags().StringVar(&line, "line", "", "Dual-axis line chart columns as x,left,right")
	return cmd
}

func runPlot(ctx context.Context, e *env, path, sheet, out string, bins int, line string) error {
	tables, err := e.tables(ctx, path, sheet)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("%s has no sheets", path)
	}
	t := tables[0]

	r, err := e.profiler().Profile(t, e.cfg.ProfileConfig())
	if err != nil {
		return err
	}

	var charts []components.Charter
	for _, p := range r.Columns {
		if !p.Storage.IsNumeric() {
			continue
		}
		col, _ := t.Column(p.Column)
		if hist, err := plot.Histogram(col, bins); err == nil {
			charts = append(charts, hist)
		} else {
			e.logger.Debug("histogram %s skipped: %v", p.Column, err)
		}
		if qq, err := plot.QQPlot(col); err == nil {
			charts = append(charts, qq)
		} else {
			e.logger.Debug("q-q plot %s skipped: %v", p.Column, err)
		}
	}
	if box, err := plot.BoxPlot(r); err == nil {
		charts = append(charts, box)
	}
	if heat, err := plot.CorrelationHeatmap(t); err == nil {
		charts = append(charts, heat)
	}
	if line != "" {
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return fmt.Errorf("invalid --line %q, expected x,left,right", line)
		}
		chart, err := plot.DualAxisLine(t, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
		if err != nil {
			return err
		}
		charts = append(charts, chart)
	}
	if len(charts) == 0 {
		return fmt.Errorf("sheet %s has no numeric columns to plot", t.Name())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := plot.Page(f, t.Name(), charts...); err != nil {
		return err
	}
	e.logger.Info("wrote %d charts to %s", len(charts), out)
	return nil
}
