package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wrangler/adapters/datareadiness"
	"wrangler/adapters/datareadiness/coercer"
	"wrangler/adapters/excel"
	"wrangler/domain/datareadiness/profiling"
	"wrangler/domain/table"
	"wrangler/internal"
	"wrangler/internal/config"
	"wrangler/internal/report"
	"wrangler/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "wrangler",
		Short:        "Profile and clean spreadsheet data",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newSheetsCmd(),
		newPlotCmd(),
		newCleanCmd(),
		newMergeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env bundles what every command needs: settings, a logger and a loader
type env struct {
	cfg     *config.Config
	logger  *internal.Logger
	coercer *coercer.TypeCoercer
	loader  *excel.Loader
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	loaderConfig := excel.DefaultLoaderConfig()
	return &env{
		cfg:     cfg,
		logger:  logger,
		coercer: coercer.NewTypeCoercer(loaderConfig.CoercionConfig).WithLogger(logger),
		loader:  excel.NewLoader(loaderConfig, logger),
	}, nil
}

// tables loads path and returns the selected sheet, or every sheet in
// workbook order when sheet is empty
func (e *env) tables(ctx context.Context, path, sheet string) ([]*table.Table, error) {
	if sheet != "" {
		t, err := e.loader.LoadSheet(ctx, path, sheet)
		if err != nil {
			return nil, err
		}
		return []*table.Table{t}, nil
	}
	wb, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]*table.Table, 0, len(wb.Sheets))
	for _, name := range wb.Sheets {
		t, _ := wb.Table(name)
		out = append(out, t)
	}
	return out, nil
}

func (e *env) profiler() ports.ProfilerPort {
	return datareadiness.NewProfilerAdapter(e.coercer, datareadiness.WithLogger(e.logger))
}

func newProfileCmd() *cobra.Command {
	var (
		sheet     string
		iqr       float64
		z         float64
		workers   int
		format    string
		convert   []string
		out       string
		transpose bool
		precision int
	)

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Profile every column of a workbook or CSV file",
		Long: `Profile every column of every sheet (or of --sheet) and print the
diagnostic report.

Defaults for --iqr, --z and --workers come from WRANGLER_IQR_MULTIPLIER,
WRANGLER_Z_THRESHOLD and WRANGLER_WORKERS. Console width limits come from
WRANGLER_MAX_WIDTH and WRANGLER_MAX_COL_WIDTH.

Example: wrangler profile clients.xlsx --sheet Clients --iqr 1.5 --convert age=int,joined=date --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}

			profileConfig := e.cfg.ProfileConfig()
			if cmd.Flags().Changed("iqr") {
				profileConfig.IQRMultiplier = iqr
			}
			if cmd.Flags().Changed("z") {
				profileConfig.ZThreshold = z
			}
			if cmd.Flags().Changed("workers") {
				profileConfig.Workers = workers
			}

			types, err := parseConversions(convert)
			if err != nil {
				return err
			}

			display := report.DefaultDisplayConfig()
			display.MaxWidth = e.cfg.Display.MaxWidth
			display.MaxColumnWidth = e.cfg.Display.MaxColumnWidth
			display.Transpose = transpose
			if cmd.Flags().Changed("precision") {
				display.Precision = precision
			}

			return runProfile(cmd.Context(), e, args[0], sheet, types, profileConfig, format, display, out)
		},
	}

	defaults := profiling.DefaultConfig()
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to profile (default: all sheets)")
	cmd.Flags().Float64Var(&iqr, "iqr", defaults.IQRMultiplier, "IQR fence multiplier")
	cmd.Flags().Float64Var(&z, "z", defaults.ZThreshold, "Absolute z-score threshold")
	cmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Columns profiled in parallel")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json|markdown|html")
	cmd.Flags().StringSliceVar(&convert, "convert", nil, "Column conversions applied before profiling, as col=type")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&transpose, "transpose", false, "One row per statistic in table output")
	cmd.Flags().IntVar(&precision, "precision", 3, "Decimals shown for float statistics")
	return cmd
}

func runProfile(ctx context.Context, e *env, path, sheet string, types map[string]table.StorageType,
	profileConfig profiling.Config, format string, display report.DisplayConfig, out string) error {
	tables, err := e.tables(ctx, path, sheet)
	if err != nil {
		return err
	}

	profiler := e.profiler()
	reports := make(map[string]*profiling.Report, len(tables))
	ordered := make([]*profiling.Report, 0, len(tables))
	for _, t := range tables {
		if len(types) > 0 {
			if t, err = e.coercer.ConvertTypes(t, types); err != nil {
				return err
			}
		}
		r, err := profiler.Profile(t, profileConfig)
		if err != nil {
			return err
		}
		reports[t.Name()] = r
		ordered = append(ordered, r)
	}

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "table":
		for _, r := range ordered {
			if err := report.RenderTable(w, r, display); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	case "json":
		return report.WriteJSON(w, reports)
	case "markdown", "md":
		_, err = fmt.Fprint(w, report.RenderMarkdown(reports, display))
		return err
	case "html":
		_, err = w.Write(report.RenderHTML(reports, display))
		return err
	default:
		return fmt.Errorf("unknown format %q (use table, json, markdown or html)", format)
	}
	return nil
}

// parseConversions reads col=type pairs
func parseConversions(specs []string) (map[string]table.StorageType, error) {
	types := make(map[string]table.StorageType, len(specs))
	for _, spec := range specs {
		name, typeName, ok := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid conversion %q, expected col=type", spec)
		}
		storage, ok := table.ParseStorageType(strings.ToLower(strings.TrimSpace(typeName)))
		if !ok {
			return nil, fmt.Errorf("unknown type %q for column %s", typeName, name)
		}
		types[name] = storage
	}
	return types, nil
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [file]",
		Short: "List the sheets of a workbook with their dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			tables, err := e.tables(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Printf("%s\t%d rows\t%d columns\n", t.Name(), t.RowCount(), t.Width())
			}
			return nil
		},
	}
}
