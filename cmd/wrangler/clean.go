package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wrangler/domain/table"
	"wrangler/internal/report"
	"wrangler/internal/wrangle"
)

type cleanOptions struct {
	sheet     string
	renames   []string
	normalize []string
	synonyms  []string
	fills     []string
	knn       []string
	k         int
	out       string
}

func newCleanCmd() *cobra.Command {
	var o cleanOptions

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Rename, normalize and impute one sheet and write it as CSV",
		Long: `Apply cleaning steps to one sheet in a fixed order: renames, category
normalization, single-value fills, then k-nearest-neighbour imputation.

--fill takes col=strategy where strategy is mean, median, mode or
constant:<value>. --synonym maps a normalized label to another, as from=to.

Example: wrangler clean survey.csv --rename "Home City=city" --normalize city --synonym nyc=new york --fill score=median --knn height,weight --k 3 --out clean.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			tables, err := e.tables(cmd.Context(), args[0], o.sheet)
			if err != nil {
				return err
			}
			t, err := applyCleaning(tables[0], o)
			if err != nil {
				return err
			}
			e.logger.Info("cleaned %s: %d rows, %d columns", t.Name(), t.RowCount(), t.Width())
			return writeTable(cmd.Context(), t, o.out)
		},
	}

	cmd.Flags().StringVar(&o.sheet, "sheet", "", "Sheet to clean (default: first sheet)")
	cmd.Flags().StringArrayVar(&o.renames, "rename", nil, "Rename a column, as old=new")
	cmd.Flags().StringSliceVar(&o.normalize, "normalize", nil, "Categorical columns to normalize")
	cmd.Flags().StringArrayVar(&o.synonyms, "synonym", nil, "Label mapping applied after normalization, as from=to")
	cmd.Flags().StringArrayVar(&o.fills, "fill", nil, "Fill missing cells, as col=mean|median|mode|constant:<value>")
	cmd.Flags().StringSliceVar(&o.knn, "knn", nil, "Numeric columns imputed from their nearest neighbours")
	cmd.Flags().IntVar(&o.k, "k", 5, "Neighbours used by --knn")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Output CSV file (default: stdout)")
	return cmd
}

func applyCleaning(t *table.Table, o cleanOptions) (*table.Table, error) {
	var err error

	if len(o.renames) > 0 {
		mapping, err := parsePairs(o.renames, "rename")
		if err != nil {
			return nil, err
		}
		if t, err = wrangle.Rename(t, mapping); err != nil {
			return nil, err
		}
	}

	if len(o.normalize) > 0 {
		opts := wrangle.DefaultNormalizeOptions()
		if len(o.synonyms) > 0 {
			if opts.Synonyms, err = parsePairs(o.synonyms, "synonym"); err != nil {
				return nil, err
			}
		}
		for _, column := range o.normalize {
			if t, err = wrangle.NormalizeCategories(t, strings.TrimSpace(column), opts); err != nil {
				return nil, err
			}
		}
	}

	for _, spec := range o.fills {
		column, strategy, constant, err := parseFill(spec)
		if err != nil {
			return nil, err
		}
		if t, err = wrangle.FillWith(t, column, strategy, constant); err != nil {
			return nil, err
		}
	}

	if len(o.knn) > 0 {
		if t, err = wrangle.ImputeKNN(t, o.knn, o.k); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// parsePairs reads key=value flags
func parsePairs(specs []string, flag string) (map[string]string, error) {
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		key, value, ok := strings.Cut(spec, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected a=b", flag, spec)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

// parseFill reads col=strategy or col=constant:<value>. Constants that read
// as numbers are filled as numbers.
func parseFill(spec string) (string, wrangle.FillStrategy, table.Value, error) {
	column, raw, ok := strings.Cut(spec, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return "", "", table.Missing(), fmt.Errorf("invalid --fill %q, expected col=strategy", spec)
	}
	strategy, constant, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if wrangle.FillStrategy(strategy) != wrangle.FillConstant {
		return column, wrangle.FillStrategy(strategy), table.Missing(), nil
	}
	return column, wrangle.FillConstant, constantValue(constant), nil
}

func constantValue(s string) table.Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return table.Float(f)
	}
	return table.Text(s)
}

func writeTable(ctx context.Context, t *table.Table, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	return report.WriteCSV(w, t)
}
