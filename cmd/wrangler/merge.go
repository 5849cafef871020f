package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wrangler/internal/wrangle"
)

func newMergeCmd() *cobra.Command {
	var (
		keys       []string
		how        string
		leftSheet  string
		rightSheet string
		out        string
	)

	cmd := &cobra.Command{
		Use:   "merge [left] [right]",
		Short: "Join two sheets on a composite key and write the result as CSV",
		Long: `Join two sheets on one or more key columns. Rows whose keys are all
missing match each other. Non-key columns that exist on both sides are
kept twice; profiling the result reports them as duplicates.

Example: wrangler merge clients.xlsx orders.csv --left-sheet Clients --keys client_id --how outer --out joined.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			left, err := e.tables(cmd.Context(), args[0], leftSheet)
			if err != nil {
				return err
			}
			right, err := e.tables(cmd.Context(), args[1], rightSheet)
			if err != nil {
				return err
			}

			joinType := wrangle.JoinType(strings.ToLower(how))
			switch joinType {
			case wrangle.InnerJoin, wrangle.LeftJoin, wrangle.OuterJoin:
			default:
				return fmt.Errorf("unknown join %q (use inner, left or outer)", how)
			}

			result, err := wrangle.Merge(left[0], right[0], wrangle.MergeConfig{KeyColumns: keys, JoinType: joinType})
			if err != nil {
				return err
			}
			e.logger.Info("merged %s and %s: %d matched, %d left only, %d right only",
				left[0].Name(), right[0].Name(), result.Matched, result.LeftOnly, result.RightOnly)
			return writeTable(cmd.Context(), result.Table, out)
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Key columns present in both sheets")
	cmd.Flags().StringVar(&how, "how", "outer", "Join type: inner|left|outer")
	cmd.Flags().StringVar(&leftSheet, "left-sheet", "", "Sheet of the left file (default: first sheet)")
	cmd.Flags().StringVar(&rightSheet, "right-sheet", "", "Sheet of the right file (default: first sheet)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV file (default: stdout)")
	cmd.MarkFlagRequired("keys")
	return cmd
}
