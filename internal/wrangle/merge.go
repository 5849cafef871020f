package wrangle

import (
	"strings"

	"wrangler/domain/core"
	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

// JoinType defines the type of merge/join operation
type JoinType string

const (
	InnerJoin JoinType = "inner" // matching keys only
	LeftJoin  JoinType = "left"  // all from left, matching from right
	OuterJoin JoinType = "outer" // all rows from both
)

// MergeConfig holds configuration for merge operations
type MergeConfig struct {
	KeyColumns []string
	JoinType   JoinType
}

// MergeResult contains the merged table and row accounting
type MergeResult struct {
	Table     *table.Table
	Matched   int // output rows built from a left/right pair
	LeftOnly  int
	RightOnly int
}

// MergeOuter is a full outer join on the composite key.
func MergeOuter(left, right *table.Table, keys ...string) (*table.Table, error) {
	result, err := Merge(left, right, MergeConfig{KeyColumns: keys, JoinType: OuterJoin})
	if err != nil {
		return nil, err
	}
	return result.Table, nil
}

// Merge joins left and right on config.KeyColumns. Output columns are the
// key columns, then left's other columns, then right's other columns. Non-key
// names present on both sides are kept twice, so the result may carry
// duplicate column names. Missing key values match each other.
//
// Row order is left order, each left row followed by its right matches in
// right order; unmatched right rows come last for outer joins.
func Merge(left, right *table.Table, config MergeConfig) (*MergeResult, error) {
	if left == nil || right == nil {
		return nil, apperrors.Structural("cannot merge tables", core.ErrNilTable)
	}
	if len(config.KeyColumns) == 0 {
		return nil, apperrors.Parameter(core.NewParameterError("keys", "[]", "at least one key column is required"))
	}
	switch config.JoinType {
	case InnerJoin, LeftJoin, OuterJoin:
	case "":
		config.JoinType = OuterJoin
	default:
		return nil, apperrors.Parameter(core.NewParameterError("join", config.JoinType, "must be inner, left or outer"))
	}

	leftKeys, err := keyColumns(left, config.KeyColumns)
	if err != nil {
		return nil, err
	}
	rightKeys, err := keyColumns(right, config.KeyColumns)
	if err != nil {
		return nil, err
	}

	// right key -> row indices in right order
	index := make(map[string][]int, right.RowCount())
	for r := 0; r < right.RowCount(); r++ {
		k := rowKey(rightKeys, r)
		index[k] = append(index[k], r)
	}

	type pair struct{ l, r int } // -1 marks the absent side
	var pairs []pair
	result := &MergeResult{}
	rightUsed := make([]bool, right.RowCount())
	for l := 0; l < left.RowCount(); l++ {
		matches := index[rowKey(leftKeys, l)]
		if len(matches) == 0 {
			if config.JoinType != InnerJoin {
				pairs = append(pairs, pair{l, -1})
				result.LeftOnly++
			}
			continue
		}
		for _, r := range matches {
			pairs = append(pairs, pair{l, r})
			rightUsed[r] = true
			result.Matched++
		}
	}
	if config.JoinType == OuterJoin {
		for r, used := range rightUsed {
			if !used {
				pairs = append(pairs, pair{-1, r})
				result.RightOnly++
			}
		}
	}

	isKey := make(map[string]bool, len(config.KeyColumns))
	for _, k := range config.KeyColumns {
		isKey[k] = true
	}

	columns := make([]*table.Column, 0, left.Width()+right.Width())
	for i, name := range config.KeyColumns {
		col := &table.Column{Name: name, Storage: leftKeys[i].Storage, Values: make([]table.Value, len(pairs))}
		for row, p := range pairs {
			if p.l >= 0 {
				col.Values[row] = leftKeys[i].Values[p.l]
			} else {
				col.Values[row] = rightKeys[i].Values[p.r]
			}
		}
		columns = append(columns, col)
	}
	take := func(src *table.Column, side func(pair) int) *table.Column {
		col := &table.Column{Name: src.Name, Storage: src.Storage, Values: make([]table.Value, len(pairs))}
		for row, p := range pairs {
			if i := side(p); i >= 0 {
				col.Values[row] = src.Values[i]
			}
		}
		return col
	}
	for _, src := range nonKeyColumns(left, isKey) {
		columns = append(columns, take(src, func(p pair) int { return p.l }))
	}
	for _, src := range nonKeyColumns(right, isKey) {
		columns = append(columns, take(src, func(p pair) int { return p.r }))
	}

	merged, err := table.NewTable(left.Name(), columns...)
	if err != nil {
		return nil, apperrors.Structural("merge produced an invalid table", err)
	}
	result.Table = merged
	return result, nil
}

func keyColumns(t *table.Table, keys []string) ([]*table.Column, error) {
	cols := make([]*table.Column, len(keys))
	for i, k := range keys {
		col, err := requireColumn(t, k)
		if err != nil {
			return nil, apperrors.Wrapf(err, "merge key on %s", t.Name())
		}
		cols[i] = col
	}
	return cols, nil
}

// nonKeyColumns skips only the first physical column of each key name
func nonKeyColumns(t *table.Table, isKey map[string]bool) []*table.Column {
	skipped := make(map[string]bool, len(isKey))
	var out []*table.Column
	for _, col := range t.Columns() {
		if isKey[col.Name] && !skipped[col.Name] {
			skipped[col.Name] = true
			continue
		}
		out = append(out, col)
	}
	return out
}

func rowKey(keys []*table.Column, row int) string {
	parts := make([]string, len(keys))
	for i, col := range keys {
		v := col.Values[row]
		if v.IsMissing() {
			parts[i] = "\x00"
			continue
		}
		parts[i] = v.CanonicalText()
	}
	return strings.Join(parts, "\x1f")
}
