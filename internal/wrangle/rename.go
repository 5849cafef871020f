// Package wrangle holds the table transformations that usually run before
// profiling: renames, joins, category clean-up and missing-value filling.
// Every operation returns a new table and leaves its inputs untouched.
package wrangle

import (
	"sort"

	"wrangler/domain/core"
	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

// Rename returns a copy of t with columns renamed per mapping (old -> new).
// Every old name must exist. Renaming onto an existing name is allowed and
// produces duplicate column names.
func Rename(t *table.Table, mapping map[string]string) (*table.Table, error) {
	if t == nil {
		return nil, apperrors.Structural("cannot rename columns", core.ErrNilTable)
	}
	olds := make([]string, 0, len(mapping))
	for old := range mapping {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	for _, old := range olds {
		if _, err := requireColumn(t, old); err != nil {
			return nil, err
		}
	}
	return t.Rename(mapping), nil
}

func requireTable(t *table.Table, op string) error {
	if t == nil {
		return apperrors.Structural("cannot "+op, core.ErrNilTable)
	}
	return nil
}

func requireColumn(t *table.Table, name string) (*table.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewColumnNotFoundError(name))
	}
	return col, nil
}
