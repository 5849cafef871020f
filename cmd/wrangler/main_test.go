package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangler/domain/table"
	"wrangler/internal/wrangle"
)

func TestParseConversions(t *testing.T) {
	types, err := parseConversions([]string{"age=int", " joined = Date", "tags=list"})
	require.NoError(t, err)
	assert.Equal(t, map[string]table.StorageType{
		"age":    table.StorageInteger,
		"joined": table.StorageTimestamp,
		"tags":   table.StorageList,
	}, types)

	_, err = parseConversions([]string{"age"})
	assert.Error(t, err)
	_, err = parseConversions([]string{"age=decimal"})
	assert.Error(t, err)
}

func TestParseFill(t *testing.T) {
	tests := []struct {
		spec     string
		column   string
		strategy wrangle.FillStrategy
		constant table.Value
	}{
		{"score=median", "score", wrangle.FillMedian, table.Missing()},
		{"city=mode", "city", wrangle.FillMode, table.Missing()},
		{"score=constant:0", "score", wrangle.FillConstant, table.Float(0)},
		{"city=constant:unknown", "city", wrangle.FillConstant, table.Text("unknown")},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			column, strategy, constant, err := parseFill(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.strategy, strategy)
			assert.True(t, tt.constant.Equal(constant), "got %v", constant)
		})
	}

	_, _, _, err := parseFill("=mean")
	assert.Error(t, err)
}

func TestApplyCleaning(t *testing.T) {
	src := table.MustTable("survey",
		table.NewColumn("Home City", table.StorageText, " NYC ", "Zürich", nil, "zurich"),
		table.NewColumn("score", table.StorageFloat, 1.0, nil, 3.0, 5.0),
	)

	got, err := applyCleaning(src, cleanOptions{
		renames:   []string{"Home City=city"},
		normalize: []string{"city"},
		synonyms:  []string{"nyc=new york"},
		fills:     []string{"score=median", "city=constant:unknown"},
		k:         5,
	})
	require.NoError(t, err)

	city, ok := got.Column("city")
	require.True(t, ok)
	assert.Equal(t, []string{"new york", "zurich", "unknown", "zurich"}, canonical(city))

	score, ok := got.Column("score")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "3", "3", "5"}, canonical(score))

	_, err = applyCleaning(src, cleanOptions{renames: []string{"missing=x"}})
	assert.Error(t, err)
}

func canonical(col *table.Column) []string {
	out := make([]string, len(col.Values))
	for i, v := range col.Values {
		out[i] = v.CanonicalText()
	}
	return out
}
