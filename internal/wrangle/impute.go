package wrangle

import (
	"sort"

	"github.com/montanaflynn/stats"

	"wrangler/domain/core"
	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

// FillStrategy selects how FillWith computes the replacement value
type FillStrategy string

const (
	FillConstant FillStrategy = "constant"
	FillMean     FillStrategy = "mean"
	FillMedian   FillStrategy = "median"
	FillMode     FillStrategy = "mode"
)

// FillMissing replaces every missing cell of the first column named column
// with value.
func FillMissing(t *table.Table, column string, value table.Value) (*table.Table, error) {
	if err := requireTable(t, "fill missing values"); err != nil {
		return nil, err
	}
	src, err := requireColumn(t, column)
	if err != nil {
		return nil, err
	}
	out := src.Clone()
	for i, v := range out.Values {
		if v.IsMissing() {
			out.Values[i] = value
		}
	}
	return t.Replace(out)
}

// FillWith fills missing cells using strategy. Mean and median read the
// numeric cells of the column; mode works on any column and breaks ties
// toward the smallest canonical text. constant is only used by FillConstant.
// A column with nothing to summarize is returned unchanged.
func FillWith(t *table.Table, column string, strategy FillStrategy, constant table.Value) (*table.Table, error) {
	if err := requireTable(t, "fill missing values"); err != nil {
		return nil, err
	}
	src, err := requireColumn(t, column)
	if err != nil {
		return nil, err
	}

	var fill table.Value
	switch strategy {
	case FillConstant:
		fill = constant
	case FillMean, FillMedian:
		numbers := numericValues(src)
		if len(numbers) == 0 {
			return t, nil
		}
		var x float64
		if strategy == FillMean {
			x, err = stats.Mean(numbers)
		} else {
			x, err = stats.Median(numbers)
		}
		if err != nil {
			return nil, apperrors.Wrapf(err, "fill %s", column)
		}
		fill = table.Float(x)
	case FillMode:
		var ok bool
		if fill, ok = modeValue(src); !ok {
			return t, nil
		}
	default:
		return nil, apperrors.Parameter(core.NewParameterError("strategy", strategy, "must be constant, mean, median or mode"))
	}
	return FillMissing(t, column, fill)
}

func numericValues(col *table.Column) []float64 {
	out := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		if !v.IsNumber() {
			continue
		}
		if f, ok := v.AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out
}

// modeValue returns the first cell whose canonical text is most frequent
func modeValue(col *table.Column) (table.Value, bool) {
	counts := make(map[string]int)
	first := make(map[string]table.Value)
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		k := v.CanonicalText()
		if _, seen := first[k]; !seen {
			first[k] = v
		}
		counts[k]++
	}
	if len(counts) == 0 {
		return table.Missing(), false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return first[best], true
}
