package wrangle

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wrangler/domain/core"
	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

// ImputeKNN fills the cells of columns that hold no number (missing or
// unparsed text) from the k nearest rows.
// Distance is the NaN-aware euclidean distance over columns: coordinates
// missing in either row are skipped and the sum is scaled up by the share
// of coordinates that were present. Each missing cell takes the mean of the
// k closest rows that have the cell; ties go to the earlier row. Filled
// columns are stored as float. A cell with no donor stays missing.
func ImputeKNN(t *table.Table, columns []string, k int) (*table.Table, error) {
	if err := requireTable(t, "impute values"); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, apperrors.Parameter(core.NewParameterError("k", k, "must be at least 1"))
	}
	if len(columns) == 0 {
		return t, nil
	}

	cols := make([]*table.Column, len(columns))
	for j, name := range columns {
		col, err := requireColumn(t, name)
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}

	rows := t.RowCount()
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, len(cols))
		for j, col := range cols {
			matrix[i][j] = math.NaN()
			if v := col.Values[i]; v.IsNumber() {
				matrix[i][j], _ = v.AsFloat()
			}
		}
	}

	out := t
	for j, src := range cols {
		filled := src.Clone()
		filled.Storage = table.StorageFloat
		for i := range filled.Values {
			if !math.IsNaN(matrix[i][j]) {
				if f, ok := filled.Values[i].AsFloat(); ok {
					filled.Values[i] = table.Float(f)
				}
				continue
			}
			if x, ok := knnEstimate(matrix, i, j, k); ok {
				filled.Values[i] = table.Float(x)
			}
		}
		var err error
		if out, err = out.Replace(filled); err != nil {
			return nil, apperrors.Structural("impute values", err)
		}
	}
	return out, nil
}

type donor struct {
	row  int
	dist float64
}

func knnEstimate(matrix [][]float64, row, col, k int) (float64, bool) {
	var donors []donor
	for r := range matrix {
		if r == row || math.IsNaN(matrix[r][col]) {
			continue
		}
		d, ok := nanEuclidean(matrix[row], matrix[r])
		if !ok {
			continue
		}
		donors = append(donors, donor{row: r, dist: d})
	}
	if len(donors) == 0 {
		return 0, false
	}
	sort.SliceStable(donors, func(a, b int) bool { return donors[a].dist < donors[b].dist })
	if len(donors) > k {
		donors = donors[:k]
	}
	values := make([]float64, len(donors))
	for i, d := range donors {
		values[i] = matrix[d.row][col]
	}
	return stat.Mean(values, nil), true
}

// nanEuclidean is sqrt(n/present * sum of squared differences) over the
// coordinates present in both rows. ok is false when no coordinate is shared.
func nanEuclidean(a, b []float64) (float64, bool) {
	var x, y []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) == 0 {
		return 0, false
	}
	d := floats.Distance(x, y, 2)
	return d * math.Sqrt(float64(len(a))/float64(len(x))), true
}
