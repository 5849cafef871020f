package plot

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"wrangler/domain/table"
)

// CorrelationMatrix computes Pearson correlations between the numeric
// columns of t over pairwise complete rows. Pairs with fewer than two
// shared rows, or no spread, are NaN.
func CorrelationMatrix(t *table.Table) ([]string, [][]float64) {
	var names []string
	var cols []*table.Column
	for _, col := range t.Columns() {
		if col.Storage.IsNumeric() {
			names = append(names, col.Name)
			cols = append(cols, col)
		}
	}

	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
		for j := range cols {
			if j < i {
				matrix[i][j] = matrix[j][i]
				continue
			}
			matrix[i][j] = pairwiseCorrelation(cols[i], cols[j])
		}
	}
	return names, matrix
}

func pairwiseCorrelation(a, b *table.Column) float64 {
	var x, y []float64
	for r := range a.Values {
		if !a.Values[r].IsNumber() || !b.Values[r].IsNumber() {
			continue
		}
		xv, _ := a.Values[r].AsFloat()
		yv, _ := b.Values[r].AsFloat()
		x = append(x, xv)
		y = append(y, yv)
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// CorrelationHeatmap renders CorrelationMatrix; undefined cells show "-"
func CorrelationHeatmap(t *table.Table) (*charts.HeatMap, error) {
	names, matrix := CorrelationMatrix(t)
	if len(names) == 0 {
		return nil, errNoNumbers(t.Name())
	}

	data := make([]opts.HeatMapData, 0, len(names)*len(names))
	for i := range matrix {
		for j, v := range matrix[i] {
			var cell any = "-"
			if !math.IsNaN(v) {
				cell = round(v, 3)
			}
			data = append(data, opts.HeatMapData{Value: []any{i, j, cell}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: t.Name(), Subtitle: "Pearson correlation"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: names, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: -1, Max: 1,
			InRange: &opts.VisualMapInRange{Color: []string{"#3b4cc0", "#f7f7f7", "#b40426"}},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
		}),
	)
	hm.AddSeries("correlation", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "inside"}))
	return hm, nil
}
