package plot

import (
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"wrangler/domain/table"
)

// QQPoint pairs a theoretical normal quantile with a sample quantile
type QQPoint struct {
	Theoretical float64
	Sample      float64
}

// QQPoints returns the normal Q-Q points of values using plotting
// positions (i - 0.5) / n
func QQPoints(values []float64) []QQPoint {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	points := make([]QQPoint, len(sorted))
	for i, v := range sorted {
		p := (float64(i) + 0.5) / n
		points[i] = QQPoint{Theoretical: distuv.UnitNormal.Quantile(p), Sample: v}
	}
	return points
}

// QQPlot draws sample quantiles against standard normal quantiles with the
// reference line mean + sd*x
func QQPlot(col *table.Column) (*charts.Scatter, error) {
	values := numbers(col)
	if len(values) < 2 {
		return nil, errNoNumbers(col.Name)
	}
	mean, sd := stat.MeanStdDev(values, nil)

	points := QQPoints(values)
	sample := make([]opts.ScatterData, len(points))
	reference := make([]opts.ScatterData, len(points))
	for i, pt := range points {
		x := round(pt.Theoretical, 4)
		sample[i] = opts.ScatterData{Value: []any{x, pt.Sample}}
		reference[i] = opts.ScatterData{Value: []any{x, round(mean+sd*pt.Theoretical, 4)}, SymbolSize: 2}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: col.Name, Subtitle: "normal Q-Q"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "theoretical"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "sample"}),
	)
	scatter.AddSeries("sample", sample)
	scatter.AddSeries("normal", reference)
	return scatter, nil
}
