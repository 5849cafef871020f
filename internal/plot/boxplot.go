package plot

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"wrangler/domain/datareadiness/profiling"
)

// BoxPlot draws one box per numeric column of the report from its
// quartiles. Whiskers stop at the IQR fence or at the data range,
// whichever is tighter.
func BoxPlot(r *profiling.Report) (*charts.BoxPlot, error) {
	var names []string
	var data []opts.BoxPlotData
	for _, p := range r.Columns {
		if p.Q1 == nil || p.LowerBound == nil {
			continue
		}
		names = append(names, p.Column)
		data = append(data, opts.BoxPlotData{Name: p.Column, Value: boxValues(p)})
	}
	if len(data) == 0 {
		return nil, errNoNumbers(r.Table)
	}

	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: r.Table, Subtitle: "quartiles and IQR fences"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names}),
	)
	bp.SetXAxis(names)
	bp.AddSeries("distribution", data)
	return bp, nil
}

// boxValues is [low whisker, Q1, median, Q3, high whisker]
func boxValues(p profiling.ColumnProfile) []float64 {
	return []float64{
		math.Max(*p.Min, *p.LowerBound),
		*p.Q1,
		*p.Median,
		*p.Q3,
		math.Min(*p.Max, *p.UpperBound),
	}
}
