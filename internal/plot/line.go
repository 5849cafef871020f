package plot

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"wrangler/domain/core"
	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

// DualAxisLine plots two numeric columns against the x column, the first
// on the left axis and the second on the right. Gaps are left where a
// cell is not a number.
func DualAxisLine(t *table.Table, x, left, right string) (*charts.Line, error) {
	cols := make([]*table.Column, 3)
	for i, name := range []string{x, left, right} {
		col, ok := t.Column(name)
		if !ok {
			return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewColumnNotFoundError(name))
		}
		cols[i] = col
	}

	labels := make([]string, t.RowCount())
	for i, v := range cols[0].Values {
		labels[i] = v.CanonicalText()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: left + " and " + right}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: x}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: left}),
	)
	line.ExtendYAxis(opts.YAxis{Type: "value", Name: right})
	line.SetXAxis(labels)
	line.AddSeries(left, lineData(cols[1]),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	line.AddSeries(right, lineData(cols[2]),
		charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	return line, nil
}

func lineData(col *table.Column) []opts.LineData {
	data := make([]opts.LineData, len(col.Values))
	for i, v := range col.Values {
		if f, ok := v.AsFloat(); ok && v.IsNumber() {
			data[i] = opts.LineData{Value: f}
		} else {
			data[i] = opts.LineData{Value: "-"}
		}
	}
	return data
}
