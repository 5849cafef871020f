package plot

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wrangler/domain/table"
)

// Histogram bins the numeric cells of col into bins equal-width buckets
func Histogram(col *table.Column, bins int) (*charts.Bar, error) {
	if bins < 1 {
		bins = 10
	}
	values := numbers(col)
	if len(values) == 0 {
		return nil, errNoNumbers(col.Name)
	}

	labels, counts := histogramCounts(values, bins)
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		data[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: col.Name, Subtitle: fmt.Sprintf("%d values, %d bins", len(values), len(counts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: col.Name}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "count"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(col.Name, data)
	return bar, nil
}

// histogramCounts returns bin labels and counts. The last bin is closed so
// the maximum is counted.
func histogramCounts(values []float64, bins int) ([]string, []float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	var dividers []float64
	if lo == hi {
		dividers = []float64{lo, math.Nextafter(hi, math.Inf(1))}
	} else {
		dividers = make([]float64, bins+1)
		floats.Span(dividers, lo, hi)
		dividers[bins] = math.Nextafter(hi, math.Inf(1))
	}

	counts := stat.Histogram(nil, dividers, sorted, nil)
	labels := make([]string, len(counts))
	for i := range counts {
		labels[i] = fmt.Sprintf("%g", round(dividers[i], 4))
	}
	return labels, counts
}
