// Package plot builds HTML charts for profiled tables with go-echarts.
// Every builder returns a chart that can be rendered alone or collected
// into a Page.
package plot

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"wrangler/domain/table"
	apperrors "wrangler/internal/errors"
)

const (
	chartWidth  = "100%"
	chartHeight = "500px"
	lineWidth   = 2
)

func initOpts() opts.Initialization {
	return opts.Initialization{Width: chartWidth, Height: chartHeight}
}

// Page renders charts one after another into a single HTML document
func Page(w io.Writer, title string, charts ...components.Charter) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(charts...)
	if err := page.Render(w); err != nil {
		return apperrors.Wrap(err, "rendering chart page")
	}
	return nil
}

// numbers returns the present numeric cells of col
func numbers(col *table.Column) []float64 {
	out := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		if !v.IsNumber() {
			continue
		}
		if f, ok := v.AsFloat(); ok && !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

func errNoNumbers(column string) error {
	return apperrors.InvalidInput("column " + column + " has no numeric values to plot")
}

func round(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
