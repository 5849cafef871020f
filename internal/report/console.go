package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"wrangler/domain/datareadiness/profiling"
)

// newWriter builds a go-pretty table for the report under cfg
func newWriter(r *profiling.Report, cfg DisplayConfig) table.Writer {
	header, rows := grid(r, cfg)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(toRow(header))
	for _, row := range rows {
		tw.AppendRow(toRow(row))
	}

	if cfg.MaxWidth > 0 {
		tw.SetAllowedRowLength(cfg.MaxWidth)
	}
	if cfg.MaxColumnWidth > 0 {
		configs := make([]table.ColumnConfig, len(header))
		for i := range header {
			configs[i] = table.ColumnConfig{Number: i + 1, WidthMax: cfg.MaxColumnWidth}
		}
		tw.SetColumnConfigs(configs)
	}
	return tw
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// RenderTable writes the report as a console table followed by its warnings
func RenderTable(w io.Writer, r *profiling.Report, cfg DisplayConfig) error {
	if r == nil {
		_, err := io.WriteString(w, "No report data available\n")
		return err
	}

	tw := newWriter(r, cfg)
	tw.SetTitle(fmt.Sprintf("%s (%d rows)", r.Table, r.RowCount))

	var b strings.Builder
	b.WriteString(tw.Render())
	b.WriteString("\n")
	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "warning [%s] %s: %s\n", warning.Code, warning.Column, warning.Message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
