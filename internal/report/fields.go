// Package report renders profiling reports for people: console tables,
// Markdown, HTML and JSON. Rendering limits are passed in explicitly
// through DisplayConfig; nothing here touches process-wide state.
package report

import (
	"strconv"
	"strings"

	"wrangler/domain/datareadiness/profiling"
)

// MissingText is printed in place of the missing sentinel
const MissingText = "NaN"

// DisplayConfig controls console and Markdown rendering. Zero widths mean
// unlimited.
type DisplayConfig struct {
	MaxWidth       int  // total line width; longer rows are cut
	MaxColumnWidth int  // per-cell width; longer cells wrap
	Transpose      bool // one row per statistic instead of one row per column
	Precision      int  // decimals for floating point statistics
}

// DefaultDisplayConfig returns an unlimited, column-per-row layout with 3 decimals
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{Precision: 3}
}

type field struct {
	name   string
	format func(p profiling.ColumnProfile, precision int) string
}

var fields = []field{
	{"column", func(p profiling.ColumnProfile, _ int) string { return p.Column }},
	{"storage", func(p profiling.ColumnProfile, _ int) string { return string(p.Storage) }},
	{"kinds", func(p profiling.ColumnProfile, _ int) string { return formatKinds(p.Kinds) }},
	{"non_missing", func(p profiling.ColumnProfile, _ int) string { return strconv.Itoa(p.NonMissingCount) }},
	{"missing", func(p profiling.ColumnProfile, _ int) string { return strconv.Itoa(p.MissingCount) }},
	{"distinct", func(p profiling.ColumnProfile, _ int) string { return strconv.Itoa(p.DistinctCount) }},
	{"inconsistent", func(p profiling.ColumnProfile, _ int) string { return strconv.Itoa(p.InconsistentCount) }},
	{"zeros", func(p profiling.ColumnProfile, _ int) string { return formatInt(p.ZeroCount) }},
	{"empty_text", func(p profiling.ColumnProfile, _ int) string { return formatInt(p.EmptyTextCount) }},
	{"mean", floatField(func(p profiling.ColumnProfile) *float64 { return p.Mean })},
	{"std", floatField(func(p profiling.ColumnProfile) *float64 { return p.StdDev })},
	{"mode", floatField(func(p profiling.ColumnProfile) *float64 { return p.Mode })},
	{"min", floatField(func(p profiling.ColumnProfile) *float64 { return p.Min })},
	{"q1", floatField(func(p profiling.ColumnProfile) *float64 { return p.Q1 })},
	{"median", floatField(func(p profiling.ColumnProfile) *float64 { return p.Median })},
	{"q3", floatField(func(p profiling.ColumnProfile) *float64 { return p.Q3 })},
	{"max", floatField(func(p profiling.ColumnProfile) *float64 { return p.Max })},
	{"negatives", func(p profiling.ColumnProfile, _ int) string { return formatInt(p.NegativeCount) }},
	{"skewness", floatField(func(p profiling.ColumnProfile) *float64 { return p.Skewness })},
	{"kurtosis", floatField(func(p profiling.ColumnProfile) *float64 { return p.Kurtosis })},
	{"iqr", floatField(func(p profiling.ColumnProfile) *float64 { return p.IQR })},
	{"iqr_multiplier", floatField(func(p profiling.ColumnProfile) *float64 { return p.IQRMultiplier })},
	{"lower_bound", floatField(func(p profiling.ColumnProfile) *float64 { return p.LowerBound })},
	{"upper_bound", floatField(func(p profiling.ColumnProfile) *float64 { return p.UpperBound })},
	{"iqr_outliers", func(p profiling.ColumnProfile, _ int) string { return formatInt(p.IQROutlierCount) }},
	{"iqr_outlier_pct", floatField(func(p profiling.ColumnProfile) *float64 { return p.IQROutlierPct })},
	{"max_abs_z", floatField(func(p profiling.ColumnProfile) *float64 { return p.MaxAbsZ })},
	{"z_threshold", floatField(func(p profiling.ColumnProfile) *float64 { return p.ZThreshold })},
	{"z_outliers", func(p profiling.ColumnProfile, _ int) string { return formatInt(p.ZOutlierCount) }},
	{"z_outlier_pct", floatField(func(p profiling.ColumnProfile) *float64 { return p.ZOutlierPct })},
	{"conditions", func(p profiling.ColumnProfile, _ int) string { return formatConditions(p.Conditions) }},
}

func floatField(get func(profiling.ColumnProfile) *float64) func(profiling.ColumnProfile, int) string {
	return func(p profiling.ColumnProfile, precision int) string {
		v := get(p)
		if v == nil {
			return MissingText
		}
		return strconv.FormatFloat(*v, 'f', precision, 64)
	}
}

func formatInt(v *int) string {
	if v == nil {
		return MissingText
	}
	return strconv.Itoa(*v)
}

func formatKinds(k profiling.KindCounts) string {
	var parts []string
	add := func(name string, n int) {
		if n > 0 {
			parts = append(parts, name+":"+strconv.Itoa(n))
		}
	}
	add("int", k.Integer)
	add("float", k.Float)
	add("bool", k.Boolean)
	add("time", k.Timestamp)
	add("text", k.Text)
	add("cat", k.Categorical)
	return strings.Join(parts, " ")
}

func formatConditions(cs []profiling.Condition) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// grid lays the report out as a header and rows of cells, honouring
// Transpose and Precision.
func grid(r *profiling.Report, cfg DisplayConfig) ([]string, [][]string) {
	precision := cfg.Precision
	if precision < 0 {
		precision = 0
	}

	if !cfg.Transpose {
		header := make([]string, len(fields))
		for i, f := range fields {
			header[i] = f.name
		}
		rows := make([][]string, len(r.Columns))
		for i, p := range r.Columns {
			rows[i] = make([]string, len(fields))
			for j, f := range fields {
				rows[i][j] = f.format(p, precision)
			}
		}
		return header, rows
	}

	header := make([]string, len(r.Columns)+1)
	header[0] = "statistic"
	for i, p := range r.Columns {
		header[i+1] = p.Column
	}
	rows := make([][]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		row := make([]string, len(r.Columns)+1)
		row[0] = f.name
		for i, p := range r.Columns {
			row[i+1] = f.format(p, precision)
		}
		rows = append(rows, row)
	}
	return header, rows
}
