package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"wrangler/domain/datareadiness/profiling"
)

// RenderMarkdown returns one section per report: a heading, the profile
// table and a list of warnings. Reports are ordered by sheet name.
func RenderMarkdown(reports map[string]*profiling.Report, cfg DisplayConfig) string {
	sheets := make([]string, 0, len(reports))
	for sheet := range reports {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	var b strings.Builder
	b.WriteString("# Data profile\n")
	for _, sheet := range sheets {
		r := reports[sheet]
		if r == nil {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", sheet)
		fmt.Fprintf(&b, "%d rows, %d columns. IQR multiplier %g, z threshold %g.\n\n",
			r.RowCount, len(r.Columns), r.Config.IQRMultiplier, r.Config.ZThreshold)

		// Markdown tables do not wrap, so width limits are dropped
		md := cfg
		md.MaxWidth, md.MaxColumnWidth = 0, 0
		b.WriteString(newWriter(r, md).RenderMarkdown())
		b.WriteString("\n")

		if len(r.Warnings) > 0 {
			b.WriteString("\n### Warnings\n\n")
			for _, warning := range r.Warnings {
				fmt.Fprintf(&b, "- `%s` %s: %s\n", warning.Code, warning.Column, warning.Message)
			}
		}
	}
	return b.String()
}

// RenderHTML converts the Markdown rendering into a complete HTML page
func RenderHTML(reports map[string]*profiling.Report, cfg DisplayConfig) []byte {
	md := []byte(RenderMarkdown(reports, cfg))

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Data profile",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}
