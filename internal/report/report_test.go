package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangler/adapters/datareadiness"
	"wrangler/domain/datareadiness/profiling"
	"wrangler/domain/table"
	"wrangler/internal/testkit"
)

func surveyReport(t *testing.T) *profiling.Report {
	t.Helper()
	r, err := datareadiness.NewProfilerAdapter(nil).Profile(testkit.SurveyTable(), profiling.DefaultConfig())
	require.NoError(t, err)
	return r
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, surveyReport(t), DefaultDisplayConfig()))

	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "survey (5 rows)")
	for _, name := range []string{"column", "iqr_outliers", "z_outlier_pct", "city", "segment"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "nan", "missing statistics are printed")
	assert.Contains(t, out, "3.000", "precision applies to floats")
}

func TestRenderTableTranspose(t *testing.T) {
	r := surveyReport(t)
	header, rows := grid(r, DisplayConfig{Transpose: true, Precision: 1})

	assert.Equal(t, []string{"statistic", "id", "score", "city", "segment", "vip", "mixed"}, header)
	assert.Len(t, rows, len(fields)-1)
	assert.Equal(t, "storage", rows[0][0])
	assert.Equal(t, "integer", rows[0][1])

	for _, row := range rows {
		if row[0] == "mean" {
			assert.Equal(t, "3.0", row[1])
			assert.Equal(t, MissingText, row[3])
		}
	}
}

func TestRenderTableWidthLimits(t *testing.T) {
	var buf bytes.Buffer
	cfg := DisplayConfig{MaxWidth: 80, MaxColumnWidth: 6, Precision: 2}
	require.NoError(t, RenderTable(&buf, surveyReport(t), cfg))

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "warning") {
			continue
		}
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 80, line)
	}
}

func TestRenderTableWarnings(t *testing.T) {
	r, err := datareadiness.NewProfilerAdapter(nil).Profile(testkit.DuplicateNameTable(), profiling.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, r, DefaultDisplayConfig()))
	assert.Contains(t, buf.String(), "warning [duplicate_column] amount:")
}

func TestRenderTableNilReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, nil, DefaultDisplayConfig()))
	assert.Equal(t, "No report data available\n", buf.String())
}

func TestRenderMarkdownAndHTML(t *testing.T) {
	reports := map[string]*profiling.Report{
		"survey": surveyReport(t),
		"alpha":  surveyReport(t),
	}

	md := RenderMarkdown(reports, DefaultDisplayConfig())
	assert.True(t, strings.HasPrefix(md, "# Data profile\n"))
	assert.Less(t, strings.Index(md, "## alpha"), strings.Index(md, "## survey"))
	assert.Contains(t, md, "5 rows, 6 columns. IQR multiplier 3, z threshold 3.")
	assert.Contains(t, md, "| --- |")

	page := string(RenderHTML(reports, DefaultDisplayConfig()))
	assert.Contains(t, page, "<title>Data profile</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<h2")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, surveyReport(t)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "survey", decoded["table"])

	columns := decoded["columns"].([]any)
	city := columns[2].(map[string]any)
	assert.Equal(t, "city", city["column"])
	assert.Nil(t, city["mean"], "missing sentinel encodes as null")
	assert.Nil(t, city["zero_count"])
	assert.Equal(t, 2.0, city["empty_text_count"])
}

func TestWriteCSV(t *testing.T) {
	tbl := table.MustTable("t",
		table.NewColumn("id", table.StorageInteger, 1, 2),
		table.NewColumn("name", table.StorageText, "a, b", nil),
	)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "id,name\n1,\"a, b\"\n2,\n", buf.String())
}
