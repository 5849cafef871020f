package api

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wrangler/adapters/datareadiness"
	"wrangler/adapters/excel"
	"wrangler/domain/datareadiness/profiling"
	"wrangler/internal"
)

func newTestServer(t *testing.T, maxUploadMB int64) *Server {
	t.Helper()
	var logs bytes.Buffer
	logger := internal.NewLoggerTo(&logs, internal.LogLevelDebug)
	loader := excel.NewLoader(excel.DefaultLoaderConfig(), logger)
	profiler := datareadiness.NewProfilerAdapter(nil, datareadiness.WithLogger(logger))
	return NewServer(loader, profiler, profiling.DefaultConfig(), maxUploadMB, logger)
}

func uploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"age", "status"},
		{23, "active"},
		{45, "inactive"},
		{"?", "active"},
		{30, ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Empty", "A1", &[]interface{}{"client"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 1)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestProfileWorkbook(t *testing.T) {
	s := newTestServer(t, 1)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "/v1/profile", "book.xlsx", workbookBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	require.Contains(t, out, "Sheet1")
	require.Contains(t, out, "Empty")

	sheet := out["Sheet1"].(map[string]interface{})
	assert.Equal(t, float64(4), sheet["row_count"])
	columns := sheet["columns"].([]interface{})
	require.Len(t, columns, 2)

	age := columns[0].(map[string]interface{})
	assert.Equal(t, "age", age["column"])
	assert.Equal(t, float64(1), age["inconsistent_count"])
	assert.Equal(t, float64(0), age["missing_count"])

	status := columns[1].(map[string]interface{})
	assert.Nil(t, status["mean"])
	assert.Equal(t, float64(1), status["missing_count"])

	empty := out["Empty"].(map[string]interface{})
	assert.Equal(t, float64(0), empty["row_count"])
}

func TestProfileCSVWithOverrides(t *testing.T) {
	s := newTestServer(t, 1)
	content := []byte("value\n1\n2\n3\n4\n5\n6\n7\n8\n9\n100\n")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "/v1/profile?iqr=1.5&z=2.5&sheet=values", "values.csv", content))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	require.Len(t, out, 1)
	report := out["values"].(map[string]interface{})
	config := report["config"].(map[string]interface{})
	assert.Equal(t, 1.5, config["iqr_multiplier"])
	assert.Equal(t, 2.5, config["z_threshold"])

	value := report["columns"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 1.5, value["iqr_multiplier"])
	assert.Equal(t, float64(1), value["iqr_outliers"])
}

func TestSheets(t *testing.T) {
	s := newTestServer(t, 1)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "/v1/sheets", "book.xlsx", workbookBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []interface{}{"Sheet1", "Empty"}, decode(t, rec)["sheets"])
}

func TestProfileErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		filename string
		content  []byte
		status   int
		code     string
	}{
		{"unknown sheet", "/v1/profile?sheet=Missing", "book.xlsx", workbookBytes(t), http.StatusNotFound, "NOT_FOUND"},
		{"bad iqr", "/v1/profile?iqr=abc", "a.csv", []byte("x\n1\n"), http.StatusBadRequest, "PARAMETER_ERROR"},
		{"non-positive z", "/v1/profile?z=0", "a.csv", []byte("x\n1\n"), http.StatusBadRequest, "PARAMETER_ERROR"},
		{"unsupported file", "/v1/profile", "notes.txt", []byte("hello"), http.StatusBadRequest, "UNREADABLE_SOURCE"},
		{"corrupt workbook", "/v1/profile", "broken.xlsx", []byte("not a zip"), http.StatusBadRequest, "UNREADABLE_SOURCE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 1)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, uploadRequest(t, tt.target, tt.filename, tt.content))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			out := decode(t, rec)
			assert.Equal(t, tt.code, out["code"])
			assert.NotEmpty(t, out["request_id"])
		})
	}
}

func TestProfileWithoutFile(t *testing.T) {
	s := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/profile", strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])
}

func TestProfileUploadTooLarge(t *testing.T) {
	s := newTestServer(t, 1)
	content := bytes.Repeat([]byte("1234567890\n"), 200_000)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "/v1/profile", "big.csv", append([]byte("n\n"), content...)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestWriteJSONUnencodableBodyIsServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]interface{}{"mean": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Contains(t, body["error"], "unsupported value")
}

func TestProfileOverflowingColumnStillEncodes(t *testing.T) {
	srv := newTestServer(t, 10)
	csv := []byte("huge\n1e308\n1e308\n-1e308\n5\n")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/v1/profile", "huge.csv", csv))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sheet := decode(t, rec)["huge"].(map[string]interface{})
	column := sheet["columns"].([]interface{})[0].(map[string]interface{})
	assert.NotNil(t, column["mean"])
	assert.NotNil(t, column["std_dev"])
}
