package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wrangler/domain/datareadiness/profiling"
	apperrors "wrangler/internal/errors"
	"wrangler/ports"
)

// memory budget for multipart parsing; larger parts spill to disk
const multipartMemory = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// handleProfile profiles every sheet of the uploaded file, or only the one
// named by ?sheet=
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	config, err := s.profileConfig(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	wb, err := s.loadUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sheets := wb.Sheets
	if sheet := r.URL.Query().Get("sheet"); sheet != "" {
		if _, ok := wb.Table(sheet); !ok {
			s.writeError(w, r, apperrors.NotFound(fmt.Sprintf("sheet %q", sheet)))
			return
		}
		sheets = []string{sheet}
	}

	reports := make(map[string]*profiling.Report, len(sheets))
	for _, name := range sheets {
		t, _ := wb.Table(name)
		report, err := s.profiler.Profile(t, config)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		reports[name] = report
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleSheets lists the sheet names of the uploaded file in workbook order
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	wb, err := s.loadUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sheets": wb.Sheets})
}

// profileConfig applies the ?iqr= and ?z= overrides to the server defaults
func (s *Server) profileConfig(r *http.Request) (profiling.Config, error) {
	config := s.defaults
	query := r.URL.Query()
	if raw := query.Get("iqr"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return config, apperrors.Parameter(fmt.Errorf("iqr: %w", err))
		}
		config.IQRMultiplier = v
	}
	if raw := query.Get("z"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return config, apperrors.Parameter(fmt.Errorf("z: %w", err))
		}
		config.ZThreshold = v
	}
	return config, nil
}

// loadUpload stores the multipart "file" field in a temp directory and
// loads it
func (s *Server) loadUpload(w http.ResponseWriter, r *http.Request) (*ports.Workbook, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, apperrors.New(codeTooLarge, fmt.Sprintf("upload exceeds %d MB", s.maxUploadMB))
		}
		return nil, apperrors.InvalidInput("invalid multipart form: " + err.Error())
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apperrors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	// the upload keeps its base name: CSV tables are named after the file stem
	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	dir, err := os.MkdirTemp("", "wrangler-upload-*")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to stage upload")
	}
	defer os.RemoveAll(dir)

	tmp, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to stage upload")
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, apperrors.Wrap(err, "failed to stage upload")
	}
	if err := tmp.Close(); err != nil {
		return nil, apperrors.Wrap(err, "failed to stage upload")
	}

	s.logger.Debug("staged %s (%d bytes) as %s", header.Filename, header.Size, tmp.Name())
	wb, err := s.loader.Load(r.Context(), tmp.Name())
	if err != nil {
		return nil, err
	}
	return wb, nil
}

const codeTooLarge = "PAYLOAD_TOO_LARGE"

func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeParameter, apperrors.CodeInvalidInput, apperrors.CodeUnreadable, apperrors.CodeStructural:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case codeTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]interface{}{
		"error":      err.Error(),
		"code":       apperrors.GetCode(err),
		"request_id": GetRequestID(r.Context()),
	})
}

// writeJSON encodes before writing the header so an unencodable body turns
// into a 500 instead of a truncated success
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(map[string]interface{}{
			"error": fmt.Sprintf("encode response: %v", err),
			"code":  apperrors.CodeInternalError,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
