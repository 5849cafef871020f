// Package api exposes workbook profiling over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wrangler/domain/core"
	"wrangler/domain/datareadiness/profiling"
	"wrangler/internal"
	"wrangler/ports"
)

type contextKey string

// RequestIDKey is the context key for the request ID
const RequestIDKey contextKey = "request-id"

// Server serves the profiling endpoints
type Server struct {
	loader      ports.WorkbookLoader
	profiler    ports.ProfilerPort
	defaults    profiling.Config
	maxUploadMB int64
	logger      *internal.Logger
	router      *chi.Mux
}

// NewServer wires the router. defaults supplies the outlier parameters used
// when a request does not override them.
func NewServer(loader ports.WorkbookLoader, profiler ports.ProfilerPort, defaults profiling.Config, maxUploadMB int64, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		loader:      loader,
		profiler:    profiler,
		defaults:    defaults,
		maxUploadMB: maxUploadMB,
		logger:      logger.With("api"),
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/profile", s.handleProfile)
		r.Post("/sheets", s.handleSheets)
	})
	s.router = r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestID reuses an incoming X-Request-ID or generates one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := core.ParseRequestID(r.Header.Get("X-Request-ID"))
		if err != nil {
			id = core.RequestID(core.NewID())
		}
		w.Header().Set("X-Request-ID", id.String())
		ctx := context.WithValue(r.Context(), RequestIDKey, id.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("%s %s %d %.2fms request_id=%s", r.Method, r.URL.Path, ww.Status(),
			float64(time.Since(start).Nanoseconds())/1e6, GetRequestID(r.Context()))
	})
}
