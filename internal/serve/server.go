// Package serve implements the HTTP server rendering
// the data tables of a page and handling their controls.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/domonda/go-datatable/controller"
	"github.com/domonda/go-datatable/csvtable"
	"github.com/domonda/go-datatable/internal/metrics"
	"github.com/domonda/go-datatable/page"
)

// RequestIDHeader is set on every response.
const RequestIDHeader = "X-Request-Id"

// ServeConfig holds the configuration for the HTTP server.
type ServeConfig struct {
	Port int
	Addr string
	// ExportFormat of CSV downloads, semicolon separated UTF-8 if nil.
	ExportFormat *csvtable.Format
	// LoadConcurrency limits concurrent loads of LoadTables.
	LoadConcurrency int
}

// Server serves one page with its data tables.
type Server struct {
	config  ServeConfig
	layout  *page.Layout
	tables  map[string]*controller.DataTable
	flash   *Flash
	metrics *metrics.Collector
	logger  *slog.Logger
	mux     *http.ServeMux
	http    *http.Server
}

// NewServer creates a Server for the tables mounted in layout.
// The tables should use flash as their Notifier.
// collector may be nil to disable metrics.
func NewServer(layout *page.Layout, flash *Flash, collector *metrics.Collector, logger *slog.Logger, config ServeConfig) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ExportFormat == nil {
		config.ExportFormat = csvtable.NewFormat(";")
	}
	s := &Server{
		config:  config,
		layout:  layout,
		tables:  make(map[string]*controller.DataTable),
		flash:   flash,
		metrics: collector,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	for _, t := range layout.Tables() {
		table, ok := t.(*controller.DataTable)
		if !ok {
			return nil, fmt.Errorf("table %q is not a *controller.DataTable", t.Name())
		}
		if _, exists := s.tables[table.Name()]; exists {
			return nil, fmt.Errorf("duplicate table name %q", table.Name())
		}
		s.tables[table.Name()] = table
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)

	// Final order (outermost to innermost):
	//   recovery -> request id -> logging -> handler
	h = s.loggingMiddleware(h)
	h = s.requestIDMiddleware(h)
	h = s.recoveryMiddleware(h)

	return h
}

// LoadTables loads all tables concurrently.
// Tables that fail to load are rendered without body
// and the first error is returned.
// A failing table does not cancel the loads of the others.
func (s *Server) LoadTables(ctx context.Context) error {
	var g errgroup.Group
	if s.config.LoadConcurrency > 0 {
		g.SetLimit(s.config.LoadConcurrency)
	}
	for _, table := range s.tables {
		g.Go(func() error {
			return table.Load(ctx)
		})
	}
	return g.Wait()
}

// ListenAndServe starts the HTTP server on the configured address and port,
// and handles graceful shutdown when the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Addr, s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("Listening", "url", "http://"+ln.Addr().String())

	s.http = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server. If the server has not been started,
// this is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("GET /tables/{name}", s.handleTable)
	s.mux.HandleFunc("GET /tables/{name}/export.csv", s.handleExportCSV)
	s.mux.HandleFunc("POST /tables/{name}/reload", s.handleReload)
	s.mux.HandleFunc("POST /tables/{name}/modal", s.handleOpenModal)
	s.mux.HandleFunc("POST /tables/{name}/modal/dismiss", s.handleDismissModal)
	s.mux.HandleFunc("POST /tables/{name}/modal/key", s.handleKeyPress)
	s.mux.HandleFunc("POST /tables/{name}/records", s.handleCreateRecord)
	s.mux.HandleFunc("POST /tables/{name}/records/{id}/delete", s.handleDeleteRecord)
}

// ============================================================================
// Middleware
// ============================================================================

type requestIDKey struct{}

// RequestID returns the id of the request handled with ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

// recoveryMiddleware catches panics, logs the stack trace, and returns a 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware keeps an incoming request id or generates one.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// loggingMiddleware logs and measures each request with method, path,
// status code, and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sr, r)
		dur := time.Since(start)
		s.logger.Info("req",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.code,
			"dur", dur.String(),
			"request_id", RequestID(r.Context()),
		)
		if s.metrics != nil {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			s.metrics.RecordHTTPRequest(r.Method, route, sr.code, dur)
		}
	})
}
