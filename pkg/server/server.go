package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/fireflow/pkg/collection"
	"github.com/getmockd/fireflow/pkg/logging"
	"github.com/getmockd/fireflow/pkg/userui"
)

// Default timeouts.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Server is the HTTP surface of a controller.
type Server struct {
	ctrl       *userui.Controller
	metrics    *collection.MetricsObserver
	formSchema *jsonschema.Schema
	log        *slog.Logger
	version    string
	startTime  time.Time

	// embedded database mount, optional
	dbName string
	dbColl collection.Collection

	skipOriginVerify bool
	wsClients        atomic.Int64

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics exposes obs at /api/stats.
func WithMetrics(obs *collection.MetricsObserver) Option {
	return func(s *Server) {
		s.metrics = obs
	}
}

// WithEmbeddedDB serves coll under /db/{name}.
func WithEmbeddedDB(name string, coll collection.Collection) Option {
	return func(s *Server) {
		s.dbName = name
		s.dbColl = coll
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithOriginCheck enables WebSocket origin verification. Off by default so
// local tools can connect from any origin.
func WithOriginCheck() Option {
	return func(s *Server) {
		s.skipOriginVerify = false
	}
}

// New creates a Server listening on addr.
func New(addr string, ctrl *userui.Controller, opts ...Option) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("server: controller is required")
	}
	schema, err := compileFormSchema()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ctrl:             ctrl,
		formSchema:       schema,
		log:              logging.Nop(),
		version:          "dev",
		startTime:        time.Now(),
		skipOriginVerify: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadTimeout,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s.withLogging(mux)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/form", s.handleSetForm)
	mux.HandleFunc("POST /api/form/cancel", s.handleCancelEdit)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/users/{id}/edit", s.handleEdit)
	mux.HandleFunc("DELETE /api/users/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/ws", s.handleWS)

	if s.dbColl != nil {
		base := "/db/" + s.dbName
		h := http.StripPrefix(base, collection.NewHandler(s.dbName, s.dbColl, logging.Component(s.log, "db")))
		mux.Handle(base, h)
		mux.Handle(base+"/", h)
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe listens on the configured address and serves until
// Shutdown. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// withLogging logs each request with its status and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.statusCode,
			"duration", time.Since(start),
		)
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Hijack passes through to the underlying writer for WebSocket upgrades.
func (lrw *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := lrw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	lrw.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Unwrap returns the underlying writer for http.ResponseController.
func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}
