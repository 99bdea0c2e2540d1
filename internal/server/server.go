// Package server exposes the sankey pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness and version
//	POST /v1/layout             graph document → layout JSON
//	POST /v1/render/{format}    graph document → svg, png, json, dot, graphviz or graphviz-png
//
// The request body is a graph document, JSON by default or YAML when the
// Content-Type says so. Query parameters override the server's default
// style: width, height, strict, number_format, node_separation, node_width,
// font_size, border, title, background, scale and no_labels.
//
// Errors are returned as {"code", "message", "request_id"} with the HTTP
// status derived from the error code. Every response carries X-Request-ID.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// Defaults for [Server].
const (
	DefaultAddr        = ":8080"
	DefaultMaxBodySize = 4 << 20
	DefaultTimeout     = 30 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	style   config.Config
	maxBody int64
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithStyle sets the style used when a request does not override it.
func WithStyle(c config.Config) Option { return func(s *Server) { s.style = c } }

// WithMaxBodySize limits request bodies to n bytes.
func WithMaxBodySize(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithTimeout bounds the time spent on one request.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server that runs requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		style:   config.Default(),
		maxBody: DefaultMaxBodySize,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String(), "version", buildinfo.Version)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
