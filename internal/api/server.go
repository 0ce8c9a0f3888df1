// Package api exposes the tracker over HTTP as Siren hypermedia.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/thenoetrevino/tracker/internal/app"
	"github.com/thenoetrevino/tracker/internal/config"
	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// Server serves the tracker API.
type Server struct {
	app        *app.App
	logger     *slog.Logger
	metrics    *Metrics
	cfg        config.ServerConfig
	pagination config.PaginationConfig
	mux        *http.ServeMux

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a server for a. Routes are registered immediately so
// Handler can be used without Start.
func NewServer(a *app.App, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		app:        a,
		logger:     a.Logger(),
		metrics:    NewMetrics(),
		cfg:        cfg.Server,
		pagination: cfg.Pagination,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Operational endpoints
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Projects
	s.mux.HandleFunc("GET /projects", s.handle(s.listProjects))
	s.mux.HandleFunc("POST /projects", s.authed(s.createProject))
	s.mux.HandleFunc("GET /projects/{project}", s.handle(s.getProject))
	s.mux.HandleFunc("PATCH /projects/{project}", s.authed(s.patchProject))
	s.mux.HandleFunc("DELETE /projects/{project}", s.authed(s.deleteProject))

	// Issues
	s.mux.HandleFunc("GET /projects/{project}/issues", s.handle(s.listIssues))
	s.mux.HandleFunc("POST /projects/{project}/issues", s.authed(s.createIssue))
	s.mux.HandleFunc("GET /projects/{project}/issues/{issue}", s.handle(s.getIssue))
	s.mux.HandleFunc("PATCH /projects/{project}/issues/{issue}", s.authed(s.patchIssue))
	s.mux.HandleFunc("DELETE /projects/{project}/issues/{issue}", s.authed(s.deleteIssue))

	// Comments
	s.mux.HandleFunc("GET /projects/{project}/issues/{issue}/comments", s.handle(s.listComments))
	s.mux.HandleFunc("POST /projects/{project}/issues/{issue}/comments", s.authed(s.addComment))
	s.mux.HandleFunc("GET /projects/{project}/issues/{issue}/comments/{comment}", s.handle(s.getComment))
	s.mux.HandleFunc("DELETE /projects/{project}/issues/{issue}/comments/{comment}", s.authed(s.deleteComment))

	s.mux.HandleFunc("/", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return workflow.Newf(workflow.KindNotFound, "no resource at %s", r.URL.Path)
	}))
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.observe(s.authenticate(s.mux))
}

// Metrics returns the server's request counters.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Addr returns the address the server is listening on
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.app.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	writeJSON(w, code, "application/json", map[string]string{"status": status})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "application/json", s.metrics.GetSnapshot())
}

// page reads page and size (or limit) query parameters.
func (s *Server) page(r *http.Request) (models.Page, error) {
	q := r.URL.Query()
	number, err := intParam(q.Get("page"), 1)
	if err != nil {
		return models.Page{}, workflow.Newf(workflow.KindBadRequest, "page must be an integer")
	}
	raw := q.Get("size")
	if raw == "" {
		raw = q.Get("limit")
	}
	size, err := intParam(raw, 0)
	if err != nil {
		return models.Page{}, workflow.Newf(workflow.KindBadRequest, "size must be an integer")
	}
	p := models.NewPage(number, size, s.pagination.DefaultSize, s.pagination.MaxSize)
	if number > p.Number {
		return models.Page{}, workflow.Newf(workflow.KindBadRequest, "page must not exceed %d", p.Number)
	}
	return p, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// pathID parses a numeric path segment. Anything else cannot name a resource.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id < 1 {
		return 0, workflow.Newf(workflow.KindBadRequest, "%s id %q must be a positive integer", name, r.PathValue(name))
	}
	return id, nil
}

// decodeJSON reads a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return workflow.Newf(workflow.KindBadRequest, "request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return workflow.Newf(workflow.KindBadRequest, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return workflow.Wrapf(workflow.KindBadRequest, err, "malformed JSON body")
	}
	return nil
}

// decodePatch reads a patch document. A lone operation object is accepted as
// a one-element document.
func decodePatch(w http.ResponseWriter, r *http.Request) ([]workflow.RawOperation, error) {
	var body json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		var op workflow.RawOperation
		if err := json.Unmarshal(body, &op); err != nil {
			return nil, workflow.Wrapf(workflow.KindBadRequest, err, "malformed patch operation")
		}
		return []workflow.RawOperation{op}, nil
	}
	var ops []workflow.RawOperation
	if err := json.Unmarshal(body, &ops); err != nil {
		return nil, workflow.Wrapf(workflow.KindBadRequest, err, "patch document must be an operation or a list of operations")
	}
	return ops, nil
}

func writeEntity(w http.ResponseWriter, status int, e Entity) {
	writeJSON(w, status, SirenMediaType, e)
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// created answers a successful POST.
func created(w http.ResponseWriter, location string, e Entity) {
	w.Header().Set("Location", location)
	writeEntity(w, http.StatusCreated, e)
}
