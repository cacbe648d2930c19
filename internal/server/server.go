// Package server serves the mock browser's search and page-proxy endpoints
// and a JSON API over a running desktop session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/desktop"
)

// Options configures a Server.
type Options struct {
	// Session backs the desktop API. Without one only the browser endpoints
	// are served.
	Session *desktop.Session
	// UserAgent is sent upstream by the proxy.
	UserAgent string
	// ProxyTimeout bounds one upstream fetch.
	ProxyTimeout time.Duration
	// Upstream overrides the client used by the proxy.
	Upstream *http.Client
	Logger   *slog.Logger
}

// OptionsFromConfig derives server options from the desktop config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		UserAgent:    cfg.Server.UserAgent,
		ProxyTimeout: time.Duration(cfg.Server.ProxyTimeoutSeconds) * time.Second,
	}
}

// Server routes the HTTP endpoints.
type Server struct {
	session   *desktop.Session
	userAgent string
	upstream  *http.Client
	logger    *slog.Logger
	mux       *http.ServeMux
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	upstream := opts.Upstream
	if upstream == nil {
		timeout := opts.ProxyTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		upstream = &http.Client{Timeout: timeout}
	}

	s := &Server{
		session:   opts.Session,
		userAgent: opts.UserAgent,
		upstream:  upstream,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("/search/", s.handleSearch)
	s.mux.HandleFunc("/proxy/", s.handleProxy)
	if s.session != nil {
		s.mux.HandleFunc("GET /{$}", s.handleDesktop)
		s.mux.HandleFunc("GET /api/desktop", s.handleDesktop)
		s.mux.HandleFunc("POST /api/desktop/events", s.handleEvent)
	}
	return s
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
