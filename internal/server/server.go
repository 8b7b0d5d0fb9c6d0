// Package server exposes the progress channel: a small HTTP server that
// serves the static client and upgrades /ws connections, authenticates
// them, and drives pipeline runs on their behalf.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"listmaker/pkg/config"
	"listmaker/pkg/logger"
	"listmaker/pkg/pipeline"
	"listmaker/pkg/progress"
)

// Runner executes one list-making run
type Runner interface {
	Run(ctx context.Context) (*pipeline.Summary, error)
}

// RunnerFactory builds a Runner bound to the given notifier. Building
// is where sheet credentials are exchanged for a client, so it can fail.
type RunnerFactory func(notifier progress.Notifier) (Runner, error)

// Verifier checks presented channel credentials
type Verifier interface {
	Verify(username, password string) bool
}

// Server is the websocket progress-channel server
type Server struct {
	cfg   *config.Config
	log   logger.Logger
	creds Verifier
	runs  RunnerFactory

	httpServer *http.Server
	upgrader   websocket.Upgrader

	// runMu serializes pipeline runs across all connections; the sheet
	// reconciliation is not safe to interleave.
	runMu sync.Mutex
}

// New creates a server wiring the handler routes
func New(cfg *config.Config, creds Verifier, runs RunnerFactory, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Server{
		cfg:   cfg,
		log:   log,
		creds: creds,
		runs:  runs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Server.AllowedOrigins),
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
		}))
	}

	r.Get("/ws", s.handleWS)
	if cfg.Server.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens and serves until Shutdown or a listener error
func (s *Server) Start() error {
	s.log.WithField("addr", s.cfg.Server.Addr).Info("server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// originChecker permits any origin when none are configured; the server
// normally sits behind the same host that serves the client.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}
