// Package api serves the comparison results over a read-only JSON API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"schemasync/internal/api/middleware"
	"schemasync/internal/core"
	"schemasync/internal/diff"
	"schemasync/internal/inspector"
)

// Inspector is the part of the inspection facade the API reads from.
type Inspector interface {
	Tables(ctx context.Context) ([]*core.Table, error)
	Table(ctx context.Context, name string) (*core.Table, error)
	Compare(ctx context.Context) (*diff.SchemaDiff, error)
	TableDiff(ctx context.Context, name string) (*diff.TableDiff, error)
	MigrationFiles() ([]inspector.MigrationFile, string, error)
}

// Config holds the HTTP server configuration.
type Config struct {
	Addr            string
	CORSOrigins     []string
	RateLimit       int // requests per minute per client IP
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		CORSOrigins:     []string{"*"},
		RateLimit:       120,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front of the inspector.
type Server struct {
	cfg       Config
	router    chi.Router
	inspector Inspector
	policy    middleware.Policy
	logger    *slog.Logger
}

// New wires the routes. A nil policy admits every request and a nil logger
// discards.
func New(cfg Config, insp Inspector, policy middleware.Policy, logger *slog.Logger) *Server {
	if policy == nil {
		policy = middleware.AllowAll
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	s := &Server{cfg: cfg, inspector: insp, policy: policy, logger: logger}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(s.cfg.RateLimit))
		r.Use(middleware.Authorize(s.policy))

		r.Get("/tables", s.handleTables)
		r.Get("/tables/{table}", s.handleTable)
		r.Get("/diff", s.handleDiff)
		r.Get("/diff/{table}", s.handleTableDiff)
		r.Get("/migrations", s.handleMigrations)
		r.Get("/status", s.handleStatus)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router = r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
