// Package server exposes the survey dashboard and insight generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/insight"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
)

// TableLoader reads the current survey responses.
type TableLoader interface {
	Load(ctx context.Context, src string) (*survey.Table, error)
}

// InsightGenerator produces the insight text for a request.
type InsightGenerator interface {
	Generate(ctx context.Context, req insight.Request) insight.Response
}

// Config holds configuration for the server.
type Config struct {
	Addr           string
	Source         string
	Loader         TableLoader
	Insights       InsightGenerator
	AllowedOrigins []string
	Logger         *log.Logger
}

// snapshot is an immutable view of one load. Handlers read it through an
// atomic pointer and never mutate it.
type snapshot struct {
	table     *survey.Table
	dashboard *survey.Dashboard
	loadedAt  time.Time
}

// Server serves the dashboard API.
type Server struct {
	cfg     Config
	logger  *log.Logger
	current atomic.Pointer[snapshot]
	handler http.Handler
}

// New builds a Server. Nothing is loaded until Reload or the first request.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger.WithPrefix("server")}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
	)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/reload", s.handleReload)
		r.Post("/insights", s.handleInsights)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	})
	return c.Handler(r)
}

// Reload reads the source again and swaps the snapshot. On failure the
// previous snapshot stays in place.
func (s *Server) Reload(ctx context.Context) (*survey.Dashboard, error) {
	snap, err := s.reload(ctx)
	if err != nil {
		return nil, err
	}
	return snap.dashboard, nil
}

func (s *Server) reload(ctx context.Context) (*snapshot, error) {
	if s.cfg.Loader == nil {
		return nil, errors.New("no survey loader configured")
	}
	start := time.Now()
	t, err := s.cfg.Loader.Load(ctx, s.cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	snap := &snapshot{table: t, dashboard: survey.BuildDashboard(t), loadedAt: time.Now()}
	s.current.Store(snap)
	s.logger.Info("survey snapshot loaded", "rows", t.Len(), "elapsed", time.Since(start))
	return snap, nil
}

// Snapshot returns the current table, loading it on first use.
func (s *Server) Snapshot(ctx context.Context) (*survey.Table, error) {
	snap, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return snap.table, nil
}

func (s *Server) ensure(ctx context.Context) (*snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return s.reload(ctx)
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
