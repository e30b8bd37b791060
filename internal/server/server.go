// Package server exposes the planning engine over a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// shutdownGrace is how long in-flight requests get after the context ends.
const shutdownGrace = 10 * time.Second

// Server handles planning requests. It keeps no per-request state.
type Server struct {
	engine   *calculation.PlanningEngine
	parser   *config.InputParser
	validate *validator.Validate
	logger   *slog.Logger
	cfg      config.ServerConfig
	limiter  *rateLimiter
}

// New creates a server around engine. A nil logger uses slog.Default().
func New(engine *calculation.PlanningEngine, logger *slog.Logger, cfg config.ServerConfig) *Server {
	if engine == nil {
		engine = calculation.NewPlanningEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report request fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	s := &Server{
		engine:   engine,
		parser:   config.NewInputParser(),
		validate: validate,
		logger:   logger,
		cfg:      cfg,
	}
	if cfg.RateLimitPerMinute > 0 {
		s.limiter = newRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	if s.limiter != nil {
		r.Use(s.limiter.middleware)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/portfolios", s.handlePortfolios)
		r.Get("/portfolios/{id}", s.handlePortfolio)
		r.Get("/questionnaire", s.handleQuestionnaire)
		r.Post("/risk-profile", s.handleRiskProfile)
		r.Post("/projection", s.handleProjection)
		r.Post("/optimization", s.handleOptimization)
		r.Post("/plan", s.handlePlan)
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
