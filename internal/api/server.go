package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arkadyv/fangate/internal/config"
	"github.com/arkadyv/fangate/internal/metrics"
	"github.com/arkadyv/fangate/internal/repository"
	"github.com/arkadyv/fangate/internal/warmup"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	engine     *warmup.Engine
	campaigns  *repository.CampaignRepository
	contacts   *repository.ContactRepository
	events     *repository.EventRepository
	users      *repository.UserRepository
	metrics    *metrics.Metrics
	cfg        *config.Config
	logger     *slog.Logger
	startTime  time.Time
}

// Deps carries the server's collaborators.
type Deps struct {
	Engine    *warmup.Engine
	Campaigns *repository.CampaignRepository
	Contacts  *repository.ContactRepository
	Events    *repository.EventRepository
	Users     *repository.UserRepository
	Metrics   *metrics.Metrics
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		engine:    deps.Engine,
		campaigns: deps.Campaigns,
		contacts:  deps.Contacts,
		events:    deps.Events,
		users:     deps.Users,
		metrics:   deps.Metrics,
		cfg:       cfg,
		logger:    logger.With("component", "api"),
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	// No auth required
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	s.router.Post("/webhooks/events", s.handleEventWebhook)

	// API v1 routes (per-user API key required)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/campaigns", s.handleCampaignCreate)
		r.Get("/campaigns/{id}", s.handleCampaignGet)
		r.Post("/campaigns/{id}/warmup/start", s.handleWarmupStart)
		r.Post("/campaigns/{id}/warmup/tick", s.handleWarmupTick)
		r.Get("/campaigns/{id}/warmup/status", s.handleWarmupStatus)
		r.Post("/contacts", s.handleContactCreate)
	})
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP API server", "addr", s.cfg.Server.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}
