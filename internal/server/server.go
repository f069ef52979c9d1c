package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arkadyv/fangate/internal/api"
	"github.com/arkadyv/fangate/internal/config"
	"github.com/arkadyv/fangate/internal/db"
	"github.com/arkadyv/fangate/internal/metrics"
	"github.com/arkadyv/fangate/internal/provider"
	"github.com/arkadyv/fangate/internal/repository"
	"github.com/arkadyv/fangate/internal/warmup"
	"github.com/arkadyv/fangate/internal/worker"
)

// Server wires the application together: storage, warm-up engine, HTTP API
// and the background worker.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *db.DB
	api    *api.Server
	worker *worker.Worker
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	campaigns := repository.NewCampaignRepository(database.DB)
	contacts := repository.NewContactRepository(database.DB)
	sendLog := repository.NewSendLogRepository(database.DB)
	events := repository.NewEventRepository(database.DB)
	users := repository.NewUserRepository(database.DB)

	m := metrics.New()

	engine := warmup.NewEngine(warmup.EngineConfig{
		Campaigns: campaigns,
		Contacts:  contacts,
		SendLog:   sendLog,
		Events:    events,
		Provider:  provider.NewBrevoClient(cfg.Provider),
		Metrics:   m,
		Logger:    logger,
	})

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     database,
	}

	s.api = api.NewServer(cfg, api.Deps{
		Engine:    engine,
		Campaigns: campaigns,
		Contacts:  contacts,
		Events:    events,
		Users:     users,
		Metrics:   m,
	}, logger)

	if cfg.Worker.Enabled {
		s.worker = worker.New(engine, campaigns, logger, worker.Config{
			TickInterval:   cfg.Worker.TickInterval,
			HealthInterval: cfg.Worker.HealthInterval,
		})
	}

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	if s.worker != nil {
		s.worker.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.api.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if s.worker != nil {
			s.worker.Stop()
		}
		return err
	case <-ctx.Done():
		if s.worker != nil {
			s.worker.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.api.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
		s.db.Close()
		return nil
	}
}
