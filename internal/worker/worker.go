package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/arkadyv/fangate/internal/repository"
	"github.com/arkadyv/fangate/internal/warmup"
)

// Worker drives warm-up campaigns in the background. It is the external
// scheduler the engine expects: one batch tick per active campaign per tick
// interval, plus a slower health sweep. Campaigns are ticked sequentially,
// which is what serializes invocations per campaign.
type Worker struct {
	engine    *warmup.Engine
	campaigns *repository.CampaignRepository
	logger    *slog.Logger

	tickInterval   time.Duration
	healthInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds worker configuration
type Config struct {
	TickInterval   time.Duration
	HealthInterval time.Duration
}

// DefaultConfig returns default worker configuration
func DefaultConfig() Config {
	return Config{
		TickInterval:   time.Hour,
		HealthInterval: 15 * time.Minute,
	}
}

// New creates a new worker
func New(engine *warmup.Engine, campaigns *repository.CampaignRepository, logger *slog.Logger, cfg Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		engine:         engine,
		campaigns:      campaigns,
		logger:         logger.With("component", "worker"),
		tickInterval:   cfg.TickInterval,
		healthInterval: cfg.HealthInterval,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start starts the worker
func (w *Worker) Start() {
	w.wg.Add(2)
	go w.runTicks()
	go w.runHealthChecks()
	w.logger.Info("worker started", "tick_interval", w.tickInterval, "health_interval", w.healthInterval)
}

// Stop stops the worker gracefully
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")
	w.cancel()
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

func (w *Worker) runTicks() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.tickActiveWarmups()
		}
	}
}

func (w *Worker) runHealthChecks() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.sweepHealth()
		}
	}
}

// tickActiveWarmups runs one batch tick for every active warm-up campaign
func (w *Worker) tickActiveWarmups() {
	campaigns, err := w.campaigns.ListActiveWarmups(warmup.ScheduleDays)
	if err != nil {
		w.logger.Error("failed to list active warm-ups", "error", err)
		return
	}

	for _, c := range campaigns {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		result, err := w.engine.SendBatch(w.ctx, c.UserID, c.ID)
		if err != nil {
			w.logger.Error("batch tick failed", "campaign_id", c.ID, "error", err)
			continue
		}
		if !result.Success {
			w.logger.Info("batch tick skipped", "campaign_id", c.ID, "reason", result.Reason)
		}
	}
}

// sweepHealth runs the health check, with auto-pause, for every campaign in
// warm-up. Paused campaigns are included so their status stays current; the
// pause write itself is idempotent.
func (w *Worker) sweepHealth() {
	campaigns, err := w.campaigns.ListWarmupEnabled()
	if err != nil {
		w.logger.Error("failed to list warm-up campaigns", "error", err)
		return
	}

	for _, c := range campaigns {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		health, err := w.engine.CheckHealthAndApply(c.UserID, c.ID)
		if err != nil {
			w.logger.Error("health check failed", "campaign_id", c.ID, "error", err)
			continue
		}
		if health.Level != warmup.HealthHealthy {
			w.logger.Warn("warm-up health degraded",
				"campaign_id", c.ID,
				"level", health.Level,
				"bounce_rate", health.BounceRate,
				"complaint_rate", health.ComplaintRate,
			)
		}
	}
}
