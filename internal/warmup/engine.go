package warmup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arkadyv/fangate/internal/metrics"
	"github.com/arkadyv/fangate/internal/models"
	"github.com/arkadyv/fangate/internal/provider"
)

// CampaignStore loads and persists campaigns. Updates replace the whole
// record; the engine relies on the caller serializing ticks per campaign
// rather than on field-level merging.
type CampaignStore interface {
	GetByID(id, userID string) (*models.Campaign, error)
	Update(c *models.Campaign) error
}

// ContactSource exposes the subscriber base.
type ContactSource interface {
	CountSubscribed(userID string) (int, error)
	GetUnsentForCampaign(userID, campaignID string, limit int) ([]models.Contact, error)
}

// SendLog records send attempts and answers "already sent" queries.
type SendLog interface {
	Create(e *models.SendLogEntry) error
	CountSent(campaignID string) (int, error)
}

// EventStatsSource aggregates delivery events for the health check.
type EventStatsSource interface {
	GetStatsForCampaign(campaignID string) (models.EventStats, error)
}

// Engine runs the warm-up lifecycle for campaigns. It holds no state of its
// own and no lock; callers must not run two ticks for the same campaign
// concurrently.
type Engine struct {
	campaigns CampaignStore
	contacts  ContactSource
	log       SendLog
	events    EventStatsSource
	provider  provider.EmailProvider
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// EngineConfig wires the engine's collaborators. Metrics may be nil.
type EngineConfig struct {
	Campaigns CampaignStore
	Contacts  ContactSource
	SendLog   SendLog
	Events    EventStatsSource
	Provider  provider.EmailProvider
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewEngine creates a warm-up engine.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		campaigns: cfg.Campaigns,
		contacts:  cfg.Contacts,
		log:       cfg.SendLog,
		events:    cfg.Events,
		provider:  cfg.Provider,
		metrics:   cfg.Metrics,
		logger:    logger.With("component", "warmup"),
		now:       time.Now,
	}
}

// SchedulePreview is returned to the UI when a warm-up starts.
type SchedulePreview struct {
	TotalContacts       int        `json:"total_contacts"`
	EstimatedDays       int        `json:"estimated_days"`
	DailyQuotas         []DayQuota `json:"daily_quotas"`
	EstimatedCompletion time.Time  `json:"estimated_completion"`
}

// StartWarmup validates a draft campaign and activates its warm-up. All
// preconditions are checked before the first write, so a failure leaves no
// partial effect.
func (e *Engine) StartWarmup(userID, campaignID string) (*SchedulePreview, error) {
	c, err := e.campaigns.GetByID(campaignID, userID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	if c == nil {
		return nil, &ValidationError{Reason: "campaign not found"}
	}
	if c.Status != models.CampaignStatusDraft {
		return nil, &ValidationError{Reason: "campaign is not a draft"}
	}
	if c.Subject == "" {
		return nil, &ValidationError{Reason: "campaign subject is empty"}
	}
	if c.HTML == "" {
		return nil, &ValidationError{Reason: "campaign has no compiled HTML body"}
	}

	total, err := e.contacts.CountSubscribed(userID)
	if err != nil {
		return nil, fmt.Errorf("count subscribed contacts: %w", err)
	}
	if total == 0 {
		return nil, &ValidationError{Reason: "no subscribed contacts"}
	}

	state := StateOf(c)
	if err := state.Enable(e.now()); err != nil {
		return nil, err
	}
	state.ApplyTo(c)

	if err := e.campaigns.Update(c); err != nil {
		return nil, fmt.Errorf("persist campaign: %w", err)
	}

	if e.metrics != nil {
		e.metrics.ActiveWarmups.Inc()
	}
	e.logger.Info("warm-up started", "campaign_id", c.ID, "user_id", userID, "total_contacts", total)

	sched := NewSchedule(total)
	return &SchedulePreview{
		TotalContacts:       total,
		EstimatedDays:       ScheduleDays,
		DailyQuotas:         sched.DailyQuotas(),
		EstimatedCompletion: sched.EstimatedCompletion(*state.StartedAt()),
	}, nil
}

// BatchResult is the envelope for one tick. Precondition misses come back as
// Success=false with a reason instead of an error, because ticks run
// unattended and must never crash the invoking process.
type BatchResult struct {
	Success      bool          `json:"success"`
	Reason       string        `json:"reason,omitempty"`
	Sent         int           `json:"sent"`
	Failed       int           `json:"failed"`
	Failures     []SendFailure `json:"failures,omitempty"`
	Day          int           `json:"day"`
	Complete     bool          `json:"complete"`
	NextDayQuota *int          `json:"next_day_quota,omitempty"`
}

// shouldAdvanceDay is the day-advance decision table: move on when the day's
// quota was met, or when the unsent pool was already smaller than the quota
// (the list is exhausted for that day no matter how many sends succeeded).
func shouldAdvanceDay(sent, quota, available int) bool {
	return sent >= quota || available < quota
}

// SendBatch runs one warm-up tick for a campaign: recompute today's quota
// from the live subscriber count, send to the unsent slice of the list,
// record outcomes, and advance the day when warranted.
func (e *Engine) SendBatch(ctx context.Context, userID, campaignID string) (*BatchResult, error) {
	start := e.now()
	res, err := e.sendBatch(ctx, userID, campaignID)
	if e.metrics != nil {
		e.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
	return res, err
}

func (e *Engine) sendBatch(ctx context.Context, userID, campaignID string) (*BatchResult, error) {
	c, err := e.campaigns.GetByID(campaignID, userID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	if c == nil {
		return &BatchResult{Reason: "campaign not found"}, nil
	}

	state := StateOf(c)
	switch {
	case state.Phase() == PhaseNotStarted:
		return &BatchResult{Reason: "warm-up not enabled"}, nil
	case state.IsPaused():
		return &BatchResult{
			Reason: "warm-up paused: " + state.PauseReason(),
			Day:    state.Day(),
		}, nil
	case state.IsComplete():
		// A tick past completion is a harmless no-op.
		return &BatchResult{Success: true, Day: state.Day(), Complete: true}, nil
	}

	// Quota is recomputed from the live subscriber count each tick so the
	// schedule adapts to unsubscribes and imports between ticks.
	total, err := e.contacts.CountSubscribed(userID)
	if err != nil {
		return nil, fmt.Errorf("count subscribed contacts: %w", err)
	}
	sched := NewSchedule(total)
	quota := sched.QuotaForDay(state.Day())

	var batch []models.Contact
	if quota > 0 {
		batch, err = e.contacts.GetUnsentForCampaign(userID, campaignID, quota)
		if err != nil {
			return nil, fmt.Errorf("select unsent contacts: %w", err)
		}
	}

	if quota == 0 || len(batch) == 0 {
		// Nothing to send today; advance so the schedule cannot stall.
		return e.finishBatch(c, state, sched, 0, nil, len(batch), quota)
	}

	sent := 0
	var failures []SendFailure
	for _, contact := range batch {
		resp, sendErr := e.provider.Send(ctx, &provider.SendRequest{
			To:               contact.Email,
			ToName:           contact.Name,
			Subject:          c.Subject,
			HTML:             c.HTML,
			UnsubscribeToken: contact.UnsubscribeToken,
		})

		entry := &models.SendLogEntry{
			CampaignID: c.ID,
			ContactID:  contact.ID,
			Email:      contact.Email,
		}
		if sendErr != nil {
			entry.Status = models.SendLogStatusFailed
			entry.Error = sendErr.Error()
			failures = append(failures, SendFailure{Email: contact.Email, Error: sendErr.Error()})
			if e.metrics != nil {
				e.metrics.SendFailuresTotal.Inc()
			}
			e.logger.Warn("send failed", "campaign_id", c.ID, "email", contact.Email, "error", sendErr)
		} else {
			entry.Status = models.SendLogStatusSent
			entry.ProviderMsgID = resp.MessageID
			sent++
			if e.metrics != nil {
				e.metrics.SendsTotal.Inc()
			}
		}

		if logErr := e.log.Create(entry); logErr != nil {
			// The send already happened; the entry is only the audit/exclusion
			// record. Log and keep going so one recipient never blocks the rest.
			e.logger.Error("failed to record send log entry", "campaign_id", c.ID, "email", contact.Email, "error", logErr)
		}
	}

	return e.finishBatch(c, state, sched, sent, failures, len(batch), quota)
}

// finishBatch applies the day-advance decision, persists the campaign when
// the state changed, and assembles the tick envelope.
func (e *Engine) finishBatch(c *models.Campaign, state State, sched Schedule, sent int, failures []SendFailure, available, quota int) (*BatchResult, error) {
	advanced := false
	if shouldAdvanceDay(sent, quota, available) {
		state.AdvanceDay()
		state.ApplyTo(c)
		if err := e.campaigns.Update(c); err != nil {
			return nil, fmt.Errorf("persist campaign: %w", err)
		}
		advanced = true
		if e.metrics != nil {
			e.metrics.DaysAdvancedTotal.Inc()
			if state.IsComplete() {
				e.metrics.ActiveWarmups.Dec()
			}
		}
	}

	res := &BatchResult{
		Success:  true,
		Sent:     sent,
		Failed:   len(failures),
		Failures: failures,
		Day:      state.Day(),
		Complete: state.IsComplete(),
	}
	if !state.IsComplete() {
		next := sched.QuotaForDay(state.Day())
		res.NextDayQuota = &next
	}

	e.logger.Info("warm-up tick",
		"campaign_id", c.ID,
		"day", res.Day,
		"sent", sent,
		"failed", len(failures),
		"advanced", advanced,
		"complete", res.Complete,
	)
	return res, nil
}

// CheckHealth is a pure query: aggregate delivery events, classify, and
// recommend whether to pause. It performs no writes.
func (e *Engine) CheckHealth(campaignID string) (Health, error) {
	stats, err := e.events.GetStatsForCampaign(campaignID)
	if err != nil {
		return Health{}, fmt.Errorf("load event stats: %w", err)
	}
	return ClassifyHealth(stats), nil
}

// CheckHealthAndApply runs the health check and enacts the auto-pause for a
// critical classification. The pause write only happens when the warm-up is
// active and not already paused, so repeated critical checks are idempotent.
func (e *Engine) CheckHealthAndApply(userID, campaignID string) (Health, error) {
	c, err := e.campaigns.GetByID(campaignID, userID)
	if err != nil {
		return Health{}, fmt.Errorf("load campaign: %w", err)
	}
	if c == nil {
		return Health{}, ErrCampaignNotFound
	}

	health, err := e.CheckHealth(campaignID)
	if err != nil {
		return Health{}, err
	}

	state := StateOf(c)
	if health.ShouldPause && state.Phase() == PhaseActive && !state.IsPaused() {
		state.Pause(health.PauseReason)
		state.ApplyTo(c)
		if err := e.campaigns.Update(c); err != nil {
			return Health{}, fmt.Errorf("persist campaign: %w", err)
		}
		if e.metrics != nil {
			e.metrics.AutoPausesTotal.Inc()
		}
		e.logger.Warn("warm-up auto-paused",
			"campaign_id", c.ID,
			"reason", health.PauseReason,
			"bounce_rate", health.BounceRate,
			"complaint_rate", health.ComplaintRate,
		)
	}

	return health, nil
}

// Status is the composite progress/health object for presentation.
type Status struct {
	CampaignID          string     `json:"campaign_id"`
	Phase               Phase      `json:"phase"`
	CurrentDay          int        `json:"current_day"`
	Paused              bool       `json:"paused"`
	PauseReason         string     `json:"pause_reason,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	TotalContacts       int        `json:"total_contacts"`
	TotalSent           int        `json:"total_sent"`
	NextDayQuota        *int       `json:"next_day_quota,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	Health              Health     `json:"health"`
}

// GetStatus aggregates warm-up progress, health and the next-batch
// projection. It mutates nothing and returns zeroed progress for campaigns
// that have not started; the only error case is a missing campaign.
func (e *Engine) GetStatus(userID, campaignID string) (*Status, error) {
	c, err := e.campaigns.GetByID(campaignID, userID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	if c == nil {
		return nil, ErrCampaignNotFound
	}

	total, err := e.contacts.CountSubscribed(userID)
	if err != nil {
		return nil, fmt.Errorf("count subscribed contacts: %w", err)
	}
	sentCount, err := e.log.CountSent(campaignID)
	if err != nil {
		return nil, fmt.Errorf("count sent: %w", err)
	}
	health, err := e.CheckHealth(campaignID)
	if err != nil {
		return nil, err
	}

	state := StateOf(c)
	status := &Status{
		CampaignID:    c.ID,
		Phase:         state.Phase(),
		CurrentDay:    state.Day(),
		Paused:        state.IsPaused(),
		PauseReason:   state.PauseReason(),
		StartedAt:     state.StartedAt(),
		TotalContacts: total,
		TotalSent:     sentCount,
		Health:        health,
	}

	if state.Phase() == PhaseActive {
		sched := NewSchedule(total)
		next := sched.QuotaForDay(state.Day())
		status.NextDayQuota = &next
		if started := state.StartedAt(); started != nil {
			completion := sched.EstimatedCompletion(*started)
			status.EstimatedCompletion = &completion
		}
	}

	return status, nil
}
