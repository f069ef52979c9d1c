package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/arkadyv/fangate/internal/db"
	"github.com/arkadyv/fangate/internal/models"
	"github.com/arkadyv/fangate/internal/provider"
	"github.com/arkadyv/fangate/internal/repository"
	"github.com/arkadyv/fangate/internal/warmup"
)

type countingProvider struct {
	sends int
}

func (p *countingProvider) Send(ctx context.Context, req *provider.SendRequest) (*provider.SendResponse, error) {
	p.sends++
	return &provider.SendResponse{MessageID: fmt.Sprintf("msg-%d", p.sends)}, nil
}

type testEnv struct {
	worker    *Worker
	campaigns *repository.CampaignRepository
	contacts  *repository.ContactRepository
	events    *repository.EventRepository
	users     *repository.UserRepository
	provider  *countingProvider
}

func setupTestWorker(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})

	campaigns := repository.NewCampaignRepository(database.DB)
	contacts := repository.NewContactRepository(database.DB)
	sendLog := repository.NewSendLogRepository(database.DB)
	events := repository.NewEventRepository(database.DB)
	users := repository.NewUserRepository(database.DB)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := &countingProvider{}

	engine := warmup.NewEngine(warmup.EngineConfig{
		Campaigns: campaigns,
		Contacts:  contacts,
		SendLog:   sendLog,
		Events:    events,
		Provider:  p,
		Logger:    logger,
	})

	w := New(engine, campaigns, logger, DefaultConfig())
	t.Cleanup(w.cancel)

	return &testEnv{
		worker:    w,
		campaigns: campaigns,
		contacts:  contacts,
		events:    events,
		users:     users,
		provider:  p,
	}
}

func (env *testEnv) createWarmingCampaign(t *testing.T, contactCount int) (*models.User, *models.Campaign) {
	t.Helper()

	u := &models.User{Email: "artist@example.com"}
	if err := env.users.Create(u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	for i := 0; i < contactCount; i++ {
		c := &models.Contact{UserID: u.ID, Email: fmt.Sprintf("fan%d@example.com", i)}
		if err := env.contacts.Create(c); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}
	}

	campaign := &models.Campaign{
		UserID:  u.ID,
		Subject: "New single out now",
		HTML:    "<p>Listen here</p>",
	}
	if err := env.campaigns.Create(campaign); err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}

	now := time.Now()
	campaign.WarmupEnabled = true
	campaign.WarmupCurrentDay = 1
	campaign.WarmupStartedAt = &now
	if err := env.campaigns.Update(campaign); err != nil {
		t.Fatalf("failed to update campaign: %v", err)
	}
	return u, campaign
}

func TestTickActiveWarmups(t *testing.T) {
	env := setupTestWorker(t)
	user, campaign := env.createWarmingCampaign(t, 70)

	env.worker.tickActiveWarmups()

	// 5% of 70 rounds to 4, and meeting the quota advances the day.
	if env.provider.sends != 4 {
		t.Errorf("provider sends = %d, want 4", env.provider.sends)
	}
	c, err := env.campaigns.GetByID(campaign.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to get campaign: %v", err)
	}
	if c.WarmupCurrentDay != 2 {
		t.Errorf("WarmupCurrentDay = %d, want 2", c.WarmupCurrentDay)
	}
}

func TestTickActiveWarmupsSkipsPaused(t *testing.T) {
	env := setupTestWorker(t)
	user, campaign := env.createWarmingCampaign(t, 70)

	campaign.WarmupPaused = true
	campaign.WarmupPauseReason = "manual"
	if err := env.campaigns.Update(campaign); err != nil {
		t.Fatalf("failed to update campaign: %v", err)
	}

	env.worker.tickActiveWarmups()

	if env.provider.sends != 0 {
		t.Errorf("provider sends = %d, want 0 for a paused campaign", env.provider.sends)
	}
	c, err := env.campaigns.GetByID(campaign.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to get campaign: %v", err)
	}
	if c.WarmupCurrentDay != 1 {
		t.Errorf("WarmupCurrentDay = %d, want 1", c.WarmupCurrentDay)
	}
}

func TestSweepHealthAutoPauses(t *testing.T) {
	env := setupTestWorker(t)
	user, campaign := env.createWarmingCampaign(t, 70)

	// A bounce rate above 5% classifies as critical.
	for i := 0; i < 100; i++ {
		typ := models.EventTypeSent
		if i < 10 {
			typ = models.EventTypeBounce
		}
		if err := env.events.Record(&models.EmailEvent{
			CampaignID: campaign.ID,
			Email:      fmt.Sprintf("fan%d@example.com", i),
			Type:       typ,
		}); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
	}

	env.worker.sweepHealth()

	c, err := env.campaigns.GetByID(campaign.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to get campaign: %v", err)
	}
	if !c.WarmupPaused {
		t.Fatal("campaign not paused after critical health sweep")
	}
	if c.WarmupPauseReason == "" {
		t.Error("pause reason not recorded")
	}

	// The paused campaign no longer ticks.
	env.worker.tickActiveWarmups()
	if env.provider.sends != 0 {
		t.Errorf("provider sends = %d, want 0 after auto-pause", env.provider.sends)
	}
}
