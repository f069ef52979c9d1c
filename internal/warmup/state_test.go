package warmup

import (
	"testing"
	"time"

	"github.com/arkadyv/fangate/internal/models"
)

func TestStateOfNotStarted(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}

	s := StateOf(c)
	if s.Phase() != PhaseNotStarted {
		t.Errorf("Phase() = %v, want %v", s.Phase(), PhaseNotStarted)
	}
	if s.Day() != 0 {
		t.Errorf("Day() = %d, want 0", s.Day())
	}
}

func TestStateOfIgnoresStrayPauseFields(t *testing.T) {
	// A disabled warm-up with leftover pause fields must normalize to a clean
	// NotStarted state.
	c := &models.Campaign{
		WarmupEnabled:     false,
		WarmupPaused:      true,
		WarmupPauseReason: "stale",
	}

	s := StateOf(c)
	if s.IsPaused() {
		t.Error("IsPaused() = true for disabled warm-up")
	}
	if s.PauseReason() != "" {
		t.Errorf("PauseReason() = %q, want empty", s.PauseReason())
	}
}

func TestStateEnable(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}
	now := time.Now()

	s := StateOf(c)
	if err := s.Enable(now); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if s.Phase() != PhaseActive {
		t.Errorf("Phase() = %v, want %v", s.Phase(), PhaseActive)
	}
	if s.Day() != 1 {
		t.Errorf("Day() = %d, want 1", s.Day())
	}

	s.ApplyTo(c)
	if !c.WarmupEnabled || c.WarmupCurrentDay != 1 || c.WarmupStartedAt == nil {
		t.Errorf("ApplyTo() left campaign in unexpected shape: %+v", c)
	}
}

func TestStateEnableTwiceConflicts(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}

	s := StateOf(c)
	if err := s.Enable(time.Now()); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	s.ApplyTo(c)

	s2 := StateOf(c)
	err := s2.Enable(time.Now())
	if err == nil {
		t.Fatal("second Enable() error = nil, want conflict")
	}
	if _, ok := err.(*StateConflictError); !ok {
		t.Errorf("second Enable() error = %T, want *StateConflictError", err)
	}
	if s2.Day() != 1 {
		t.Errorf("Day() after failed Enable() = %d, want 1", s2.Day())
	}
}

func TestStateAdvanceToComplete(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}
	s := StateOf(c)
	if err := s.Enable(time.Now()); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	for d := 1; d <= ScheduleDays; d++ {
		if s.Day() != d {
			t.Fatalf("Day() = %d, want %d", s.Day(), d)
		}
		s.AdvanceDay()
	}

	if !s.IsComplete() {
		t.Error("IsComplete() = false after advancing past the final day")
	}

	// Advancing a completed warm-up is a no-op.
	day := s.Day()
	s.AdvanceDay()
	if s.Day() != day {
		t.Errorf("AdvanceDay() past completion changed day: %d -> %d", day, s.Day())
	}
}

func TestStateAdvanceWhilePausedIsNoop(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}
	s := StateOf(c)
	if err := s.Enable(time.Now()); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	s.Pause("bounce rate too high")
	s.AdvanceDay()
	if s.Day() != 1 {
		t.Errorf("Day() = %d, want 1 (paused campaigns stay at their day)", s.Day())
	}
}

func TestStatePauseIdempotent(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}
	s := StateOf(c)
	if err := s.Enable(time.Now()); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	s.Pause("first reason")
	s.Pause("second reason")

	if !s.IsPaused() {
		t.Error("IsPaused() = false after Pause()")
	}
	if s.PauseReason() != "second reason" {
		t.Errorf("PauseReason() = %q, want latest reason", s.PauseReason())
	}
}

func TestStateResume(t *testing.T) {
	c := &models.Campaign{Status: models.CampaignStatusDraft}
	s := StateOf(c)
	if err := s.Enable(time.Now()); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	s.Pause("paused")

	s.Resume()
	if s.IsPaused() {
		t.Error("IsPaused() = true after Resume()")
	}
	if s.PauseReason() != "" {
		t.Errorf("PauseReason() = %q, want empty", s.PauseReason())
	}
}

func TestStateRoundTrip(t *testing.T) {
	started := time.Now()
	c := &models.Campaign{
		Status:            models.CampaignStatusDraft,
		WarmupEnabled:     true,
		WarmupCurrentDay:  3,
		WarmupStartedAt:   &started,
		WarmupPaused:      true,
		WarmupPauseReason: "complaint rate",
	}

	s := StateOf(c)
	out := &models.Campaign{}
	s.ApplyTo(out)

	if out.WarmupCurrentDay != 3 || !out.WarmupPaused || out.WarmupPauseReason != "complaint rate" {
		t.Errorf("round trip changed state: %+v", out)
	}
}
