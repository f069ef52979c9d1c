package warmup

import (
	"time"

	"github.com/arkadyv/fangate/internal/models"
)

// Phase is the warm-up lifecycle position.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseActive     Phase = "active"
	PhaseComplete   Phase = "complete"
)

// State is the warm-up state machine embedded in a campaign:
// NotStarted -> Active(day 1..7) -> Complete, with Paused as an orthogonal
// flag overlay on Active. It is built from the flat persisted columns and
// written back through ApplyTo, so illegal field combinations (a pause
// reason on a disabled warm-up, a day without enablement) cannot circulate
// inside the engine.
type State struct {
	phase       Phase
	day         int
	startedAt   *time.Time
	paused      bool
	pauseReason string
}

// StateOf derives the warm-up state from a campaign's persisted fields.
func StateOf(c *models.Campaign) State {
	if !c.WarmupEnabled || c.WarmupCurrentDay < 1 {
		return State{phase: PhaseNotStarted}
	}

	s := State{
		day:       c.WarmupCurrentDay,
		startedAt: c.WarmupStartedAt,
	}
	if c.WarmupCurrentDay > ScheduleDays {
		s.phase = PhaseComplete
		return s
	}

	s.phase = PhaseActive
	s.paused = c.WarmupPaused
	if c.WarmupPaused {
		s.pauseReason = c.WarmupPauseReason
	}
	return s
}

// ApplyTo writes the state back to the campaign's flat fields.
func (s State) ApplyTo(c *models.Campaign) {
	switch s.phase {
	case PhaseNotStarted:
		c.WarmupEnabled = false
		c.WarmupCurrentDay = 0
		c.WarmupStartedAt = nil
		c.WarmupPaused = false
		c.WarmupPauseReason = ""
	default:
		c.WarmupEnabled = true
		c.WarmupCurrentDay = s.day
		c.WarmupStartedAt = s.startedAt
		c.WarmupPaused = s.paused
		c.WarmupPauseReason = s.pauseReason
	}
}

// Enable starts the warm-up at day 1. It conflicts if the warm-up already
// started; completed warm-ups stay completed.
func (s *State) Enable(now time.Time) error {
	if s.phase != PhaseNotStarted {
		return &StateConflictError{Reason: "warm-up already started"}
	}
	started := now
	s.phase = PhaseActive
	s.day = 1
	s.startedAt = &started
	return nil
}

// AdvanceDay moves to the next warm-up day. No-op when not active or paused;
// crossing the final day transitions to Complete.
func (s *State) AdvanceDay() {
	if s.phase != PhaseActive || s.paused {
		return
	}
	s.day++
	if s.day > ScheduleDays {
		s.phase = PhaseComplete
		s.paused = false
		s.pauseReason = ""
	}
}

// Pause halts sending. Idempotent; the latest reason wins.
func (s *State) Pause(reason string) {
	if s.phase != PhaseActive {
		return
	}
	s.paused = true
	s.pauseReason = reason
}

// Resume clears the pause flag.
func (s *State) Resume() {
	if s.phase != PhaseActive {
		return
	}
	s.paused = false
	s.pauseReason = ""
}

// Phase returns the lifecycle phase.
func (s State) Phase() Phase { return s.phase }

// Day returns the current 1-based warm-up day, 0 before start.
func (s State) Day() int { return s.day }

// StartedAt returns when the warm-up was enabled, nil before start.
func (s State) StartedAt() *time.Time { return s.startedAt }

// IsComplete reports whether the schedule is exhausted.
func (s State) IsComplete() bool { return s.phase == PhaseComplete }

// IsPaused reports the pause overlay.
func (s State) IsPaused() bool { return s.paused }

// PauseReason returns the stored pause reason, empty when not paused.
func (s State) PauseReason() string { return s.pauseReason }
