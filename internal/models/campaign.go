package models

import "time"

// Campaign statuses
const (
	CampaignStatusDraft = "draft"
	CampaignStatusSent  = "sent"
)

// Campaign represents an email campaign owned by an artist account.
// Warm-up state is persisted as flat columns; the warmup package derives
// a validated state value from them at the storage boundary.
type Campaign struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Subject string `json:"subject"`
	HTML    string `json:"html"` // compiled HTML body
	Status  string `json:"status"`

	WarmupEnabled     bool       `json:"warmup_enabled"`
	WarmupCurrentDay  int        `json:"warmup_current_day"`
	WarmupStartedAt   *time.Time `json:"warmup_started_at,omitempty"`
	WarmupPaused      bool       `json:"warmup_paused"`
	WarmupPauseReason string     `json:"warmup_pause_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CampaignListFilter for filtering campaigns
type CampaignListFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}
