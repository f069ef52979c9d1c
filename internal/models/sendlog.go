package models

import "time"

// Send log statuses
const (
	SendLogStatusSent   = "sent"
	SendLogStatusFailed = "failed"
)

// SendLogEntry records one send attempt for a campaign contact. Entries with
// status "sent" are the source of truth for already-sent exclusion; failed
// entries are kept for the audit trail only.
type SendLogEntry struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaign_id"`
	ContactID     string    `json:"contact_id"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	ProviderMsgID string    `json:"provider_msg_id,omitempty"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
