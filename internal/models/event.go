package models

import "time"

// Delivery event types, as reported by the email provider webhook.
const (
	EventTypeSent      = "sent"
	EventTypeBounce    = "bounce"
	EventTypeComplaint = "complaint"
)

// EmailEvent is a single delivery event ingested from the provider.
type EmailEvent struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventStats aggregates delivery events for a campaign. The warm-up health
// check consumes these counts; it never reads individual events.
type EventStats struct {
	TotalSent       int `json:"total_sent"`
	TotalBounced    int `json:"total_bounced"`
	TotalComplaints int `json:"total_complaints"`
}
