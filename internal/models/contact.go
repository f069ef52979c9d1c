package models

import "time"

// Contact statuses
const (
	ContactStatusSubscribed   = "subscribed"
	ContactStatusUnsubscribed = "unsubscribed"
	ContactStatusBounced      = "bounced"
)

// Contact represents a fan email address collected through a download gate
// or a platform import.
type Contact struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	Source           string    `json:"source"` // gate, import, api
	Status           string    `json:"status"`
	UnsubscribeToken string    `json:"unsubscribe_token"`
	CreatedAt        time.Time `json:"created_at"`
}
