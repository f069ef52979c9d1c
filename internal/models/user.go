package models

import "time"

// User is an artist account. API access uses the per-user key.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
