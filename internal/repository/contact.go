package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arkadyv/fangate/internal/models"
	"github.com/google/uuid"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create creates a new contact
func (r *ContactRepository) Create(c *models.Contact) error {
	c.ID = uuid.New().String()
	if c.UnsubscribeToken == "" {
		c.UnsubscribeToken = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.ContactStatusSubscribed
	}
	c.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO contacts (id, user_id, email, name, source, status, unsubscribe_token, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Email, c.Name, c.Source, c.Status, c.UnsubscribeToken, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// CountSubscribed returns the number of subscribed contacts for a user
func (r *ContactRepository) CountSubscribed(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM contacts WHERE user_id = ? AND status = ?",
		userID, models.ContactStatusSubscribed,
	).Scan(&count)
	return count, err
}

// GetUnsentForCampaign returns subscribed contacts that have no successful
// send recorded for the campaign, in ascending id order so retried ticks see
// a stable selection, truncated to limit.
func (r *ContactRepository) GetUnsentForCampaign(userID, campaignID string, limit int) ([]models.Contact, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.user_id, c.email, c.name, c.source, c.status, c.unsubscribe_token, c.created_at
		FROM contacts c
		WHERE c.user_id = ? AND c.status = ?
		AND NOT EXISTS (
			SELECT 1 FROM send_log sl
			WHERE sl.campaign_id = ? AND sl.contact_id = c.id AND sl.status = ?
		)
		ORDER BY c.id ASC
		LIMIT ?`,
		userID, models.ContactStatusSubscribed, campaignID, models.SendLogStatusSent, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		var name sql.NullString
		err := rows.Scan(&c.ID, &c.UserID, &c.Email, &name, &c.Source, &c.Status, &c.UnsubscribeToken, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		if name.Valid {
			c.Name = name.String
		}
		contacts = append(contacts, c)
	}

	return contacts, nil
}

// UpdateStatus changes a contact's subscription status
func (r *ContactRepository) UpdateStatus(id, status string) error {
	_, err := r.db.Exec("UPDATE contacts SET status = ? WHERE id = ?", status, id)
	return err
}
