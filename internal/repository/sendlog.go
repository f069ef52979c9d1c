package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arkadyv/fangate/internal/models"
	"github.com/google/uuid"
)

type SendLogRepository struct {
	db *sql.DB
}

func NewSendLogRepository(db *sql.DB) *SendLogRepository {
	return &SendLogRepository{db: db}
}

// Create records one send attempt outcome
func (r *SendLogRepository) Create(e *models.SendLogEntry) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO send_log (id, campaign_id, contact_id, email, status, provider_msg_id, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CampaignID, e.ContactID, e.Email, e.Status, e.ProviderMsgID, e.Error, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create send log entry: %w", err)
	}
	return nil
}

// CountSent returns the number of successful sends recorded for a campaign
func (r *SendLogRepository) CountSent(campaignID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM send_log WHERE campaign_id = ? AND status = ?",
		campaignID, models.SendLogStatusSent,
	).Scan(&count)
	return count, err
}

// ListForCampaign returns send log entries for a campaign, newest first
func (r *SendLogRepository) ListForCampaign(campaignID string, limit, offset int) ([]models.SendLogEntry, error) {
	query := `
		SELECT id, campaign_id, contact_id, email, status, provider_msg_id, error, created_at
		FROM send_log WHERE campaign_id = ?
		ORDER BY created_at DESC`
	args := []any{campaignID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.SendLogEntry{}
	for rows.Next() {
		var e models.SendLogEntry
		var msgID, sendErr sql.NullString
		err := rows.Scan(&e.ID, &e.CampaignID, &e.ContactID, &e.Email, &e.Status, &msgID, &sendErr, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		if msgID.Valid {
			e.ProviderMsgID = msgID.String
		}
		if sendErr.Valid {
			e.Error = sendErr.String
		}
		entries = append(entries, e)
	}

	return entries, nil
}
