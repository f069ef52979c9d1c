package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arkadyv/fangate/internal/models"
	"github.com/google/uuid"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Record stores a delivery event ingested from the provider webhook
func (r *EventRepository) Record(e *models.EmailEvent) error {
	e.ID = uuid.New().String()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO email_events (id, campaign_id, email, type, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CampaignID, e.Email, e.Type, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record email event: %w", err)
	}
	return nil
}

// GetStatsForCampaign aggregates delivery events for a campaign
func (r *EventRepository) GetStatsForCampaign(campaignID string) (models.EventStats, error) {
	var stats models.EventStats
	err := r.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0)
		FROM email_events WHERE campaign_id = ?`,
		models.EventTypeSent, models.EventTypeBounce, models.EventTypeComplaint, campaignID,
	).Scan(&stats.TotalSent, &stats.TotalBounced, &stats.TotalComplaints)

	if err == sql.ErrNoRows {
		return models.EventStats{}, nil
	}
	return stats, err
}
