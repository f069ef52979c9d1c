package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arkadyv/fangate/internal/models"
	"github.com/google/uuid"
)

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new draft campaign
func (r *CampaignRepository) Create(c *models.Campaign) error {
	c.ID = uuid.New().String()
	c.Status = models.CampaignStatusDraft
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO campaigns (id, user_id, subject, html, status, warmup_enabled, warmup_current_day, warmup_started_at, warmup_paused, warmup_pause_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Subject, c.HTML, c.Status, c.WarmupEnabled, c.WarmupCurrentDay, c.WarmupStartedAt, c.WarmupPaused, c.WarmupPauseReason, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByID returns a campaign scoped to its owning user
func (r *CampaignRepository) GetByID(id, userID string) (*models.Campaign, error) {
	c := &models.Campaign{}
	var startedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, user_id, subject, html, status, warmup_enabled, warmup_current_day, warmup_started_at, warmup_paused, warmup_pause_reason, created_at, updated_at
		FROM campaigns WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Subject, &c.HTML, &c.Status, &c.WarmupEnabled, &c.WarmupCurrentDay, &startedAt, &c.WarmupPaused, &c.WarmupPauseReason, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if startedAt.Valid {
		c.WarmupStartedAt = &startedAt.Time
	}
	return c, nil
}

// Update replaces the whole campaign record (last writer wins)
func (r *CampaignRepository) Update(c *models.Campaign) error {
	c.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE campaigns SET subject = ?, html = ?, status = ?, warmup_enabled = ?, warmup_current_day = ?, warmup_started_at = ?, warmup_paused = ?, warmup_pause_reason = ?, updated_at = ?
		WHERE id = ?`,
		c.Subject, c.HTML, c.Status, c.WarmupEnabled, c.WarmupCurrentDay, c.WarmupStartedAt, c.WarmupPaused, c.WarmupPauseReason, c.UpdatedAt, c.ID,
	)
	return err
}

// List returns campaigns for a user with optional filtering
func (r *CampaignRepository) List(filter models.CampaignListFilter) ([]models.Campaign, int, error) {
	countQuery := "SELECT COUNT(*) FROM campaigns WHERE user_id = ?"
	args := []any{filter.UserID}

	if filter.Status != "" {
		countQuery += " AND status = ?"
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, subject, html, status, warmup_enabled, warmup_current_day, warmup_started_at, warmup_paused, warmup_pause_reason, created_at, updated_at
		FROM campaigns WHERE user_id = ?`

	args = []any{filter.UserID}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		var startedAt sql.NullTime
		err := rows.Scan(&c.ID, &c.UserID, &c.Subject, &c.HTML, &c.Status, &c.WarmupEnabled, &c.WarmupCurrentDay, &startedAt, &c.WarmupPaused, &c.WarmupPauseReason, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		if startedAt.Valid {
			c.WarmupStartedAt = &startedAt.Time
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, total, nil
}

// ListActiveWarmups returns draft campaigns with warm-up enabled, not paused
// and not yet past the final schedule day. The worker ticks each of these.
func (r *CampaignRepository) ListActiveWarmups(maxDay int) ([]models.Campaign, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, subject, html, status, warmup_enabled, warmup_current_day, warmup_started_at, warmup_paused, warmup_pause_reason, created_at, updated_at
		FROM campaigns
		WHERE status = ? AND warmup_enabled = 1 AND warmup_paused = 0 AND warmup_current_day <= ?
		ORDER BY warmup_started_at`, models.CampaignStatusDraft, maxDay,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		var startedAt sql.NullTime
		err := rows.Scan(&c.ID, &c.UserID, &c.Subject, &c.HTML, &c.Status, &c.WarmupEnabled, &c.WarmupCurrentDay, &startedAt, &c.WarmupPaused, &c.WarmupPauseReason, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if startedAt.Valid {
			c.WarmupStartedAt = &startedAt.Time
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, nil
}

// ListWarmupEnabled returns campaigns with warm-up enabled regardless of
// pause state, for the periodic health sweep.
func (r *CampaignRepository) ListWarmupEnabled() ([]models.Campaign, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, subject, html, status, warmup_enabled, warmup_current_day, warmup_started_at, warmup_paused, warmup_pause_reason, created_at, updated_at
		FROM campaigns
		WHERE warmup_enabled = 1
		ORDER BY warmup_started_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		var startedAt sql.NullTime
		err := rows.Scan(&c.ID, &c.UserID, &c.Subject, &c.HTML, &c.Status, &c.WarmupEnabled, &c.WarmupCurrentDay, &startedAt, &c.WarmupPaused, &c.WarmupPauseReason, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if startedAt.Valid {
			c.WarmupStartedAt = &startedAt.Time
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, nil
}
