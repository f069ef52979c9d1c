package repository

import (
	"database/sql"
	"testing"

	"github.com/arkadyv/fangate/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with all migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Apply migrations
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT,
			api_key TEXT UNIQUE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS campaigns (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			subject TEXT NOT NULL DEFAULT '',
			html TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			warmup_enabled INTEGER NOT NULL DEFAULT 0,
			warmup_current_day INTEGER NOT NULL DEFAULT 0,
			warmup_started_at TIMESTAMP,
			warmup_paused INTEGER NOT NULL DEFAULT 0,
			warmup_pause_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			name TEXT,
			source TEXT NOT NULL DEFAULT 'gate',
			status TEXT NOT NULL DEFAULT 'subscribed',
			unsubscribe_token TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS send_log (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			contact_id TEXT NOT NULL REFERENCES contacts(id),
			email TEXT NOT NULL,
			status TEXT NOT NULL,
			provider_msg_id TEXT,
			error TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS email_events (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			type TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			t.Fatalf("migration failed: %v", err)
		}
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestUser inserts a user and returns it
func createTestUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	u := &models.User{Email: email, Name: "Test Artist"}
	if err := repo.Create(u); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// createTestCampaign inserts a draft campaign for a user and returns it
func createTestCampaign(t *testing.T, db *sql.DB, userID string) *models.Campaign {
	t.Helper()

	repo := NewCampaignRepository(db)
	c := &models.Campaign{
		UserID:  userID,
		Subject: "New single out now",
		HTML:    "<p>Listen here</p>",
	}
	if err := repo.Create(c); err != nil {
		t.Fatalf("failed to create test campaign: %v", err)
	}
	return c
}
