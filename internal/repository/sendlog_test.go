package repository

import (
	"fmt"
	"testing"

	"github.com/arkadyv/fangate/internal/models"
)

func TestSendLogRepository_CreateAndCount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "artist@example.com")
	campaign := createTestCampaign(t, db, user.ID)

	contacts := NewContactRepository(db)
	repo := NewSendLogRepository(db)

	for i := 0; i < 4; i++ {
		c := &models.Contact{UserID: user.ID, Email: fmt.Sprintf("fan%d@example.com", i)}
		if err := contacts.Create(c); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}

		e := &models.SendLogEntry{
			CampaignID: campaign.ID,
			ContactID:  c.ID,
			Email:      c.Email,
			Status:     models.SendLogStatusSent,
		}
		if i == 3 {
			e.Status = models.SendLogStatusFailed
			e.Error = "mailbox unavailable"
		} else {
			e.ProviderMsgID = fmt.Sprintf("msg-%d", i)
		}
		if err := repo.Create(e); err != nil {
			t.Fatalf("failed to create send log entry: %v", err)
		}
		if e.ID == "" {
			t.Error("expected ID to be set")
		}
	}

	// Only successful sends count toward progress.
	count, err := repo.CountSent(campaign.ID)
	if err != nil {
		t.Fatalf("failed to count sent: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 sent, got %d", count)
	}
}

func TestSendLogRepository_ListForCampaign(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "artist@example.com")
	campaign := createTestCampaign(t, db, user.ID)

	contacts := NewContactRepository(db)
	repo := NewSendLogRepository(db)

	c := &models.Contact{UserID: user.ID, Email: "fan@example.com"}
	if err := contacts.Create(c); err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	for i := 0; i < 3; i++ {
		e := &models.SendLogEntry{
			CampaignID: campaign.ID,
			ContactID:  c.ID,
			Email:      c.Email,
			Status:     models.SendLogStatusFailed,
			Error:      "timeout",
		}
		if err := repo.Create(e); err != nil {
			t.Fatalf("failed to create send log entry: %v", err)
		}
	}

	entries, err := repo.ListForCampaign(campaign.ID, 2, 0)
	if err != nil {
		t.Fatalf("failed to list send log: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Error != "timeout" {
			t.Errorf("expected error 'timeout', got '%s'", e.Error)
		}
	}
}
