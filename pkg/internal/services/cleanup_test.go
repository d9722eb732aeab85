package services

import (
	"testing"

	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/kingtroga/health-takeaways/pkg/internal/testutil"
)

func TestCleanupOrphanPolls(t *testing.T) {
	db := testutil.SetupTestDB(t)

	kept := testutil.CreateTestPoll(t, "Kept", "Still here?", "Yes", "No")
	orphan := testutil.CreateTestPoll(t, "Orphan", "Gone?", "Yes", "No")

	// Simulates a database that never enforced the foreign keys.
	if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		t.Fatalf("Failed to disable foreign keys: %v", err)
	}
	if err := db.Exec("DELETE FROM contents WHERE id = ?", orphan.ID).Error; err != nil {
		t.Fatalf("Failed to delete content: %v", err)
	}
	if err := db.Create(&models.PollOption{OptionText: "Stray", PollID: 9999}).Error; err != nil {
		t.Fatalf("Failed to create stray option: %v", err)
	}

	removed, err := CleanupOrphanPolls(db)
	if err != nil {
		t.Fatalf("CleanupOrphanPolls failed: %v", err)
	}
	if removed != 4 {
		t.Errorf("Expected 4 rows removed, got %d", removed)
	}

	if count := countRows(t, &models.Poll{}); count != 1 {
		t.Errorf("Expected 1 poll left, got %d", count)
	}
	if count := countRows(t, &models.PollOption{}); count != 2 {
		t.Errorf("Expected 2 options left, got %d", count)
	}

	stored, err := GetContent(db, kept.ID)
	if err != nil || stored.Poll == nil || len(stored.Poll.Options) != 2 {
		t.Errorf("Expected the kept poll untouched, got %+v (%v)", stored.Poll, err)
	}

	removed, err = CleanupOrphanPolls(db)
	if err != nil || removed != 0 {
		t.Errorf("Expected nothing left to clean, got %d (%v)", removed, err)
	}
}
