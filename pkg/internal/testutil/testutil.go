package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSessionSecret = "test-session-secret"

// SetupTestDB points database.C at a fresh migrated sqlite file and resets
// the configuration once the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "takeaways.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigration(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	viper.Set("security.session_secret", TestSessionSecret)
	previous := database.C
	database.C = db
	t.Cleanup(func() {
		database.C = previous
		viper.Reset()
		_ = sqlDB.Close()
	})

	return db
}

func CreateTestAccount(t *testing.T, name, email, password string) models.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	account := models.Account{Name: name, Email: email, Password: string(hash)}
	if err := database.C.Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return account
}

func CreateTestContent(t *testing.T, contentType, title string, featured bool) models.Content {
	t.Helper()

	body := fmt.Sprintf("Body of %s", title)
	item := models.Content{
		Title:      title,
		Type:       contentType,
		IsFeatured: featured,
	}
	if contentType == models.ContentTypeText || contentType == models.ContentTypeArticle {
		item.Body = &body
	}
	if err := database.C.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create test content: %v", err)
	}
	return item
}

// CreateTestPoll stores a poll content with its question and options.
func CreateTestPoll(t *testing.T, title, question string, options ...string) models.Content {
	t.Helper()

	item := CreateTestContent(t, models.ContentTypePoll, title, false)
	poll := models.Poll{Question: question, ContentID: item.ID}
	for _, text := range options {
		poll.Options = append(poll.Options, models.PollOption{OptionText: text})
	}
	if err := database.C.Create(&poll).Error; err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	item.Poll = &poll
	return item
}
