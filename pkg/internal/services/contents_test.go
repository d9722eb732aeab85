package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/kingtroga/health-takeaways/pkg/internal/testutil"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func countRows(t *testing.T, model any) int64 {
	t.Helper()

	var count int64
	if err := database.C.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}

func TestSaveContentCreatesText(t *testing.T) {
	testutil.SetupTestDB(t)

	strategy := Strategies[models.ContentTypeText]
	input := ContentInput{
		Title:      "  Sleep well  ",
		Body:       lo.ToPtr("Go to bed at the same time every night."),
		VideoURL:   lo.ToPtr("https://youtu.be/ignored"),
		IsFeatured: true,
	}
	if errs := strategy.Validate(&input); errs.HasErrors() {
		t.Fatalf("Unexpected validation errors: %v", errs)
	}

	item, err := SaveContent(models.Account{}, strategy, input, models.Content{})
	if err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	stored, err := GetContent(database.C, item.ID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if stored.Type != models.ContentTypeText || stored.Title != "Sleep well" {
		t.Errorf("Unexpected stored content %+v", stored)
	}
	if stored.VideoURL != nil {
		t.Errorf("Expected no video url on text, got %s", *stored.VideoURL)
	}
	if !stored.IsFeatured || stored.ViewCount != 0 {
		t.Errorf("Unexpected flags %+v", stored)
	}
	if stored.Poll != nil {
		t.Error("Expected no poll on text content")
	}
}

func TestSaveContentCreatesPoll(t *testing.T) {
	testutil.SetupTestDB(t)

	strategy := Strategies[models.ContentTypePoll]
	input := ContentInput{
		Title:    "Hydration",
		Question: "How much water do you drink?",
		Options: []OptionInput{
			{Text: "1 litre"},
			{Text: "2 litres"},
			{Text: ""},
			{Text: "3 litres", Delete: true},
		},
	}
	if errs := strategy.Validate(&input); errs.HasErrors() {
		t.Fatalf("Unexpected validation errors: %v", errs)
	}

	item, err := SaveContent(models.Account{}, strategy, input, models.Content{})
	if err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	stored, err := GetContent(database.C, item.ID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if stored.Poll == nil {
		t.Fatal("Expected a poll")
	}
	if stored.Poll.Question != "How much water do you drink?" {
		t.Errorf("Unexpected question %q", stored.Poll.Question)
	}
	texts := lo.Map(stored.Poll.Options, func(item models.PollOption, _ int) string { return item.OptionText })
	if len(texts) != 2 || texts[0] != "1 litre" || texts[1] != "2 litres" {
		t.Errorf("Unexpected options %v", texts)
	}
	if stored.Body != nil || stored.Image != nil || stored.VideoURL != nil {
		t.Errorf("Expected poll payload only, got %+v", stored)
	}
}

func TestSaveContentRollsBackPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if err := db.Callback().Create().Before("gorm:create").Register("test:fail_options", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "poll_options" {
			_ = tx.AddError(errors.New("option storage unavailable"))
		}
	}); err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	strategy := Strategies[models.ContentTypePoll]
	input := ContentInput{
		Title:    "Rollback",
		Question: "Will this stay?",
		Options:  []OptionInput{{Text: "Yes"}, {Text: "No"}},
	}

	if _, err := SaveContent(models.Account{}, strategy, input, models.Content{}); err == nil {
		t.Fatal("Expected SaveContent to fail")
	}

	if count := countRows(t, &models.Content{}); count != 0 {
		t.Errorf("Expected no content after rollback, got %d", count)
	}
	if count := countRows(t, &models.Poll{}); count != 0 {
		t.Errorf("Expected no poll after rollback, got %d", count)
	}
}

func TestSaveContentSyncsPollOptions(t *testing.T) {
	testutil.SetupTestDB(t)

	item := testutil.CreateTestPoll(t, "Sleep", "Hours per night?", "5", "6", "7")
	first := item.Poll.Options[0]
	if err := database.C.Model(&first).UpdateColumn("votes", 4).Error; err != nil {
		t.Fatalf("Failed to seed votes: %v", err)
	}

	stored, err := GetContent(database.C, item.ID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}

	input := InputFromContent(stored)
	input.Question = "Hours of sleep per night?"
	input.Options[0].Text = "Five"
	input.Options[1].Delete = true
	input.Options[2].Text = ""
	input.Options = append(input.Options, OptionInput{Text: "8"}, OptionInput{ID: 9999, Text: "9"})

	strategy := Strategies[models.ContentTypePoll]
	if errs := strategy.Validate(&input); errs.HasErrors() {
		t.Fatalf("Unexpected validation errors: %v", errs)
	}
	if _, err := SaveContent(models.Account{}, strategy, input, stored); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	updated, err := GetContent(database.C, item.ID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if updated.Poll.Question != "Hours of sleep per night?" {
		t.Errorf("Unexpected question %q", updated.Poll.Question)
	}

	texts := lo.Map(updated.Poll.Options, func(item models.PollOption, _ int) string { return item.OptionText })
	if len(texts) != 3 || texts[0] != "Five" || texts[1] != "8" || texts[2] != "9" {
		t.Fatalf("Unexpected options %v", texts)
	}
	if updated.Poll.Options[0].ID != first.ID || updated.Poll.Options[0].Votes != 4 {
		t.Errorf("Expected renamed option to keep id and votes, got %+v", updated.Poll.Options[0])
	}
	if updated.Poll.TotalVotes != 4 {
		t.Errorf("Expected 4 total votes, got %d", updated.Poll.TotalVotes)
	}
	if count := countRows(t, &models.Poll{}); count != 1 {
		t.Errorf("Expected the poll to be reused, got %d polls", count)
	}
}

func TestSaveContentCreatesMissingPoll(t *testing.T) {
	testutil.SetupTestDB(t)

	item := testutil.CreateTestContent(t, models.ContentTypePoll, "Legacy poll", false)

	strategy := Strategies[models.ContentTypePoll]
	input := ContentInput{
		Title:    "Legacy poll",
		Question: "Still here?",
		Options:  []OptionInput{{Text: "Yes"}, {Text: "No"}},
	}
	if _, err := SaveContent(models.Account{}, strategy, input, item); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	stored, err := GetContent(database.C, item.ID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if stored.Poll == nil || len(stored.Poll.Options) != 2 {
		t.Fatalf("Expected a poll with two options, got %+v", stored.Poll)
	}
}

func TestSaveContentKeepsViewCount(t *testing.T) {
	testutil.SetupTestDB(t)

	item := testutil.CreateTestContent(t, models.ContentTypeText, "Views", false)
	for i := 0; i < 3; i++ {
		if _, err := ViewContent(item.ID); err != nil {
			t.Fatalf("ViewContent failed: %v", err)
		}
	}

	// item still carries the view count it was loaded with.
	if _, err := SaveContent(models.Account{}, Strategies[models.ContentTypeText], ContentInput{Title: "Views edited"}, item); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	stored, _ := GetContent(database.C, item.ID)
	if stored.ViewCount != 3 {
		t.Errorf("Expected view count 3 after edit, got %d", stored.ViewCount)
	}
	if stored.CreatedAt.Unix() != item.CreatedAt.Unix() {
		t.Errorf("Expected created_at to stay %v, got %v", item.CreatedAt, stored.CreatedAt)
	}
}

func TestSaveContentAfterDelete(t *testing.T) {
	testutil.SetupTestDB(t)

	text := testutil.CreateTestContent(t, models.ContentTypeText, "Short lived", false)
	poll := testutil.CreateTestPoll(t, "Short poll", "Still there?", "Yes", "No")

	tests := []struct {
		name     string
		item     models.Content
		strategy ContentStrategy
		input    ContentInput
	}{
		{"text", text, Strategies[models.ContentTypeText], ContentInput{Title: "Edited"}},
		{"poll", poll, Strategies[models.ContentTypePoll], ContentInput{
			Title:    "Edited",
			Question: "Still there?",
			Options:  []OptionInput{{Text: "Yes"}, {Text: "No"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := GetContent(database.C, tt.item.ID)
			if err != nil {
				t.Fatalf("GetContent failed: %v", err)
			}
			if err := DeleteContent(loaded); err != nil {
				t.Fatalf("DeleteContent failed: %v", err)
			}

			if _, err := SaveContent(models.Account{}, tt.strategy, tt.input, loaded); !errors.Is(err, ErrContentNotFound) {
				t.Fatalf("Expected content not found, got %v", err)
			}
			if _, err := GetContent(database.C, tt.item.ID); !errors.Is(err, ErrContentNotFound) {
				t.Errorf("Expected the content to stay deleted, got %v", err)
			}
		})
	}

	if count := countRows(t, &models.Poll{}); count != 0 {
		t.Errorf("Expected no polls after the edit, got %d", count)
	}
	if count := countRows(t, &models.PollOption{}); count != 0 {
		t.Errorf("Expected no options after the edit, got %d", count)
	}
}

func TestDeleteContentCascades(t *testing.T) {
	testutil.SetupTestDB(t)

	doomed := testutil.CreateTestPoll(t, "Doomed", "Gone?", "Yes", "No")
	kept := testutil.CreateTestPoll(t, "Kept", "Here?", "Yes", "No", "Maybe")

	if err := DeleteContent(doomed); err != nil {
		t.Fatalf("DeleteContent failed: %v", err)
	}

	if _, err := GetContent(database.C, doomed.ID); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("Expected ErrContentNotFound, got %v", err)
	}
	if count := countRows(t, &models.Poll{}); count != 1 {
		t.Errorf("Expected 1 poll left, got %d", count)
	}
	if count := countRows(t, &models.PollOption{}); count != 3 {
		t.Errorf("Expected 3 options left, got %d", count)
	}
	if _, err := GetContent(database.C, kept.ID); err != nil {
		t.Errorf("Expected the other poll to survive, got %v", err)
	}
}

func TestViewContent(t *testing.T) {
	testutil.SetupTestDB(t)

	item := testutil.CreateTestContent(t, models.ContentTypeArticle, "Read me", false)

	viewed, err := ViewContent(item.ID)
	if err != nil {
		t.Fatalf("ViewContent failed: %v", err)
	}
	if viewed.ViewCount != 1 {
		t.Errorf("Expected view count 1, got %d", viewed.ViewCount)
	}

	if _, err := ViewContent(item.ID + 100); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("Expected ErrContentNotFound, got %v", err)
	}
}

func TestViewContentConcurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Let the viewers hit the database on separate connections.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(8)

	item := testutil.CreateTestContent(t, models.ContentTypeText, "Popular", true)

	const viewers = 20
	var wg sync.WaitGroup
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ViewContent(item.ID); err != nil {
				t.Errorf("ViewContent failed: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, _ := GetContent(database.C, item.ID)
	if stored.ViewCount != viewers {
		t.Errorf("Expected view count %d, got %d", viewers, stored.ViewCount)
	}
}

func TestVoteOption(t *testing.T) {
	testutil.SetupTestDB(t)

	poll := testutil.CreateTestPoll(t, "Breakfast", "Do you eat breakfast?", "Yes", "No")
	other := testutil.CreateTestPoll(t, "Lunch", "Do you eat lunch?", "Yes", "No")
	text := testutil.CreateTestContent(t, models.ContentTypeText, "Not a poll", false)

	voted, err := VoteOption(poll.ID, poll.Poll.Options[1].ID)
	if err != nil {
		t.Fatalf("VoteOption failed: %v", err)
	}
	if voted.Poll.Options[1].Votes != 1 || voted.Poll.TotalVotes != 1 {
		t.Errorf("Expected one vote, got %+v", voted.Poll)
	}

	tests := []struct {
		name      string
		contentID uint
		optionID  uint
		expected  error
	}{
		{"option of another poll", poll.ID, other.Poll.Options[0].ID, ErrOptionNotFound},
		{"not a poll", text.ID, poll.Poll.Options[0].ID, ErrNotAPoll},
		{"missing content", 9999, poll.Poll.Options[0].ID, ErrContentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VoteOption(tt.contentID, tt.optionID); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
