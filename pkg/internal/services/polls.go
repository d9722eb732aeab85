package services

import (
	"errors"
	"fmt"

	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotAPoll       = errors.New("this content is not a poll")
	ErrOptionNotFound = errors.New("option does not belong to this poll")
)

func orderPollOptions(tx *gorm.DB) *gorm.DB {
	return tx.Order("id ASC")
}

// CountPollVotes sums the votes of every option of the poll.
func CountPollVotes(poll models.Poll) uint {
	return lo.SumBy(poll.Options, func(item models.PollOption) uint {
		return item.Votes
	})
}

// savePoll writes the poll half of a poll content inside tx. A poll content
// that has no poll row yet (legacy data) gets one here.
func savePoll(tx *gorm.DB, item *models.Content, in ContentInput) error {
	var poll models.Poll
	if err := tx.Where("content_id = ?", item.ID).First(&poll).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load poll: %w", err)
		}
		poll = models.Poll{ContentID: item.ID}
	}

	poll.Question = in.Question
	if err := tx.Omit(clause.Associations).Save(&poll).Error; err != nil {
		return fmt.Errorf("failed to save poll: %w", err)
	}

	options, err := syncPollOptions(tx, poll.ID, in.Options)
	if err != nil {
		return err
	}

	poll.Options = options
	poll.TotalVotes = CountPollVotes(poll)
	item.Poll = &poll
	return nil
}

// syncPollOptions makes the stored options of a poll match the submitted
// rows. Rows without a known id are inserted, known rows get their text
// updated, and every stored option that is not kept is deleted. Blank rows
// and rows marked for deletion are never kept.
func syncPollOptions(tx *gorm.DB, pollID uint, inputs []OptionInput) ([]models.PollOption, error) {
	var current []models.PollOption
	if err := tx.Where("poll_id = ?", pollID).Find(&current).Error; err != nil {
		return nil, fmt.Errorf("failed to load poll options: %w", err)
	}
	stored := lo.KeyBy(current, func(item models.PollOption) uint {
		return item.ID
	})

	kept := make(map[uint]bool)
	for _, input := range inputs {
		if input.Delete || len(input.Text) == 0 {
			continue
		}

		existing, known := stored[input.ID]
		if !known || kept[input.ID] {
			option := models.PollOption{PollID: pollID, OptionText: input.Text}
			if err := tx.Create(&option).Error; err != nil {
				return nil, fmt.Errorf("failed to create poll option: %w", err)
			}
			continue
		}

		kept[input.ID] = true
		if existing.OptionText != input.Text {
			if err := tx.Model(&existing).UpdateColumn("option_text", input.Text).Error; err != nil {
				return nil, fmt.Errorf("failed to update poll option: %w", err)
			}
		}
	}

	removed := lo.FilterMap(current, func(item models.PollOption, _ int) (uint, bool) {
		return item.ID, !kept[item.ID]
	})
	if len(removed) > 0 {
		if err := tx.Where("id IN ?", removed).Delete(&models.PollOption{}).Error; err != nil {
			return nil, fmt.Errorf("failed to delete poll options: %w", err)
		}
	}

	var options []models.PollOption
	if err := orderPollOptions(tx.Where("poll_id = ?", pollID)).Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to reload poll options: %w", err)
	}
	return options, nil
}

// VoteOption adds one vote to an option of the poll carried by the content.
func VoteOption(contentID, optionID uint) (models.Content, error) {
	item, err := GetContent(database.C, contentID)
	if err != nil {
		return item, err
	}
	if item.Type != models.ContentTypePoll || item.Poll == nil {
		return item, ErrNotAPoll
	}

	tx := database.C.Model(&models.PollOption{}).
		Where("id = ? AND poll_id = ?", optionID, item.Poll.ID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if tx.Error != nil {
		return item, fmt.Errorf("failed to record vote: %w", tx.Error)
	} else if tx.RowsAffected == 0 {
		return item, ErrOptionNotFound
	}

	log.Debug().Uint("content", contentID).Uint("option", optionID).Msg("A vote was recorded.")
	return GetContent(database.C, contentID)
}
