package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrUnsupportedType = errors.New("unsupported content type")
)

func PreloadContent(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Poll").Preload("Poll.Options", orderPollOptions)
}

func GetContent(tx *gorm.DB, id uint) (models.Content, error) {
	var item models.Content
	if err := PreloadContent(tx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, ErrContentNotFound
		}
		return item, err
	}

	if item.Poll != nil {
		item.Poll.TotalVotes = CountPollVotes(*item.Poll)
	}

	return item, nil
}

// ViewContent counts one view of the content and returns it afterwards.
// The counter is bumped in a single statement so concurrent views are
// never lost.
func ViewContent(id uint) (models.Content, error) {
	tx := database.C.Model(&models.Content{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if tx.Error != nil {
		return models.Content{}, fmt.Errorf("failed to count view: %w", tx.Error)
	} else if tx.RowsAffected == 0 {
		return models.Content{}, ErrContentNotFound
	}

	return GetContent(database.C, id)
}

// SaveContent applies the submitted input through the strategy and writes
// the result. Pass a zero Content to create one. Poll contents are written
// together with their poll and options in one transaction.
func SaveContent(user models.Account, strategy ContentStrategy, in ContentInput, item models.Content) (models.Content, error) {
	strategy.Apply(in, &item)
	if viper.GetBool("content.detect_language") {
		item.Language = DetectLanguage(contentLanguageSource(item.Title, item.Excerpt, item.Body))
	}

	log.Debug().Uint("user", user.ID).Str("type", item.Type).Uint("id", item.ID).Msg("Saving content...")
	start := time.Now()

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if item.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create content: %w", err)
			}
		} else {
			// An edit never inserts, so a content deleted meanwhile stays deleted.
			update := tx.Model(&item).
				Select("*").
				Omit(clause.Associations, "id", "view_count", "created_at").
				Updates(&item)
			if update.Error != nil {
				return fmt.Errorf("failed to update content: %w", update.Error)
			} else if update.RowsAffected == 0 {
				return ErrContentNotFound
			}
		}
		if strategy.WithPoll {
			return savePoll(tx, &item, in)
		}
		return nil
	})
	if err != nil {
		return item, err
	}

	InvalidateContentSummary()

	log.Debug().Uint("id", item.ID).Dur("elapsed", time.Since(start)).Msg("The content is saved.")
	return item, nil
}

// DeleteContent removes the content together with its poll and options.
func DeleteContent(item models.Content) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var pollIdx []uint
		if err := tx.Model(&models.Poll{}).Where("content_id = ?", item.ID).Pluck("id", &pollIdx).Error; err != nil {
			return err
		}
		if len(pollIdx) > 0 {
			if err := tx.Where("poll_id IN ?", pollIdx).Delete(&models.PollOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", pollIdx).Delete(&models.Poll{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Content{}, item.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	InvalidateContentSummary()
	return nil
}
