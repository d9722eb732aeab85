package services

import (
	"time"

	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CleanupOrphanPolls removes polls whose content is gone and options whose
// poll is gone. Such rows only appear on databases that do not enforce the
// declared foreign keys.
func CleanupOrphanPolls(tx *gorm.DB) (int64, error) {
	var removed int64
	err := tx.Transaction(func(tx *gorm.DB) error {
		polls := tx.Where("content_id NOT IN (?)", tx.Model(&models.Content{}).Select("id")).
			Delete(&models.Poll{})
		if polls.Error != nil {
			return polls.Error
		}

		options := tx.Where("poll_id NOT IN (?)", tx.Model(&models.Poll{}).Select("id")).
			Delete(&models.PollOption{})
		if options.Error != nil {
			return options.Error
		}

		removed = polls.RowsAffected + options.RowsAffected
		return nil
	})
	return removed, err
}

func DoAutoDatabaseCleanup() {
	log.Debug().Time("now", time.Now()).Msg("Now cleaning up entire database...")

	count, err := CleanupOrphanPolls(database.C)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when running database cleanup...")
		return
	}

	if count > 0 {
		InvalidateContentSummary()
	}
	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
