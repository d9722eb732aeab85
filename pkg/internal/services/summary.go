package services

import (
	"context"
	"sync/atomic"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	localCache "github.com/kingtroga/health-takeaways/pkg/internal/cache"
	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const contentSummaryCacheKey = "content-summary"

// contentSummaryGeneration moves on every invalidation. A summary counted
// under an older generation is never left in the cache.
var contentSummaryGeneration atomic.Uint64

type ContentSummary struct {
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

func getSummaryMarshaler() *marshaler.Marshaler {
	if localCache.S == nil || viper.GetDuration("cache.summary_ttl") <= 0 {
		return nil
	}
	return marshaler.New(cache.New[any](localCache.S))
}

// GetContentSummary counts the stored contents in total and per type. Every
// type is present in Counts, zero when nothing of it exists.
func GetContentSummary() (ContentSummary, error) {
	ctx := context.Background()
	marshal := getSummaryMarshaler()
	if marshal != nil {
		if cached, err := marshal.Get(ctx, contentSummaryCacheKey, new(ContentSummary)); err == nil {
			return *cached.(*ContentSummary), nil
		}
	}

	generation := contentSummaryGeneration.Load()

	var rows []struct {
		Type  string
		Count int64
	}
	if err := database.C.Model(&models.Content{}).
		Select("type, COUNT(id) as count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return ContentSummary{}, err
	}

	summary := ContentSummary{Counts: make(map[string]int64, len(models.ContentTypes))}
	for _, t := range models.ContentTypes {
		summary.Counts[t] = 0
	}
	for _, row := range rows {
		summary.Counts[row.Type] += row.Count
		summary.Total += row.Count
	}

	if marshal != nil {
		cacheContentSummary(ctx, marshal, generation, summary)
	}

	return summary, nil
}

// cacheContentSummary stores a summary counted under generation, unless a
// write invalidated the summary since then.
func cacheContentSummary(ctx context.Context, marshal *marshaler.Marshaler, generation uint64, summary ContentSummary) {
	if contentSummaryGeneration.Load() != generation {
		return
	}
	_ = marshal.Set(
		ctx,
		contentSummaryCacheKey,
		summary,
		store.WithExpiration(viper.GetDuration("cache.summary_ttl")),
		store.WithTags([]string{contentSummaryCacheKey}),
	)
	// An invalidation that landed during the set wins.
	if contentSummaryGeneration.Load() != generation {
		_ = marshal.Delete(ctx, contentSummaryCacheKey)
	}
}

func InvalidateContentSummary() {
	contentSummaryGeneration.Add(1)

	marshal := getSummaryMarshaler()
	if marshal == nil {
		return
	}
	if err := marshal.Delete(context.Background(), contentSummaryCacheKey); err != nil {
		log.Warn().Err(err).Msg("Unable to evict the content summary cache...")
	}
}

func ListFeaturedContent(take int) ([]models.Content, error) {
	return ListContent(FilterContentFeatured(database.C), take, 0, "created_at DESC, id DESC")
}

func ListLatestContent(take int) ([]models.Content, error) {
	return ListContent(database.C, take, 0, "created_at DESC, id DESC")
}
