package models

import "github.com/samber/lo"

const (
	ContentTypeText    = "text"
	ContentTypeArticle = "article"
	ContentTypeImage   = "image"
	ContentTypeVideo   = "video"
	ContentTypePoll    = "poll"
)

// ContentTypes lists every value a stored Content may carry, in display order.
// The image type has no authoring path but stays valid for existing rows.
var ContentTypes = []string{
	ContentTypeText,
	ContentTypeArticle,
	ContentTypeImage,
	ContentTypeVideo,
	ContentTypePoll,
}

func IsContentType(t string) bool {
	return lo.Contains(ContentTypes, t)
}

type Content struct {
	BaseModel

	Title      string  `json:"title" gorm:"size:255"`
	Type       string  `json:"content_type" gorm:"size:20;index"`
	Excerpt    *string `json:"excerpt"`
	Body       *string `json:"body"`
	Image      *string `json:"image"`
	Thumbnail  *string `json:"thumbnail"`
	VideoURL   *string `json:"video_url"`
	Language   string  `json:"language" gorm:"size:8"`
	ViewCount  uint    `json:"view_count" gorm:"not null;default:0"`
	IsFeatured bool    `json:"is_featured" gorm:"index"`

	Poll *Poll `json:"poll,omitempty" gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE"`
}
