package services

import (
	"fmt"
	"strings"

	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/samber/lo"
)

const (
	MinPollOptions   = 2
	MaxPollOptions   = 8
	ExtraPollOptions = 3
)

// ContentInput is the submitted form of any authorable content type. Each
// strategy reads only the fields it accepts, so anything else in a request
// (including a forged content type) has no effect.
type ContentInput struct {
	Title          string        `json:"title" form:"title" validate:"required,max=255"`
	Excerpt        *string       `json:"excerpt" form:"excerpt"`
	Body           *string       `json:"body" form:"body"`
	VideoURL       *string       `json:"video_url" form:"video_url" validate:"omitempty,http_url,max=200"`
	IsFeatured     bool          `json:"is_featured" form:"is_featured"`
	ImageClear     bool          `json:"image_clear" form:"image_clear"`
	ThumbnailClear bool          `json:"thumbnail_clear" form:"thumbnail_clear"`
	Question       string        `json:"question" form:"question" validate:"required,max=255"`
	Options        []OptionInput `json:"options" form:"options"`

	// Set from uploads once the media store accepted them.
	Image     *string `json:"image,omitempty" form:"-"`
	Thumbnail *string `json:"thumbnail,omitempty" form:"-"`
}

type OptionInput struct {
	ID     uint   `json:"id" form:"id"`
	Text   string `json:"option_text" form:"option_text"`
	Delete bool   `json:"delete" form:"delete"`
}

// Normalize trims every text value and turns blank optional values into nil.
func (v *ContentInput) Normalize() {
	v.Title = strings.TrimSpace(v.Title)
	v.Question = strings.TrimSpace(v.Question)
	v.Excerpt = trimOptional(v.Excerpt)
	v.Body = trimOptional(v.Body)
	v.VideoURL = trimOptional(v.VideoURL)
	for idx := range v.Options {
		v.Options[idx].Text = strings.TrimSpace(v.Options[idx].Text)
	}
}

// ActiveOptions are the option rows that will exist after saving: blank
// rows and rows marked for deletion are dropped.
func (v *ContentInput) ActiveOptions() []OptionInput {
	return lo.Filter(v.Options, func(item OptionInput, _ int) bool {
		return !item.Delete && len(item.Text) > 0
	})
}

func trimOptional(in *string) *string {
	if in == nil {
		return nil
	}
	out := strings.TrimSpace(*in)
	if len(out) == 0 {
		return nil
	}
	return &out
}

// ContentStrategy describes how one authorable content type is validated
// and written. Strategies differ only in data, the table below is the single
// place where a content type is mapped to its behaviour.
type ContentStrategy struct {
	Type           string
	Label          string
	Fields         []FieldDescriptor
	CreatedMessage string
	UpdatedMessage string
	WithPoll       bool
}

var (
	fieldTitle      = FieldDescriptor{Name: "title", Label: "Title", Widget: WidgetText, Required: true}
	fieldExcerpt    = FieldDescriptor{Name: "excerpt", Label: "Excerpt", Widget: WidgetTextarea, Rows: 3}
	fieldIsFeatured = FieldDescriptor{Name: "is_featured", Label: "Is featured", Widget: WidgetCheckbox}
)

var Strategies = map[string]ContentStrategy{
	models.ContentTypeText: {
		Type:  models.ContentTypeText,
		Label: "Text",
		Fields: []FieldDescriptor{
			fieldTitle,
			fieldExcerpt,
			{Name: "body", Label: "Body", Widget: WidgetTextarea, Rows: 12},
			fieldIsFeatured,
		},
		CreatedMessage: "Text tip created.",
		UpdatedMessage: "Text updated.",
	},
	models.ContentTypeArticle: {
		Type:  models.ContentTypeArticle,
		Label: "Article",
		Fields: []FieldDescriptor{
			fieldTitle,
			fieldExcerpt,
			{Name: "body", Label: "Body", Widget: WidgetTextarea, Rows: 14},
			{Name: "image", Label: "Image", Widget: WidgetFile, HelpText: "Hero image shown on cards and the article page."},
			{Name: "thumbnail", Label: "Thumbnail", Widget: WidgetFile, HelpText: "Smaller image for lists (optional)."},
			fieldIsFeatured,
		},
		CreatedMessage: "Article created.",
		UpdatedMessage: "Article updated.",
	},
	models.ContentTypeVideo: {
		Type:  models.ContentTypeVideo,
		Label: "Video",
		Fields: []FieldDescriptor{
			fieldTitle,
			fieldExcerpt,
			{Name: "video_url", Label: "Video url", Widget: WidgetURL, HelpText: "YouTube or Vimeo link."},
			{Name: "thumbnail", Label: "Thumbnail", Widget: WidgetFile, HelpText: "Optional cover image for the video post."},
			fieldIsFeatured,
		},
		CreatedMessage: "Video post created.",
		UpdatedMessage: "Video updated.",
	},
	models.ContentTypePoll: {
		Type:  models.ContentTypePoll,
		Label: "Poll",
		Fields: []FieldDescriptor{
			fieldTitle,
			fieldExcerpt,
			fieldIsFeatured,
		},
		CreatedMessage: "Poll created.",
		UpdatedMessage: "Poll updated.",
		WithPoll:       true,
	},
}

func GetStrategy(contentType string) (ContentStrategy, bool) {
	strategy, ok := Strategies[contentType]
	return strategy, ok
}

// AuthorableTypes lists the content types that have a strategy, in display order.
func AuthorableTypes() []string {
	return lo.Filter(models.ContentTypes, func(item string, _ int) bool {
		_, ok := Strategies[item]
		return ok
	})
}

func (v ContentStrategy) Accepts(field string) bool {
	if v.WithPoll && (field == "question" || field == "options") {
		return true
	}
	return lo.ContainsBy(v.Fields, func(item FieldDescriptor) bool {
		return item.Name == field
	})
}

func (v ContentStrategy) Validate(in *ContentInput) FormErrors {
	in.Normalize()

	checked := []string{"Title"}
	if v.Accepts("video_url") {
		checked = append(checked, "VideoURL")
	}
	if v.WithPoll {
		checked = append(checked, "Question")
	}
	errs := ValidatePartial(in, checked...)

	if v.WithPoll {
		active := in.ActiveOptions()
		switch {
		case len(active) < MinPollOptions:
			errs.Add("options", fmt.Sprintf("Please provide at least %d options.", MinPollOptions))
		case len(active) > MaxPollOptions:
			errs.Add("options", fmt.Sprintf("Please provide at most %d options.", MaxPollOptions))
		}
		for _, option := range active {
			if len([]rune(option.Text)) > 255 {
				errs.Add("options", "Ensure each option has at most 255 characters.")
				break
			}
		}
	}

	return errs
}

// Apply copies the accepted fields of in onto item, stamps the content type
// and clears every payload field this type does not carry.
func (v ContentStrategy) Apply(in ContentInput, item *models.Content) {
	item.Type = v.Type
	item.Title = in.Title
	item.Excerpt = in.Excerpt
	item.IsFeatured = in.IsFeatured

	item.Body = lo.Ternary(v.Accepts("body"), in.Body, nil)
	item.VideoURL = lo.Ternary(v.Accepts("video_url"), in.VideoURL, nil)
	item.Image = applyUpload(v.Accepts("image"), item.Image, in.Image, in.ImageClear)
	item.Thumbnail = applyUpload(v.Accepts("thumbnail"), item.Thumbnail, in.Thumbnail, in.ThumbnailClear)
}

func applyUpload(accepted bool, current, uploaded *string, clear bool) *string {
	switch {
	case !accepted:
		return nil
	case uploaded != nil:
		return uploaded
	case clear:
		return nil
	default:
		return current
	}
}

// FormTitle is the heading shown above the form, e.g. "New Article" or
// "Edit Article: Sleep better".
func (v ContentStrategy) FormTitle(item *models.Content) string {
	if item == nil {
		if v.Type == models.ContentTypeText {
			return "New Text Tip"
		}
		return "New " + v.Label
	}
	return fmt.Sprintf("Edit %s: %s", v.Label, item.Title)
}

type ContentForm struct {
	Title        string            `json:"title"`
	Type         string            `json:"ctype"`
	Fields       []FieldDescriptor `json:"fields"`
	PollFields   []FieldDescriptor `json:"poll_fields,omitempty"`
	OptionFields []FieldDescriptor `json:"option_fields,omitempty"`
	MinOptions   int               `json:"min_options,omitempty"`
	MaxOptions   int               `json:"max_options,omitempty"`
	ExtraOptions int               `json:"extra_options,omitempty"`
	Values       *ContentInput     `json:"values,omitempty"`
	Errors       FormErrors        `json:"errors,omitempty"`
}

// Form describes the form for this strategy, pre-filled with values when given.
func (v ContentStrategy) Form(item *models.Content, values *ContentInput) ContentForm {
	form := ContentForm{
		Title:  v.FormTitle(item),
		Type:   v.Type,
		Fields: DecorateFields(v.Fields),
		Values: values,
	}
	if v.WithPoll {
		form.PollFields = DecorateFields([]FieldDescriptor{
			{Name: "question", Label: "Question", Widget: WidgetText, Required: true},
		})
		form.OptionFields = DecorateFields([]FieldDescriptor{
			{Name: "option_text", Label: "Option text", Widget: WidgetText, Required: true},
		})
		form.MinOptions = MinPollOptions
		form.MaxOptions = MaxPollOptions
		form.ExtraOptions = ExtraPollOptions
	}
	return form
}

// InputFromContent builds the pre-filled values of an edit form.
func InputFromContent(item models.Content) ContentInput {
	in := ContentInput{
		Title:      item.Title,
		Excerpt:    item.Excerpt,
		Body:       item.Body,
		VideoURL:   item.VideoURL,
		IsFeatured: item.IsFeatured,
		Image:      item.Image,
		Thumbnail:  item.Thumbnail,
	}
	if item.Poll != nil {
		in.Question = item.Poll.Question
		in.Options = lo.Map(item.Poll.Options, func(option models.PollOption, _ int) OptionInput {
			return OptionInput{ID: option.ID, Text: option.OptionText}
		})
	}
	return in
}
