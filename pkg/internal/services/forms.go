package services

import (
	"sort"
	"strings"
)

// FormErrors maps a form field name to the messages raised for it. The
// special key NonFieldErrors carries errors that belong to the form as a whole.
type FormErrors map[string][]string

const NonFieldErrors = "__all__"

func (v FormErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v FormErrors) Merge(other FormErrors) {
	for field, messages := range other {
		v[field] = append(v[field], messages...)
	}
}

func (v FormErrors) HasErrors() bool {
	return len(v) > 0
}

func (v FormErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	sb.WriteString("invalid form")
	for _, field := range fields {
		sb.WriteString("; ")
		sb.WriteString(field)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(v[field], " "))
	}
	return sb.String()
}

const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetURL      = "url"
	WidgetFile     = "file"
	WidgetCheckbox = "checkbox"
	WidgetPassword = "password"
	WidgetEmail    = "email"
)

type FieldDescriptor struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Widget       string `json:"widget"`
	Required     bool   `json:"required"`
	Placeholder  string `json:"placeholder,omitempty"`
	HelpText     string `json:"help_text,omitempty"`
	Rows         int    `json:"rows,omitempty"`
	Accept       string `json:"accept,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
}

var namedPlaceholders = map[string]string{
	"title":       "e.g., 3 Simple Ways to Sleep Better",
	"excerpt":     "Short teaser shown in cards and lists",
	"body":        "Write the full tip/article here…",
	"video_url":   "Paste a YouTube/Vimeo URL (e.g., https://youtu.be/...)",
	"question":    "Ask a clear, concise question",
	"option_text": "e.g., Yes, often",
}

var namedHelpTexts = map[string]string{
	"excerpt":     "Short preview used on the homepage and listings.",
	"is_featured": "Pin this content to the homepage ‘Latest Health Tips’.",
}

// DecorateFields fills in the presentation defaults shared by every form:
// placeholders, textarea heights, accepted upload types and help texts.
// Values already set on a descriptor are kept, except for the well known
// field names which always get their curated placeholder.
func DecorateFields(fields []FieldDescriptor) []FieldDescriptor {
	out := make([]FieldDescriptor, len(fields))
	for idx, field := range fields {
		switch field.Widget {
		case WidgetText, WidgetURL, WidgetEmail, WidgetPassword:
			if len(field.Placeholder) == 0 {
				field.Placeholder = field.Label
			}
		case WidgetTextarea:
			if field.Rows == 0 {
				field.Rows = 4
				if field.Name == "body" {
					field.Rows = 8
				}
			}
			if len(field.Placeholder) == 0 {
				field.Placeholder = field.Label
			}
		case WidgetFile:
			if field.Name == "image" || field.Name == "thumbnail" {
				field.Accept = "image/*"
			}
		}

		if placeholder, ok := namedPlaceholders[field.Name]; ok {
			field.Placeholder = placeholder
		}
		if help, ok := namedHelpTexts[field.Name]; ok && len(field.HelpText) == 0 {
			field.HelpText = help
		}

		out[idx] = field
	}
	return out
}
