package models

type Poll struct {
	BaseModel

	Question  string       `json:"question" gorm:"size:255"`
	ContentID uint         `json:"content_id" gorm:"uniqueIndex"`
	Options   []PollOption `json:"options" gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`

	TotalVotes uint `json:"total_votes" gorm:"-"`
}

type PollOption struct {
	BaseModel

	OptionText string `json:"option_text" gorm:"size:255"`
	Votes      uint   `json:"votes" gorm:"not null;default:0"`
	PollID     uint   `json:"poll_id" gorm:"index"`
}
