package models

// Account is a staff member allowed to author content.
type Account struct {
	BaseModel

	Name     string `json:"name" gorm:"uniqueIndex;size:150"`
	Email    string `json:"email" gorm:"index;size:254"`
	Password string `json:"-"`
}
