package models

const (
	QuestionTypeText     = "text"
	QuestionTypeDropdown = "dropdown"
	QuestionTypeCheckbox = "checkbox"
)

// ValidQuestionType reports whether t names a supported question type.
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeText, QuestionTypeDropdown, QuestionTypeCheckbox:
		return true
	}
	return false
}

type Question struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID       uint       `gorm:"not null;index" json:"-"`
	Form         Form       `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Text         string     `gorm:"size:255;not null" json:"text"`
	QuestionType string     `gorm:"size:20;not null" json:"question_type"`
	Options      OptionList `gorm:"type:text" json:"options"`
	// Order values are stored exactly as supplied; uniqueness and
	// contiguity are not required.
	Order int `gorm:"column:sort_order;not null;default:0" json:"order"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
