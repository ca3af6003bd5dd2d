package models

type Answer struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ResponseID      uint      `gorm:"not null;index" json:"-"`
	Response        Response  `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionID      uint      `gorm:"not null;index" json:"question"`
	Question        Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	AnswerText      *string   `gorm:"type:text" json:"answer_text"`
	SelectedOptions OptionSet `gorm:"type:text" json:"selected_options"`
}

func (Answer) TableName() string {
	return "answers"
}
