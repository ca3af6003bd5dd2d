package models

import "time"

// MaxQuestionsPerForm caps how many questions a single form may carry.
// Enforced in the service layer before the batch is committed, not by the schema.
const MaxQuestionsPerForm = 100

type Form struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UserID    *uint     `gorm:"column:user_id" json:"user"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	Questions []Question `gorm:"foreignKey:FormID" json:"questions"`
	Responses []Response `gorm:"foreignKey:FormID" json:"-"`
}

func (Form) TableName() string {
	return "forms"
}
