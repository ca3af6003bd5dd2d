package models

import "time"

type Response struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID      uint      `gorm:"not null;index" json:"form"`
	Form        Form      `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`

	Answers []Answer `gorm:"foreignKey:ResponseID" json:"answers"`
}

func (Response) TableName() string {
	return "responses"
}
