package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:150;unique;not null" json:"username"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // never serialized
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Forms []Form `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
