package model

import "time"

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `json:"username" gorm:"not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}
