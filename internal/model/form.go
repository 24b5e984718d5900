package model

import (
	"time"
)

type Form struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty" gorm:"size:1024"`
	CreatedByID uint       `json:"created_by_id" gorm:"not null;index"`
	CreatedBy   User       `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Settings    Settings   `json:"settings,omitempty" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
	Responses   []Response `json:"-" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
