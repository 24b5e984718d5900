package model

import (
	"time"
)

type Response struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FormID    uint      `json:"form_id" gorm:"not null;index"`
	Form      Form      `json:"-" gorm:"foreignKey:FormID"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Answers   []Answer  `json:"answers,omitempty" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
