package model

import (
	"time"
)

type Option struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	QuestionID      uint      `json:"question_id" gorm:"not null;index;uniqueIndex:idx_option_question_order,priority:1;uniqueIndex:idx_option_question_text,priority:1"`
	Text            string    `json:"text" gorm:"not null;uniqueIndex:idx_option_question_text,priority:2"`
	OrderInQuestion int       `json:"order" gorm:"not null;uniqueIndex:idx_option_question_order,priority:2"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}
