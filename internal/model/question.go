package model

import (
	"time"
)

// QuestionType is a closed enum; validation and the answer codec switch over it
// exhaustively.
type QuestionType string

const (
	QuestionShortText QuestionType = "SHORT_TEXT"
	QuestionLongText  QuestionType = "LONG_TEXT"
	QuestionRadio     QuestionType = "RADIO"
	QuestionCheckbox  QuestionType = "CHECKBOX"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionRadio, QuestionCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry selectable options.
func (t QuestionType) HasOptions() bool {
	return t == QuestionRadio || t == QuestionCheckbox
}

type Question struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	FormID      uint         `json:"form_id" gorm:"not null;index;uniqueIndex:idx_question_form_order,priority:1"`
	Text        string       `json:"text" gorm:"not null"`
	Type        QuestionType `json:"type" gorm:"type:varchar(48);not null"`
	IsRequired  bool         `json:"is_required"`
	OrderInForm int          `json:"order" gorm:"not null;uniqueIndex:idx_question_form_order,priority:2"`
	Options     []Option     `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Answers     []Answer     `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"-"`
}
