package model

// Answer records one question's value within a response. Text is used for the
// text question types; Choices for radio (exactly one) and checkbox (one or
// more). A response/answer pair is immutable once written.
type Answer struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	ResponseID uint     `json:"response_id" gorm:"not null;index"`
	QuestionID uint     `json:"question_id" gorm:"not null;index"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Text       string   `json:"text,omitempty" gorm:"type:text"`
	Choices    []Option `json:"choices,omitempty" gorm:"many2many:answer_choices;constraint:OnDelete:CASCADE"`
}
