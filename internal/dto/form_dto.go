package dto

import "time"

// OptionUpsertDTO is one option descriptor within a form definition update.
// A nil ID means "insert"; a set ID means "update the persisted option".
type OptionUpsertDTO struct {
	ID    *uint  `json:"id"`
	Text  string `json:"text" binding:"required,notblank"`
	Order int    `json:"order" binding:"gte=0"`
}

// QuestionUpsertDTO is one question descriptor within a form definition
// update, tagged (existing) or untagged (new) like its options.
type QuestionUpsertDTO struct {
	ID         *uint             `json:"id"`
	Text       string            `json:"text" binding:"required,notblank"`
	Type       string            `json:"type" binding:"required,oneof=SHORT_TEXT LONG_TEXT RADIO CHECKBOX"`
	IsRequired bool              `json:"is_required"`
	Order      int               `json:"order" binding:"gte=0"`
	Options    []OptionUpsertDTO `json:"options" binding:"omitempty,dive"`
}

// FormUpdateDTO is the PUT body for a full form definition save.
type FormUpdateDTO struct {
	Title       string              `json:"title" binding:"required,notblank"`
	Description string              `json:"description"`
	Questions   []QuestionUpsertDTO `json:"questions" binding:"omitempty,dive"`
}

type SettingsDTO struct {
	IsOpen                bool `json:"is_open"`
	AuthenticatedResponse bool `json:"authenticated_response"`
	MultipleResponse      bool `json:"multiple_response"`
}

type SettingsResponseDTO struct {
	IsOpen                   bool `json:"is_open"`
	AuthenticatedResponse    bool `json:"authenticated_response"`
	MultipleResponse         bool `json:"multiple_response"`
	IsAnotherResponseAllowed bool `json:"is_another_response_allowed"`
}

type OptionResponseDTO struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type QuestionResponseDTO struct {
	ID         uint                `json:"id"`
	Text       string              `json:"text"`
	Type       string              `json:"type"`
	IsRequired bool                `json:"is_required"`
	Order      int                 `json:"order"`
	Options    []OptionResponseDTO `json:"options"`
}

// FormResponseDTO is the serialized form returned by reads and by a
// successful definition save.
type FormResponseDTO struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	CreatedBy   string                `json:"created_by"`
	Settings    SettingsResponseDTO   `json:"settings"`
	Questions   []QuestionResponseDTO `json:"questions"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// FormSummaryDTO is one row of the owner's dashboard listing.
type FormSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ResponseCount int       `json:"response_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type FormListDTO struct {
	Forms      []FormSummaryDTO `json:"forms"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}
