package dto

import "time"

// ResponseDetailDTO is one recorded submission with its answers decoded to the
// generic "question id -> value" shape (text, option id, or option id list).
type ResponseDetailDTO struct {
	ID        uint         `json:"id"`
	FormID    uint         `json:"form_id"`
	FormTitle string       `json:"form_title,omitempty"`
	Username  string       `json:"username,omitempty"`
	Answers   map[uint]any `json:"answers"`
	CreatedAt time.Time    `json:"created_at"`
}

type ResponseSummaryDTO struct {
	ID        uint      `json:"id"`
	FormID    uint      `json:"form_id"`
	FormTitle string    `json:"form_title,omitempty"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ResponseListDTO struct {
	Responses  []ResponseSummaryDTO `json:"responses"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

type ErrorResponse struct {
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
