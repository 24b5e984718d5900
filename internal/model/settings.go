package model

// Settings is one-to-one with Form; the form id is the key.
type Settings struct {
	FormID                uint `gorm:"primarykey" json:"-"`
	IsOpen                bool `json:"is_open"`
	AuthenticatedResponse bool `json:"authenticated_response"`
	MultipleResponse      bool `json:"multiple_response"`
}

// IsAnotherResponseAllowed reports whether the form accepts a further response
// from the same identity: it must be open, and either not require
// authentication or allow multiple responses per user.
func (s Settings) IsAnotherResponseAllowed() bool {
	return s.IsOpen && (!s.AuthenticatedResponse || s.MultipleResponse)
}
