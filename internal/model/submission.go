package model

import "strings"

// Submission field names, as used in JSON bodies, form posts and stored documents
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
	FieldDate    = "date"
	FieldTime    = "time"
)

// Submission represents one contact form submission
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
	// Date is an ISO calendar date from the date picker
	Date string `json:"date,omitempty"`
	// Time is stamped when the form is submitted, never typed by the user
	Time string `json:"time,omitempty"`
}

// Document returns the submission as an untyped document for the document store.
func (s Submission) Document() map[string]interface{} {
	doc := map[string]interface{}{
		FieldName:    s.Name,
		FieldEmail:   s.Email,
		FieldPhone:   s.Phone,
		FieldMessage: s.Message,
	}
	if s.Date != "" {
		doc[FieldDate] = s.Date
	}
	if s.Time != "" {
		doc[FieldTime] = s.Time
	}
	return doc
}

// IsZero reports whether every field is empty
func (s Submission) IsZero() bool {
	return s == Submission{}
}

// DigitsOnly drops every rune that is not a decimal digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
