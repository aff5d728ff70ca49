package domain

import (
	"strings"
	"time"
)

type ContactInquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (i ContactInquiry) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if i.Email == "" {
		return NewValidationError("email", "email is required")
	}
	if !ValidEmail(i.Email) {
		return NewValidationError("email", "please enter a valid email address")
	}
	if strings.TrimSpace(i.Subject) == "" {
		return NewValidationError("subject", "subject is required")
	}
	return nil
}
