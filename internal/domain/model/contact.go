package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Subject   string    `json:"subject"    db:"subject"`
	Message   string    `json:"message"    db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateContactMessageRequest represents the contact form payload.
type CreateContactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Normalize trims free-text fields in place.
func (r *CreateContactMessageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

// Validate validates the CreateContactMessageRequest fields.
func (r *CreateContactMessageRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Message == "" {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(r.Message) > 5000 {
		return errors.New("message cannot exceed 5000 characters")
	}
	return nil
}
