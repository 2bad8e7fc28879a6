//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
)

const (
	maxEmailLen    = 255
	maxFullNameLen = 255
)

// Profile is the role-store row keyed by identity id. It is the only place a
// user's role is recorded; callers never infer roles from anything else.
type Profile struct {
	ID               string          `json:"id"                db:"id"`
	Email            string          `json:"email"             db:"email"`
	Role             domainauth.Role `json:"role"              db:"role"`
	FullName         string          `json:"full_name"         db:"full_name"`
	ProfileCompleted bool            `json:"profile_completed" db:"profile_completed"`
	CreatedAt        time.Time       `json:"created_at"        db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"        db:"updated_at"`
}

// CreateProfileRequest represents parameters to create a Profile.
// ProfileCompleted always starts false; onboarding flips it.
type CreateProfileRequest struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Role     domainauth.Role `json:"role"`
	FullName string          `json:"full_name"`
}

// Validate validates the CreateProfileRequest fields.
func (r *CreateProfileRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if !r.Role.Valid() {
		return errors.New("role must be one of: student, employer, tpo, admin")
	}
	name := strings.TrimSpace(r.FullName)
	if name == "" {
		return errors.New("full_name is required")
	}
	if utf8.RuneCountInString(name) > maxFullNameLen {
		return errors.New("full_name cannot exceed 255 characters")
	}
	return nil
}

// validateEmail applies the minimal structural check shared by profile and
// registration requests; full deliverability is the identity provider's call.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return errors.New("email cannot exceed 255 characters")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return errors.New("email must be a valid address")
	}
	return nil
}
