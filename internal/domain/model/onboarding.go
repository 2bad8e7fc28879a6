package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxInterestItems = 20

// UserInterests captures the preferences collected during onboarding.
type UserInterests struct {
	UserID         string    `json:"user_id"         db:"user_id"`
	Interests      []string  `json:"interests"       db:"interests"`
	TechStack      []string  `json:"tech_stack"      db:"tech_stack"`
	RolePreference string    `json:"role_preference" db:"role_preference"`
	UpdatedAt      time.Time `json:"updated_at"      db:"updated_at"`
}

// SaveInterestsRequest represents the onboarding interests payload.
type SaveInterestsRequest struct {
	Interests      []string `json:"interests"`
	TechStack      []string `json:"tech_stack"`
	RolePreference string   `json:"role_preference"`
}

// Normalize trims entries and drops empties in place.
func (r *SaveInterestsRequest) Normalize() {
	r.Interests = normalizeList(r.Interests)
	r.TechStack = normalizeList(r.TechStack)
	r.RolePreference = strings.TrimSpace(r.RolePreference)
}

// Validate validates the SaveInterestsRequest fields.
func (r *SaveInterestsRequest) Validate() error {
	if len(r.Interests) == 0 {
		return errors.New("at least one interest is required")
	}
	if len(r.Interests) > maxInterestItems || len(r.TechStack) > maxInterestItems {
		return errors.New("too many entries")
	}
	return nil
}

// Achievement is a single entry on a student's achievement list.
type Achievement struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"user_id"     db:"user_id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}

// CreateAchievementRequest represents parameters to add an achievement.
type CreateAchievementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Normalize trims free-text fields in place.
func (r *CreateAchievementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// Validate validates the CreateAchievementRequest fields.
func (r *CreateAchievementRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 255 {
		return errors.New("title cannot exceed 255 characters")
	}
	return nil
}

func normalizeList(items []string) []string {
	out := items[:0]
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
