package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus tracks an application through the employer's review.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// Valid reports whether s is a recognized application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationReviewed, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Application is a student's submission against a published job listing.
// A student may hold at most one application per listing.
type Application struct {
	ID          string            `json:"id"           db:"id"`
	JobID       string            `json:"job_id"       db:"job_id"`
	StudentID   string            `json:"student_id"   db:"student_id"`
	CoverLetter string            `json:"cover_letter" db:"cover_letter"`
	ResumeURL   string            `json:"resume_url"   db:"resume_url"`
	Status      ApplicationStatus `json:"status"       db:"status"`
	CreatedAt   time.Time         `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"   db:"updated_at"`
}

// ApplicationWithJob joins an application with the listing it targets,
// for the student's "My Applications" view.
type ApplicationWithJob struct {
	Application
	JobTitle string `json:"job_title" db:"job_title"`
	Company  string `json:"company"   db:"company"`
}

// CreateApplicationRequest represents parameters to submit an application.
type CreateApplicationRequest struct {
	JobID       string `json:"job_id"`
	CoverLetter string `json:"cover_letter"`
	ResumeURL   string `json:"resume_url"`
}

// Normalize trims free-text fields in place.
func (r *CreateApplicationRequest) Normalize() {
	r.JobID = strings.TrimSpace(r.JobID)
	r.CoverLetter = strings.TrimSpace(r.CoverLetter)
	r.ResumeURL = strings.TrimSpace(r.ResumeURL)
}

// Validate validates the CreateApplicationRequest fields.
func (r *CreateApplicationRequest) Validate() error {
	if r.JobID == "" {
		return errors.New("job_id is required")
	}
	return nil
}

// UpdateApplicationStatusRequest moves an application to a new review state.
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status"`
}

// Validate validates the UpdateApplicationStatusRequest fields.
func (r *UpdateApplicationStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("status %q is not recognized", r.Status)
	}
	return nil
}
