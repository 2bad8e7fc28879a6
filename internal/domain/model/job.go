package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// JobStatus is the lifecycle state of a job listing.
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
)

// Valid reports whether s is a recognized job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusPublished, JobStatusClosed:
		return true
	}
	return false
}

// JobType classifies the engagement a listing offers.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"
	JobTypeContract   JobType = "contract"
)

// Valid reports whether t is a recognized job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return true
	}
	return false
}

// JobListing is a posting owned by an employer profile.
type JobListing struct {
	ID          string    `json:"id"           db:"id"`
	EmployerID  string    `json:"employer_id"  db:"employer_id"`
	Title       string    `json:"title"        db:"title"`
	Company     string    `json:"company"      db:"company"`
	Description string    `json:"description"  db:"description"`
	Location    string    `json:"location"     db:"location"`
	Type        JobType   `json:"type"         db:"type"`
	Remote      bool      `json:"remote"       db:"remote"`
	SalaryRange string    `json:"salary_range" db:"salary_range"`
	Status      JobStatus `json:"status"       db:"status"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// Open reports whether the listing accepts applications.
func (j *JobListing) Open() bool {
	return j.Status == JobStatusPublished
}

// CreateJobRequest represents parameters to create a JobListing.
type CreateJobRequest struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Type        JobType `json:"type"`
	Remote      bool    `json:"remote"`
	SalaryRange string  `json:"salary_range"`
	Publish     bool    `json:"publish"`
}

// Normalize trims free-text fields in place.
func (r *CreateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.SalaryRange = strings.TrimSpace(r.SalaryRange)
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 255 {
		return errors.New("title cannot exceed 255 characters")
	}
	if r.Company == "" {
		return errors.New("company is required")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("type %q is not recognized", r.Type)
	}
	return nil
}

// UpdateJobRequest represents a partial update to a JobListing.
// Nil fields are left untouched.
type UpdateJobRequest struct {
	Title       *string    `json:"title,omitempty"`
	Company     *string    `json:"company,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Type        *JobType   `json:"type,omitempty"`
	Remote      *bool      `json:"remote,omitempty"`
	SalaryRange *string    `json:"salary_range,omitempty"`
	Status      *JobStatus `json:"status,omitempty"`
}

// Normalize trims any provided free-text fields in place.
func (r *UpdateJobRequest) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.Title)
	trim(r.Company)
	trim(r.Description)
	trim(r.Location)
	trim(r.SalaryRange)
}

// Validate validates the provided UpdateJobRequest fields.
func (r *UpdateJobRequest) Validate() error {
	if r.Title != nil {
		if *r.Title == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(*r.Title) > 255 {
			return errors.New("title cannot exceed 255 characters")
		}
	}
	if r.Company != nil && *r.Company == "" {
		return errors.New("company cannot be empty")
	}
	if r.Description != nil && *r.Description == "" {
		return errors.New("description cannot be empty")
	}
	if r.Type != nil && !r.Type.Valid() {
		return fmt.Errorf("type %q is not recognized", *r.Type)
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("status %q is not recognized", *r.Status)
	}
	return nil
}

// Empty reports whether the update carries no fields.
func (r *UpdateJobRequest) Empty() bool {
	return r.Title == nil && r.Company == nil && r.Description == nil &&
		r.Location == nil && r.Type == nil && r.Remote == nil &&
		r.SalaryRange == nil && r.Status == nil
}

// JobSearchFilter narrows a job listing search. Zero values mean "no filter".
type JobSearchFilter struct {
	Query    string
	Location string
	Type     JobType
	Remote   *bool
}

// Normalize trims filter text in place.
func (f *JobSearchFilter) Normalize() {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
}

// Validate validates the filter fields.
func (f *JobSearchFilter) Validate() error {
	if f.Type != "" && !f.Type.Valid() {
		return fmt.Errorf("type %q is not recognized", f.Type)
	}
	return nil
}
