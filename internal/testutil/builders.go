// Package testutil provides testing utilities and helpers for the talentexcel platform.
package testutil

import (
	"github.com/google/uuid"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// ProfileRequestBuilder provides a fluent interface for building CreateProfileRequest objects for testing.
type ProfileRequestBuilder struct {
	req *model.CreateProfileRequest
}

// NewProfileRequest creates a new ProfileRequestBuilder with sensible defaults.
func NewProfileRequest() *ProfileRequestBuilder {
	return &ProfileRequestBuilder{
		req: &model.CreateProfileRequest{
			ID:       uuid.NewString(),
			Email:    uuid.NewString()[:8] + "@example.edu",
			Role:     domainauth.RoleStudent,
			FullName: "Test User",
		},
	}
}

// WithID sets the identity id.
func (b *ProfileRequestBuilder) WithID(id string) *ProfileRequestBuilder {
	b.req.ID = id
	return b
}

// WithEmail sets the email address.
func (b *ProfileRequestBuilder) WithEmail(email string) *ProfileRequestBuilder {
	b.req.Email = email
	return b
}

// WithRole sets the role.
func (b *ProfileRequestBuilder) WithRole(role domainauth.Role) *ProfileRequestBuilder {
	b.req.Role = role
	return b
}

// WithFullName sets the display name.
func (b *ProfileRequestBuilder) WithFullName(name string) *ProfileRequestBuilder {
	b.req.FullName = name
	return b
}

// Build returns the built CreateProfileRequest.
func (b *ProfileRequestBuilder) Build() *model.CreateProfileRequest {
	return b.req
}

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with sensible defaults.
func NewJobRequest() *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			Title:       "Backend Engineer",
			Company:     "Acme Corp",
			Description: "Build and maintain services.",
			Location:    "Pune",
			Type:        model.JobTypeFullTime,
			Publish:     true,
		},
	}
}

// WithTitle sets the listing title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithCompany sets the company name.
func (b *JobRequestBuilder) WithCompany(company string) *JobRequestBuilder {
	b.req.Company = company
	return b
}

// WithType sets the job type.
func (b *JobRequestBuilder) WithType(jobType model.JobType) *JobRequestBuilder {
	b.req.Type = jobType
	return b
}

// WithLocation sets the location.
func (b *JobRequestBuilder) WithLocation(location string) *JobRequestBuilder {
	b.req.Location = location
	return b
}

// WithRemote marks the listing as remote.
func (b *JobRequestBuilder) WithRemote(remote bool) *JobRequestBuilder {
	b.req.Remote = remote
	return b
}

// AsDraft leaves the listing unpublished.
func (b *JobRequestBuilder) AsDraft() *JobRequestBuilder {
	b.req.Publish = false
	return b
}

// Build returns the built CreateJobRequest.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}
