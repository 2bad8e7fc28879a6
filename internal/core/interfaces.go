package core

import (
	"context"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error)
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	List(ctx context.Context, opts model.ProfileListOptions) ([]*model.Profile, error)
	SetFullName(ctx context.Context, id, fullName string) (*model.Profile, error)
	MarkCompleted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CredentialRepository stores password hashes keyed by identity id.
// Plaintext passwords never reach this layer.
type CredentialRepository interface {
	Create(ctx context.Context, params CreateCredentialParams) error
	// GetHashByEmail returns the identity id and password hash for an
	// address, or the repository's not-found sentinel.
	GetHashByEmail(ctx context.Context, email string) (userID string, hash []byte, err error)
	Delete(ctx context.Context, userID string) error
}

// CreateCredentialParams groups parameters for CredentialRepository.Create.
type CreateCredentialParams struct {
	UserID string
	Email  string
	Hash   []byte
}

// JobListingRepository defines the interface for job listing data operations.
type JobListingRepository interface {
	Create(ctx context.Context, employerID string, req *model.CreateJobRequest) (*model.JobListing, error)
	GetByID(ctx context.Context, id string) (*model.JobListing, error)
	List(ctx context.Context, opts model.JobListOptions) ([]*model.JobListing, error)
	// Search returns published listings matching the filter.
	Search(ctx context.Context, filter model.JobSearchFilter, opts model.JobListOptions) ([]*model.JobListing, error)
	ListByEmployer(ctx context.Context, employerID string, opts model.JobListOptions) ([]*model.JobListing, error)
	Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.JobListing, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, studentID string, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.ApplicationWithJob, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*model.ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SavedJobRepository defines the interface for saved job data operations.
type SavedJobRepository interface {
	Save(ctx context.Context, studentID, jobID string) (*model.SavedJob, error)
	Unsave(ctx context.Context, studentID, jobID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.SavedJobWithListing, error)
	IsSaved(ctx context.Context, studentID, jobID string) (bool, error)
}

// OnboardingRepository defines the interface for onboarding data operations.
type OnboardingRepository interface {
	UpsertInterests(ctx context.Context, userID string, req *model.SaveInterestsRequest) (*model.UserInterests, error)
	GetInterests(ctx context.Context, userID string) (*model.UserInterests, error)
	AddAchievement(ctx context.Context, userID string, req *model.CreateAchievementRequest) (*model.Achievement, error)
	ListAchievements(ctx context.Context, userID string) ([]*model.Achievement, error)
	DeleteAchievement(ctx context.Context, userID, id string) (bool, error)
}

// ContactRepository defines the interface for contact message data operations.
type ContactRepository interface {
	Create(ctx context.Context, req *model.CreateContactMessageRequest) (*model.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]*model.ContactMessage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CollegeDomainRepository defines the interface for college domain allowlist data operations.
type CollegeDomainRepository interface {
	Create(ctx context.Context, req *model.CreateCollegeDomainRequest) (*model.CollegeDomain, error)
	GetByID(ctx context.Context, id string) (*model.CollegeDomain, error)
	List(ctx context.Context, limit, offset int) ([]*model.CollegeDomain, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// WebhookRepository defines the interface for application webhook data operations.
type WebhookRepository interface {
	Create(ctx context.Context, employerID string, req *model.CreateWebhookRequest) (*model.ApplicationWebhook, error)
	GetByID(ctx context.Context, id string) (*model.ApplicationWebhook, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*model.ApplicationWebhook, error)
	// ListEnabledByEmployer returns the webhooks eligible for dispatch.
	ListEnabledByEmployer(ctx context.Context, employerID string) ([]*model.ApplicationWebhook, error)
	Update(ctx context.Context, id string, req model.UpdateWebhookRequest) (*model.ApplicationWebhook, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StatsRepository defines the interface for dashboard stat queries.
type StatsRepository interface {
	StudentStats(ctx context.Context, studentID string) (*model.StudentDashboardStats, error)
	EmployerStats(ctx context.Context, employerID string) (*model.EmployerDashboardStats, error)
	TPOStats(ctx context.Context, collegeDomain string) (*model.TPODashboardStats, error)
	AdminStats(ctx context.Context) (*model.AdminDashboardStats, error)
}
