// Package mocks provides mock implementations for testing the talentexcel platform.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobListingRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for ProfileRepository interface from internal/core package.
// This creates MockProfileRepository with methods for all ProfileRepository interface methods:
// Create, GetByID, GetByEmail, List, SetFullName, MarkCompleted, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=profile_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core ProfileRepository

// Generate mock for CredentialRepository interface from internal/core package.
// This creates MockCredentialRepository with methods for all CredentialRepository interface methods:
// Create, GetHashByEmail, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=credential_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core CredentialRepository

// Generate mock for JobListingRepository interface from internal/core package.
// This creates MockJobListingRepository with methods for all JobListingRepository interface methods:
// Create, GetByID, List, Search, ListByEmployer, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_listing_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core JobListingRepository

// Generate mock for ApplicationRepository interface from internal/core package.
// This creates MockApplicationRepository with methods for all ApplicationRepository interface methods:
// Create, GetByID, ListByStudent, ListByEmployer, ListByJob, UpdateStatus, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=application_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core ApplicationRepository

// Generate mock for SavedJobRepository interface from internal/core package.
// This creates MockSavedJobRepository with methods for all SavedJobRepository interface methods:
// Save, Unsave, ListByStudent, IsSaved
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=saved_job_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core SavedJobRepository

// Generate mock for OnboardingRepository interface from internal/core package.
// This creates MockOnboardingRepository with methods for all OnboardingRepository interface methods:
// UpsertInterests, GetInterests, AddAchievement, ListAchievements, DeleteAchievement
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=onboarding_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core OnboardingRepository

// Generate mock for ContactRepository interface from internal/core package.
// This creates MockContactRepository with methods for all ContactRepository interface methods:
// Create, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=contact_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core ContactRepository

// Generate mock for CollegeDomainRepository interface from internal/core package.
// This creates MockCollegeDomainRepository with methods for all CollegeDomainRepository interface methods:
// Create, GetByID, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=college_domain_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core CollegeDomainRepository

// Generate mock for WebhookRepository interface from internal/core package.
// This creates MockWebhookRepository with methods for all WebhookRepository interface methods:
// Create, GetByID, ListByEmployer, ListEnabledByEmployer, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=webhook_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core WebhookRepository

// Generate mock for StatsRepository interface from internal/core package.
// This creates MockStatsRepository with methods for all StatsRepository interface methods:
// StudentStats, EmployerStats, TPOStats, AdminStats
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=stats_repository_mock.go github.com/talentexcel/talentexcel-api/internal/core StatsRepository
