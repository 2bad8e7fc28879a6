package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Profile repository sentinels.
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailExists     = errors.New("email already registered")

	// Credential repository sentinels.
	ErrCredentialNotFound = errors.New("credentials not found")

	// Job listing repository sentinels.
	ErrJobNotFound = errors.New("job listing not found")

	// Application repository sentinels.
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("application already submitted for this job")

	// Saved job repository sentinels.
	ErrJobNotSaved = errors.New("job is not saved")

	// Webhook repository sentinels.
	ErrWebhookNotFound = errors.New("webhook not found")

	// College domain repository sentinels.
	ErrCollegeDomainNotFound = errors.New("college domain not found")
	ErrCollegeDomainExists   = errors.New("college domain already exists")

	// Onboarding repository sentinels.
	ErrAchievementNotFound = errors.New("achievement not found")
)
