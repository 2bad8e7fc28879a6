package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo   core.JobListingRepository // Required: job listing repository
	Logger *slog.Logger              // Optional: structured logger
}

// JobService provides business logic for job listings. Mutations are
// employer-scoped: only the owning employer may change a listing.
type JobService struct {
	repo   core.JobListingRepository
	logger *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobListingRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "job_service")
	}
	return &JobService{repo: opts.Repo, logger: logger}, nil
}

// Create creates a listing owned by the employer. Publish in the request
// controls whether it starts published or as a draft.
func (s *JobService) Create(
	ctx context.Context,
	employerID string,
	req *model.CreateJobRequest,
) (*model.JobListing, error) {
	if req == nil {
		return nil, apperrors.Validation("create job request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	job, err := s.repo.Create(ctx, employerID, req)
	if err != nil {
		return nil, fmt.Errorf("create job listing: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job listing created",
			"id", job.ID, "employer_id", employerID, "status", job.Status)
	}
	return job, nil
}

// Get retrieves a listing visible to the viewer. Unpublished listings are
// only visible to the owning employer; everyone else gets not-found so the
// listing's existence is not leaked.
func (s *JobService) Get(ctx context.Context, id, viewerID string) (*model.JobListing, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job listing not found")
		}
		return nil, fmt.Errorf("get job listing: %w", err)
	}
	if job.Status != model.JobStatusPublished && job.EmployerID != viewerID {
		return nil, apperrors.NotFound("job listing not found")
	}
	return job, nil
}

// Search returns published listings matching the filter.
func (s *JobService) Search(
	ctx context.Context,
	filter model.JobSearchFilter,
	opts model.JobListOptions,
) ([]*model.JobListing, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	jobs, err := s.repo.Search(ctx, filter, normalizeJobListOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("search job listings: %w", err)
	}
	return jobs, nil
}

// ListByEmployer returns the employer's own listings in every status.
func (s *JobService) ListByEmployer(
	ctx context.Context,
	employerID string,
	opts model.JobListOptions,
) ([]*model.JobListing, error) {
	jobs, err := s.repo.ListByEmployer(ctx, employerID, normalizeJobListOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("list employer job listings: %w", err)
	}
	return jobs, nil
}

// Update applies a partial update to a listing the employer owns.
func (s *JobService) Update(
	ctx context.Context,
	employerID, id string,
	req model.UpdateJobRequest,
) (*model.JobListing, error) {
	req.Normalize()
	if req.Empty() {
		return nil, apperrors.Validation("update carries no fields")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.ownedListing(ctx, employerID, id); err != nil {
		return nil, err
	}

	job, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job listing not found")
		}
		return nil, fmt.Errorf("update job listing: %w", err)
	}
	return job, nil
}

// Publish moves a listing the employer owns to the published state.
func (s *JobService) Publish(ctx context.Context, employerID, id string) (*model.JobListing, error) {
	return s.setStatus(ctx, employerID, id, model.JobStatusPublished)
}

// Close stops a listing the employer owns from accepting applications.
func (s *JobService) Close(ctx context.Context, employerID, id string) (*model.JobListing, error) {
	return s.setStatus(ctx, employerID, id, model.JobStatusClosed)
}

// Delete deletes a listing the employer owns.
func (s *JobService) Delete(ctx context.Context, employerID, id string) error {
	if _, err := s.ownedListing(ctx, employerID, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete job listing: %w", err)
	}
	if !ok {
		return apperrors.NotFound("job listing not found")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "job listing deleted", "id", id, "employer_id", employerID)
	}
	return nil
}

func (s *JobService) setStatus(
	ctx context.Context,
	employerID, id string,
	status model.JobStatus,
) (*model.JobListing, error) {
	if _, err := s.ownedListing(ctx, employerID, id); err != nil {
		return nil, err
	}
	job, err := s.repo.Update(ctx, id, model.UpdateJobRequest{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("update job listing status: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "job listing status changed", "id", id, "status", status)
	}
	return job, nil
}

// ownedListing loads a listing and verifies the employer owns it.
func (s *JobService) ownedListing(ctx context.Context, employerID, id string) (*model.JobListing, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job listing not found")
		}
		return nil, fmt.Errorf("get job listing: %w", err)
	}
	if job.EmployerID != employerID {
		return nil, apperrors.Forbidden("job listing belongs to another employer")
	}
	return job, nil
}

func normalizeJobListOptions(opts model.JobListOptions) model.JobListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Dir == "" {
		opts.Dir = "desc"
	}
	return opts
}
