package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

const dispatchTimeout = 15 * time.Second

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Apps       core.ApplicationRepository // Required: application repository
	Jobs       core.JobListingRepository  // Required: job listing repository
	Saved      core.SavedJobRepository    // Required: saved job repository
	Dispatcher *WebhookDispatcher         // Optional: application event delivery
	Logger     *slog.Logger               // Optional: structured logger
}

// ApplicationService provides business logic for applications and saved
// jobs. Students apply to published listings; employers review
// applications against their own listings.
type ApplicationService struct {
	apps       core.ApplicationRepository
	jobs       core.JobListingRepository
	saved      core.SavedJobRepository
	dispatcher *WebhookDispatcher
	logger     *slog.Logger

	dispatches sync.WaitGroup
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) (*ApplicationService, error) {
	if opts.Apps == nil {
		return nil, errors.New("ApplicationRepository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("JobListingRepository is required")
	}
	if opts.Saved == nil {
		return nil, errors.New("SavedJobRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "application_service")
	}
	return &ApplicationService{
		apps:       opts.Apps,
		jobs:       opts.Jobs,
		saved:      opts.Saved,
		dispatcher: opts.Dispatcher,
		logger:     logger,
	}, nil
}

// Apply submits the student's application against a published listing. A
// student holds at most one application per listing.
func (s *ApplicationService) Apply(
	ctx context.Context,
	studentID string,
	req *model.CreateApplicationRequest,
) (*model.Application, error) {
	if req == nil {
		return nil, apperrors.Validation("create application request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job listing not found")
		}
		return nil, fmt.Errorf("get job listing: %w", err)
	}
	if !job.Open() {
		return nil, apperrors.Conflict("job listing is not accepting applications")
	}

	app, err := s.apps.Create(ctx, studentID, req)
	if err != nil {
		if errors.Is(err, data.ErrAlreadyApplied) {
			return nil, apperrors.Conflict("application already submitted for this job")
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "application submitted",
			"id", app.ID, "job_id", job.ID, "student_id", studentID)
	}
	s.dispatch(ctx, job, ApplicationEvent{
		Kind:        EventApplicationSubmitted,
		Application: app,
		JobTitle:    job.Title,
		Company:     job.Company,
		OccurredAt:  time.Now().UTC(),
	})
	return app, nil
}

// ListMine returns the student's applications joined with their listings.
func (s *ApplicationService) ListMine(ctx context.Context, studentID string) ([]*model.ApplicationWithJob, error) {
	apps, err := s.apps.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student applications: %w", err)
	}
	return apps, nil
}

// ListForEmployer returns applications against any of the employer's
// listings.
func (s *ApplicationService) ListForEmployer(ctx context.Context, employerID string) ([]*model.ApplicationWithJob, error) {
	apps, err := s.apps.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("list employer applications: %w", err)
	}
	return apps, nil
}

// ListForJob returns applications against one listing the employer owns.
func (s *ApplicationService) ListForJob(ctx context.Context, employerID, jobID string) ([]*model.Application, error) {
	if _, err := s.ownedJob(ctx, employerID, jobID); err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus moves an application against the employer's listing to a
// new review state.
func (s *ApplicationService) UpdateStatus(
	ctx context.Context,
	employerID, id string,
	req model.UpdateApplicationStatusRequest,
) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	job, err := s.ownedJob(ctx, employerID, app.JobID)
	if err != nil {
		return nil, err
	}

	updated, err := s.apps.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "application status changed",
			"id", id, "status", req.Status, "employer_id", employerID)
	}
	s.dispatch(ctx, job, ApplicationEvent{
		Kind:        EventApplicationStatusChanged,
		Application: updated,
		JobTitle:    job.Title,
		Company:     job.Company,
		OccurredAt:  time.Now().UTC(),
	})
	return updated, nil
}

// Withdraw deletes the student's own application.
func (s *ApplicationService) Withdraw(ctx context.Context, studentID, id string) error {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrApplicationNotFound) {
			return apperrors.NotFound("application not found")
		}
		return fmt.Errorf("get application: %w", err)
	}
	if app.StudentID != studentID {
		return apperrors.NotFound("application not found")
	}
	ok, err := s.apps.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if !ok {
		return apperrors.NotFound("application not found")
	}
	return nil
}

// SaveJob bookmarks a listing for the student. Saving an already saved
// listing is a no-op returning the existing bookmark.
func (s *ApplicationService) SaveJob(ctx context.Context, studentID, jobID string) (*model.SavedJob, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job listing not found")
		}
		return nil, fmt.Errorf("get job listing: %w", err)
	}
	sj, err := s.saved.Save(ctx, studentID, jobID)
	if err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	return sj, nil
}

// UnsaveJob removes the student's bookmark on a listing.
func (s *ApplicationService) UnsaveJob(ctx context.Context, studentID, jobID string) error {
	ok, err := s.saved.Unsave(ctx, studentID, jobID)
	if err != nil {
		return fmt.Errorf("unsave job: %w", err)
	}
	if !ok {
		return apperrors.NotFound("job is not saved")
	}
	return nil
}

// ListSaved returns the student's bookmarks joined with their listings.
func (s *ApplicationService) ListSaved(ctx context.Context, studentID string) ([]*model.SavedJobWithListing, error) {
	saved, err := s.saved.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	return saved, nil
}

// IsSaved reports whether the student has bookmarked the listing.
func (s *ApplicationService) IsSaved(ctx context.Context, studentID, jobID string) (bool, error) {
	ok, err := s.saved.IsSaved(ctx, studentID, jobID)
	if err != nil {
		return false, fmt.Errorf("check saved job: %w", err)
	}
	return ok, nil
}

// dispatch delivers the event to the listing owner's webhooks without
// blocking or failing the triggering operation.
func (s *ApplicationService) dispatch(ctx context.Context, job *model.JobListing, event ApplicationEvent) {
	if s.dispatcher == nil {
		return
	}
	// Delivery outlives the request; the triggering operation already
	// succeeded.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	s.dispatches.Add(1)
	go func() {
		defer s.dispatches.Done()
		defer cancel()
		if err := s.dispatcher.Dispatch(dctx, job.EmployerID, event); err != nil && s.logger != nil {
			s.logger.WarnContext(dctx, "application event dispatch failed",
				"kind", event.Kind, "job_id", job.ID, "error", err)
		}
	}()
}

// waitDispatches blocks until in-flight webhook dispatches finish. Test
// hook.
func (s *ApplicationService) waitDispatches() {
	s.dispatches.Wait()
}

func (s *ApplicationService) ownedJob(ctx context.Context, employerID, jobID string) (*model.JobListing, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
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
