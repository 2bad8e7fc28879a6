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

// OnboardingServiceOptions groups dependencies for OnboardingService.
type OnboardingServiceOptions struct {
	Repo     core.OnboardingRepository // Required: onboarding repository
	Profiles core.ProfileRepository    // Required: profile repository
	Logger   *slog.Logger              // Optional: structured logger
}

// OnboardingService collects a new user's interests and achievements and
// marks the profile completed once onboarding finishes.
type OnboardingService struct {
	repo     core.OnboardingRepository
	profiles core.ProfileRepository
	logger   *slog.Logger
}

// NewOnboardingService constructs a new OnboardingService.
func NewOnboardingService(opts OnboardingServiceOptions) (*OnboardingService, error) {
	if opts.Repo == nil {
		return nil, errors.New("OnboardingRepository is required")
	}
	if opts.Profiles == nil {
		return nil, errors.New("ProfileRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "onboarding_service")
	}
	return &OnboardingService{repo: opts.Repo, profiles: opts.Profiles, logger: logger}, nil
}

// SaveInterests stores the user's interests, replacing any earlier set.
func (s *OnboardingService) SaveInterests(
	ctx context.Context,
	userID string,
	req *model.SaveInterestsRequest,
) (*model.UserInterests, error) {
	if req == nil {
		return nil, apperrors.Validation("save interests request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	interests, err := s.repo.UpsertInterests(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("save interests: %w", err)
	}
	return interests, nil
}

// GetInterests returns the user's interests, or nil when onboarding has
// not recorded any yet.
func (s *OnboardingService) GetInterests(ctx context.Context, userID string) (*model.UserInterests, error) {
	interests, err := s.repo.GetInterests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get interests: %w", err)
	}
	return interests, nil
}

// AddAchievement appends an entry to the user's achievement list.
func (s *OnboardingService) AddAchievement(
	ctx context.Context,
	userID string,
	req *model.CreateAchievementRequest,
) (*model.Achievement, error) {
	if req == nil {
		return nil, apperrors.Validation("create achievement request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	ach, err := s.repo.AddAchievement(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("add achievement: %w", err)
	}
	return ach, nil
}

// ListAchievements returns the user's achievements, newest first.
func (s *OnboardingService) ListAchievements(ctx context.Context, userID string) ([]*model.Achievement, error) {
	achs, err := s.repo.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achs, nil
}

// DeleteAchievement removes one of the user's own achievements.
func (s *OnboardingService) DeleteAchievement(ctx context.Context, userID, id string) error {
	ok, err := s.repo.DeleteAchievement(ctx, userID, id)
	if err != nil {
		if errors.Is(err, data.ErrAchievementNotFound) {
			return apperrors.NotFound("achievement not found")
		}
		return fmt.Errorf("delete achievement: %w", err)
	}
	if !ok {
		return apperrors.NotFound("achievement not found")
	}
	return nil
}

// Complete marks the user's profile as completed. Interests must be on
// record first.
func (s *OnboardingService) Complete(ctx context.Context, userID string) error {
	interests, err := s.repo.GetInterests(ctx, userID)
	if err != nil {
		return fmt.Errorf("get interests: %w", err)
	}
	if interests == nil {
		return apperrors.Validation("interests must be saved before completing onboarding")
	}

	if err := s.profiles.MarkCompleted(ctx, userID); err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return apperrors.NotFound("profile not found")
		}
		return fmt.Errorf("mark profile completed: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "onboarding completed", "user_id", userID)
	}
	return nil
}
