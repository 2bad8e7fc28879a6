package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

func newTestOnboardingService(t *testing.T) (*OnboardingService, *memProfileRepo) {
	t.Helper()
	profiles := newMemProfileRepo()
	_, err := profiles.Create(context.Background(), &model.CreateProfileRequest{
		ID:       "stu-1",
		Email:    "asha@iitb.ac.in",
		Role:     domainauth.RoleStudent,
		FullName: "Asha Rao",
	})
	require.NoError(t, err)

	svc, err := NewOnboardingService(OnboardingServiceOptions{
		Repo:     newMemOnboardingRepo(),
		Profiles: profiles,
	})
	require.NoError(t, err)
	return svc, profiles
}

func validInterests() *model.SaveInterestsRequest {
	return &model.SaveInterestsRequest{
		Interests:      []string{"backend", "distributed systems"},
		TechStack:      []string{"go", "postgres"},
		RolePreference: "backend engineer",
	}
}

func TestNewOnboardingService_Validation(t *testing.T) {
	_, err := NewOnboardingService(OnboardingServiceOptions{Profiles: newMemProfileRepo()})
	require.Error(t, err)
	_, err = NewOnboardingService(OnboardingServiceOptions{Repo: newMemOnboardingRepo()})
	require.Error(t, err)
}

func TestOnboardingService_SaveInterests(t *testing.T) {
	svc, _ := newTestOnboardingService(t)
	ctx := context.Background()

	saved, err := svc.SaveInterests(ctx, "stu-1", validInterests())
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "distributed systems"}, saved.Interests)

	// A later save replaces the earlier set.
	replaced, err := svc.SaveInterests(ctx, "stu-1", &model.SaveInterestsRequest{
		Interests: []string{"  mobile "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mobile"}, replaced.Interests)

	got, err := svc.GetInterests(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mobile"}, got.Interests)
}

func TestOnboardingService_SaveInterestsValidation(t *testing.T) {
	svc, _ := newTestOnboardingService(t)
	ctx := context.Background()

	_, err := svc.SaveInterests(ctx, "stu-1", nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.SaveInterests(ctx, "stu-1", &model.SaveInterestsRequest{})
	assert.True(t, apperrors.IsValidation(err))

	// Whitespace-only entries are dropped before validation.
	_, err = svc.SaveInterests(ctx, "stu-1", &model.SaveInterestsRequest{Interests: []string{"  "}})
	assert.True(t, apperrors.IsValidation(err))
}

func TestOnboardingService_Achievements(t *testing.T) {
	svc, _ := newTestOnboardingService(t)
	ctx := context.Background()

	ach, err := svc.AddAchievement(ctx, "stu-1", &model.CreateAchievementRequest{
		Title:       "Smart India Hackathon winner",
		Description: "2023 finals",
	})
	require.NoError(t, err)

	_, err = svc.AddAchievement(ctx, "stu-1", &model.CreateAchievementRequest{})
	assert.True(t, apperrors.IsValidation(err))

	list, err := svc.ListAchievements(ctx, "stu-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Deleting someone else's achievement is not-found.
	err = svc.DeleteAchievement(ctx, "stu-2", ach.ID)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.DeleteAchievement(ctx, "stu-1", ach.ID))
	list, err = svc.ListAchievements(ctx, "stu-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOnboardingService_Complete(t *testing.T) {
	svc, profiles := newTestOnboardingService(t)
	ctx := context.Background()

	// Interests gate completion.
	err := svc.Complete(ctx, "stu-1")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.SaveInterests(ctx, "stu-1", validInterests())
	require.NoError(t, err)
	require.NoError(t, svc.Complete(ctx, "stu-1"))

	profile, err := profiles.GetByID(ctx, "stu-1")
	require.NoError(t, err)
	assert.True(t, profile.ProfileCompleted)
}

func TestOnboardingService_CompleteUnknownProfile(t *testing.T) {
	svc, _ := newTestOnboardingService(t)
	ctx := context.Background()

	_, err := svc.SaveInterests(ctx, "ghost", validInterests())
	require.NoError(t, err)
	err = svc.Complete(ctx, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}
