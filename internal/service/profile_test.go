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

func newTestProfileService(t *testing.T) (*ProfileService, *memProfileRepo) {
	t.Helper()
	repo := newMemProfileRepo()
	_, err := repo.Create(context.Background(), &model.CreateProfileRequest{
		ID:       "emp-1",
		Email:    "hr@acme.example",
		Role:     domainauth.RoleEmployer,
		FullName: "Acme HR",
	})
	require.NoError(t, err)

	svc, err := NewProfileService(ProfileServiceOptions{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestNewProfileService_Validation(t *testing.T) {
	_, err := NewProfileService(ProfileServiceOptions{})
	require.Error(t, err)
}

func TestProfileService_Get(t *testing.T) {
	svc, _ := newTestProfileService(t)
	ctx := context.Background()

	profile, err := svc.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployer, profile.Role)

	_, err = svc.Get(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProfileService_SetFullName(t *testing.T) {
	svc, _ := newTestProfileService(t)
	ctx := context.Background()

	profile, err := svc.SetFullName(ctx, "emp-1", "Acme People Ops")
	require.NoError(t, err)
	assert.Equal(t, "Acme People Ops", profile.FullName)

	_, err = svc.SetFullName(ctx, "missing", "X")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProfileService_Delete(t *testing.T) {
	svc, repo := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "emp-1"))
	assert.Empty(t, repo.profiles)

	err := svc.Delete(ctx, "emp-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProfileService_List(t *testing.T) {
	svc, repo := newTestProfileService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.CreateProfileRequest{
		ID:       "stu-1",
		Email:    "asha@iitb.ac.in",
		Role:     domainauth.RoleStudent,
		FullName: "Asha Rao",
	})
	require.NoError(t, err)

	profiles, err := svc.List(ctx, model.ProfileListOptions{})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestProfileRoles_RoleFor(t *testing.T) {
	_, repo := newTestProfileService(t)
	roles := NewProfileRoles(repo)
	ctx := context.Background()

	role, err := roles.RoleFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployer, role)

	// A missing profile row is an unresolved role, not an error.
	role, err = roles.RoleFor(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUnknown, role)
}

func Test_normalizeProfileListOptions(t *testing.T) {
	opts := normalizeProfileListOptions(model.ProfileListOptions{Offset: -1})
	assert.Equal(t, 50, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.Equal(t, "created_at", opts.Sort)
	assert.Equal(t, "desc", opts.Dir)
}
