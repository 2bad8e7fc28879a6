package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Repo   core.ProfileRepository // Required: profile repository
	Logger *slog.Logger           // Optional: structured logger
}

// ProfileService provides profile reads for account holders and profile
// administration for admins.
type ProfileService struct {
	repo   core.ProfileRepository
	logger *slog.Logger
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) (*ProfileService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ProfileRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "profile_service")
	}
	return &ProfileService{repo: opts.Repo, logger: logger}, nil
}

// Get retrieves a profile by identity id.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, apperrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// List returns a page of profiles for the admin view.
func (s *ProfileService) List(ctx context.Context, opts model.ProfileListOptions) ([]*model.Profile, error) {
	profiles, err := s.repo.List(ctx, normalizeProfileListOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// SetFullName updates the display name on the caller's own profile.
func (s *ProfileService) SetFullName(ctx context.Context, id, fullName string) (*model.Profile, error) {
	profile, err := s.repo.SetFullName(ctx, id, fullName)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, apperrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("set full name: %w", err)
	}
	return profile, nil
}

// Delete removes a profile. Admin only; the dependent marketplace rows go
// with it through the schema's cascades.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if !ok {
		return apperrors.NotFound("profile not found")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "profile deleted", "id", id)
	}
	return nil
}

// ProfileRoles adapts a ProfileRepository to the role lookup the session
// watcher consumes.
type ProfileRoles struct {
	repo core.ProfileRepository
}

// NewProfileRoles constructs a ProfileRoles over the repository.
func NewProfileRoles(repo core.ProfileRepository) *ProfileRoles {
	if repo == nil {
		panic("ProfileRepository is required")
	}
	return &ProfileRoles{repo: repo}
}

var _ ports.ProfileStore = (*ProfileRoles)(nil)

// RoleFor returns the role recorded for the identity. A missing profile
// row is not an error; the role is simply unresolved.
func (p *ProfileRoles) RoleFor(ctx context.Context, userID string) (domainauth.Role, error) {
	profile, err := p.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return domainauth.RoleUnknown, nil
		}
		return domainauth.RoleUnknown, fmt.Errorf("get profile: %w", err)
	}
	return profile.Role, nil
}

func normalizeProfileListOptions(opts model.ProfileListOptions) model.ProfileListOptions {
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
