package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talentexcel/talentexcel-api/internal/core"
	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Stats  core.StatsRepository // Required: dashboard stats repository
	Logger *slog.Logger         // Optional: structured logger
}

// DashboardService serves the stat cards backing each role's dashboard.
type DashboardService struct {
	stats  core.StatsRepository
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) (*DashboardService, error) {
	if opts.Stats == nil {
		return nil, errors.New("StatsRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "dashboard_service")
	}
	return &DashboardService{stats: opts.Stats, logger: logger}, nil
}

// StatsFor returns the stats payload for the session's role. Placement
// officer stats are scoped to the college behind the officer's email
// domain.
func (s *DashboardService) StatsFor(ctx context.Context, sess domainauth.Session) (any, error) {
	switch sess.Role {
	case domainauth.RoleStudent:
		stats, err := s.stats.StudentStats(ctx, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("student stats: %w", err)
		}
		return stats, nil
	case domainauth.RoleEmployer:
		stats, err := s.stats.EmployerStats(ctx, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("employer stats: %w", err)
		}
		return stats, nil
	case domainauth.RoleTPO:
		domain := emailDomain(sess.Email)
		if domain == "" {
			return nil, apperrors.Internal("session email carries no domain")
		}
		stats, err := s.stats.TPOStats(ctx, domain)
		if err != nil {
			return nil, fmt.Errorf("tpo stats: %w", err)
		}
		return stats, nil
	case domainauth.RoleAdmin:
		stats, err := s.stats.AdminStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("admin stats: %w", err)
		}
		return stats, nil
	default:
		return nil, apperrors.Forbidden("no dashboard for this role")
	}
}

// emailDomain returns the lowercased domain part of an address, or the
// empty string when there is none.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
