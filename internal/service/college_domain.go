package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/net/publicsuffix"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

const domainListPageSize = 200

// CollegeDomainServiceOptions groups dependencies for CollegeDomainService.
type CollegeDomainServiceOptions struct {
	Repo   core.CollegeDomainRepository // Required: college domain repository
	Logger *slog.Logger                 // Optional: structured logger
}

// CollegeDomainService maintains the college email-domain allowlist and
// answers whether an address belongs to a recognized college. Student and
// placement officer registrations are gated on it.
type CollegeDomainService struct {
	repo   core.CollegeDomainRepository
	logger *slog.Logger
}

// NewCollegeDomainService constructs a new CollegeDomainService.
func NewCollegeDomainService(opts CollegeDomainServiceOptions) (*CollegeDomainService, error) {
	if opts.Repo == nil {
		return nil, errors.New("CollegeDomainRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "college_domain_service")
	}
	return &CollegeDomainService{repo: opts.Repo, logger: logger}, nil
}

// Create adds an allowlist entry.
func (s *CollegeDomainService) Create(
	ctx context.Context,
	req *model.CreateCollegeDomainRequest,
) (*model.CollegeDomain, error) {
	if req == nil {
		return nil, apperrors.Validation("create college domain request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	entry, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrCollegeDomainExists) {
			return nil, apperrors.Conflict("college domain already exists")
		}
		return nil, fmt.Errorf("create college domain: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "college domain added",
			"id", entry.ID, "domain", entry.Domain, "match_kind", entry.MatchKind)
	}
	return entry, nil
}

// GetByID retrieves an allowlist entry.
func (s *CollegeDomainService) GetByID(ctx context.Context, id string) (*model.CollegeDomain, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrCollegeDomainNotFound) {
			return nil, apperrors.NotFound("college domain not found")
		}
		return nil, fmt.Errorf("get college domain: %w", err)
	}
	return entry, nil
}

// List returns a page of allowlist entries.
func (s *CollegeDomainService) List(ctx context.Context, limit, offset int) ([]*model.CollegeDomain, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list college domains: %w", err)
	}
	return entries, nil
}

// Delete removes an allowlist entry.
func (s *CollegeDomainService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete college domain: %w", err)
	}
	if !ok {
		return apperrors.NotFound("college domain not found")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "college domain removed", "id", id)
	}
	return nil
}

// VerifyEmailDomain reports whether the address belongs to an allowlisted
// college. Exact entries match the email domain verbatim; registrable
// entries match any subdomain sharing the entry's eTLD+1.
func (s *CollegeDomainService) VerifyEmailDomain(ctx context.Context, email string) (bool, error) {
	domain := emailDomain(email)
	if domain == "" {
		return false, nil
	}

	entries, err := s.listAll(ctx)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if s.entryMatches(entry, domain) {
			return true, nil
		}
	}
	return false, nil
}

func (s *CollegeDomainService) entryMatches(entry *model.CollegeDomain, domain string) bool {
	if entry.Domain == domain {
		return true
	}
	if entry.MatchKind != model.DomainMatchRegistrable {
		return false
	}
	candidate, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return false
	}
	registered, err := publicsuffix.EffectiveTLDPlusOne(entry.Domain)
	if err != nil {
		// Entries that are themselves a public suffix cannot anchor a
		// registrable match.
		if s.logger != nil {
			s.logger.Warn("college domain entry has no registrable domain",
				"id", entry.ID, "domain", entry.Domain)
		}
		return false
	}
	return candidate == registered
}

// listAll pages through the whole allowlist. The table stays small; paging
// guards against a single oversized query rather than memory use.
func (s *CollegeDomainService) listAll(ctx context.Context) ([]*model.CollegeDomain, error) {
	var all []*model.CollegeDomain
	for offset := 0; ; offset += domainListPageSize {
		page, err := s.repo.List(ctx, domainListPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list college domains: %w", err)
		}
		all = append(all, page...)
		if len(page) < domainListPageSize {
			return all, nil
		}
	}
}

// CollegeFor returns the college entry matching the address, or nil when
// no entry matches. Registration uses it to attribute students to their
// college.
func (s *CollegeDomainService) CollegeFor(ctx context.Context, email string) (*model.CollegeDomain, error) {
	domain := emailDomain(email)
	if domain == "" {
		return nil, nil
	}
	entries, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if s.entryMatches(entry, domain) {
			return entry, nil
		}
	}
	return nil, nil
}
