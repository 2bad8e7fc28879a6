// Package devseed populates a development database with a recognizable
// set of accounts, college domains, and job listings.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// DevPassword is the password every seeded account signs in with.
const DevPassword = "talentexcel-dev"

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB          *sql.DB
	profiles    core.ProfileRepository
	credentials core.CredentialRepository
	colleges    *service.CollegeDomainService
	jobs        *service.JobService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	collegeSvc, err := service.NewCollegeDomainService(service.CollegeDomainServiceOptions{
		Repo: data.NewCollegeDomainRepo(db),
	})
	if err != nil {
		panic(err)
	}
	jobSvc, err := service.NewJobService(service.JobServiceOptions{
		Repo: data.NewJobListingRepo(db),
	})
	if err != nil {
		panic(err)
	}
	return Services{
		DB:          db,
		profiles:    data.NewProfileRepo(db),
		credentials: data.NewCredentialRepo(db),
		colleges:    collegeSvc,
		jobs:        jobSvc,
	}
}

// Run seeds development data. It is idempotent: entries that already
// exist are left alone.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	domains := seedCollegeDomains(ctx, svcs.colleges, logger)
	accounts, err := seedAccounts(ctx, svcs, logger)
	if err != nil {
		return err
	}
	jobs := seedJobListings(ctx, svcs, accounts, logger)

	logger.InfoContext(ctx, "development seed complete",
		"college_domains", domains,
		"accounts", len(accounts),
		"job_listings", jobs,
	)
	return nil
}

type seedAccount struct {
	ID       string
	Email    string
	FullName string
	Role     string
}

func seedAccountSpecs() []seedAccount {
	return []seedAccount{
		{ID: "seed-student", Email: "student@iitb.ac.in", FullName: "Seed Student", Role: "student"},
		{ID: "seed-employer", Email: "employer@acmecorp.com", FullName: "Seed Employer", Role: "employer"},
		{ID: "seed-tpo", Email: "tpo@iitb.ac.in", FullName: "Seed Placement Officer", Role: "tpo"},
		{ID: "seed-admin", Email: "admin@talentexcel.com", FullName: "Seed Admin", Role: "admin"},
	}
}

func defaultCollegeDomains() []*model.CreateCollegeDomainRequest {
	return []*model.CreateCollegeDomainRequest{
		{Domain: "iitb.ac.in", CollegeName: "IIT Bombay", MatchKind: model.DomainMatchRegistrable},
		{Domain: "iitd.ac.in", CollegeName: "IIT Delhi", MatchKind: model.DomainMatchRegistrable},
		{Domain: "vit.ac.in", CollegeName: "VIT Vellore", MatchKind: model.DomainMatchExact},
	}
}

func seedCollegeDomains(ctx context.Context, svc *service.CollegeDomainService, logger *slog.Logger) int {
	created := 0
	for _, req := range defaultCollegeDomains() {
		if _, err := svc.Create(ctx, req); err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			logger.WarnContext(ctx, "seed college domain failed", "domain", req.Domain, "error", err)
			continue
		}
		created++
	}
	return created
}

func seedAccounts(ctx context.Context, svcs Services, logger *slog.Logger) (map[string]seedAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DevPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash dev password: %w", err)
	}

	accounts := make(map[string]seedAccount)
	for _, spec := range seedAccountSpecs() {
		existing, getErr := svcs.profiles.GetByEmail(ctx, spec.Email)
		if getErr == nil {
			spec.ID = existing.ID
			accounts[spec.Role] = spec
			continue
		}
		if !errors.Is(getErr, data.ErrProfileNotFound) {
			return nil, fmt.Errorf("look up profile %s: %w", spec.Email, getErr)
		}

		role, ok := domainauth.ParseRole(spec.Role)
		if !ok {
			return nil, fmt.Errorf("invalid seed role %q", spec.Role)
		}
		if _, createErr := svcs.profiles.Create(ctx, &model.CreateProfileRequest{
			ID:       spec.ID,
			Email:    spec.Email,
			Role:     role,
			FullName: spec.FullName,
		}); createErr != nil {
			return nil, fmt.Errorf("create profile %s: %w", spec.Email, createErr)
		}
		if credErr := svcs.credentials.Create(ctx, core.CreateCredentialParams{
			UserID: spec.ID,
			Email:  spec.Email,
			Hash:   hash,
		}); credErr != nil {
			return nil, fmt.Errorf("create credentials %s: %w", spec.Email, credErr)
		}

		logger.InfoContext(ctx, "seeded account", "email", spec.Email, "role", spec.Role)
		accounts[spec.Role] = spec
	}
	return accounts, nil
}

func defaultJobSeeds() []*model.CreateJobRequest {
	return []*model.CreateJobRequest{
		{
			Title:       "Backend Engineering Intern",
			Company:     "Acme Corp",
			Description: "Work on Go services backing the hiring pipeline.",
			Location:    "Mumbai",
			Type:        model.JobTypeInternship,
			Remote:      false,
			SalaryRange: "30k-40k/month",
			Publish:     true,
		},
		{
			Title:       "Frontend Engineer",
			Company:     "Acme Corp",
			Description: "Own the candidate-facing React application.",
			Location:    "Bengaluru",
			Type:        model.JobTypeFullTime,
			Remote:      true,
			SalaryRange: "18-24 LPA",
			Publish:     true,
		},
		{
			Title:       "Data Analyst (Contract)",
			Company:     "Acme Corp",
			Description: "Placement funnel reporting for campus drives.",
			Location:    "Remote",
			Type:        model.JobTypeContract,
			Remote:      true,
			SalaryRange: "",
			Publish:     false,
		},
	}
}

func seedJobListings(ctx context.Context, svcs Services, accounts map[string]seedAccount, logger *slog.Logger) int {
	employer, ok := accounts["employer"]
	if !ok {
		return 0
	}

	existing, err := svcs.jobs.ListByEmployer(ctx, employer.ID, model.JobListOptions{Limit: 1})
	if err != nil {
		logger.WarnContext(ctx, "list seeded jobs failed", "error", err)
		return 0
	}
	if len(existing) > 0 {
		return 0
	}

	created := 0
	for _, req := range defaultJobSeeds() {
		if _, createErr := svcs.jobs.Create(ctx, employer.ID, req); createErr != nil {
			logger.WarnContext(ctx, "seed job listing failed", "title", req.Title, "error", createErr)
			continue
		}
		created++
	}
	return created
}
