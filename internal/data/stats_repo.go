package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// StatsRepo provides aggregate queries backing the per-role dashboards.
type StatsRepo struct {
	DB *sql.DB
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// StudentStats returns the student dashboard counters.
func (r *StatsRepo) StudentStats(ctx context.Context, studentID string) (*model.StudentDashboardStats, error) {
	var out model.StudentDashboardStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT
				(SELECT COUNT(*) FROM applications WHERE student_id = $1) AS applications_submitted,
				(SELECT COUNT(*) FROM applications WHERE student_id = $1 AND status = 'accepted') AS applications_accepted,
				(SELECT COUNT(*) FROM saved_jobs WHERE student_id = $1) AS saved_jobs,
				(SELECT COUNT(*) FROM job_listings WHERE status = 'published') AS open_jobs
		`, studentID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StudentDashboardStats])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get student stats: %w", err)
	}
	return &out, nil
}

// EmployerStats returns the employer dashboard counters.
func (r *StatsRepo) EmployerStats(ctx context.Context, employerID string) (*model.EmployerDashboardStats, error) {
	var out model.EmployerDashboardStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT
				(SELECT COUNT(*) FROM job_listings WHERE employer_id = $1 AND status = 'published') AS active_listings,
				(SELECT COUNT(*) FROM applications a JOIN job_listings j ON j.id = a.job_id
					WHERE j.employer_id = $1) AS total_applications,
				(SELECT COUNT(*) FROM applications a JOIN job_listings j ON j.id = a.job_id
					WHERE j.employer_id = $1 AND a.status = 'submitted') AS pending_review,
				(SELECT COUNT(*) FROM applications a JOIN job_listings j ON j.id = a.job_id
					WHERE j.employer_id = $1 AND a.status = 'accepted') AS accepted_applications
		`, employerID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EmployerDashboardStats])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get employer stats: %w", err)
	}
	return &out, nil
}

// TPOStats returns placement counters scoped to students whose email is
// under the officer's college domain.
func (r *StatsRepo) TPOStats(ctx context.Context, collegeDomain string) (*model.TPODashboardStats, error) {
	pattern := "%@" + collegeDomain

	var out model.TPODashboardStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT
				(SELECT COUNT(*) FROM profiles WHERE role = 'student' AND email LIKE $1) AS students,
				(SELECT COUNT(DISTINCT a.student_id) FROM applications a
					JOIN profiles p ON p.id = a.student_id
					WHERE a.status = 'accepted' AND p.email LIKE $1) AS students_placed,
				(SELECT COUNT(*) FROM job_listings WHERE status = 'published') AS open_jobs,
				(SELECT COUNT(*) FROM applications a
					JOIN profiles p ON p.id = a.student_id
					WHERE p.email LIKE $1) AS total_applications
		`, pattern)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TPODashboardStats])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tpo stats: %w", err)
	}
	return &out, nil
}

// AdminStats returns platform-wide counters.
func (r *StatsRepo) AdminStats(ctx context.Context) (*model.AdminDashboardStats, error) {
	var out model.AdminDashboardStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT
				(SELECT COUNT(*) FROM profiles) AS total_users,
				(SELECT COUNT(*) FROM profiles WHERE role = 'employer') AS total_employers,
				(SELECT COUNT(*) FROM job_listings) AS total_jobs,
				(SELECT COUNT(*) FROM college_domains) AS total_colleges
		`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminDashboardStats])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return &out, nil
}
