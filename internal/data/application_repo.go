package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// ApplicationRepo provides database operations for job applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider.
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

// Create submits an application. The unique (job_id, student_id) constraint
// enforces one application per student per listing.
func (r *ApplicationRepo) Create(
	ctx context.Context,
	studentID string,
	req *model.CreateApplicationRequest,
) (*model.Application, error) {
	if req == nil {
		return nil, errors.New("create application request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO applications (
				id, job_id, student_id, cover_letter, resume_url, status, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $7
			) RETURNING `+applicationColumnList,
			uuid.NewString(),
			req.JobID,
			studentID,
			req.CoverLetter,
			req.ResumeURL,
			model.ApplicationSubmitted,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+applicationColumnList+` FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &out, nil
}

// ListByStudent returns a student's applications with listing details.
func (r *ApplicationRepo) ListByStudent(
	ctx context.Context,
	studentID string,
) ([]*model.ApplicationWithJob, error) {
	return r.collectWithJob(ctx, `
		SELECT `+applicationJoinColumnList+`
		FROM applications a
		JOIN job_listings j ON j.id = a.job_id
		WHERE a.student_id = $1
		ORDER BY a.created_at DESC
	`, []any{studentID}, "failed to list applications by student")
}

// ListByEmployer returns applications received across an employer's listings.
func (r *ApplicationRepo) ListByEmployer(
	ctx context.Context,
	employerID string,
) ([]*model.ApplicationWithJob, error) {
	return r.collectWithJob(ctx, `
		SELECT `+applicationJoinColumnList+`
		FROM applications a
		JOIN job_listings j ON j.id = a.job_id
		WHERE j.employer_id = $1
		ORDER BY a.created_at DESC
	`, []any{employerID}, "failed to list applications by employer")
}

// ListByJob returns applications against a single listing.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	var rowsOut []model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+applicationColumnList+`
			FROM applications WHERE job_id = $1
			ORDER BY created_at DESC
		`, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}

	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateStatus moves an application to a new review state.
func (r *ApplicationRepo) UpdateStatus(
	ctx context.Context,
	id string,
	status model.ApplicationStatus,
) (*model.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q is not recognized", status)
	}

	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE applications SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+applicationColumnList,
			status, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return &out, nil
}

// Delete withdraws an application by ID.
func (r *ApplicationRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const (
	applicationColumnList = "id, job_id, student_id, cover_letter, resume_url, status, created_at, updated_at"

	applicationJoinColumnList = `a.id, a.job_id, a.student_id, a.cover_letter, a.resume_url, a.status,
		a.created_at, a.updated_at, j.title AS job_title, j.company`
)

func (r *ApplicationRepo) collectWithJob(
	ctx context.Context,
	query string,
	args []any,
	errMsg string,
) ([]*model.ApplicationWithJob, error) {
	var rowsOut []model.ApplicationWithJob
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ApplicationWithJob])
		return err
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}

	res := make([]*model.ApplicationWithJob, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
