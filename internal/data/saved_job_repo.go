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

// SavedJobRepo provides database operations for student job bookmarks.
type SavedJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSavedJobRepo creates a new SavedJobRepo.
func NewSavedJobRepo(db *sql.DB) *SavedJobRepo {
	return &SavedJobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Save bookmarks a listing for a student. Saving an already saved job
// returns the existing bookmark.
func (r *SavedJobRepo) Save(ctx context.Context, studentID, jobID string) (*model.SavedJob, error) {
	var out model.SavedJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO saved_jobs (id, student_id, job_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (student_id, job_id) DO UPDATE SET student_id = EXCLUDED.student_id
			RETURNING id, student_id, job_id, created_at
		`, uuid.NewString(), studentID, jobID, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SavedJob])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	return &out, nil
}

// Unsave removes a bookmark. Returns false when no bookmark existed.
func (r *SavedJobRepo) Unsave(ctx context.Context, studentID, jobID string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM saved_jobs WHERE student_id = $1 AND job_id = $2`, studentID, jobID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to unsave job: %w", err)
	}
	return rows > 0, nil
}

// ListByStudent returns a student's bookmarks with listing details.
func (r *SavedJobRepo) ListByStudent(
	ctx context.Context,
	studentID string,
) ([]*model.SavedJobWithListing, error) {
	var rowsOut []model.SavedJobWithListing
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT s.id, s.student_id, s.job_id, s.created_at,
			       j.title AS job_title, j.company, j.location, j.status AS job_status
			FROM saved_jobs s
			JOIN job_listings j ON j.id = s.job_id
			WHERE s.student_id = $1
			ORDER BY s.created_at DESC
		`, studentID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SavedJobWithListing])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}

	res := make([]*model.SavedJobWithListing, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// IsSaved reports whether the student has bookmarked the listing.
func (r *SavedJobRepo) IsSaved(ctx context.Context, studentID, jobID string) (bool, error) {
	var saved bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM saved_jobs WHERE student_id = $1 AND job_id = $2)
		`, studentID, jobID).Scan(&saved)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check saved job: %w", err)
	}
	return saved, nil
}
