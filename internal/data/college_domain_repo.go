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

// CollegeDomainRepo provides database operations for the college domain allowlist.
type CollegeDomainRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCollegeDomainRepo creates a new CollegeDomainRepo.
func NewCollegeDomainRepo(db *sql.DB) *CollegeDomainRepo {
	return &CollegeDomainRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new allowlist entry.
func (r *CollegeDomainRepo) Create(
	ctx context.Context,
	req *model.CreateCollegeDomainRequest,
) (*model.CollegeDomain, error) {
	if req == nil {
		return nil, errors.New("create college domain request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.CollegeDomain
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO college_domains (id, domain, college_name, match_kind, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, domain, college_name, match_kind, created_at
		`, uuid.NewString(), req.Domain, req.CollegeName, req.MatchKind, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CollegeDomain])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrCollegeDomainExists
		}
		return nil, fmt.Errorf("failed to create college domain: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an allowlist entry by ID.
func (r *CollegeDomainRepo) GetByID(ctx context.Context, id string) (*model.CollegeDomain, error) {
	var out model.CollegeDomain
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, domain, college_name, match_kind, created_at
			FROM college_domains WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CollegeDomain])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollegeDomainNotFound
		}
		return nil, fmt.Errorf("failed to get college domain: %w", err)
	}
	return &out, nil
}

// List retrieves allowlist entries with pagination.
func (r *CollegeDomainRepo) List(ctx context.Context, limit, offset int) ([]*model.CollegeDomain, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.CollegeDomain
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, domain, college_name, match_kind, created_at
			FROM college_domains
			ORDER BY domain ASC
			LIMIT $1 OFFSET $2
		`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.CollegeDomain])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list college domains: %w", err)
	}

	res := make([]*model.CollegeDomain, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes an allowlist entry by ID.
func (r *CollegeDomainRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM college_domains WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete college domain: %w", err)
	}
	return rows > 0, nil
}
