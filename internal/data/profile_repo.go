package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/talentexcel/talentexcel-api/internal/data/database"
	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// ProfileRepo provides database operations for user profiles.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProfileRepoWithTimeProvider creates a new ProfileRepo with a custom time provider (useful for tests).
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// Create inserts a new profile row. The id comes from the identity provider,
// not the database.
func (r *ProfileRepo) Create(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	if req == nil {
		return nil, errors.New("create profile request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Profile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO profiles (
				id, email, role, full_name, profile_completed, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, FALSE, $5, $5
			) RETURNING id, email, role, full_name, profile_completed, created_at, updated_at
		`,
			req.ID,
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.Role,
			strings.TrimSpace(req.FullName),
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a profile by identity id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.getByQuery(ctx, profileGetByIDQuery, "failed to get profile by ID", id)
}

// GetByEmail retrieves a profile by email address.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getByQuery(ctx, profileGetByEmailQuery, "failed to get profile by email", email)
}

// List retrieves profiles with optional filters and sorting.
func (r *ProfileRepo) List(ctx context.Context, opts model.ProfileListOptions) ([]*model.Profile, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	query, args := database.BuildListQuery(r.buildProfileQueryOptions(opts, limit, offset))

	var rowsOut []model.Profile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Profile])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	res := make([]*model.Profile, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SetFullName updates a profile's display name.
func (r *ProfileRepo) SetFullName(ctx context.Context, id, fullName string) (*model.Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, errors.New("full_name is required")
	}

	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE profiles SET full_name = $1, updated_at = $2
			WHERE id = $3
			RETURNING id, email, role, full_name, profile_completed, created_at, updated_at
		`, fullName, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// MarkCompleted flags a profile as having finished onboarding.
func (r *ProfileRepo) MarkCompleted(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE profiles SET profile_completed = TRUE, updated_at = $1 WHERE id = $2
		`, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark profile completed: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// Delete deletes a profile by identity id.
func (r *ProfileRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const (
	profileGetByIDQuery = `
		SELECT id, email, role, full_name, profile_completed, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	profileGetByEmailQuery = `
		SELECT id, email, role, full_name, profile_completed, created_at, updated_at
		FROM profiles
		WHERE email = $1`
)

func profileColumns() []string {
	return []string{
		"id",
		"email",
		"role",
		"full_name",
		"profile_completed",
		"created_at",
		"updated_at",
	}
}

// buildProfileQueryOptions builds query options for profile listing with filters and sorting.
func (r *ProfileRepo) buildProfileQueryOptions(
	opts model.ProfileListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(profileColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("email", database.ILike, q),
		))
	}
	if opts.Role != nil && strings.TrimSpace(*opts.Role) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("role", database.Equal, strings.TrimSpace(*opts.Role)),
		))
	}

	sortCol, sortDir := validateProfileSort(opts.Sort, opts.Dir)
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions("profiles", queryOpts...)
}

// validateProfileSort validates and returns safe sort column and direction.
func validateProfileSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"email":      "email",
			"created_at": "created_at",
		}
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}

func (r *ProfileRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Profile, error) {
	var profile model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		profile, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &profile, nil
}

func (r *ProfileRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrProfileNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailExists
	}
	return err
}
