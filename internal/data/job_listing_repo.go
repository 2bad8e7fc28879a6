package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentexcel/talentexcel-api/internal/data/database"
	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// JobListingRepo provides database operations for job listings.
type JobListingRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobListingRepo creates a new JobListingRepo with real time provider.
func NewJobListingRepo(db *sql.DB) *JobListingRepo {
	return &JobListingRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobListingRepoWithTimeProvider creates a new JobListingRepo with a custom time provider.
func NewJobListingRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobListingRepo {
	return &JobListingRepo{DB: db, timeProvider: tp}
}

// Create inserts a new job listing owned by the employer.
func (r *JobListingRepo) Create(
	ctx context.Context,
	employerID string,
	req *model.CreateJobRequest,
) (*model.JobListing, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := model.JobStatusDraft
	if req.Publish {
		status = model.JobStatusPublished
	}

	now := r.timeProvider.Now().UTC()
	var out model.JobListing
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO job_listings (
				id, employer_id, title, company, description, location, type, remote, salary_range, status, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11
			) RETURNING `+jobListingColumnList,
			uuid.NewString(),
			employerID,
			req.Title,
			req.Company,
			req.Description,
			req.Location,
			req.Type,
			req.Remote,
			req.SalaryRange,
			status,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobListing])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create job listing: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a job listing by ID.
func (r *JobListingRepo) GetByID(ctx context.Context, id string) (*model.JobListing, error) {
	var out model.JobListing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+jobListingColumnList+` FROM job_listings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobListing])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}
	return &out, nil
}

// List retrieves listings with paging and an optional status filter.
func (r *JobListingRepo) List(ctx context.Context, opts model.JobListOptions) ([]*model.JobListing, error) {
	queryOpts := r.baseQueryOptions(opts)
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("job_listings", queryOpts...))
	return r.collect(ctx, query, args, "failed to list job listings")
}

// Search returns published listings matching the filter. Text filters match
// title, company, and description substrings.
func (r *JobListingRepo) Search(
	ctx context.Context,
	filter model.JobSearchFilter,
	opts model.JobListOptions,
) ([]*model.JobListing, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where := []string{"status = $1"}
	args := []any{string(model.JobStatusPublished)}
	next := func() string {
		return "$" + strconv.Itoa(len(args)+1)
	}

	if filter.Query != "" {
		q := "%" + filter.Query + "%"
		ph := next()
		where = append(where, "(title ILIKE "+ph+" OR company ILIKE "+ph+" OR description ILIKE "+ph+")")
		args = append(args, q)
	}
	if filter.Location != "" {
		where = append(where, "location ILIKE "+next())
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.Type != "" {
		where = append(where, "type = "+next())
		args = append(args, string(filter.Type))
	}
	if filter.Remote != nil {
		where = append(where, "remote = "+next())
		args = append(args, *filter.Remote)
	}

	query := `SELECT ` + jobListingColumnList + ` FROM job_listings WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT ` + next()
	args = append(args, limit)
	query += ` OFFSET ` + next()
	args = append(args, offset)

	return r.collect(ctx, query, args, "failed to search job listings")
}

// ListByEmployer retrieves all listings owned by an employer, drafts included.
func (r *JobListingRepo) ListByEmployer(
	ctx context.Context,
	employerID string,
	opts model.JobListOptions,
) ([]*model.JobListing, error) {
	queryOpts := r.baseQueryOptions(opts)
	queryOpts = append(queryOpts, database.WithCondition(
		database.WhereCond("employer_id", database.Equal, employerID),
	))
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("job_listings", queryOpts...))
	return r.collect(ctx, query, args, "failed to list employer job listings")
}

// Update updates fields of a job listing.
func (r *JobListingRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateJobRequest,
) (*model.JobListing, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Empty() {
		return r.GetByID(ctx, id)
	}

	setClause, args := r.buildUpdateClause(req)
	args = append(args, id)
	query := "UPDATE job_listings SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + jobListingColumnList

	var out model.JobListing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobListing])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job listing: %w", err)
	}
	return &out, nil
}

// Delete deletes a job listing by ID.
func (r *JobListingRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete job listing: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const jobListingColumnList = "id, employer_id, title, company, description, location, type, remote, salary_range, status, created_at, updated_at"

func jobListingColumns() []string {
	return strings.Split(jobListingColumnList, ", ")
}

func (r *JobListingRepo) baseQueryOptions(opts model.JobListOptions) []database.ListQueryOption {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	sortCol, sortDir := validateJobSort(opts.Sort, opts.Dir)
	return []database.ListQueryOption{
		database.WithColumns(jobListingColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy(sortCol, sortDir),
	}
}

// validateJobSort validates and returns safe sort column and direction.
func validateJobSort(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"title":      "title",
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

func (r *JobListingRepo) buildUpdateClause(req model.UpdateJobRequest) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, *req.Title)
	}
	if req.Company != nil {
		setParts = append(setParts, fmt.Sprintf("company = $%d", nextIdx()))
		args = append(args, *req.Company)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.Location != nil {
		setParts = append(setParts, fmt.Sprintf("location = $%d", nextIdx()))
		args = append(args, *req.Location)
	}
	if req.Type != nil {
		setParts = append(setParts, fmt.Sprintf("type = $%d", nextIdx()))
		args = append(args, *req.Type)
	}
	if req.Remote != nil {
		setParts = append(setParts, fmt.Sprintf("remote = $%d", nextIdx()))
		args = append(args, *req.Remote)
	}
	if req.SalaryRange != nil {
		setParts = append(setParts, fmt.Sprintf("salary_range = $%d", nextIdx()))
		args = append(args, *req.SalaryRange)
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

func (r *JobListingRepo) collect(
	ctx context.Context,
	query string,
	args []any,
	errMsg string,
) ([]*model.JobListing, error) {
	var rowsOut []model.JobListing
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobListing])
		return err
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}

	res := make([]*model.JobListing, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
