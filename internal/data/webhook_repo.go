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

	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// WebhookRepo provides database operations for application webhooks.
type WebhookRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(db *sql.DB) *WebhookRepo {
	return &WebhookRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create registers a webhook for the employer.
func (r *WebhookRepo) Create(
	ctx context.Context,
	employerID string,
	req *model.CreateWebhookRequest,
) (*model.ApplicationWebhook, error) {
	if req == nil {
		return nil, errors.New("create webhook request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := r.timeProvider.Now().UTC()
	var out model.ApplicationWebhook
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO application_webhooks (id, employer_id, url, filter, enabled, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+webhookColumnList,
			uuid.NewString(), employerID, req.URL, req.Filter, enabled, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ApplicationWebhook])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a webhook by ID.
func (r *WebhookRepo) GetByID(ctx context.Context, id string) (*model.ApplicationWebhook, error) {
	var out model.ApplicationWebhook
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+webhookColumnList+` FROM application_webhooks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ApplicationWebhook])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWebhookNotFound
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return &out, nil
}

// ListByEmployer returns all of an employer's webhooks.
func (r *WebhookRepo) ListByEmployer(
	ctx context.Context,
	employerID string,
) ([]*model.ApplicationWebhook, error) {
	return r.collect(ctx, `
		SELECT `+webhookColumnList+`
		FROM application_webhooks WHERE employer_id = $1
		ORDER BY created_at DESC
	`, []any{employerID}, "failed to list webhooks")
}

// ListEnabledByEmployer returns the webhooks eligible for dispatch.
func (r *WebhookRepo) ListEnabledByEmployer(
	ctx context.Context,
	employerID string,
) ([]*model.ApplicationWebhook, error) {
	return r.collect(ctx, `
		SELECT `+webhookColumnList+`
		FROM application_webhooks WHERE employer_id = $1 AND enabled
		ORDER BY created_at DESC
	`, []any{employerID}, "failed to list enabled webhooks")
}

// Update updates fields of a webhook.
func (r *WebhookRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateWebhookRequest,
) (*model.ApplicationWebhook, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.URL != nil {
		setParts = append(setParts, fmt.Sprintf("url = $%d", nextIdx()))
		args = append(args, *req.URL)
	}
	if req.Filter != nil {
		setParts = append(setParts, fmt.Sprintf("filter = $%d", nextIdx()))
		args = append(args, *req.Filter)
	}
	if req.Enabled != nil {
		setParts = append(setParts, fmt.Sprintf("enabled = $%d", nextIdx()))
		args = append(args, *req.Enabled)
	}
	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	args = append(args, id)

	query := "UPDATE application_webhooks SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + webhookColumnList

	var out model.ApplicationWebhook
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ApplicationWebhook])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWebhookNotFound
		}
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	return &out, nil
}

// Delete removes a webhook by ID.
func (r *WebhookRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM application_webhooks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete webhook: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const webhookColumnList = "id, employer_id, url, filter, enabled, created_at, updated_at"

func (r *WebhookRepo) collect(
	ctx context.Context,
	query string,
	args []any,
	errMsg string,
) ([]*model.ApplicationWebhook, error) {
	var rowsOut []model.ApplicationWebhook
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ApplicationWebhook])
		return err
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}

	res := make([]*model.ApplicationWebhook, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
