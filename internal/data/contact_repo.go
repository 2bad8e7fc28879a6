package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
)

// ContactRepo provides database operations for contact form messages.
type ContactRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewContactRepo creates a new ContactRepo.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create stores a submitted contact message.
func (r *ContactRepo) Create(
	ctx context.Context,
	req *model.CreateContactMessageRequest,
) (*model.ContactMessage, error) {
	if req == nil {
		return nil, errors.New("create contact message request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.ContactMessage
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO contact_messages (id, name, email, subject, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, name, email, subject, message, created_at
		`, uuid.NewString(), req.Name, req.Email, req.Subject, req.Message, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ContactMessage])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}
	return &out, nil
}

// List retrieves contact messages with pagination, newest first.
func (r *ContactRepo) List(ctx context.Context, limit, offset int) ([]*model.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.ContactMessage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, email, subject, message, created_at
			FROM contact_messages
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ContactMessage])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}

	res := make([]*model.ContactMessage, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a contact message by ID.
func (r *ContactRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete contact message: %w", err)
	}
	return rows > 0, nil
}
