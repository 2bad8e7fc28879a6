package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data/pgxutil"
)

// CredentialRepo stores password hashes for local accounts. It only ever
// sees hashes; hashing happens in the identity provider.
type CredentialRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts credentials for a new account.
func (r *CredentialRepo) Create(ctx context.Context, params core.CreateCredentialParams) error {
	if params.UserID == "" {
		return errors.New("user id is required")
	}
	if len(params.Hash) == 0 {
		return errors.New("password hash is required")
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO user_credentials (user_id, email, password_hash, created_at)
			VALUES ($1, $2, $3, $4)
		`,
			params.UserID,
			strings.ToLower(strings.TrimSpace(params.Email)),
			params.Hash,
			r.timeProvider.Now().UTC(),
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create credentials: %w", err)
	}
	return nil
}

// GetHashByEmail returns the identity id and password hash for an address.
func (r *CredentialRepo) GetHashByEmail(ctx context.Context, email string) (string, []byte, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		userID string
		hash   []byte
	)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT user_id, password_hash FROM user_credentials WHERE email = $1
		`, email).Scan(&userID, &hash)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrCredentialNotFound
		}
		return "", nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return userID, hash, nil
}

// Delete removes credentials for an identity id.
func (r *CredentialRepo) Delete(ctx context.Context, userID string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `DELETE FROM user_credentials WHERE user_id = $1`, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
