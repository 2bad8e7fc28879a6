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

// OnboardingRepo provides database operations for interests and achievements.
type OnboardingRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOnboardingRepo creates a new OnboardingRepo.
func NewOnboardingRepo(db *sql.DB) *OnboardingRepo {
	return &OnboardingRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// UpsertInterests writes the user's interests row, replacing any previous one.
func (r *OnboardingRepo) UpsertInterests(
	ctx context.Context,
	userID string,
	req *model.SaveInterestsRequest,
) (*model.UserInterests, error) {
	if req == nil {
		return nil, errors.New("save interests request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.UserInterests
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO user_interests (user_id, interests, tech_stack, role_preference, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET
				interests = EXCLUDED.interests,
				tech_stack = EXCLUDED.tech_stack,
				role_preference = EXCLUDED.role_preference,
				updated_at = EXCLUDED.updated_at
			RETURNING user_id, interests, tech_stack, role_preference, updated_at
		`, userID, req.Interests, req.TechStack, req.RolePreference, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserInterests])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save interests: %w", err)
	}
	return &out, nil
}

// GetInterests returns the user's interests row, or nil when onboarding
// has not been completed.
func (r *OnboardingRepo) GetInterests(ctx context.Context, userID string) (*model.UserInterests, error) {
	var out model.UserInterests
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT user_id, interests, tech_stack, role_preference, updated_at
			FROM user_interests WHERE user_id = $1
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserInterests])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interests: %w", err)
	}
	return &out, nil
}

// AddAchievement appends an achievement to the user's list.
func (r *OnboardingRepo) AddAchievement(
	ctx context.Context,
	userID string,
	req *model.CreateAchievementRequest,
) (*model.Achievement, error) {
	if req == nil {
		return nil, errors.New("create achievement request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Achievement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO user_achievements (id, user_id, title, description, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id, title, description, created_at
		`, uuid.NewString(), userID, req.Title, req.Description, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Achievement])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add achievement: %w", err)
	}
	return &out, nil
}

// ListAchievements returns the user's achievements, newest first.
func (r *OnboardingRepo) ListAchievements(ctx context.Context, userID string) ([]*model.Achievement, error) {
	var rowsOut []model.Achievement
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, user_id, title, description, created_at
			FROM user_achievements WHERE user_id = $1
			ORDER BY created_at DESC
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Achievement])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	res := make([]*model.Achievement, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// DeleteAchievement removes one of the user's achievements. The user id
// guard keeps students from deleting each other's entries.
func (r *OnboardingRepo) DeleteAchievement(ctx context.Context, userID, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM user_achievements WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete achievement: %w", err)
	}
	return rows > 0, nil
}
