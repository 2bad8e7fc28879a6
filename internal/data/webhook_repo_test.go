package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/testutil"
)

func TestWebhookRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		employer := createTestProfile(t, db, domainauth.RoleEmployer)
		repo := NewWebhookRepo(db)

		w, err := repo.Create(ctx, employer.ID, &model.CreateWebhookRequest{
			URL:    "https://hooks.example.com/apps",
			Filter: "status == 'accepted'",
		})
		require.NoError(t, err)
		assert.True(t, w.Enabled)

		// invalid filter rejected before touching the database
		_, err = repo.Create(ctx, employer.ID, &model.CreateWebhookRequest{
			URL:    "https://hooks.example.com/apps",
			Filter: "status ==",
		})
		assert.Error(t, err)

		// disable via update
		disabled := false
		w, err = repo.Update(ctx, w.ID, model.UpdateWebhookRequest{Enabled: &disabled})
		require.NoError(t, err)
		assert.False(t, w.Enabled)

		all, err := repo.ListByEmployer(ctx, employer.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		enabled, err := repo.ListEnabledByEmployer(ctx, employer.ID)
		require.NoError(t, err)
		assert.Empty(t, enabled)

		deleted, err := repo.Delete(ctx, w.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, w.ID)
		assert.ErrorIs(t, err, ErrWebhookNotFound)
	})
}

func TestCollegeDomainRepo_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewCollegeDomainRepo(db)

		cd, err := repo.Create(ctx, &model.CreateCollegeDomainRequest{
			Domain:      "@IITB.AC.IN",
			CollegeName: "IIT Bombay",
			MatchKind:   model.DomainMatchRegistrable,
		})
		require.NoError(t, err)
		assert.Equal(t, "iitb.ac.in", cd.Domain)

		_, err = repo.Create(ctx, &model.CreateCollegeDomainRequest{
			Domain:      "iitb.ac.in",
			CollegeName: "Duplicate",
		})
		assert.ErrorIs(t, err, ErrCollegeDomainExists)

		lst, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, lst, 1)

		got, err := repo.GetByID(ctx, cd.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DomainMatchRegistrable, got.MatchKind)

		deleted, err := repo.Delete(ctx, cd.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestContactRepo_CreateListDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewContactRepo(db)

		msg, err := repo.Create(ctx, &model.CreateContactMessageRequest{
			Name:    "Grace",
			Email:   "grace@example.com",
			Subject: "Hello",
			Message: "Interested in a partnership.",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)

		lst, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, lst, 1)

		deleted, err := repo.Delete(ctx, msg.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}
