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

func TestJobListingRepo_Create_Get_Update_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		employer := createTestProfile(t, db, domainauth.RoleEmployer)
		repo := NewJobListingRepo(db)

		j, err := repo.Create(ctx, employer.ID, testutil.NewJobRequest().
			WithTitle("Platform Intern").
			WithType(model.JobTypeInternship).
			Build())
		require.NoError(t, err)
		assert.NotEmpty(t, j.ID)
		assert.Equal(t, employer.ID, j.EmployerID)
		assert.Equal(t, model.JobStatusPublished, j.Status)
		assert.True(t, j.Open())

		// draft creation
		draft, err := repo.Create(ctx, employer.ID, testutil.NewJobRequest().AsDraft().Build())
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusDraft, draft.Status)

		// get
		got, err := repo.GetByID(ctx, j.ID)
		require.NoError(t, err)
		assert.Equal(t, "Platform Intern", got.Title)

		// employer listing includes drafts
		mine, err := repo.ListByEmployer(ctx, employer.ID, model.JobListOptions{})
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		// status filter
		published := model.JobStatusPublished
		pubOnly, err := repo.ListByEmployer(ctx, employer.ID, model.JobListOptions{Status: &published})
		require.NoError(t, err)
		assert.Len(t, pubOnly, 1)

		// update: close the listing
		closed := model.JobStatusClosed
		updated, err := repo.Update(ctx, j.ID, model.UpdateJobRequest{Status: &closed})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusClosed, updated.Status)
		assert.False(t, updated.Open())

		// empty update returns current row
		same, err := repo.Update(ctx, j.ID, model.UpdateJobRequest{})
		require.NoError(t, err)
		assert.Equal(t, updated.Status, same.Status)

		// delete
		deleted, err := repo.Delete(ctx, j.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, j.ID)
		assert.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestJobListingRepo_Search(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		employer := createTestProfile(t, db, domainauth.RoleEmployer)
		repo := NewJobListingRepo(db)

		_, err := repo.Create(ctx, employer.ID, testutil.NewJobRequest().
			WithTitle("Go Backend Engineer").
			WithLocation("Bengaluru").
			WithType(model.JobTypeFullTime).
			Build())
		require.NoError(t, err)

		_, err = repo.Create(ctx, employer.ID, testutil.NewJobRequest().
			WithTitle("Frontend Intern").
			WithLocation("Pune").
			WithType(model.JobTypeInternship).
			WithRemote(true).
			Build())
		require.NoError(t, err)

		// drafts never surface in search
		_, err = repo.Create(ctx, employer.ID, testutil.NewJobRequest().
			WithTitle("Hidden Draft Go Role").
			AsDraft().
			Build())
		require.NoError(t, err)

		// text query
		res, err := repo.Search(ctx, model.JobSearchFilter{Query: "go"}, model.JobListOptions{})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Go Backend Engineer", res[0].Title)

		// location filter
		res, err = repo.Search(ctx, model.JobSearchFilter{Location: "pune"}, model.JobListOptions{})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Frontend Intern", res[0].Title)

		// type filter
		res, err = repo.Search(ctx, model.JobSearchFilter{Type: model.JobTypeInternship}, model.JobListOptions{})
		require.NoError(t, err)
		require.Len(t, res, 1)

		// remote filter
		remote := true
		res, err = repo.Search(ctx, model.JobSearchFilter{Remote: &remote}, model.JobListOptions{})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.True(t, res[0].Remote)

		// no filters returns all published
		res, err = repo.Search(ctx, model.JobSearchFilter{}, model.JobListOptions{})
		require.NoError(t, err)
		assert.Len(t, res, 2)

		// invalid type rejected
		_, err = repo.Search(ctx, model.JobSearchFilter{Type: "gig"}, model.JobListOptions{})
		assert.Error(t, err)
	})
}
