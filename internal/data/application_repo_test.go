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

func TestApplicationRepo_SubmitAndReview(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		employer := createTestProfile(t, db, domainauth.RoleEmployer)
		student := createTestProfile(t, db, domainauth.RoleStudent)

		jobs := NewJobListingRepo(db)
		job, err := jobs.Create(ctx, employer.ID, testutil.NewJobRequest().Build())
		require.NoError(t, err)

		repo := NewApplicationRepo(db)

		app, err := repo.Create(ctx, student.ID, &model.CreateApplicationRequest{
			JobID:       job.ID,
			CoverLetter: "I would love to work here.",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationSubmitted, app.Status)

		// one application per student per listing
		_, err = repo.Create(ctx, student.ID, &model.CreateApplicationRequest{JobID: job.ID})
		assert.ErrorIs(t, err, ErrAlreadyApplied)

		// student view carries listing details
		mine, err := repo.ListByStudent(ctx, student.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, job.Title, mine[0].JobTitle)
		assert.Equal(t, job.Company, mine[0].Company)

		// employer view
		received, err := repo.ListByEmployer(ctx, employer.ID)
		require.NoError(t, err)
		require.Len(t, received, 1)

		// per-job view
		byJob, err := repo.ListByJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, byJob, 1)

		// review
		reviewed, err := repo.UpdateStatus(ctx, app.ID, model.ApplicationAccepted)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationAccepted, reviewed.Status)

		_, err = repo.UpdateStatus(ctx, app.ID, "withdrawn")
		assert.Error(t, err)

		// withdraw
		deleted, err := repo.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, app.ID)
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})
}

func TestSavedJobRepo_SaveUnsave(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		employer := createTestProfile(t, db, domainauth.RoleEmployer)
		student := createTestProfile(t, db, domainauth.RoleStudent)

		jobs := NewJobListingRepo(db)
		job, err := jobs.Create(ctx, employer.ID, testutil.NewJobRequest().Build())
		require.NoError(t, err)

		repo := NewSavedJobRepo(db)

		saved, err := repo.Save(ctx, student.ID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job.ID, saved.JobID)

		// saving twice is idempotent
		again, err := repo.Save(ctx, student.ID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID)

		ok, err := repo.IsSaved(ctx, student.ID, job.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		lst, err := repo.ListByStudent(ctx, student.ID)
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, job.Title, lst[0].JobTitle)
		assert.Equal(t, model.JobStatusPublished, lst[0].Status)

		removed, err := repo.Unsave(ctx, student.ID, job.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Unsave(ctx, student.ID, job.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		ok, err = repo.IsSaved(ctx, student.ID, job.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
