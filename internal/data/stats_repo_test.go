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

func TestStatsRepo_Dashboards(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		employer := createTestProfile(t, db, domainauth.RoleEmployer)
		student := createTestProfile(t, db, domainauth.RoleStudent)

		jobs := NewJobListingRepo(db)
		job, err := jobs.Create(ctx, employer.ID, testutil.NewJobRequest().Build())
		require.NoError(t, err)
		_, err = jobs.Create(ctx, employer.ID, testutil.NewJobRequest().AsDraft().Build())
		require.NoError(t, err)

		apps := NewApplicationRepo(db)
		app, err := apps.Create(ctx, student.ID, &model.CreateApplicationRequest{JobID: job.ID})
		require.NoError(t, err)
		_, err = apps.UpdateStatus(ctx, app.ID, model.ApplicationAccepted)
		require.NoError(t, err)

		_, err = NewSavedJobRepo(db).Save(ctx, student.ID, job.ID)
		require.NoError(t, err)

		repo := NewStatsRepo(db)

		ss, err := repo.StudentStats(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, ss.ApplicationsSubmitted)
		assert.Equal(t, 1, ss.ApplicationsAccepted)
		assert.Equal(t, 1, ss.SavedJobs)
		assert.Equal(t, 1, ss.OpenJobs)

		es, err := repo.EmployerStats(ctx, employer.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, es.ActiveListings)
		assert.Equal(t, 1, es.TotalApplications)
		assert.Equal(t, 0, es.PendingReview)
		assert.Equal(t, 1, es.AcceptedApplications)

		as, err := repo.AdminStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, as.TotalUsers)
		assert.Equal(t, 1, as.TotalEmployers)
		assert.Equal(t, 2, as.TotalJobs)
		assert.Equal(t, 0, as.TotalColleges)

		// scoped to the student's email domain
		ts, err := repo.TPOStats(ctx, "example.edu")
		require.NoError(t, err)
		assert.Equal(t, 1, ts.Students)
		assert.Equal(t, 1, ts.StudentsPlaced)
		assert.Equal(t, 1, ts.OpenJobs)
		assert.Equal(t, 1, ts.TotalApplications)
	})
}
