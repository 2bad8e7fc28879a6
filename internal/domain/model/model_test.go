package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
)

func TestCreateProfileRequestValidate(t *testing.T) {
	valid := CreateProfileRequest{
		ID:       "11111111-1111-1111-1111-111111111111",
		Email:    "ada@example.edu",
		Role:     domainauth.RoleStudent,
		FullName: "Ada Lovelace",
	}

	t.Run("valid", func(t *testing.T) {
		r := valid
		require.NoError(t, r.Validate())
	})

	t.Run("bad role", func(t *testing.T) {
		r := valid
		r.Role = "superuser"
		assert.Error(t, r.Validate())
	})

	t.Run("bad email", func(t *testing.T) {
		for _, email := range []string{"", "noat.example.edu", "@example.edu", "user@", "user@nodot"} {
			r := valid
			r.Email = email
			assert.Error(t, r.Validate(), "email %q", email)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		r := valid
		r.FullName = strings.Repeat("a", 256)
		assert.Error(t, r.Validate())
	})
}

func TestCreateJobRequest(t *testing.T) {
	r := CreateJobRequest{
		Title:       "  Backend Intern ",
		Company:     "Acme",
		Description: "Build things",
		Location:    " Pune ",
		Type:        JobTypeInternship,
	}
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, "Backend Intern", r.Title)
	assert.Equal(t, "Pune", r.Location)

	r.Type = "gig"
	assert.Error(t, r.Validate())

	r.Type = JobTypeFullTime
	r.Title = ""
	assert.Error(t, r.Validate())
}

func TestUpdateJobRequest(t *testing.T) {
	empty := UpdateJobRequest{}
	assert.True(t, empty.Empty())
	require.NoError(t, empty.Validate())

	bad := JobStatus("archived")
	r := UpdateJobRequest{Status: &bad}
	assert.False(t, r.Empty())
	assert.Error(t, r.Validate())

	title := "  New Title "
	r = UpdateJobRequest{Title: &title}
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, "New Title", *r.Title)
}

func TestJobListingOpen(t *testing.T) {
	j := JobListing{Status: JobStatusPublished}
	assert.True(t, j.Open())
	j.Status = JobStatusClosed
	assert.False(t, j.Open())
	j.Status = JobStatusDraft
	assert.False(t, j.Open())
}

func TestCreateApplicationRequest(t *testing.T) {
	r := CreateApplicationRequest{JobID: " 11111111-1111-1111-1111-111111111111 "}
	r.Normalize()
	require.NoError(t, r.Validate())

	r.JobID = ""
	assert.Error(t, r.Validate())
}

func TestUpdateApplicationStatusRequest(t *testing.T) {
	for _, s := range []ApplicationStatus{ApplicationSubmitted, ApplicationReviewed, ApplicationAccepted, ApplicationRejected} {
		r := UpdateApplicationStatusRequest{Status: s}
		assert.NoError(t, r.Validate(), "status %q", s)
	}
	r := UpdateApplicationStatusRequest{Status: "withdrawn"}
	assert.Error(t, r.Validate())
}

func TestSaveInterestsRequest(t *testing.T) {
	r := SaveInterestsRequest{
		Interests: []string{" web ", "", "ml"},
		TechStack: []string{"go", "  "},
	}
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, []string{"web", "ml"}, r.Interests)
	assert.Equal(t, []string{"go"}, r.TechStack)

	r.Interests = nil
	assert.Error(t, r.Validate())
}

func TestCreateContactMessageRequest(t *testing.T) {
	r := CreateContactMessageRequest{
		Name:    " Grace ",
		Email:   "GRACE@Example.COM",
		Message: "hello",
	}
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, "grace@example.com", r.Email)

	r.Message = strings.Repeat("x", 5001)
	assert.Error(t, r.Validate())
}

func TestCreateCollegeDomainRequest(t *testing.T) {
	r := CreateCollegeDomainRequest{
		Domain:      " @MIT.EDU ",
		CollegeName: "MIT",
	}
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, "mit.edu", r.Domain)
	assert.Equal(t, DomainMatchExact, r.MatchKind)

	r.Domain = "not a domain"
	assert.Error(t, r.Validate())

	r.Domain = "mit.edu"
	r.MatchKind = "glob"
	assert.Error(t, r.Validate())
}

func TestCreateWebhookRequest(t *testing.T) {
	r := CreateWebhookRequest{URL: "https://hooks.example.com/app"}
	require.NoError(t, r.Validate())

	r.Filter = "status == 'accepted'"
	require.NoError(t, r.Validate())

	r.Filter = "status =="
	assert.Error(t, r.Validate())

	r.Filter = ""
	r.URL = "ftp://example.com"
	assert.Error(t, r.Validate())

	r.URL = "/relative"
	assert.Error(t, r.Validate())
}
