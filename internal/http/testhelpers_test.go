package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/ports"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// fakeResolver resolves session ids from a fixed map.
type fakeResolver struct {
	sessions map[string]domainauth.Session
}

func (f *fakeResolver) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, apperrors.Unauthorized("session not found")
	}
	return &sess, nil
}

func sessionFor(role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:        "sess-" + string(role),
		UserID:    "user-" + string(role),
		Email:     string(role) + "@example.edu",
		FullName:  "Test " + string(role),
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func resolverWith(roles ...domainauth.Role) *fakeResolver {
	f := &fakeResolver{sessions: make(map[string]domainauth.Session)}
	for _, r := range roles {
		sess := sessionFor(r)
		f.sessions[sess.ID] = sess
	}
	return f
}

func withSessionCookie(r *http.Request, role domainauth.Role) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-" + string(role)})
	return r
}

// fakeAuthAPI scripts auth service responses for handler tests.
type fakeAuthAPI struct {
	fakeResolver

	signUpResult *service.SignUpResult
	signUpErr    error

	sessionResult *service.SessionResult
	sessionErr    error

	signedOut []string
}

func (f *fakeAuthAPI) SignUp(context.Context, ports.SignUpInput) (*service.SignUpResult, error) {
	return f.signUpResult, f.signUpErr
}

func (f *fakeAuthAPI) VerifyOTP(context.Context, ports.VerifyOTPInput) (*service.SessionResult, error) {
	return f.sessionResult, f.sessionErr
}

func (f *fakeAuthAPI) ResendOTP(context.Context, string) error { return nil }

func (f *fakeAuthAPI) SignIn(context.Context, ports.PasswordSignInInput) (*service.SessionResult, error) {
	return f.sessionResult, f.sessionErr
}

func (f *fakeAuthAPI) SignOut(_ context.Context, sessionID string) (*service.SignOutResult, error) {
	f.signedOut = append(f.signedOut, sessionID)
	return &service.SignOutResult{Next: "/"}, nil
}

func (f *fakeAuthAPI) BeginSSOLogin(context.Context, string) (*service.BeginSSOLoginResult, error) {
	return &service.BeginSSOLoginResult{AuthURL: "https://idp.example.com/authorize", State: "st", Nonce: "n"}, nil
}

func (f *fakeAuthAPI) CompleteSSOLogin(context.Context, ports.ExchangeInput) (*service.SessionResult, error) {
	return f.sessionResult, f.sessionErr
}

// fakeWatcher serves canned snapshots.
type fakeWatcher struct {
	ready     bool
	snapshots map[string]domainauth.Snapshot
}

func (f *fakeWatcher) Ready() bool { return f.ready }

func (f *fakeWatcher) Snapshot(_ context.Context, sessionID string) domainauth.Snapshot {
	if !f.ready {
		return domainauth.Snapshot{Role: domainauth.RoleUnknown, Loading: true}
	}
	snap, ok := f.snapshots[sessionID]
	if !ok {
		return domainauth.UnauthenticatedSnapshot()
	}
	return snap
}

// stubContactRepo is a minimal in-memory contact repository.
type stubContactRepo struct {
	mu   sync.Mutex
	msgs []*model.ContactMessage
}

func (s *stubContactRepo) Create(_ context.Context, req *model.CreateContactMessageRequest) (*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := &model.ContactMessage{
		ID:        "msg-1",
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	s.msgs = append(s.msgs, msg)
	return msg, nil
}

func (s *stubContactRepo) List(context.Context, int, int) ([]*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.ContactMessage(nil), s.msgs...), nil
}

func (s *stubContactRepo) Delete(context.Context, string) (bool, error) { return true, nil }

// stubJobRepo serves a fixed set of listings for router tests.
type stubJobRepo struct {
	jobs []*model.JobListing
}

func (s *stubJobRepo) Create(_ context.Context, employerID string, req *model.CreateJobRequest) (*model.JobListing, error) {
	job := &model.JobListing{ID: "job-new", EmployerID: employerID, Title: req.Title, Status: model.JobStatusDraft}
	if req.Publish {
		job.Status = model.JobStatusPublished
	}
	return job, nil
}

func (s *stubJobRepo) GetByID(context.Context, string) (*model.JobListing, error) {
	return nil, apperrors.NotFound("job listing not found")
}

func (s *stubJobRepo) List(context.Context, model.JobListOptions) ([]*model.JobListing, error) {
	return s.jobs, nil
}

func (s *stubJobRepo) Search(context.Context, model.JobSearchFilter, model.JobListOptions) ([]*model.JobListing, error) {
	return s.jobs, nil
}

func (s *stubJobRepo) ListByEmployer(context.Context, string, model.JobListOptions) ([]*model.JobListing, error) {
	return s.jobs, nil
}

func (s *stubJobRepo) Update(context.Context, string, model.UpdateJobRequest) (*model.JobListing, error) {
	return nil, apperrors.NotFound("job listing not found")
}

func (s *stubJobRepo) Delete(context.Context, string) (bool, error) { return false, nil }

// newTestRouter builds a router over fakes with auth for every role.
func newTestRouter(res AuthAPI, watcher AuthState) http.Handler {
	contactSvc, err := service.NewContactService(service.ContactServiceOptions{Repo: &stubContactRepo{}})
	if err != nil {
		panic(err)
	}
	jobSvc, err := service.NewJobService(service.JobServiceOptions{Repo: &stubJobRepo{}})
	if err != nil {
		panic(err)
	}
	return NewRouter(RouterConfig{
		Services: RouterServices{
			Auth:    res,
			Watcher: watcher,
			Jobs:    jobSvc,
			Contact: contactSvc,
		},
	})
}

func doRequest(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}
