package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
)

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(&fakeAuthAPI{}, nil)

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_PublicJobSearch(t *testing.T) {
	router := newTestRouter(&fakeAuthAPI{}, nil)

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/jobs?q=golang", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, ok := body["jobs"]
	assert.True(t, ok)
}

func TestRouter_PublicContactValidation(t *testing.T) {
	router := newTestRouter(&fakeAuthAPI{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PublicContactAccepted(t *testing.T) {
	router := newTestRouter(&fakeAuthAPI{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(
		`{"name":"Asha","email":"asha@iitb.ac.in","subject":"Hi","message":"Looking for internships."}`))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_ProtectedRouteUnauthenticated(t *testing.T) {
	router := newTestRouter(&fakeAuthAPI{}, nil)

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/employer/jobs", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RoleGates(t *testing.T) {
	api := &fakeAuthAPI{fakeResolver: *resolverWith(
		domainauth.RoleStudent, domainauth.RoleEmployer, domainauth.RoleTPO, domainauth.RoleAdmin)}
	router := newTestRouter(api, nil)

	tests := []struct {
		name   string
		method string
		path   string
		as     domainauth.Role
		want   int
	}{
		{"student cannot post jobs", http.MethodPost, "/api/jobs", domainauth.RoleStudent, http.StatusForbidden},
		{"employer lists own jobs", http.MethodGet, "/api/employer/jobs", domainauth.RoleEmployer, http.StatusOK},
		{"employer cannot list admin profiles", http.MethodGet, "/api/admin/profiles", domainauth.RoleEmployer, http.StatusForbidden},
		{"tpo cannot review applications", http.MethodGet, "/api/employer/applications", domainauth.RoleTPO, http.StatusForbidden},
		{"admin has no student access", http.MethodGet, "/api/saved-jobs", domainauth.RoleAdmin, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withSessionCookie(httptest.NewRequest(tt.method, tt.path, nil), tt.as)
			rec := doRequest(router, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_BrowserDashboardRedirects(t *testing.T) {
	api := &fakeAuthAPI{fakeResolver: *resolverWith(domainauth.RoleStudent)}
	router := newTestRouter(api, nil)

	// Anonymous navigation goes to login with the path preserved.
	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/dashboard/student", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	assert.Contains(t, loc, "/login")
	assert.Contains(t, loc, "redirect_uri=%2Fdashboard%2Fstudent")

	// The wrong dashboard bounces to the caller's own.
	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/dashboard/employer", nil), domainauth.RoleStudent)
	rec = doRequest(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/student", rec.Header().Get("Location"))

	// The bare entry point forwards to the caller's dashboard.
	req = withSessionCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), domainauth.RoleStudent)
	rec = doRequest(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/student", rec.Header().Get("Location"))
}

func TestRouter_WatcherGateHoldsProtectedTraffic(t *testing.T) {
	api := &fakeAuthAPI{fakeResolver: *resolverWith(domainauth.RoleEmployer)}
	watcher := &fakeWatcher{}
	router := newTestRouter(api, watcher)

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/employer/jobs", nil), domainauth.RoleEmployer)
	rec := doRequest(router, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Public routes are never held.
	rec = doRequest(router, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	watcher.ready = true
	req = withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/employer/jobs", nil), domainauth.RoleEmployer)
	rec = doRequest(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router := newTestRouter(&fakeAuthAPI{}, nil)

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CSRFBlocksPostWithoutToken(t *testing.T) {
	contact := `{"name":"A","email":"a@b.edu","subject":"s","message":"hello"}`
	router := NewRouter(RouterConfig{
		Services:   RouterServices{Auth: &fakeAuthAPI{}},
		EnableCSRF: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(contact))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
