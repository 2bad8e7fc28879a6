package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sessionCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_SignUp(t *testing.T) {
	api := &fakeAuthAPI{signUpResult: &service.SignUpResult{Email: "asha@iitb.ac.in", Next: "/auth/verify-otp"}}
	h := &AuthHandlers{Svc: api}

	rec := httptest.NewRecorder()
	h.SignUp(rec, postJSON("/auth/signup",
		`{"email":"asha@iitb.ac.in","password":"s3cretpass","full_name":"Asha","role":"student"}`))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "/auth/verify-otp", body["next"])
}

func TestAuthHandlers_SignUpRejectsBadRole(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthAPI{}}

	rec := httptest.NewRecorder()
	h.SignUp(rec, postJSON("/auth/signup",
		`{"email":"a@b.edu","password":"s3cretpass","full_name":"A","role":"superuser"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation", body.Error.Code)
	assert.Equal(t, "role", body.Error.Field)
}

func TestAuthHandlers_SignUpRejectsUnknownFields(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthAPI{}}

	rec := httptest.NewRecorder()
	h.SignUp(rec, postJSON("/auth/signup", `{"email":"a@b.edu","bogus":true}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlers_VerifyOTPSetsSessionCookie(t *testing.T) {
	sess := sessionFor(domainauth.RoleStudent)
	api := &fakeAuthAPI{sessionResult: &service.SessionResult{Session: sess, Next: "/onboarding"}}
	h := &AuthHandlers{Svc: api}

	rec := httptest.NewRecorder()
	h.VerifyOTP(rec, postJSON("/auth/verify-otp", `{"email":"asha@iitb.ac.in","code":"123456"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookieFrom(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, sess.ID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	body := decodeBody(t, rec)
	assert.Equal(t, "/onboarding", body["next"])
}

func TestAuthHandlers_SignInReturnsRoleDashboardAndNav(t *testing.T) {
	sess := sessionFor(domainauth.RoleEmployer)
	api := &fakeAuthAPI{sessionResult: &service.SessionResult{Session: sess, Next: "/dashboard/employer"}}
	h := &AuthHandlers{Svc: api}

	rec := httptest.NewRecorder()
	h.SignIn(rec, postJSON("/auth/login", `{"email":"hr@acme.com","password":"s3cretpass"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "/dashboard/employer", body["next"])
	assert.Equal(t, "employer", body["role"])
	nav, ok := body["nav"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, nav)
	require.NotNil(t, sessionCookieFrom(rec))
}

func TestAuthHandlers_SignInError(t *testing.T) {
	api := &fakeAuthAPI{sessionErr: apperrors.Unauthorized("invalid email or password")}
	h := &AuthHandlers{Svc: api}

	rec := httptest.NewRecorder()
	h.SignIn(rec, postJSON("/auth/login", `{"email":"hr@acme.com","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookieFrom(rec))
}

func TestAuthHandlers_SignOut(t *testing.T) {
	api := &fakeAuthAPI{}
	h := &AuthHandlers{Svc: api}

	t.Run("json client", func(t *testing.T) {
		req := postJSON("/auth/logout", "")
		req.Header.Set("Accept", "application/json")
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
		rec := httptest.NewRecorder()
		h.SignOut(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"sess-1"}, api.signedOut)
		cookie := sessionCookieFrom(rec)
		require.NotNil(t, cookie)
		assert.Less(t, cookie.MaxAge, 0)
		body := decodeBody(t, rec)
		assert.Equal(t, "/", body["next"])
	})

	t.Run("browser form post", func(t *testing.T) {
		req := postJSON("/auth/logout", "")
		rec := httptest.NewRecorder()
		h.SignOut(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestAuthHandlers_StatusLoading(t *testing.T) {
	watcher := &fakeWatcher{}
	h := &AuthHandlers{Svc: &fakeAuthAPI{}, Watcher: watcher}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, true, body["loading"])
}

func TestAuthHandlers_StatusAuthenticated(t *testing.T) {
	sess := sessionFor(domainauth.RoleTPO)
	sess.ExpiresAt = time.Now().Add(time.Hour).UTC()
	watcher := &fakeWatcher{
		ready: true,
		snapshots: map[string]domainauth.Snapshot{
			sess.ID: {
				Session:         &sess,
				User:            &domainauth.Identity{ID: sess.UserID, Email: sess.Email},
				Role:            sess.Role,
				IsAuthenticated: true,
			},
		},
	}
	h := &AuthHandlers{Svc: &fakeAuthAPI{}, Watcher: watcher}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, false, body["loading"])
	assert.Equal(t, "tpo", body["role"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, sess.UserID, user["id"])
}

func TestAuthHandlers_StatusNoCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthAPI{}, Watcher: &fakeWatcher{ready: true}}

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, false, body["loading"])
}

func TestAuthHandlers_Nav(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthAPI{}}

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Nav(rec, httptest.NewRequest(http.MethodGet, "/auth/nav", nil))
		body := decodeBody(t, rec)
		entries, ok := body["entries"].([]any)
		require.True(t, ok)
		// Only the common entries without a role.
		assert.Len(t, entries, len(domainauth.NavEntries(domainauth.RoleUnknown)))
	})

	t.Run("admin", func(t *testing.T) {
		sess := sessionFor(domainauth.RoleAdmin)
		req := httptest.NewRequest(http.MethodGet, "/auth/nav", nil)
		req = req.WithContext(SetSessionInContext(req.Context(), &sess))
		rec := httptest.NewRecorder()
		h.Nav(rec, req)
		body := decodeBody(t, rec)
		assert.Equal(t, "admin", body["role"])
		entries, ok := body["entries"].([]any)
		require.True(t, ok)
		assert.Len(t, entries, len(domainauth.NavEntries(domainauth.RoleAdmin)))
	})
}

func TestAuthHandlers_BeginSSOSetsCookiesAndRedirects(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthAPI{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/login?redirect_uri=/dashboard/student", nil)
	rec := httptest.NewRecorder()
	h.BeginSSO(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/authorize", rec.Header().Get("Location"))

	names := make(map[string]string)
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "st", names["oauth_state"])
	assert.Equal(t, "n", names["oauth_nonce"])
	assert.Equal(t, "/dashboard/student", names["post_login_redirect"])
}

func TestAuthHandlers_SSOCallback(t *testing.T) {
	sess := sessionFor(domainauth.RoleStudent)
	api := &fakeAuthAPI{sessionResult: &service.SessionResult{Session: sess, Next: "/dashboard/student"}}
	h := &AuthHandlers{Svc: api}

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=abc&state=st", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/saved-jobs"})
	rec := httptest.NewRecorder()
	h.SSOCallback(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/saved-jobs", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookieFrom(rec))
}

func TestAuthHandlers_SSOCallbackStateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthAPI{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st"})
	rec := httptest.NewRecorder()
	h.SSOCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, sessionCookieFrom(rec))
}
