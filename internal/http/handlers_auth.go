package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/ports"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// AuthAPI is the slice of the auth service the handlers need.
type AuthAPI interface {
	SignUp(ctx context.Context, in ports.SignUpInput) (*service.SignUpResult, error)
	VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (*service.SessionResult, error)
	ResendOTP(ctx context.Context, email string) error
	SignIn(ctx context.Context, in ports.PasswordSignInInput) (*service.SessionResult, error)
	SignOut(ctx context.Context, sessionID string) (*service.SignOutResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	BeginSSOLogin(ctx context.Context, redirectURL string) (*service.BeginSSOLoginResult, error)
	CompleteSSOLogin(ctx context.Context, in ports.ExchangeInput) (*service.SessionResult, error)
}

// SnapshotSource exposes the session watcher's per-session auth state.
type SnapshotSource interface {
	Snapshot(ctx context.Context, sessionID string) domainauth.Snapshot
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthAPI
	Watcher      SnapshotSource
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// SignUp starts a registration.
// POST /auth/signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	role, ok := domainauth.ParseRole(req.Role)
	if !ok {
		WriteError(w, apperrors.ValidationField("role", "role must be one of student, employer, tpo, admin"))
		return
	}
	result, err := h.Svc.SignUp(r.Context(), ports.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     role,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, result)
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyOTP completes a registration with the emailed code and signs the
// new account in.
// POST /auth/verify-otp.
func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	result, err := h.Svc.VerifyOTP(r.Context(), ports.VerifyOTPInput{Email: req.Email, Code: req.Code})
	if err != nil {
		WriteError(w, err)
		return
	}
	h.setSessionCookie(w, r, result.Session)
	WriteJSON(w, http.StatusOK, sessionPayload(result))
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

// ResendOTP re-requests code delivery for a pending registration.
// POST /auth/resend-otp.
func (h *AuthHandlers) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.Svc.ResendOTP(r.Context(), req.Email); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates with email and password.
// POST /auth/login.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	result, err := h.Svc.SignIn(r.Context(), ports.PasswordSignInInput{Email: req.Email, Password: req.Password})
	if err != nil {
		WriteError(w, err)
		return
	}
	h.setSessionCookie(w, r, result.Session)
	WriteJSON(w, http.StatusOK, sessionPayload(result))
}

// SignOut ends the session and clears the cookie. Browser form posts get a
// 303 to the post-sign-out destination; API callers get JSON.
// POST /auth/logout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	result, err := h.Svc.SignOut(r.Context(), sessionID)
	if err != nil {
		h.logger().WarnContext(r.Context(), "sign out failed", "error", err)
		result = &service.SignOutResult{Next: "/"}
	}
	h.clearCookie(w, r, sessionCookieName)

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, result.Next, http.StatusSeeOther)
}

// Status returns the observable auth state for the caller's session:
// loading until the watcher's initial sync completes, then either the
// unauthenticated resting state or the session with its resolved role and
// navigation entries.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	snap := domainauth.UnauthenticatedSnapshot()
	if h.Watcher != nil && sessionID != "" {
		snap = h.Watcher.Snapshot(r.Context(), sessionID)
	}

	if snap.Loading {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"loading":       true,
		})
		return
	}
	if !snap.IsAuthenticated || snap.Session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"loading":       false,
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"loading":       false,
		"user":          userPayload(*snap.Session),
		"role":          snap.Role,
		"nav":           domainauth.NavEntries(snap.Role),
		"expires_at":    snap.Session.ExpiresAt,
	})
}

// Nav returns the navigation entries for the caller's role.
// GET /auth/nav.
func (h *AuthHandlers) Nav(w http.ResponseWriter, r *http.Request) {
	role := domainauth.RoleUnknown
	if sess := SessionFromContext(r.Context()); sess != nil {
		role = sess.Role
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"role":    role,
		"entries": domainauth.NavEntries(role),
	})
}

// BeginSSO starts a federated sign-in flow.
// GET /auth/sso/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) BeginSSO(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	callbackURL := ssoCallbackURL(r)
	result, err := h.Svc.BeginSSOLogin(r.Context(), callbackURL)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback completes a federated sign-in.
// GET /auth/sso/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, apperrors.ValidationField("code", "authorization code is required"))
		return
	}
	if state == "" {
		WriteError(w, apperrors.ValidationField("state", "state parameter is required"))
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, apperrors.Validation("invalid or missing state parameter"))
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, apperrors.Validation("missing nonce parameter"))
		return
	}

	result, err := h.Svc.CompleteSSOLogin(r.Context(), ports.ExchangeInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	redirectURI := h.getPostLoginRedirect(w, r)
	if redirectURI == "/" {
		redirectURI = result.Next
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// sessionPayload shapes a completed sign-in or verification response.
func sessionPayload(result *service.SessionResult) map[string]any {
	return map[string]any{
		"next":       result.Next,
		"user":       userPayload(result.Session),
		"role":       result.Session.Role,
		"nav":        domainauth.NavEntries(result.Session.Role),
		"expires_at": result.Session.ExpiresAt,
	}
}

func userPayload(sess domainauth.Session) map[string]any {
	return map[string]any{
		"id":        sess.UserID,
		"email":     sess.Email,
		"full_name": sess.FullName,
		"role":      sess.Role,
	}
}

// wantsJSON reports whether the client asked for a JSON response rather
// than a browser redirect.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// ssoCallbackURL reconstructs the absolute callback URL for this host.
func ssoCallbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/auth/sso/callback"}
	return u.String()
}

// clearCookie clears a cookie by setting it to expire immediately. It
// mirrors the attributes used when setting cookies so browsers accept the
// deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values stored across the SSO redirect.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores state, nonce, and the post-login redirect for the
// duration of the SSO round trip.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := requestIsSecure(r)
	for name, value := range map[string]string{
		"oauth_state":         p.State,
		"oauth_nonce":         p.Nonce,
		"post_login_redirect": p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600, // 10 minutes
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect path and clears the
// cookie that carried it.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		redirectURI = safeRedirectPath(redirectCookie.Value)
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// safeRedirectPath ensures the candidate is a same-origin relative path
// starting with "/". Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
