package httpx

import (
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/observability/metrics"
	"github.com/talentexcel/talentexcel-api/internal/observability/statsd"
)

// sessionCookieName is the cookie carrying the opaque session id.
const sessionCookieName = "session_id"

// loginPath is where unauthenticated browser navigation is sent.
const loginPath = "/login"

// SessionResolver resolves a session id to a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// ReadySource reports whether the session watcher finished its initial sync.
type ReadySource interface {
	Ready() bool
}

// respWriter captures the status code written by a handler.
type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Logging logs one line per request with method, path, status, and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &respWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)
			logger.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.status),
				slog.Duration("duration", time.Since(start)))
		})
	}
}

// RequestMetrics emits request count and latency metrics per request.
func RequestMetrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &respWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)
			metrics.EmitHTTPRequest(sink, metrics.RequestMetric{
				Method:   r.Method,
				Route:    r.URL.Path,
				Status:   rw.status,
				Duration: time.Since(start),
			})
		})
	}
}

// Recover converts handler panics into 500 responses.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panic",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, apperrors.Internal("internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest resolves the session cookie through the resolver.
// It returns nil without error when no cookie is present.
func getSessionFromRequest(res SessionResolver, r *http.Request) (*domainauth.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return res.GetSession(r.Context(), cookie.Value)
}

// RequireAuth rejects requests without a valid session. The session is
// placed in the request context for downstream handlers.
func RequireAuth(res SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := getSessionFromRequest(res, r)
			if err != nil || sess == nil {
				WriteError(w, apperrors.Unauthorized("authentication required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// RequireRole rejects requests whose session role is not one of roles.
// Roles match exactly; there is no hierarchy, and an unresolved role
// matches nothing.
func RequireRole(res SessionResolver, roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := getSessionFromRequest(res, r)
			if err != nil || sess == nil {
				WriteError(w, apperrors.Unauthorized("authentication required"))
				return
			}
			if !roleAllowed(sess.Role, roles) {
				WriteError(w, apperrors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// OptionalAuth resolves the session when present and continues either way.
func OptionalAuth(res SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, err := getSessionFromRequest(res, r); err == nil && sess != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthBrowser sends unauthenticated browser navigation to the login
// page with a 303 and the original path as redirect_uri.
func RequireAuthBrowser(res SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := getSessionFromRequest(res, r)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// RequireRoleBrowser gates browser navigation by role. Unauthenticated
// users go to login; a signed-in user with the wrong role lands on their
// own dashboard instead of an error page.
func RequireRoleBrowser(res SessionResolver, roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := getSessionFromRequest(res, r)
			if err != nil || sess == nil {
				redirectToLogin(w, r)
				return
			}
			if !roleAllowed(sess.Role, roles) {
				http.Redirect(w, r, domainauth.DashboardPath(sess.Role), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// RequireReady holds protected traffic while the session watcher is still
// syncing. Clients get a retryable 503 instead of a spurious denial.
func RequireReady(src ReadySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !src.Ready() {
				w.Header().Set("Retry-After", "1")
				WriteError(w, &apperrors.AppError{
					Code:    apperrors.ErrCodeCanceled,
					Message: "auth state is loading, retry shortly",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleAllowed(role domainauth.Role, allowed []domainauth.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// redirectToLogin issues a 303 to the login page, preserving the
// requested path as a safe relative redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	u := url.URL{Path: loginPath}
	q := url.Values{}
	q.Set("redirect_uri", safeRedirectPath(target))
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// gzipWriterPool reuses gzip writers across requests.
var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.gz.Write(b)
}

// Compression gzips responses for clients that accept it. Compression is
// skipped for small status-only responses by handlers that never write a
// body.
func Compression() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}
			gz := gzipWriterPool.Get().(*gzip.Writer)
			defer gzipWriterPool.Put(gz)
			gz.Reset(w)
			defer gz.Close()

			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")
			w.Header().Del("Content-Length")
			next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, gz: gz}, r)
		})
	}
}
