package httpx

import (
	"context"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
)

// sessionKey is an unexported context key type for session storage.
type sessionKey struct{}

// SetSessionInContext stores the authenticated session in the request context.
func SetSessionInContext(ctx context.Context, sess *domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext retrieves the authenticated session from the request
// context. It returns nil when no session middleware ran.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	sess, _ := ctx.Value(sessionKey{}).(*domainauth.Session)
	return sess
}
