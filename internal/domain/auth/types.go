package auth

// Package auth contains domain-level types for authentication, sessions, and
// role-based navigation. It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleTPO      Role = "tpo"
	RoleAdmin    Role = "admin"
	// RoleUnknown marks a session whose role could not be resolved from the
	// profile store. It is a valid, degraded state, not an error.
	RoleUnknown Role = ""
)

// Valid reports whether the role is one of the four defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleEmployer, RoleTPO, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is one of the
// defined roles. Unknown input yields (RoleUnknown, false).
func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	if r.Valid() {
		return r, true
	}
	return RoleUnknown, false
}

// Roles returns the closed set of defined roles in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleEmployer, RoleTPO, RoleAdmin}
}

// Identity represents the authenticated principal returned by the identity
// provider. Adapters map provider-specific payloads into this shape.
type Identity struct {
	ID       string // stable account identifier (UUID or IdP sub)
	Email    string
	FullName string
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier (random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RoleResolved reports whether the session carries a resolved role.
func (s Session) RoleResolved() bool { return s.Role.Valid() }

// Snapshot is the externally observable authentication state for one session:
// session, identity, role, and derived flags. It is owned by the session
// watcher and exposed read-only everywhere else.
type Snapshot struct {
	Session         *Session
	User            *Identity
	Role            Role
	Loading         bool
	IsAuthenticated bool
}

// UnauthenticatedSnapshot returns the resting state for an absent session.
func UnauthenticatedSnapshot() Snapshot {
	return Snapshot{Role: RoleUnknown}
}
