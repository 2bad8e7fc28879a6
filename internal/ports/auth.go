package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
)

// ErrOTPNotFound is returned by OTPStore.Get when no code is outstanding
// for an address.
var ErrOTPNotFound = errors.New("otp code not found")

// ErrPendingNotFound is returned by PendingRegistrationStore.Get when no
// registration is pending for an address.
var ErrPendingNotFound = errors.New("pending registration not found")

// SignUpInput carries inputs for starting a registration.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     domainauth.Role
}

// VerifyOTPInput completes a pending registration with the emailed code.
type VerifyOTPInput struct {
	Email string
	Code  string
}

// PasswordSignInInput carries credentials for an email/password sign-in.
type PasswordSignInInput struct {
	Email    string
	Password string
}

// IdentityProvider owns accounts and credentials. It emits a SessionEvent
// on every sign-in, sign-out, and verified registration, in the order the
// changes happened.
type IdentityProvider interface {
	// SignUp records a pending registration and sends a one-time code to
	// the address. The account does not exist until the code is verified.
	SignUp(ctx context.Context, in SignUpInput) error

	// VerifyOTP checks the code against the pending registration. On
	// success it creates the account, signs the user in, and returns the
	// new session.
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (domainauth.Session, error)

	// ResendOTP issues a fresh code for a pending registration,
	// invalidating the previous one.
	ResendOTP(ctx context.Context, email string) error

	// PasswordSignIn authenticates an existing account and returns the
	// new session.
	PasswordSignIn(ctx context.Context, in PasswordSignInInput) (domainauth.Session, error)

	// EstablishSession signs in an identity already authenticated by an
	// external provider. The account must exist.
	EstablishSession(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error)

	// SignOut ends the session with the given id.
	SignOut(ctx context.Context, sessionID string) error

	// Subscribe returns an ordered stream of session changes. The channel
	// is closed when ctx is done. A single subscriber consumes the stream
	// for the life of the process.
	Subscribe(ctx context.Context) (<-chan SessionEvent, error)
}

// SessionEventKind discriminates session change notifications.
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
)

// SessionEvent is a single session change. Session is nil for sign-outs.
type SessionEvent struct {
	Kind      SessionEventKind
	SessionID string
	Session   *domainauth.Session
	At        time.Time
}

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the SSO code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes a federated sign-in against an
// external IdP. Registration still happens locally; SSO covers sign-in
// for accounts that already exist.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// OTPStore holds one-time registration codes with expiry.
type OTPStore interface {
	// Put stores code for email, replacing any previous code.
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns the current code for email, or ErrOTPNotFound when no
	// code is outstanding.
	Get(ctx context.Context, email string) (string, error)
	// Delete removes the code for email.
	Delete(ctx context.Context, email string) error
}

// PendingRegistration is the state held between sign-up and OTP
// verification. It carries a bcrypt hash, never the plaintext password.
type PendingRegistration struct {
	UserID       string
	Email        string
	FullName     string
	Role         domainauth.Role
	PasswordHash []byte
}

// PendingRegistrationStore holds at most one pending registration per
// address. A repeated sign-up for the same address replaces the slot.
type PendingRegistrationStore interface {
	Put(ctx context.Context, reg PendingRegistration) error
	// Get returns the pending registration for email, or
	// ErrPendingNotFound when none is outstanding.
	Get(ctx context.Context, email string) (PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

// OTPSender delivers a one-time code to an address. Production wiring
// points this at a mail gateway; development wiring logs the code.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// ProfileStore resolves an identity's profile row. It is the single
// source of truth for roles.
type ProfileStore interface {
	// RoleFor returns the role recorded for the identity id, or
	// RoleUnknown with a nil error when no profile row exists yet.
	RoleFor(ctx context.Context, userID string) (domainauth.Role, error)
}
