package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider         = (*FakeIdentityProvider)(nil)
	_ ports.SessionStore             = (*MemorySessionStore)(nil)
	_ ports.ProfileStore             = (*StaticProfileStore)(nil)
	_ ports.OTPStore                 = (*MemoryOTPStore)(nil)
	_ ports.PendingRegistrationStore = (*MemoryPendingStore)(nil)
	_ ports.OTPSender                = (*CapturingSender)(nil)
)

// FakeIdentityProvider simulates an identity provider with overridable
// behavior per method and a controllable event stream. The zero-value
// behaviors succeed and return DefaultIdentity.
type FakeIdentityProvider struct {
	SignUpFunc           func(ctx context.Context, in ports.SignUpInput) error
	VerifyOTPFunc        func(ctx context.Context, in ports.VerifyOTPInput) (domainauth.Session, error)
	ResendOTPFunc        func(ctx context.Context, email string) error
	PasswordSignInFunc   func(ctx context.Context, in ports.PasswordSignInInput) (domainauth.Session, error)
	EstablishSessionFunc func(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error)
	SignOutFunc          func(ctx context.Context, sessionID string) error

	DefaultIdentity domainauth.Identity
	DefaultSession  domainauth.Session

	mu     sync.Mutex
	events chan ports.SessionEvent

	// Call records for assertions.
	SignUps  []ports.SignUpInput
	SignOuts []string
}

// NewFakeIdentityProvider creates a fake with a buffered event stream
// and a default identity and session.
func NewFakeIdentityProvider() *FakeIdentityProvider {
	identity := domainauth.Identity{
		ID:       "fake-user-1",
		Email:    "fake.user@example.edu",
		FullName: "Fake User",
	}
	return &FakeIdentityProvider{
		DefaultIdentity: identity,
		DefaultSession: domainauth.Session{
			ID:        "fake-session-1",
			UserID:    identity.ID,
			Email:     identity.Email,
			FullName:  identity.FullName,
			Role:      domainauth.RoleStudent,
			ExpiresAt: time.Now().Add(time.Hour),
		},
		events: make(chan ports.SessionEvent, 64),
	}
}

func (f *FakeIdentityProvider) SignUp(ctx context.Context, in ports.SignUpInput) error {
	f.mu.Lock()
	f.SignUps = append(f.SignUps, in)
	f.mu.Unlock()
	if f.SignUpFunc != nil {
		return f.SignUpFunc(ctx, in)
	}
	return nil
}

func (f *FakeIdentityProvider) VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (domainauth.Session, error) {
	if f.VerifyOTPFunc != nil {
		return f.VerifyOTPFunc(ctx, in)
	}
	return f.DefaultSession, nil
}

func (f *FakeIdentityProvider) ResendOTP(ctx context.Context, email string) error {
	if f.ResendOTPFunc != nil {
		return f.ResendOTPFunc(ctx, email)
	}
	return nil
}

func (f *FakeIdentityProvider) PasswordSignIn(ctx context.Context, in ports.PasswordSignInInput) (domainauth.Session, error) {
	if f.PasswordSignInFunc != nil {
		return f.PasswordSignInFunc(ctx, in)
	}
	return f.DefaultSession, nil
}

func (f *FakeIdentityProvider) EstablishSession(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	if f.EstablishSessionFunc != nil {
		return f.EstablishSessionFunc(ctx, identity)
	}
	return f.DefaultSession, nil
}

func (f *FakeIdentityProvider) SignOut(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	f.SignOuts = append(f.SignOuts, sessionID)
	f.mu.Unlock()
	if f.SignOutFunc != nil {
		return f.SignOutFunc(ctx, sessionID)
	}
	return nil
}

func (f *FakeIdentityProvider) Subscribe(ctx context.Context) (<-chan ports.SessionEvent, error) {
	out := make(chan ports.SessionEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-f.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Emit pushes an event onto the stream in call order.
func (f *FakeIdentityProvider) Emit(ev ports.SessionEvent) {
	f.events <- ev
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if id == "" || !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticProfileStore resolves roles from a fixed map. Unknown ids get
// RoleUnknown with no error, matching the port contract for accounts
// whose profile row does not exist yet.
type StaticProfileStore struct {
	Roles map[string]domainauth.Role
	Err   error
}

func (s *StaticProfileStore) RoleFor(_ context.Context, userID string) (domainauth.Role, error) {
	if s.Err != nil {
		return domainauth.RoleUnknown, s.Err
	}
	role, ok := s.Roles[userID]
	if !ok {
		return domainauth.RoleUnknown, nil
	}
	return role, nil
}

// MemoryOTPStore holds codes in memory with real expiry, using an
// injectable clock.
type MemoryOTPStore struct {
	Now func() time.Time

	mu    sync.Mutex
	codes map[string]otpEntry
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// NewMemoryOTPStore creates an in-memory OTP store keyed by address.
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{
		Now:   time.Now,
		codes: make(map[string]otpEntry),
	}
}

func (m *MemoryOTPStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	if email == "" || code == "" {
		return errors.New("email and code are required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = otpEntry{code: code, expiresAt: m.Now().Add(ttl)}
	return nil
}

func (m *MemoryOTPStore) Get(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.codes[email]
	if !ok || m.Now().After(entry.expiresAt) {
		return "", ports.ErrOTPNotFound
	}
	return entry.code, nil
}

func (m *MemoryOTPStore) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

// MemoryPendingStore holds pending registrations in memory, one slot
// per address.
type MemoryPendingStore struct {
	mu      sync.Mutex
	pending map[string]ports.PendingRegistration
}

// NewMemoryPendingStore creates an in-memory pending registration store.
func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{
		pending: make(map[string]ports.PendingRegistration),
	}
}

func (m *MemoryPendingStore) Put(_ context.Context, reg ports.PendingRegistration) error {
	if reg.Email == "" {
		return errors.New("pending registration email cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[reg.Email] = reg
	return nil
}

func (m *MemoryPendingStore) Get(_ context.Context, email string) (ports.PendingRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.pending[email]
	if !ok {
		return ports.PendingRegistration{}, ports.ErrPendingNotFound
	}
	return reg, nil
}

func (m *MemoryPendingStore) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, email)
	return nil
}

// CapturingSender records every code it is asked to deliver.
type CapturingSender struct {
	mu   sync.Mutex
	Sent []SentCode
	Fail error
}

// SentCode is one recorded delivery.
type SentCode struct {
	Email string
	Code  string
}

func (c *CapturingSender) SendOTP(_ context.Context, email, code string) error {
	if c.Fail != nil {
		return c.Fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, SentCode{Email: email, Code: code})
	return nil
}

// Last returns the most recently sent code for email, or "".
func (c *CapturingSender) Last(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.Sent) - 1; i >= 0; i-- {
		if c.Sent[i].Email == email {
			return c.Sent[i].Code
		}
	}
	return ""
}
