package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

func TestFakeIdentityProvider_Defaults(t *testing.T) {
	provider := NewFakeIdentityProvider()
	ctx := context.Background()

	err := provider.SignUp(ctx, ports.SignUpInput{Email: "a@b.edu", Role: domainauth.RoleStudent})
	require.NoError(t, err)
	require.Len(t, provider.SignUps, 1)
	assert.Equal(t, "a@b.edu", provider.SignUps[0].Email)

	sess, err := provider.VerifyOTP(ctx, ports.VerifyOTPInput{Email: "a@b.edu", Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "fake-user-1", sess.UserID)

	sess, err = provider.PasswordSignIn(ctx, ports.PasswordSignInInput{Email: "a@b.edu", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fake.user@example.edu", sess.Email)

	require.NoError(t, provider.SignOut(ctx, "sess-1"))
	assert.Equal(t, []string{"sess-1"}, provider.SignOuts)
}

func TestFakeIdentityProvider_CustomFuncs(t *testing.T) {
	provider := NewFakeIdentityProvider()
	provider.PasswordSignInFunc = func(_ context.Context, _ ports.PasswordSignInInput) (domainauth.Session, error) {
		return domainauth.Session{ID: "func-session"}, nil
	}
	ctx := context.Background()

	sess, err := provider.PasswordSignIn(ctx, ports.PasswordSignInInput{})
	require.NoError(t, err)
	assert.Equal(t, "func-session", sess.ID)
}

func TestFakeIdentityProvider_SubscribeDeliversInOrder(t *testing.T) {
	provider := NewFakeIdentityProvider()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := provider.Subscribe(ctx)
	require.NoError(t, err)

	for i, kind := range []ports.SessionEventKind{ports.SessionSignedIn, ports.SessionSignedOut, ports.SessionSignedIn} {
		provider.Emit(ports.SessionEvent{Kind: kind, SessionID: string(rune('a' + i))})
	}

	first := <-stream
	second := <-stream
	third := <-stream
	assert.Equal(t, ports.SessionSignedIn, first.Kind)
	assert.Equal(t, ports.SessionSignedOut, second.Kind)
	assert.Equal(t, ports.SessionSignedIn, third.Kind)
	assert.Equal(t, "a", first.SessionID)
	assert.Equal(t, "c", third.SessionID)

	cancel()
	_, open := <-stream
	assert.False(t, open)
}

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.edu",
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	require.NoError(t, store.Save(ctx, session))
	assert.Equal(t, 1, store.Len())

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Role, retrieved.Role)

	require.NoError(t, store.Delete(ctx, "test-session-1"))
	_, err = store.Get(ctx, "test-session-1")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_Validation(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.Save(ctx, domainauth.Session{UserID: "user-123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")

	_, err = store.Get(ctx, "")
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestStaticProfileStore(t *testing.T) {
	store := &StaticProfileStore{
		Roles: map[string]domainauth.Role{
			"u1": domainauth.RoleStudent,
			"u2": domainauth.RoleAdmin,
		},
	}
	ctx := context.Background()

	role, err := store.RoleFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, role)

	role, err = store.RoleFor(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, role)

	// Missing profile row is not an error.
	role, err = store.RoleFor(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUnknown, role)
}

func TestMemoryOTPStore_Expiry(t *testing.T) {
	store := NewMemoryOTPStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a@b.edu", "123456", 10*time.Minute))

	code, err := store.Get(ctx, "a@b.edu")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	now = now.Add(11 * time.Minute)
	_, err = store.Get(ctx, "a@b.edu")
	assert.ErrorIs(t, err, ports.ErrOTPNotFound)
}

func TestMemoryPendingStore_SingleSlot(t *testing.T) {
	store := NewMemoryPendingStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ports.PendingRegistration{UserID: "u1", Email: "a@b.edu"}))
	require.NoError(t, store.Put(ctx, ports.PendingRegistration{UserID: "u2", Email: "a@b.edu"}))

	reg, err := store.Get(ctx, "a@b.edu")
	require.NoError(t, err)
	assert.Equal(t, "u2", reg.UserID)

	require.NoError(t, store.Delete(ctx, "a@b.edu"))
	_, err = store.Get(ctx, "a@b.edu")
	assert.ErrorIs(t, err, ports.ErrPendingNotFound)
}

func TestCapturingSender(t *testing.T) {
	sender := &CapturingSender{}
	ctx := context.Background()

	require.NoError(t, sender.SendOTP(ctx, "a@b.edu", "111111"))
	require.NoError(t, sender.SendOTP(ctx, "a@b.edu", "222222"))
	require.NoError(t, sender.SendOTP(ctx, "c@d.edu", "333333"))

	assert.Equal(t, "222222", sender.Last("a@b.edu"))
	assert.Equal(t, "333333", sender.Last("c@d.edu"))
	assert.Equal(t, "", sender.Last("nobody@x.edu"))
}
