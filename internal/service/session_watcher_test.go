package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	mocks "github.com/talentexcel/talentexcel-api/internal/mocks/auth"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

// gatedProfileStore blocks RoleFor until released, so tests can control
// when an in-flight role fetch lands.
type gatedProfileStore struct {
	mu      sync.Mutex
	roles   map[string]domainauth.Role
	release chan struct{}
}

func newGatedProfileStore(roles map[string]domainauth.Role) *gatedProfileStore {
	return &gatedProfileStore{roles: roles, release: make(chan struct{})}
}

func (g *gatedProfileStore) RoleFor(ctx context.Context, userID string) (domainauth.Role, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return domainauth.RoleUnknown, ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	role, ok := g.roles[userID]
	if !ok {
		return domainauth.RoleUnknown, nil
	}
	return role, nil
}

func signedInEvent(sessionID, userID string, role domainauth.Role) ports.SessionEvent {
	return ports.SessionEvent{
		Kind:      ports.SessionSignedIn,
		SessionID: sessionID,
		Session: &domainauth.Session{
			ID:        sessionID,
			UserID:    userID,
			Email:     userID + "@example.edu",
			Role:      role,
			ExpiresAt: time.Now().Add(time.Hour),
		},
		At: time.Now(),
	}
}

func newTestWatcher(t *testing.T, profiles ports.ProfileStore) *SessionWatcher {
	t.Helper()
	watcher, err := NewSessionWatcher(SessionWatcherOptions{
		Provider: mocks.NewFakeIdentityProvider(),
		Profiles: profiles,
	})
	require.NoError(t, err)
	return watcher
}

func TestSessionWatcher_LoadingBeforeFirstSync(t *testing.T) {
	watcher := newTestWatcher(t, &mocks.StaticProfileStore{})

	snap := watcher.Snapshot(context.Background(), "any")
	assert.True(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, domainauth.RoleUnknown, snap.Role)

	watcher.markReady()
	snap = watcher.Snapshot(context.Background(), "any")
	assert.False(t, snap.Loading)
	assert.False(t, snap.IsAuthenticated)
}

func TestSessionWatcher_RunConsumesStream(t *testing.T) {
	provider := mocks.NewFakeIdentityProvider()
	profiles := &mocks.StaticProfileStore{Roles: map[string]domainauth.Role{
		"u1": domainauth.RoleStudent,
	}}
	watcher, err := NewSessionWatcher(SessionWatcherOptions{Provider: provider, Profiles: profiles})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	require.NoError(t, watcher.WaitReady(ctx))

	provider.Emit(signedInEvent("s1", "u1", domainauth.RoleStudent))
	require.Eventually(t, func() bool {
		return watcher.Snapshot(context.Background(), "s1").IsAuthenticated
	}, 2*time.Second, 10*time.Millisecond)

	snap := watcher.Snapshot(context.Background(), "s1")
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)
	assert.Equal(t, domainauth.RoleStudent, snap.Role)

	provider.Emit(ports.SessionEvent{Kind: ports.SessionSignedOut, SessionID: "s1", At: time.Now()})
	require.Eventually(t, func() bool {
		return !watcher.Snapshot(context.Background(), "s1").IsAuthenticated
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestSessionWatcher_ApplyIsIdempotent(t *testing.T) {
	profiles := &mocks.StaticProfileStore{Roles: map[string]domainauth.Role{
		"u1": domainauth.RoleEmployer,
	}}
	watcher := newTestWatcher(t, profiles)
	watcher.markReady()
	ctx := context.Background()

	ev := signedInEvent("s1", "u1", domainauth.RoleEmployer)
	watcher.apply(ctx, ev)
	watcher.waitRoleFetches()
	first := watcher.Snapshot(context.Background(), "s1")

	watcher.apply(ctx, ev)
	watcher.waitRoleFetches()
	second := watcher.Snapshot(context.Background(), "s1")

	assert.Equal(t, first, second)

	// Repeated sign-outs converge too, including for unknown sessions.
	out := ports.SessionEvent{Kind: ports.SessionSignedOut, SessionID: "s1"}
	watcher.apply(ctx, out)
	watcher.apply(ctx, out)
	watcher.apply(ctx, ports.SessionEvent{Kind: ports.SessionSignedOut, SessionID: "never-existed"})
	assert.Equal(t, domainauth.UnauthenticatedSnapshot(), watcher.Snapshot(context.Background(), "s1"))
}

func TestSessionWatcher_RoleRefreshUpdatesUnresolvedRole(t *testing.T) {
	profiles := &mocks.StaticProfileStore{Roles: map[string]domainauth.Role{
		"u1": domainauth.RoleTPO,
	}}
	watcher := newTestWatcher(t, profiles)
	watcher.markReady()

	// The sign-in event carries no role (degraded sign-in path).
	watcher.apply(context.Background(), signedInEvent("s1", "u1", domainauth.RoleUnknown))
	watcher.waitRoleFetches()

	snap := watcher.Snapshot(context.Background(), "s1")
	assert.Equal(t, domainauth.RoleTPO, snap.Role)
	require.NotNil(t, snap.Session)
	assert.Equal(t, domainauth.RoleTPO, snap.Session.Role)
}

func TestSessionWatcher_RoleFetchFailureKeepsSnapshot(t *testing.T) {
	profiles := &mocks.StaticProfileStore{Err: context.DeadlineExceeded}
	watcher := newTestWatcher(t, profiles)
	watcher.markReady()

	watcher.apply(context.Background(), signedInEvent("s1", "u1", domainauth.RoleStudent))
	watcher.waitRoleFetches()

	snap := watcher.Snapshot(context.Background(), "s1")
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, domainauth.RoleStudent, snap.Role)
}

func TestSessionWatcher_StaleRoleFetchIsDiscarded(t *testing.T) {
	profiles := newGatedProfileStore(map[string]domainauth.Role{
		"alice": domainauth.RoleAdmin,
		"bob":   domainauth.RoleStudent,
	})
	watcher := newTestWatcher(t, profiles)
	watcher.markReady()
	ctx := context.Background()

	// Alice signs in; her role fetch stalls mid-flight.
	watcher.apply(ctx, signedInEvent("s1", "alice", domainauth.RoleUnknown))

	// The same session id is superseded by Bob before the fetch lands.
	watcher.apply(ctx, signedInEvent("s1", "bob", domainauth.RoleStudent))

	close(profiles.release)
	watcher.waitRoleFetches()

	// Alice's admin role must not leak into Bob's snapshot.
	snap := watcher.Snapshot(context.Background(), "s1")
	require.NotNil(t, snap.User)
	assert.Equal(t, "bob", snap.User.ID)
	assert.Equal(t, domainauth.RoleStudent, snap.Role)
}

func TestSessionWatcher_SeedsFromStoreAfterRestart(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	sess := domainauth.Session{
		ID:        "s-old",
		UserID:    "u1",
		Email:     "u1@example.edu",
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, sessions.Save(context.Background(), sess))

	profiles := &mocks.StaticProfileStore{Roles: map[string]domainauth.Role{
		"u1": domainauth.RoleTPO,
	}}
	watcher, err := NewSessionWatcher(SessionWatcherOptions{
		Provider: mocks.NewFakeIdentityProvider(),
		Profiles: profiles,
		Sessions: sessions,
	})
	require.NoError(t, err)
	watcher.markReady()

	// The session was issued before this watcher existed, so it never
	// appeared on the event stream. The store copy must still count.
	snap := watcher.Snapshot(context.Background(), "s-old")
	require.True(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)

	// Seeding kicks off the same role re-fetch a sign-in event gets.
	watcher.waitRoleFetches()
	assert.Equal(t, domainauth.RoleTPO, watcher.Snapshot(context.Background(), "s-old").Role)
}

func TestSessionWatcher_StoreMissesStayUnauthenticated(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	expired := domainauth.Session{
		ID:        "s-expired",
		UserID:    "u1",
		Email:     "u1@example.edu",
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, sessions.Save(context.Background(), expired))

	watcher, err := NewSessionWatcher(SessionWatcherOptions{
		Provider: mocks.NewFakeIdentityProvider(),
		Profiles: &mocks.StaticProfileStore{},
		Sessions: sessions,
	})
	require.NoError(t, err)
	watcher.markReady()

	assert.Equal(t, domainauth.UnauthenticatedSnapshot(), watcher.Snapshot(context.Background(), "never-issued"))
	assert.Equal(t, domainauth.UnauthenticatedSnapshot(), watcher.Snapshot(context.Background(), "s-expired"))
	watcher.waitRoleFetches()
}

func TestSessionWatcher_StaleFetchAfterSignOutIsDiscarded(t *testing.T) {
	profiles := newGatedProfileStore(map[string]domainauth.Role{
		"alice": domainauth.RoleAdmin,
	})
	watcher := newTestWatcher(t, profiles)
	watcher.markReady()
	ctx := context.Background()

	watcher.apply(ctx, signedInEvent("s1", "alice", domainauth.RoleUnknown))
	watcher.apply(ctx, ports.SessionEvent{Kind: ports.SessionSignedOut, SessionID: "s1"})

	close(profiles.release)
	watcher.waitRoleFetches()

	assert.Equal(t, domainauth.UnauthenticatedSnapshot(), watcher.Snapshot(context.Background(), "s1"))
}
