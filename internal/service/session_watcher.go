package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

// SessionWatcherOptions groups dependencies for SessionWatcher.
type SessionWatcherOptions struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileStore

	// Sessions, when set, backfills snapshots for sessions that predate
	// this process. Sessions outlive restarts in the session store, so
	// without it a valid cookie issued before startup would read as
	// unauthenticated until the next sign-in.
	Sessions ports.SessionStore

	Logger *slog.Logger
}

// SessionWatcher is the process-lifetime subscriber to the identity
// provider's session-change stream. It owns the per-session auth
// snapshots: events are applied strictly in emission order, applying
// the same event twice yields the same snapshot, and a role re-fetch
// that completes after the session's identity changed is discarded.
type SessionWatcher struct {
	provider ports.IdentityProvider
	profiles ports.ProfileStore
	sessions ports.SessionStore
	logger   *slog.Logger

	mu        sync.RWMutex
	snapshots map[string]domainauth.Snapshot

	readyOnce sync.Once
	ready     chan struct{}

	// roleFetches tracks in-flight role fetches for tests.
	roleFetches sync.WaitGroup
}

// NewSessionWatcher constructs a new SessionWatcher.
func NewSessionWatcher(opts SessionWatcherOptions) (*SessionWatcher, error) {
	if opts.Provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if opts.Profiles == nil {
		return nil, errors.New("profile store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionWatcher{
		provider:  opts.Provider,
		profiles:  opts.Profiles,
		sessions:  opts.Sessions,
		logger:    logger.With("component", "session_watcher"),
		snapshots: make(map[string]domainauth.Snapshot),
		ready:     make(chan struct{}),
	}, nil
}

// Run subscribes to the provider and consumes events until ctx is done
// or the provider closes the stream. It must be called exactly once.
func (w *SessionWatcher) Run(ctx context.Context) error {
	stream, err := w.provider.Subscribe(ctx)
	if err != nil {
		return err
	}
	w.markReady()
	w.logger.InfoContext(ctx, "session watcher started")

	for ev := range stream {
		w.apply(ctx, ev)
	}
	w.logger.InfoContext(ctx, "session watcher stopped")
	return nil
}

// Ready reports whether the initial provider sync has completed.
func (w *SessionWatcher) Ready() bool {
	select {
	case <-w.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the initial sync completes or ctx is done.
func (w *SessionWatcher) WaitReady(ctx context.Context) error {
	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the auth state for a session id. Before the initial
// sync every snapshot is loading. Afterwards an id missing from the map
// is checked against the session store, because sessions issued before
// this process started never appear on the event stream; only an id the
// store does not know resolves to the unauthenticated resting state.
func (w *SessionWatcher) Snapshot(ctx context.Context, sessionID string) domainauth.Snapshot {
	if !w.Ready() {
		return domainauth.Snapshot{Role: domainauth.RoleUnknown, Loading: true}
	}
	w.mu.RLock()
	snap, ok := w.snapshots[sessionID]
	w.mu.RUnlock()
	if ok {
		return snap
	}
	if w.sessions == nil || sessionID == "" {
		return domainauth.UnauthenticatedSnapshot()
	}
	return w.seedFromStore(ctx, sessionID)
}

// seedFromStore rebuilds the snapshot for a session the store still
// holds, then kicks off the same role re-fetch a signed-in event gets.
func (w *SessionWatcher) seedFromStore(ctx context.Context, sessionID string) domainauth.Snapshot {
	sess, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return domainauth.UnauthenticatedSnapshot()
	}
	if !sess.ExpiresAt.IsZero() && !sess.ExpiresAt.After(time.Now()) {
		return domainauth.UnauthenticatedSnapshot()
	}
	identity := domainauth.Identity{ID: sess.UserID, Email: sess.Email, FullName: sess.FullName}
	snap := domainauth.Snapshot{
		Session:         &sess,
		User:            &identity,
		Role:            sess.Role,
		IsAuthenticated: true,
	}

	w.mu.Lock()
	if current, ok := w.snapshots[sessionID]; ok {
		// An event for this session landed while the store read was in
		// flight; the event stream stays authoritative.
		w.mu.Unlock()
		return current
	}
	w.snapshots[sessionID] = snap
	w.mu.Unlock()

	w.roleFetches.Add(1)
	go func(ctx context.Context) {
		defer w.roleFetches.Done()
		w.refreshRole(ctx, sessionID, sess.UserID)
	}(context.WithoutCancel(ctx))
	return snap
}

// markReady is exposed to the package for watcher tests that drive
// apply directly.
func (w *SessionWatcher) markReady() {
	w.readyOnce.Do(func() { close(w.ready) })
}

func (w *SessionWatcher) apply(ctx context.Context, ev ports.SessionEvent) {
	switch ev.Kind {
	case ports.SessionSignedIn:
		w.applySignedIn(ctx, ev)
	case ports.SessionSignedOut:
		w.applySignedOut(ev)
	default:
		w.logger.WarnContext(ctx, "unknown session event kind", slog.String("kind", string(ev.Kind)))
	}
}

func (w *SessionWatcher) applySignedIn(ctx context.Context, ev ports.SessionEvent) {
	if ev.Session == nil {
		w.logger.WarnContext(ctx, "signed-in event without session", slog.String("session_id", ev.SessionID))
		return
	}
	sess := *ev.Session
	identity := domainauth.Identity{ID: sess.UserID, Email: sess.Email, FullName: sess.FullName}

	w.mu.Lock()
	w.snapshots[ev.SessionID] = domainauth.Snapshot{
		Session:         &sess,
		User:            &identity,
		Role:            sess.Role,
		IsAuthenticated: true,
	}
	w.mu.Unlock()

	// Re-fetch the role so a profile change since session issuance is
	// observed. The result only commits while the snapshot still
	// belongs to the same identity.
	w.roleFetches.Add(1)
	go func() {
		defer w.roleFetches.Done()
		w.refreshRole(ctx, ev.SessionID, identity.ID)
	}()
}

func (w *SessionWatcher) applySignedOut(ev ports.SessionEvent) {
	w.mu.Lock()
	delete(w.snapshots, ev.SessionID)
	w.mu.Unlock()
}

func (w *SessionWatcher) refreshRole(ctx context.Context, sessionID, userID string) {
	role, err := w.profiles.RoleFor(ctx, userID)
	if err != nil {
		// The snapshot keeps the role it has; a fetch failure is a
		// degraded but valid state.
		w.logger.WarnContext(ctx, "role fetch failed",
			slog.String("session_id", sessionID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	snap, ok := w.snapshots[sessionID]
	if !ok || snap.User == nil || snap.User.ID != userID {
		// The session was superseded while the fetch was in flight.
		return
	}
	snap.Role = role
	if snap.Session != nil {
		sess := *snap.Session
		sess.Role = role
		snap.Session = &sess
	}
	w.snapshots[sessionID] = snap
}

// waitRoleFetches blocks until all in-flight role fetches finish.
func (w *SessionWatcher) waitRoleFetches() {
	w.roleFetches.Wait()
}
