// Package session owns the authenticated-or-not state of the client:
// the bearer token, its persistence, and the logout transition that
// invalidates every dependent cache.
package session

import (
	"context"
	"sync"

	"simspay/internal/logging"
	"simspay/internal/repositories/credentials"
)

// Manager is the single per-process session. It has two states:
// Anonymous (no token) and Authenticated (token set). Token expiry is
// detected reactively through the gateway's 401 handling; the manager
// runs no timers of its own.
//
// The generation counter increments on every Login and Logout. In-flight
// requests snapshot the generation at issue time; a response whose
// generation no longer matches must be discarded by its consumer, so a
// late completion can never repopulate state that belongs to a previous
// session.
type Manager struct {
	mu         sync.Mutex
	token      string
	generation uint64

	store credentials.Repository
	log   logging.Logger

	onLogout []func()
}

func NewManager(store credentials.Repository, log logging.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// OnLogout registers fn to run after every Logout transition. Hooks are
// invoked outside the manager's lock, in registration order. Used by the
// resource cache and the history paginator to reset themselves; wiring
// happens once at application startup.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// Restore loads a previously persisted token, if any. Called once at
// process start, before any component issues requests. A persisted token
// is trusted until the first 401.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	m.mu.Lock()
	m.token = token
	m.generation++
	m.mu.Unlock()

	m.log.Info(ctx, "session restored from credential store")
	return nil
}

// Login stores token as the current session credential and persists it.
// Populating caches after login is the caller's responsibility, so a
// failed post-login fetch cannot corrupt session state.
func (m *Manager) Login(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.generation++
	m.mu.Unlock()

	if err := m.store.Save(ctx, token); err != nil {
		m.log.Warn(ctx, "failed to persist session token", "error", err)
		return err
	}
	return nil
}

// Logout transitions to Anonymous from any state, clears the persisted
// credential, and fires the registered invalidation hooks. Hooks run
// after the state transition, so a hook that re-reads the session
// observes Anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.generation++
	hooks := m.onLogout
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to clear persisted token", "error", err)
	}

	for _, fn := range hooks {
		fn()
	}
	return err
}

// Token returns the current bearer token and whether one is set.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// IsAuthenticated reports whether a token is present.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Token()
	return ok
}

// Generation returns the current session generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Snapshot returns the token and generation atomically. The gateway tags
// each outgoing request with this pair.
func (m *Manager) Snapshot() (token string, generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.generation
}
