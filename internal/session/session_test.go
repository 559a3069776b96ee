package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"simspay/internal/logging"
)

// ---- fake store ----

// fakeStore implements credentials.Repository in memory.
type fakeStore struct {
	token string

	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func (f *fakeStore) Save(ctx context.Context, token string) error {
	f.SaveCalls++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.token = token
	return nil
}

func (f *fakeStore) Load(ctx context.Context) (string, error) {
	return f.token, nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.token = ""
	return nil
}

func newManager(t *testing.T) (*Manager, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	return NewManager(store, logging.NopLogger{}), store
}

// ---- TESTS ----

func TestManager_StartsAnonymous(t *testing.T) {
	m, _ := newManager(t)

	require.False(t, m.IsAuthenticated())
	_, ok := m.Token()
	require.False(t, ok)
}

func TestManager_LoginPersistsToken(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	require.NoError(t, m.Login(ctx, "abc"))

	require.True(t, m.IsAuthenticated())
	tok, ok := m.Token()
	require.True(t, ok)
	require.Equal(t, "abc", tok)
	require.Equal(t, "abc", store.token)
}

func TestManager_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	require.NoError(t, m.Login(ctx, "abc"))
	require.NoError(t, m.Logout(ctx))

	require.False(t, m.IsAuthenticated())
	require.Empty(t, store.token)
}

func TestManager_LogoutFiresHooksAfterTransition(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	var sawAuthenticated bool
	var order []string
	m.OnLogout(func() {
		sawAuthenticated = m.IsAuthenticated()
		order = append(order, "cache")
	})
	m.OnLogout(func() { order = append(order, "history") })

	require.NoError(t, m.Login(ctx, "abc"))
	require.NoError(t, m.Logout(ctx))

	require.Equal(t, []string{"cache", "history"}, order)
	require.False(t, sawAuthenticated, "hooks must observe the Anonymous state")
}

func TestManager_LogoutReturnsStoreErrorButStillTransitions(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{ClearErr: errors.New("disk gone")}
	m := NewManager(store, logging.NopLogger{})

	require.NoError(t, store.Save(ctx, "abc"))
	m.token = "abc"

	err := m.Logout(ctx)
	require.Error(t, err)
	require.False(t, m.IsAuthenticated())
}

func TestManager_GenerationBumpsOnEveryTransition(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	g0 := m.Generation()
	require.NoError(t, m.Login(ctx, "a"))
	g1 := m.Generation()
	require.Greater(t, g1, g0)

	require.NoError(t, m.Logout(ctx))
	g2 := m.Generation()
	require.Greater(t, g2, g1)

	require.NoError(t, m.Login(ctx, "b"))
	require.Greater(t, m.Generation(), g2)
}

func TestManager_RestoreLoadsPersistedToken(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{token: "persisted"}
	m := NewManager(store, logging.NopLogger{})

	require.NoError(t, m.Restore(ctx))

	require.True(t, m.IsAuthenticated())
	tok, _ := m.Token()
	require.Equal(t, "persisted", tok)
}

func TestManager_RestoreWithEmptyStoreStaysAnonymous(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.Restore(ctx))
	require.False(t, m.IsAuthenticated())
}

func TestManager_Snapshot(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.Login(ctx, "abc"))
	tok, gen := m.Snapshot()
	require.Equal(t, "abc", tok)
	require.Equal(t, m.Generation(), gen)
}

// ---- guard ----

func TestAccessGuard(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.False(t, CanAccessPrivate(m))
	require.True(t, CanAccessPublicOnly(m))

	require.NoError(t, m.Login(ctx, "abc"))
	require.True(t, CanAccessPrivate(m))
	require.False(t, CanAccessPublicOnly(m))

	require.NoError(t, m.Logout(ctx))
	require.False(t, CanAccessPrivate(m))
	require.True(t, CanAccessPublicOnly(m))
}
