package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simspay/internal/api"
	"simspay/internal/logging"
	"simspay/internal/models"
	"simspay/internal/session"
)

// ---- helpers ----

type memStore struct{ token string }

func (m *memStore) Save(ctx context.Context, token string) error { m.token = token; return nil }
func (m *memStore) Load(ctx context.Context) (string, error)     { return m.token, nil }
func (m *memStore) Clear(ctx context.Context) error              { m.token = ""; return nil }

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status, "message": message, "data": data,
	})
}

// newTestCache wires a real session+gateway+cache triple against the
// given handler, logged in and with the logout hook registered the way
// the application does it.
func newTestCache(t *testing.T, handler http.HandlerFunc) (*Cache, *session.Manager) {
	t.Helper()

	sess := session.NewManager(&memStore{}, logging.NopLogger{})
	require.NoError(t, sess.Login(context.Background(), "abc"))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw := api.NewGateway(srv.URL, sess, logging.NopLogger{},
		api.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))

	c := New(gw, sess, logging.NopLogger{})
	sess.OnLogout(c.InvalidateAll)
	return c, sess
}

func profileHandler(p models.Profile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "ok", p)
	}
}

// ---- TESTS ----

func TestCache_NotLoadedInitially(t *testing.T) {
	c, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {})

	_, ok := c.Profile()
	require.False(t, ok)
	_, ok = c.Balance()
	require.False(t, ok)
	_, ok = c.Services()
	require.False(t, ok)
	_, ok = c.Banners()
	require.False(t, ok)
}

func TestCache_RefreshProfile(t *testing.T) {
	ctx := context.Background()
	want := models.Profile{Email: "a@b.c", FirstName: "Ada", LastName: "L"}
	c, _ := newTestCache(t, profileHandler(want))

	got, err := c.RefreshProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	cached, ok := c.Profile()
	require.True(t, ok)
	require.Equal(t, want, cached)
}

func TestCache_RefreshBalance(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "ok", map[string]int64{"balance": 25000})
	})

	got, err := c.RefreshBalance(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 25000, got)

	cached, ok := c.Balance()
	require.True(t, ok)
	require.EqualValues(t, 25000, cached)
}

func TestCache_RefreshServicesAndBanners(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/services":
			writeEnvelope(w, 0, "ok", []models.Service{
				{Code: "PULSA", Name: "Pulsa", Tariff: 40000},
				{Code: "PDAM", Name: "PDAM Berlangganan", Tariff: 40000},
			})
		case "/banner":
			writeEnvelope(w, 0, "ok", []models.Banner{{Name: "Banner 1"}})
		}
	})

	svcs, err := c.RefreshServices(ctx)
	require.NoError(t, err)
	require.Len(t, svcs, 2)
	require.Equal(t, "PULSA", svcs[0].Code)

	banners, err := c.RefreshBanners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)
}

func TestCache_LogoutClearsEveryResource(t *testing.T) {
	ctx := context.Background()
	c, sess := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile":
			writeEnvelope(w, 0, "ok", models.Profile{Email: "a@b.c"})
		case "/balance":
			writeEnvelope(w, 0, "ok", map[string]int64{"balance": 100})
		case "/services":
			writeEnvelope(w, 0, "ok", []models.Service{{Code: "PULSA"}})
		case "/banner":
			writeEnvelope(w, 0, "ok", []models.Banner{{Name: "b"}})
		}
	})

	_, err := c.RefreshProfile(ctx)
	require.NoError(t, err)
	_, err = c.RefreshBalance(ctx)
	require.NoError(t, err)
	_, err = c.RefreshServices(ctx)
	require.NoError(t, err)
	_, err = c.RefreshBanners(ctx)
	require.NoError(t, err)

	require.NoError(t, sess.Logout(ctx))

	_, ok := c.Profile()
	require.False(t, ok, "profile must not leak across sessions")
	_, ok = c.Balance()
	require.False(t, ok)
	_, ok = c.Services()
	require.False(t, ok)
	_, ok = c.Banners()
	require.False(t, ok)
}

func TestCache_RefreshFailureKeepsStaleValue(t *testing.T) {
	ctx := context.Background()
	fail := false
	c, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeEnvelope(w, 108, "something broke", nil)
			return
		}
		writeEnvelope(w, 0, "ok", map[string]int64{"balance": 5000})
	})

	_, err := c.RefreshBalance(ctx)
	require.NoError(t, err)

	fail = true
	_, err = c.RefreshBalance(ctx)
	require.Error(t, err)

	cached, ok := c.Balance()
	require.True(t, ok, "a failed refresh must not clear cached data")
	require.EqualValues(t, 5000, cached)
}

func TestCache_ApplyBalanceIsWriteThrough(t *testing.T) {
	c, sess := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {})

	c.ApplyBalance(99000, sess.Generation())

	got, ok := c.Balance()
	require.True(t, ok)
	require.EqualValues(t, 99000, got, "mutation result must be visible without a refresh")
}

func TestCache_ApplyReplacesNeverIncrements(t *testing.T) {
	c, sess := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {})

	c.ApplyBalance(10000, sess.Generation())
	c.ApplyBalance(7000, sess.Generation())

	got, _ := c.Balance()
	require.EqualValues(t, 7000, got)
}

func TestCache_StaleGenerationApplyDiscarded(t *testing.T) {
	ctx := context.Background()
	c, sess := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {})

	old := sess.Generation()
	require.NoError(t, sess.Logout(ctx))

	c.ApplyBalance(12345, old)

	_, ok := c.Balance()
	require.False(t, ok, "a response tagged with a dead generation must be dropped")
}

func TestCache_OutOfOrderCompletionDiscarded(t *testing.T) {
	// Two concurrent profile refreshes: the first-issued response
	// arrives last. The later-issued, earlier-completing value wins
	// and the straggler must not overwrite it.
	ctx := context.Background()

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	var n atomic.Int32
	c, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			close(firstEntered)
			<-releaseFirst
			writeEnvelope(w, 0, "ok", models.Profile{FirstName: "A"})
			return
		}
		writeEnvelope(w, 0, "ok", models.Profile{FirstName: "B"})
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.RefreshProfile(ctx)
	}()

	<-firstEntered
	got, err := c.RefreshProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "B", got.FirstName)

	close(releaseFirst)
	<-done

	cached, ok := c.Profile()
	require.True(t, ok)
	require.Equal(t, "B", cached.FirstName, "the older completion must lose")
}

func TestCache_RefreshCompletingAfterLogoutDiscarded(t *testing.T) {
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	c, sess := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		writeEnvelope(w, 0, "ok", models.Profile{Email: "ghost@b.c"})
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.RefreshProfile(ctx)
	}()

	<-entered
	require.NoError(t, sess.Logout(ctx))
	close(release)
	<-done

	_, ok := c.Profile()
	require.False(t, ok, "a refresh finishing after logout must not repopulate the cache")
}

// Scenario from the consistency contract: a valid login, a balance
// fetch carrying the token implicitly, then a forced 401 leaving both
// session and cache empty.
func TestCache_Scenario401OnBalance(t *testing.T) {
	ctx := context.Background()

	var gotAuth string
	c, sess := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.RefreshBalance(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Equal(t, "Bearer abc", gotAuth, "the gateway supplies the token, not the caller")

	require.False(t, sess.IsAuthenticated())
	_, ok := c.Balance()
	require.False(t, ok)
}
