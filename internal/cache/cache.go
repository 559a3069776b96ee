// Package cache is the in-memory store for server-derived resources:
// profile, balance, service catalog and banners. Reads are synchronous
// snapshots; refreshes always hit the network and keep the stale value
// on failure. Mutating flows write their response payloads straight
// into the cache (write-through), so a payment's new balance is visible
// without a second round trip.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"simspay/internal/api"
	"simspay/internal/logging"
	"simspay/internal/models"
	"simspay/internal/session"
)

type Cache struct {
	mu sync.Mutex

	gw      *api.Gateway
	session *session.Manager
	log     logging.Logger

	profile  resource[models.Profile]
	balance  resource[int64]
	services resource[[]models.Service]
	banners  resource[[]models.Banner]
}

func New(gw *api.Gateway, sess *session.Manager, log logging.Logger) *Cache {
	return &Cache{gw: gw, session: sess, log: log}
}

// Profile returns the cached profile and whether one has been loaded.
func (c *Cache) Profile() (models.Profile, bool) { return get(c, &c.profile) }

// Balance returns the cached balance in minor units.
func (c *Cache) Balance() (int64, bool) { return get(c, &c.balance) }

// Services returns the cached service catalog.
func (c *Cache) Services() ([]models.Service, bool) { return get(c, &c.services) }

// Banners returns the cached banner list.
func (c *Cache) Banners() ([]models.Banner, bool) { return get(c, &c.banners) }

// RefreshProfile fetches the profile and replaces the cached value on
// success. On failure the previously cached value stays in place.
func (c *Cache) RefreshProfile(ctx context.Context) (models.Profile, error) {
	return refresh[models.Profile](ctx, c, &c.profile, "/profile")
}

// RefreshBalance fetches the current balance.
func (c *Cache) RefreshBalance(ctx context.Context) (int64, error) {
	seq := issue(c, &c.balance)

	res, err := c.gw.Request(ctx, http.MethodGet, "/balance", nil)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode balance: %w", err)
	}

	apply(c, &c.balance, payload.Balance, seq, res.Generation)
	return payload.Balance, nil
}

// RefreshServices fetches the service catalog. The catalog is treated
// as immutable for the session; callers refetch only on explicit reload
// or after a new login.
func (c *Cache) RefreshServices(ctx context.Context) ([]models.Service, error) {
	return refresh[[]models.Service](ctx, c, &c.services, "/services")
}

// RefreshBanners fetches the promotional banners.
func (c *Cache) RefreshBanners(ctx context.Context) ([]models.Banner, error) {
	return refresh[[]models.Banner](ctx, c, &c.banners, "/banner")
}

// ApplyBalance ingests the balance returned by a mutating call (top-up,
// payment). The server value replaces the cached one outright; it is
// never added to it, so two racing mutations cannot double-count.
// generation is the tag of the mutation's own response.
func (c *Cache) ApplyBalance(balance int64, generation uint64) {
	seq := issue(c, &c.balance)
	apply(c, &c.balance, balance, seq, generation)
}

// ApplyProfile ingests the profile returned by a successful profile
// update or avatar upload.
func (c *Cache) ApplyProfile(p models.Profile, generation uint64) {
	seq := issue(c, &c.profile)
	apply(c, &c.profile, p, seq, generation)
}

// InvalidateAll clears every cached value. Wired to the session's
// logout hook and called from nowhere else; this is what prevents one
// user's data from leaking into the next anonymous view.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = resource[models.Profile]{}
	c.balance = resource[int64]{}
	c.services = resource[[]models.Service]{}
	c.banners = resource[[]models.Banner]{}
}
