package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// resource is one cached value plus the bookkeeping that decides which
// completion wins. issued grows on every outgoing fetch (and every
// write-through); applied records the highest sequence whose result
// made it into the cache. A completion with a lower sequence than
// applied lost the race to a newer one and is dropped, so an old
// snapshot can never overwrite a newer one regardless of network
// reordering.
type resource[T any] struct {
	value   T
	loaded  bool
	issued  uint64
	applied uint64
}

// issue reserves the next sequence number for r.
func issue[T any](c *Cache, r *resource[T]) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	r.issued++
	return r.issued
}

// apply installs v unless the completion is stale. Two staleness
// checks: the session generation must still match (a logout or relogin
// happened mid-flight otherwise), and no newer completion may already
// be applied.
func apply[T any](c *Cache, r *resource[T], v T, seq, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.session.Generation() {
		return false
	}
	if seq < r.applied {
		return false
	}

	r.value = v
	r.loaded = true
	r.applied = seq
	return true
}

func get[T any](c *Cache, r *resource[T]) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return r.value, r.loaded
}

// refresh implements the common fetch-decode-apply path for resources
// whose payload unmarshals directly into T.
func refresh[T any](ctx context.Context, c *Cache, r *resource[T], path string) (T, error) {
	var zero T
	seq := issue(c, r)

	res, err := c.gw.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(res.Data, &v); err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	apply(c, r, v, seq, res.Generation)
	return v, nil
}
