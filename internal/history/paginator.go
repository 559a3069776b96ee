// Package history loads the transaction list incrementally with
// offset-based pagination. Loaded records are append-only for the
// lifetime of the view: a failed page never discards what is already
// shown, and a retry re-requests the same offset.
package history

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

type Paginator struct {
	mu sync.Mutex

	gw      *api.Gateway
	session *session.Manager
	log     logging.Logger

	records    []models.TransactionRecord
	nextOffset int
	exhausted  bool
	loading    bool

	// loadID identifies the current view state. Reset bumps it, so a
	// page that was in flight across a reset or logout is ignored when
	// it finally arrives.
	loadID uint64
}

func NewPaginator(gw *api.Gateway, sess *session.Manager, log logging.Logger) *Paginator {
	return &Paginator{gw: gw, session: sess, log: log}
}

// Reset returns the paginator to its initial state. Called on entry to
// the history view and from the session's logout hook. Idempotent.
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = nil
	p.nextOffset = 0
	p.exhausted = false
	p.loading = false
	p.loadID++
}

// Records returns a snapshot of everything loaded so far, in server
// order (newest first).
func (p *Paginator) Records() []models.TransactionRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.TransactionRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Exhausted reports whether the server has no more records to return.
func (p *Paginator) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exhausted
}

// NextOffset returns the offset the next page will be requested at.
// While no fetch is in flight and the list is not exhausted, it equals
// the number of loaded records.
func (p *Paginator) NextOffset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextOffset
}

// LoadNextPage fetches up to pageSize records at the current offset and
// appends them. It is a no-op (nil, nil) while a fetch is already in
// flight or after exhaustion. A page shorter than pageSize marks the
// list exhausted; a full final page therefore costs one extra call
// that comes back empty. On error the offset is untouched, so the next
// call retries the same page.
func (p *Paginator) LoadNextPage(ctx context.Context, pageSize int) ([]models.TransactionRecord, error) {
	p.mu.Lock()
	if p.exhausted || p.loading {
		p.mu.Unlock()
		return nil, nil
	}
	p.loading = true
	offset := p.nextOffset
	id := p.loadID
	p.mu.Unlock()

	path := fmt.Sprintf("/transaction/history?offset=%d&limit=%d", offset, pageSize)
	res, err := p.gw.Request(ctx, http.MethodGet, path, nil)

	p.mu.Lock()
	defer p.mu.Unlock()

	if id != p.loadID {
		// The view was reset while we were in flight; whatever came
		// back belongs to a state that no longer exists.
		return nil, nil
	}
	p.loading = false

	if err != nil {
		return nil, err
	}
	if res.Generation != p.session.Generation() {
		return nil, nil
	}

	var payload struct {
		Records []models.TransactionRecord `json:"records"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode history page: %w", err)
	}

	p.records = append(p.records, payload.Records...)
	p.nextOffset += len(payload.Records)
	if len(payload.Records) < pageSize {
		p.exhausted = true
	}

	p.log.Debug(ctx, "history page loaded",
		"offset", offset, "count", len(payload.Records), "exhausted", p.exhausted)
	return payload.Records, nil
}
