// Package cli implements the interactive terminal client: a REPL over
// the session, cache, paginator and service layers.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"net/http"
	"os"

	"simspay/internal/api"
	"simspay/internal/cache"
	"simspay/internal/config"
	"simspay/internal/history"
	"simspay/internal/logging"
	"simspay/internal/repositories/credentials"
	"simspay/internal/services"
	"simspay/internal/session"
	"simspay/internal/storage"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	session *session.Manager
	cache   *cache.Cache
	history *history.Paginator

	account  *services.AccountService
	payments *services.PaymentService

	log    logging.Logger
	reader *bufio.Reader
}

// NewApp wires the whole client together: local storage, session,
// gateway, cache, paginator and the service flows on top. The logout
// hooks registered here are the only place cache invalidation and
// paginator reset are triggered from.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	creds := credentials.NewSQLiteRepository(db)
	sess := session.NewManager(creds, log)

	gw := api.NewGateway(cfg.BaseURL, sess, log,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))

	c := cache.New(gw, sess, log)
	pag := history.NewPaginator(gw, sess, log)
	sess.OnLogout(c.InvalidateAll)
	sess.OnLogout(pag.Reset)

	if err := sess.Restore(ctx); err != nil {
		log.Warn(ctx, "failed to restore session", "error", err)
	}

	return &App{
		config:   cfg,
		db:       db,
		session:  sess,
		cache:    c,
		history:  pag,
		account:  services.NewAccountService(gw, sess, c, log),
		payments: services.NewPaymentService(gw, c, log),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return session.CanAccessPrivate(a.session)
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	if p, ok := a.cache.Profile(); ok {
		return "(" + p.Email + ")"
	}
	return "(logged in)"
}
