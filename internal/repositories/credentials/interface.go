// Package credentials persists the session bearer token across process
// restarts. It is a tiny key/value repository over the local sqlite
// database shared with the rest of the client state.
package credentials

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository stores exactly one credential: the current session token.
//
// Contract:
//   - Save overwrites the persisted token.
//   - Load returns the persisted token, or "" when none is stored.
//     A broken store degrades to "" rather than failing the caller.
//   - Clear removes the persisted token; clearing an empty store is a no-op.
type Repository interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
