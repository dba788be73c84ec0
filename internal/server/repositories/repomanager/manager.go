// Package repomanager wires repository constructors to a concrete storage
// backend and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/esaveliev/walletgate/internal/dbx"
	"github.com/esaveliev/walletgate/internal/server/repositories/refreshtokens"
	"github.com/esaveliev/walletgate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX. Passing a *sql.Tx
// makes the returned repository participate in that transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
