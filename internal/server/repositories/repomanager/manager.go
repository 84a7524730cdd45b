package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/baibai/internal/dbx"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/products"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository against a plain connection or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
}
