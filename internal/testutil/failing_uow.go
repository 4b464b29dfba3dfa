package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/mirror/internal/db"
)

// NewFailingUoW returns a unit of work whose Nth write inside each
// transaction fails with err. Writes count from 1; reads pass through.
func NewFailingUoW(database *sql.DB, failOn int, err error) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database).WithWrapper(func(tx db.DBTX) db.DBTX {
		return &execFault{DBTX: tx, failOn: failOn, err: err}
	})
}

type execFault struct {
	db.DBTX
	n      int
	failOn int
	err    error
}

func (f *execFault) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.n++
	if f.n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
