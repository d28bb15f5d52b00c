package persistence

import (
	"context"
	"database/sql"

	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

const dateLayout = "2006-01-02"

// querier abstracts *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getQuerier returns the transaction from the context if present,
// otherwise the database connection.
func getQuerier(ctx context.Context, db *sql.DB) querier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return db
}
