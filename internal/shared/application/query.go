package application

import "context"

// QueryHandler processes a query and returns a result.
type QueryHandler[Q any, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
