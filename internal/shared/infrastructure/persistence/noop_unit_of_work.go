package persistence

import "context"

// NoopUnitOfWork satisfies application.UnitOfWork without transactions.
// Used with in-memory repositories in tests.
type NoopUnitOfWork struct{}

// NewNoopUnitOfWork creates a no-op unit of work.
func NewNoopUnitOfWork() *NoopUnitOfWork { return &NoopUnitOfWork{} }

func (u *NoopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (u *NoopUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (u *NoopUnitOfWork) Rollback(ctx context.Context) error                 { return nil }
