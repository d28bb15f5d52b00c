// Package application holds shared application-layer contracts: the
// command/query handler shapes and the unit-of-work abstraction.
package application

import "context"

// CommandHandler processes a command and returns a result.
type CommandHandler[C any, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}
