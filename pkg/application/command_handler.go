package application

import (
	"context"

	"github.com/mateusmacedo/bus-catalog/pkg/domain"
)

// CommandHandler handles a single command type and returns its outcome.
// A handler may return a non-zero result together with an error when the
// command was partially applied.
type CommandHandler[C domain.Command[T], T any, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// CommandBus routes commands to the handler registered under their name.
type CommandBus[C domain.Command[T], T any, R any] interface {
	RegisterHandler(commandName string, handler CommandHandler[C, T, R])
	Dispatch(ctx context.Context, command C) (R, error)
}
