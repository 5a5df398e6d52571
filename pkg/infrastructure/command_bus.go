package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	"github.com/mateusmacedo/bus-catalog/pkg/domain"
)

type simpleCommandBus[C domain.Command[D], D any, R any] struct {
	handlers map[string]application.CommandHandler[C, D, R]
	mu       sync.RWMutex
	logger   application.AppLogger
}

// NewSimpleCommandBus returns an in-process command bus. Dispatch runs the
// handler on the caller's goroutine so the result and any error reach the
// caller unchanged.
func NewSimpleCommandBus[C domain.Command[D], D any, R any](logger application.AppLogger) application.CommandBus[C, D, R] {
	return &simpleCommandBus[C, D, R]{
		handlers: make(map[string]application.CommandHandler[C, D, R]),
		logger:   logger,
	}
}

func (bus *simpleCommandBus[C, D, R]) RegisterHandler(commandName string, handler application.CommandHandler[C, D, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[commandName] = handler
}

func (bus *simpleCommandBus[C, D, R]) Dispatch(ctx context.Context, command C) (R, error) {
	bus.mu.RLock()
	handler, found := bus.handlers[command.CommandName()]
	bus.mu.RUnlock()

	if !found {
		var zero R
		application.LogError(ctx, bus.logger, "no handler registered for command", ErrNoHandler, map[string]interface{}{
			"command_name": command.CommandName(),
		})
		return zero, fmt.Errorf("command %q: %w", command.CommandName(), ErrNoHandler)
	}

	application.LogDebug(ctx, bus.logger, "dispatching command", map[string]interface{}{
		"command_name": command.CommandName(),
	})
	return handler.Handle(ctx, command)
}
