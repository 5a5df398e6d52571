package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	"github.com/mateusmacedo/bus-catalog/pkg/domain"
)

type simpleQueryBus[Q domain.Query[D], D any, R any] struct {
	handlers map[string]application.QueryHandler[Q, D, R]
	mu       sync.RWMutex
	logger   application.AppLogger
}

// NewSimpleQueryBus returns an in-process query bus. Dispatch stops waiting
// as soon as ctx is done, even if the handler is still running.
func NewSimpleQueryBus[Q domain.Query[D], D any, R any](logger application.AppLogger) application.QueryBus[Q, D, R] {
	return &simpleQueryBus[Q, D, R]{
		handlers: make(map[string]application.QueryHandler[Q, D, R]),
		logger:   logger,
	}
}

func (bus *simpleQueryBus[Q, D, R]) RegisterHandler(queryName string, handler application.QueryHandler[Q, D, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[queryName] = handler
}

func (bus *simpleQueryBus[Q, D, R]) Dispatch(ctx context.Context, query Q) (R, error) {
	bus.mu.RLock()
	handler, found := bus.handlers[query.QueryName()]
	bus.mu.RUnlock()

	var zero R
	if !found {
		application.LogError(ctx, bus.logger, "no handler registered for query", ErrNoHandler, map[string]interface{}{
			"query_name": query.QueryName(),
		})
		return zero, fmt.Errorf("query %q: %w", query.QueryName(), ErrNoHandler)
	}

	type outcome struct {
		result R
		err    error
	}
	// buffered so the handler goroutine never blocks after a timeout
	done := make(chan outcome, 1)

	go func() {
		result, err := handler.Handle(ctx, query)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		application.LogError(ctx, bus.logger, "query abandoned", ctx.Err(), map[string]interface{}{
			"query_name": query.QueryName(),
		})
		return zero, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return zero, out.err
		}
		return out.result, nil
	}
}
