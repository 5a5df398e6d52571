package infrastructure

import (
	"context"
	"errors"
	"sync"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	"github.com/mateusmacedo/bus-catalog/pkg/domain"
)

// simpleEventBus delivers events in-process, running every handler for the
// event on its own goroutine and waiting for all of them.
type simpleEventBus[E domain.Event[T], T any] struct {
	handlers map[string][]application.EventHandler[E, T]
	mu       sync.RWMutex
	logger   application.AppLogger
}

func NewSimpleEventBus[E domain.Event[T], T any](logger application.AppLogger) application.EventBus[E, T] {
	return &simpleEventBus[E, T]{
		handlers: make(map[string][]application.EventHandler[E, T]),
		logger:   logger,
	}
}

func (bus *simpleEventBus[E, T]) RegisterHandler(eventName string, handler application.EventHandler[E, T]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
}

func (bus *simpleEventBus[E, T]) Publish(ctx context.Context, event E) error {
	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, T](nil), bus.handlers[event.EventName()]...)
	bus.mu.RUnlock()

	if len(handlers) == 0 {
		application.LogDebug(ctx, bus.logger, "no handler registered for event", map[string]interface{}{
			"event_name": event.EventName(),
		})
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(handlers))
	for i, handler := range handlers {
		wg.Add(1)
		go func(i int, h application.EventHandler[E, T]) {
			defer wg.Done()
			errs[i] = h.Handle(ctx, event)
		}(i, handler)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		application.LogError(ctx, bus.logger, "error publishing event", ctx.Err(), map[string]interface{}{
			"event_name": event.EventName(),
		})
		return ctx.Err()
	case <-done:
	}

	if err := errors.Join(errs...); err != nil {
		application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	application.LogInfo(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": event.EventName(),
		"handlers":   len(handlers),
	})
	return nil
}
