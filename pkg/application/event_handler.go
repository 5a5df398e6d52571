package application

import (
	"context"

	"github.com/mateusmacedo/bus-catalog/pkg/domain"
)

type EventHandler[E domain.Event[T], T any] interface {
	Handle(ctx context.Context, event E) error
}

// EventBus publishes events and fans them out to every handler registered
// for the event name. Publishing with no registered handler is not an error.
type EventBus[E domain.Event[D], D any] interface {
	RegisterHandler(eventName string, handler EventHandler[E, D])
	Publish(ctx context.Context, event E) error
}
