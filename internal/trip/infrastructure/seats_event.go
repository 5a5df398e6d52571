package infrastructure

import (
	"context"

	"github.com/mateusmacedo/bus-catalog/internal/trip/application"
	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
	pkgInfra "github.com/mateusmacedo/bus-catalog/pkg/infrastructure"
)

// TripEventBus carries TripCreated events.
type TripEventBus = pkgApp.EventBus[pkgDomain.Event[application.TripCreatedPayload], application.TripCreatedPayload]

// EventSeatInitializer initializes seats by publishing TripCreated. Over a
// broker, success means the broker accepted the event, not that the seat
// inventory exists yet.
type EventSeatInitializer struct {
	eventBus TripEventBus
}

func NewEventSeatInitializer(eventBus TripEventBus) *EventSeatInitializer {
	return &EventSeatInitializer{eventBus: eventBus}
}

func (s *EventSeatInitializer) InitializeSeats(ctx context.Context, trip domain.Trip) error {
	return s.eventBus.Publish(ctx, application.NewTripCreatedEvent(trip))
}

// NewInProcessSeatInitializer publishes TripCreated on an in-process bus
// whose only handler writes seats through seats. Publish waits for that
// handler, so success means the inventory exists.
func NewInProcessSeatInitializer(seats domain.SeatInitializer, logger pkgApp.AppLogger) *EventSeatInitializer {
	bus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.TripCreatedPayload], application.TripCreatedPayload](logger)
	bus.RegisterHandler(application.TripCreatedEventName, application.NewTripCreatedSeatsHandler(seats, logger))
	return NewEventSeatInitializer(bus)
}
