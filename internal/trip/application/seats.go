package application

import (
	"context"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
)

type TripCreatedHandler = pkgApp.EventHandler[pkgDomain.Event[TripCreatedPayload], TripCreatedPayload]

type tripCreatedSeatsHandler struct {
	seats  domain.SeatInitializer
	logger pkgApp.AppLogger
}

// NewTripCreatedSeatsHandler initializes seats for every TripCreated event.
// It runs on the consuming side of the event bus, in the seat worker or in
// the API process when the broker is the in-memory channel.
func NewTripCreatedSeatsHandler(seats domain.SeatInitializer, logger pkgApp.AppLogger) TripCreatedHandler {
	return &tripCreatedSeatsHandler{seats: seats, logger: logger}
}

func (h *tripCreatedSeatsHandler) Handle(ctx context.Context, event pkgDomain.Event[TripCreatedPayload]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	trip, err := TripFromPayload(event.Payload())
	if err != nil {
		// Redelivery cannot repair the payload, so the event is dropped.
		pkgApp.LogError(ctx, h.logger, "discarding malformed trip created event", err, map[string]interface{}{
			"trip_id": event.Payload().TripID,
		})
		return nil
	}
	if err := h.seats.InitializeSeats(ctx, trip); err != nil {
		pkgApp.LogError(ctx, h.logger, "error initializing seats from event", err, map[string]interface{}{
			"trip_id": trip.ID,
		})
		return err
	}
	return nil
}
