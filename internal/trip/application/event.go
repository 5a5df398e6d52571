package application

import (
	"fmt"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
)

const TripCreatedEventName = "TripCreated"

// TripCreatedPayload is the wire form of TripCreated. Price travels as
// decimal text to stay exact.
type TripCreatedPayload struct {
	TripID           uint64 `json:"tripId"`
	Name             string `json:"name"`
	Route            string `json:"route"`
	AvailableSeats   int    `json:"availableSeats"`
	TotalSeats       int    `json:"totalSeats"`
	Price            string `json:"price"`
	SeatsInitialized bool   `json:"seatsInitialized"`
}

type tripCreatedEvent struct {
	data TripCreatedPayload
}

func (e tripCreatedEvent) EventName() string {
	return TripCreatedEventName
}

func (e tripCreatedEvent) Payload() TripCreatedPayload {
	return e.data
}

func NewTripCreatedEvent(trip domain.Trip) pkgDomain.Event[TripCreatedPayload] {
	return tripCreatedEvent{data: TripCreatedPayload{
		TripID:           trip.ID,
		Name:             trip.Name,
		Route:            trip.Route,
		AvailableSeats:   trip.AvailableSeats,
		TotalSeats:       trip.TotalSeats,
		Price:            trip.Price.String(),
		SeatsInitialized: trip.SeatsInitialized,
	}}
}

// TripFromPayload rebuilds the fields of a trip that seat initialization
// needs. Schedule labels are not part of the event.
func TripFromPayload(p TripCreatedPayload) (domain.Trip, error) {
	price, err := domain.ParsePrice(p.Price)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %d: %w", p.TripID, err)
	}
	return domain.Trip{
		ID:               p.TripID,
		Name:             p.Name,
		Route:            p.Route,
		AvailableSeats:   p.AvailableSeats,
		TotalSeats:       p.TotalSeats,
		Price:            price,
		SeatsInitialized: p.SeatsInitialized,
	}, nil
}
