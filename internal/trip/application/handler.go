package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
)

type (
	CreateTripHandler  = pkgApp.CommandHandler[pkgDomain.Command[domain.CreateTripData], domain.CreateTripData, domain.Trip]
	ReplaceTripHandler = pkgApp.CommandHandler[pkgDomain.Command[ReplaceTripData], ReplaceTripData, domain.Trip]
	GetTripHandler     = pkgApp.QueryHandler[pkgDomain.Query[GetTripData], GetTripData, *domain.Trip]
	ListTripsHandler   = pkgApp.QueryHandler[pkgDomain.Query[ListTripsData], ListTripsData, []domain.Trip]
	SearchTripsHandler = pkgApp.QueryHandler[pkgDomain.Query[SearchTripsData], SearchTripsData, []domain.Trip]
)

type createTripHandler struct {
	repository domain.TripRepository
	seats      domain.SeatInitializer
	logger     pkgApp.AppLogger
}

// NewCreateTripHandler wires trip creation. Creation is two steps: the trip
// is persisted, then seats are initialized. A seat failure leaves the trip
// stored with SeatsInitialized=false and is reported by returning the
// stored trip together with an error wrapping domain.ErrSeatInitialization.
func NewCreateTripHandler(repository domain.TripRepository, seats domain.SeatInitializer, logger pkgApp.AppLogger) CreateTripHandler {
	return &createTripHandler{
		repository: repository,
		seats:      seats,
		logger:     logger,
	}
}

func (h *createTripHandler) Handle(ctx context.Context, command pkgDomain.Command[domain.CreateTripData]) (domain.Trip, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return domain.Trip{}, ctx.Err()
	}

	trip, err := domain.NewTrip(command.Payload())
	if err != nil {
		pkgApp.LogInfo(ctx, h.logger, "trip rejected", map[string]interface{}{"reason": err.Error()})
		return domain.Trip{}, err
	}

	saved, err := h.repository.Save(ctx, trip)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error saving trip", err, map[string]interface{}{"name": trip.Name})
		return domain.Trip{}, err
	}
	pkgApp.LogInfo(ctx, h.logger, "trip saved", map[string]interface{}{"trip_id": saved.ID})

	if err := h.seats.InitializeSeats(ctx, saved); err != nil {
		pkgApp.LogError(ctx, h.logger, "error initializing seats", err, map[string]interface{}{"trip_id": saved.ID})
		return saved, fmt.Errorf("trip %d: %w: %w", saved.ID, domain.ErrSeatInitialization, err)
	}

	saved.SeatsInitialized = true
	updated, err := h.repository.Save(ctx, saved)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error marking seats initialized", err, map[string]interface{}{"trip_id": saved.ID})
		saved.SeatsInitialized = false
		return saved, err
	}

	pkgApp.LogInfo(ctx, h.logger, "trip created", map[string]interface{}{"trip_id": updated.ID})
	return updated, nil
}

type replaceTripHandler struct {
	repository domain.TripRepository
	logger     pkgApp.AppLogger
}

// NewReplaceTripHandler wires whole-record replacement. The capacity
// invariant is checked again because the seat counts may change.
func NewReplaceTripHandler(repository domain.TripRepository, logger pkgApp.AppLogger) ReplaceTripHandler {
	return &replaceTripHandler{repository: repository, logger: logger}
}

func (h *replaceTripHandler) Handle(ctx context.Context, command pkgDomain.Command[ReplaceTripData]) (domain.Trip, error) {
	data := command.Payload()

	current, err := h.repository.FindByID(ctx, data.ID)
	if err != nil {
		return domain.Trip{}, err
	}

	next, err := current.Replace(data.Trip)
	if err != nil {
		pkgApp.LogInfo(ctx, h.logger, "trip replacement rejected", map[string]interface{}{
			"trip_id": data.ID,
			"reason":  err.Error(),
		})
		return domain.Trip{}, err
	}

	saved, err := h.repository.Save(ctx, next)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error replacing trip", err, map[string]interface{}{"trip_id": data.ID})
		return domain.Trip{}, err
	}

	pkgApp.LogInfo(ctx, h.logger, "trip replaced", map[string]interface{}{"trip_id": saved.ID})
	return saved, nil
}

type getTripHandler struct {
	repository domain.TripRepository
	logger     pkgApp.AppLogger
}

// NewGetTripHandler answers point lookups. An unknown ID yields a nil trip
// and a nil error.
func NewGetTripHandler(repository domain.TripRepository, logger pkgApp.AppLogger) GetTripHandler {
	return &getTripHandler{repository: repository, logger: logger}
}

func (h *getTripHandler) Handle(ctx context.Context, query pkgDomain.Query[GetTripData]) (*domain.Trip, error) {
	id := query.Payload().ID

	trip, err := h.repository.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		pkgApp.LogDebug(ctx, h.logger, "trip not found", map[string]interface{}{"trip_id": id})
		return nil, nil
	}
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error finding trip", err, map[string]interface{}{"trip_id": id})
		return nil, err
	}
	return &trip, nil
}

type listTripsHandler struct {
	repository domain.TripRepository
	logger     pkgApp.AppLogger
}

func NewListTripsHandler(repository domain.TripRepository, logger pkgApp.AppLogger) ListTripsHandler {
	return &listTripsHandler{repository: repository, logger: logger}
}

func (h *listTripsHandler) Handle(ctx context.Context, _ pkgDomain.Query[ListTripsData]) ([]domain.Trip, error) {
	trips, err := h.repository.FindAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error listing trips", err, nil)
		return nil, err
	}
	return trips, nil
}

type searchTripsHandler struct {
	engine *SearchEngine
	logger pkgApp.AppLogger
}

func NewSearchTripsHandler(engine *SearchEngine, logger pkgApp.AppLogger) SearchTripsHandler {
	return &searchTripsHandler{engine: engine, logger: logger}
}

func (h *searchTripsHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchTripsData]) ([]domain.Trip, error) {
	data := query.Payload()

	trips, err := h.engine.Search(ctx, data.Name, data.Route)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error searching trips", err, map[string]interface{}{
			"name":  data.Name,
			"route": data.Route,
		})
		return nil, err
	}

	pkgApp.LogDebug(ctx, h.logger, "trips found", map[string]interface{}{"count": len(trips)})
	return trips, nil
}
