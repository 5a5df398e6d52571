// Package trip assembles the trip catalog slice: buses, handlers and the
// HTTP surface over a store and a seat initializer.
package trip

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/bus-catalog/internal/trip/application"
	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	"github.com/mateusmacedo/bus-catalog/internal/trip/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
	pkgInfra "github.com/mateusmacedo/bus-catalog/pkg/infrastructure"
)

type TripSlice struct {
	httpHandler *infrastructure.TripHTTPHandler
}

func NewTripSlice(
	repository domain.TripRepository,
	seats domain.SeatInitializer,
	logger pkgApp.AppLogger,
) *TripSlice {
	createBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[domain.CreateTripData], domain.CreateTripData, domain.Trip](logger)
	replaceBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.ReplaceTripData], application.ReplaceTripData, domain.Trip](logger)
	getBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.GetTripData], application.GetTripData, *domain.Trip](logger)
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListTripsData], application.ListTripsData, []domain.Trip](logger)
	searchBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchTripsData], application.SearchTripsData, []domain.Trip](logger)

	createBus.RegisterHandler(application.CreateTripCommandName, application.NewCreateTripHandler(repository, seats, logger))
	replaceBus.RegisterHandler(application.ReplaceTripCommandName, application.NewReplaceTripHandler(repository, logger))
	getBus.RegisterHandler(application.GetTripQueryName, application.NewGetTripHandler(repository, logger))
	listBus.RegisterHandler(application.ListTripsQueryName, application.NewListTripsHandler(repository, logger))
	searchBus.RegisterHandler(application.SearchTripsQueryName, application.NewSearchTripsHandler(application.NewSearchEngine(repository, logger), logger))

	return &TripSlice{
		httpHandler: infrastructure.NewTripHTTPHandler(createBus, replaceBus, getBus, listBus, searchBus, logger),
	}
}

func (s *TripSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
