package application

import (
	"context"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
)

// SearchEngine resolves optional name and route filters into trips.
//
// A filter is present when it is non-empty; whitespace is matched literally.
// With both filters the route match is pushed to the store and the name is
// refined in memory, so results follow the store's route order.
type SearchEngine struct {
	repository domain.TripRepository
	logger     pkgApp.AppLogger
}

func NewSearchEngine(repository domain.TripRepository, logger pkgApp.AppLogger) *SearchEngine {
	return &SearchEngine{repository: repository, logger: logger}
}

func (e *SearchEngine) Search(ctx context.Context, name, route string) ([]domain.Trip, error) {
	hasName := name != ""
	hasRoute := route != ""

	pkgApp.LogDebug(ctx, e.logger, "searching trips", map[string]interface{}{
		"name":  name,
		"route": route,
	})

	switch {
	case hasName && hasRoute:
		candidates, err := e.repository.FindByFieldContaining(ctx, domain.FieldRoute, route)
		if err != nil {
			return nil, err
		}
		return filterByName(candidates, name), nil
	case hasName:
		return e.repository.FindByFieldContaining(ctx, domain.FieldName, name)
	case hasRoute:
		return e.repository.FindByFieldContaining(ctx, domain.FieldRoute, route)
	default:
		return e.repository.FindAll(ctx)
	}
}

// filterByName keeps the incoming order.
func filterByName(trips []domain.Trip, name string) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, trip := range trips {
		if domain.ContainsFold(trip.Name, name) {
			out = append(out, trip)
		}
	}
	return out
}
