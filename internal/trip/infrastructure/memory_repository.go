package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
)

// InMemoryTripRepository keeps trips in insertion order. IDs start at 1 and
// are assigned under the write lock.
type InMemoryTripRepository struct {
	mu     sync.RWMutex
	trips  []domain.Trip
	index  map[uint64]int
	nextID uint64
	logger pkgApp.AppLogger
}

func NewInMemoryTripRepository(logger pkgApp.AppLogger) *InMemoryTripRepository {
	return &InMemoryTripRepository{
		index:  make(map[uint64]int),
		nextID: 1,
		logger: logger,
	}
}

func (r *InMemoryTripRepository) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return domain.Trip{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	if trip.ID == 0 {
		trip.ID = r.nextID
		r.nextID++
		trip.CreatedAt = now
		trip.UpdatedAt = now
		r.index[trip.ID] = len(r.trips)
		r.trips = append(r.trips, trip)

		pkgApp.LogDebug(ctx, r.logger, "trip inserted", map[string]interface{}{"trip_id": trip.ID})
		return trip, nil
	}

	pos, exists := r.index[trip.ID]
	if !exists {
		return domain.Trip{}, domain.ErrNotFound
	}
	trip.CreatedAt = r.trips[pos].CreatedAt
	trip.UpdatedAt = now
	r.trips[pos] = trip

	pkgApp.LogDebug(ctx, r.logger, "trip replaced", map[string]interface{}{"trip_id": trip.ID})
	return trip, nil
}

func (r *InMemoryTripRepository) FindByID(ctx context.Context, id uint64) (domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return domain.Trip{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, exists := r.index[id]
	if !exists {
		return domain.Trip{}, domain.ErrNotFound
	}
	return r.trips[pos], nil
}

func (r *InMemoryTripRepository) FindAll(ctx context.Context) ([]domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Trip, len(r.trips))
	copy(out, r.trips)
	return out, nil
}

func (r *InMemoryTripRepository) FindByFieldContaining(ctx context.Context, field domain.SearchField, text string) ([]domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Trip, 0)
	for _, trip := range r.trips {
		if domain.ContainsFold(trip.Value(field), text) {
			out = append(out, trip)
		}
	}

	pkgApp.LogDebug(ctx, r.logger, "trips matched", map[string]interface{}{
		"field": string(field),
		"text":  text,
		"count": len(out),
	})
	return out, nil
}

// Count returns the number of stored trips.
func (r *InMemoryTripRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trips)
}
