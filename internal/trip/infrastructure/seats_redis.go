package infrastructure

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
)

// seatInventoryStore is the subset of redis.Cmdable the initializer uses.
type seatInventoryStore interface {
	HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd
}

// RedisSeatInitializer writes a per-trip seat inventory hash:
//
//	trip:{id}:seats  total=<TotalSeats> available=<AvailableSeats>
//
// Fields are only set when absent, so initializing the same trip twice
// keeps the counts the booking side may already have changed.
type RedisSeatInitializer struct {
	store  seatInventoryStore
	logger pkgApp.AppLogger
}

func NewRedisSeatInitializer(client redis.UniversalClient, logger pkgApp.AppLogger) *RedisSeatInitializer {
	return newRedisSeatInitializer(client, logger)
}

func newRedisSeatInitializer(store seatInventoryStore, logger pkgApp.AppLogger) *RedisSeatInitializer {
	return &RedisSeatInitializer{store: store, logger: logger}
}

// SeatInventoryKey is the Redis hash holding the seat counts of a trip.
func SeatInventoryKey(tripID uint64) string {
	return fmt.Sprintf("trip:%d:seats", tripID)
}

func (s *RedisSeatInitializer) InitializeSeats(ctx context.Context, trip domain.Trip) error {
	if trip.ID == 0 {
		return fmt.Errorf("seat inventory: trip has no identity")
	}
	key := SeatInventoryKey(trip.ID)

	fields := []struct {
		name  string
		value int
	}{
		{"total", trip.TotalSeats},
		{"available", trip.AvailableSeats},
	}

	created := false
	for _, f := range fields {
		set, err := s.store.HSetNX(ctx, key, f.name, f.value).Result()
		if err != nil {
			return fmt.Errorf("seat inventory %s.%s: %w", key, f.name, err)
		}
		created = created || set
	}

	pkgApp.LogInfo(ctx, s.logger, "seat inventory initialized", map[string]interface{}{
		"trip_id": trip.ID,
		"key":     key,
		"created": created,
	})
	return nil
}
