package domain_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
)

func express21() domain.CreateTripData {
	return domain.CreateTripData{
		Name:           "Express 21",
		Route:          "Springfield-Capital City",
		DepartureTime:  "08:00",
		ArrivalTime:    "12:30",
		AvailableSeats: 40,
		TotalSeats:     40,
		Price:          "25.50",
	}
}

func TestNewTrip_CopiesFieldsAndParsesPrice(t *testing.T) {
	trip, err := domain.NewTrip(express21())

	require.NoError(t, err)
	assert.Zero(t, trip.ID)
	assert.Equal(t, "Express 21", trip.Name)
	assert.Equal(t, "Springfield-Capital City", trip.Route)
	assert.Equal(t, "08:00", trip.DepartureTime)
	assert.Equal(t, "12:30", trip.ArrivalTime)
	assert.Equal(t, 40, trip.AvailableSeats)
	assert.Equal(t, 40, trip.TotalSeats)
	assert.True(t, trip.Price.Equal(decimal.RequireFromString("25.5")))
	assert.False(t, trip.SeatsInitialized)
}

func TestNewTrip_DoesNotTrimText(t *testing.T) {
	data := express21()
	data.Name = "  Night Owl "
	data.DepartureTime = "tomorrow, early"

	trip, err := domain.NewTrip(data)

	require.NoError(t, err)
	assert.Equal(t, "  Night Owl ", trip.Name)
	assert.Equal(t, "tomorrow, early", trip.DepartureTime)
}

func TestNewTrip_PriceIsExact(t *testing.T) {
	data := express21()
	data.Price = "0.10"

	trip, err := domain.NewTrip(data)

	require.NoError(t, err)
	sum := trip.Price.Add(trip.Price).Add(trip.Price)
	assert.True(t, sum.Equal(decimal.RequireFromString("0.3")))
}

func TestNewTrip_InvalidPriceFormat(t *testing.T) {
	for _, price := range []string{"", "abc", "25,50", "12.5.1", " 3"} {
		t.Run(price, func(t *testing.T) {
			data := express21()
			data.Price = price

			_, err := domain.NewTrip(data)

			assert.ErrorIs(t, err, domain.ErrInvalidPriceFormat)
		})
	}
}

func TestNewTrip_NegativePrice(t *testing.T) {
	data := express21()
	data.Price = "-1.00"

	_, err := domain.NewTrip(data)

	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestNewTrip_PriceMustFitStorage(t *testing.T) {
	for _, price := range []string{"1.005", "0.001", "123456789", "100000000.00"} {
		t.Run(price, func(t *testing.T) {
			data := express21()
			data.Price = price

			_, err := domain.NewTrip(data)

			assert.ErrorIs(t, err, domain.ErrInvalidPrice)
		})
	}
}

func TestNewTrip_PriceAtStorageLimits(t *testing.T) {
	for _, price := range []string{"99999999.99", "1.500", "0.01"} {
		t.Run(price, func(t *testing.T) {
			data := express21()
			data.Price = price

			trip, err := domain.NewTrip(data)

			require.NoError(t, err)
			assert.True(t, trip.Price.Equal(decimal.RequireFromString(price)))
		})
	}
}

func TestTrip_ValidateRejectsUnstorablePrice(t *testing.T) {
	trip, err := domain.NewTrip(express21())
	require.NoError(t, err)

	trip.Price = decimal.RequireFromString("25.505")

	assert.ErrorIs(t, trip.Validate(), domain.ErrInvalidPrice)
}

func TestNewTrip_ZeroPriceAndZeroSeatsAllowed(t *testing.T) {
	data := express21()
	data.Price = "0"
	data.AvailableSeats = 0
	data.TotalSeats = 0

	_, err := domain.NewTrip(data)

	assert.NoError(t, err)
}

func TestNewTrip_Capacity(t *testing.T) {
	cases := []struct {
		name      string
		available int
		total     int
	}{
		{"available exceeds total", 41, 40},
		{"negative available", -1, 40},
		{"negative total", 0, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := express21()
			data.AvailableSeats = tc.available
			data.TotalSeats = tc.total

			_, err := domain.NewTrip(data)

			assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
		})
	}
}

func TestNewTrip_RequiredAndLengthLimits(t *testing.T) {
	cases := map[string]func(*domain.CreateTripData){
		"missing name":       func(d *domain.CreateTripData) { d.Name = "" },
		"missing route":      func(d *domain.CreateTripData) { d.Route = "" },
		"missing departure":  func(d *domain.CreateTripData) { d.DepartureTime = "" },
		"missing arrival":    func(d *domain.CreateTripData) { d.ArrivalTime = "" },
		"name too long":      func(d *domain.CreateTripData) { d.Name = strings.Repeat("n", domain.MaxNameLength+1) },
		"route too long":     func(d *domain.CreateTripData) { d.Route = strings.Repeat("r", domain.MaxRouteLength+1) },
		"departure too long": func(d *domain.CreateTripData) { d.DepartureTime = strings.Repeat("9", domain.MaxScheduleLength+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			data := express21()
			mutate(&data)

			_, err := domain.NewTrip(data)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestNewTrip_LengthCountsRunes(t *testing.T) {
	data := express21()
	data.Name = strings.Repeat("é", domain.MaxNameLength)

	_, err := domain.NewTrip(data)

	assert.NoError(t, err)
}

func TestTrip_ReplaceKeepsIdentityAndSeatState(t *testing.T) {
	original, err := domain.NewTrip(express21())
	require.NoError(t, err)
	original.ID = 7
	original.SeatsInitialized = true

	data := express21()
	data.Name = "Express 22"
	data.AvailableSeats = 10

	replaced, err := original.Replace(data)

	require.NoError(t, err)
	assert.Equal(t, uint64(7), replaced.ID)
	assert.True(t, replaced.SeatsInitialized)
	assert.Equal(t, "Express 22", replaced.Name)
	assert.Equal(t, 10, replaced.AvailableSeats)
}

func TestTrip_ReplaceEnforcesCapacity(t *testing.T) {
	original, err := domain.NewTrip(express21())
	require.NoError(t, err)

	data := express21()
	data.AvailableSeats = 50

	_, err = original.Replace(data)

	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
}
