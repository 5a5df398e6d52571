package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength     = 100
	MaxRouteLength    = 200
	MaxScheduleLength = 50

	// Prices are stored as numeric(10,2).
	MaxPriceScale         = 2
	MaxPriceIntegerDigits = 8
)

var priceLimit = decimal.New(1, MaxPriceIntegerDigits)

// Trip is a scheduled bus journey. Departure and arrival are opaque schedule
// labels and are never parsed as times.
type Trip struct {
	ID               uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	Route            string          `json:"route" gorm:"size:200;not null"`
	DepartureTime    string          `json:"departureTime" gorm:"size:50;not null"`
	ArrivalTime      string          `json:"arrivalTime" gorm:"size:50;not null"`
	AvailableSeats   int             `json:"availableSeats"`
	TotalSeats       int             `json:"totalSeats"`
	Price            decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	SeatsInitialized bool            `json:"seatsInitialized" gorm:"not null;default:false"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// TableName keeps the table name of the original schema.
func (Trip) TableName() string {
	return "buses"
}

// CreateTripData carries a creation request. Price is decimal text and is
// parsed by NewTrip.
type CreateTripData struct {
	Name           string `json:"name"`
	Route          string `json:"route"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	AvailableSeats int    `json:"availableSeats"`
	TotalSeats     int    `json:"totalSeats"`
	Price          string `json:"price"`
}

// NewTrip builds an unsaved Trip (ID zero) from data. Text fields are copied
// verbatim.
func NewTrip(data CreateTripData) (Trip, error) {
	price, err := ParsePrice(data.Price)
	if err != nil {
		return Trip{}, err
	}

	trip := Trip{
		Name:           data.Name,
		Route:          data.Route,
		DepartureTime:  data.DepartureTime,
		ArrivalTime:    data.ArrivalTime,
		AvailableSeats: data.AvailableSeats,
		TotalSeats:     data.TotalSeats,
		Price:          price,
	}
	if err := trip.Validate(); err != nil {
		return Trip{}, err
	}
	return trip, nil
}

// ParsePrice parses an exact decimal. Negative values, values with more than
// two significant decimal places and values of 10^8 or more are rejected, so
// a parsed price is stored without rounding.
func ParsePrice(text string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPriceFormat, text)
	}
	if err := checkPrice(price); err != nil {
		return decimal.Decimal{}, err
	}
	return price, nil
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidPrice, price.String())
	}
	if !price.Equal(price.Truncate(MaxPriceScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidPrice, price.String(), MaxPriceScale)
	}
	if price.GreaterThanOrEqual(priceLimit) {
		return fmt.Errorf("%w: %s has more than %d integer digits", ErrInvalidPrice, price.String(), MaxPriceIntegerDigits)
	}
	return nil
}

// Validate checks the invariants every stored trip must satisfy. It must run
// before any insert or replacement.
func (t Trip) Validate() error {
	if err := requireText("name", t.Name, MaxNameLength); err != nil {
		return err
	}
	if err := requireText("route", t.Route, MaxRouteLength); err != nil {
		return err
	}
	if err := requireText("departureTime", t.DepartureTime, MaxScheduleLength); err != nil {
		return err
	}
	if err := requireText("arrivalTime", t.ArrivalTime, MaxScheduleLength); err != nil {
		return err
	}
	if t.TotalSeats < 0 || t.AvailableSeats < 0 {
		return fmt.Errorf("%w: seat counts must not be negative", ErrInvalidCapacity)
	}
	if t.AvailableSeats > t.TotalSeats {
		return fmt.Errorf("%w: available seats (%d) exceed total seats (%d)", ErrInvalidCapacity, t.AvailableSeats, t.TotalSeats)
	}
	return checkPrice(t.Price)
}

// Replace returns t with every mutable field taken from data. Identity,
// seat initialization state and creation time are kept.
func (t Trip) Replace(data CreateTripData) (Trip, error) {
	next, err := NewTrip(data)
	if err != nil {
		return Trip{}, err
	}
	next.ID = t.ID
	next.SeatsInitialized = t.SeatsInitialized
	next.CreatedAt = t.CreatedAt
	return next, nil
}

func requireText(field, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, max)
	}
	return nil
}
