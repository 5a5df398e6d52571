package domain

import (
	"context"
	"strings"
)

// SearchField names a trip text field that supports substring search.
type SearchField string

const (
	FieldName  SearchField = "name"
	FieldRoute SearchField = "route"
)

// TripRepository is the store collaborator.
type TripRepository interface {
	// Save inserts the trip when its ID is zero, assigning a new ID, and
	// otherwise replaces the stored record. Replacing an unknown ID returns
	// ErrNotFound.
	Save(ctx context.Context, trip Trip) (Trip, error)
	// FindByID returns ErrNotFound when no trip has the ID.
	FindByID(ctx context.Context, id uint64) (Trip, error)
	// FindAll returns every trip in insertion order.
	FindAll(ctx context.Context) ([]Trip, error)
	// FindByFieldContaining returns trips whose field contains text,
	// compared case-insensitively, in insertion order. text is matched
	// literally.
	FindByFieldContaining(ctx context.Context, field SearchField, text string) ([]Trip, error)
}

// SeatInitializer sets up seat-level state for a newly persisted trip.
type SeatInitializer interface {
	InitializeSeats(ctx context.Context, trip Trip) error
}

// Value returns the text of the given search field.
func (t Trip) Value(field SearchField) string {
	switch field {
	case FieldName:
		return t.Name
	case FieldRoute:
		return t.Route
	default:
		return ""
	}
}

// ContainsFold reports whether text occurs in value after lowercasing both.
// No locale-specific collation is applied.
func ContainsFold(value, text string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(text))
}
