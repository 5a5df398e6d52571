package domain

import "errors"

var (
	// ErrInvalidPriceFormat: the creation request's price text is not a decimal.
	ErrInvalidPriceFormat = errors.New("invalid price format")
	ErrInvalidPrice       = errors.New("price must not be negative")
	// ErrInvalidCapacity: a seat count is negative or available exceeds total.
	ErrInvalidCapacity = errors.New("invalid seat capacity")
	ErrValidation      = errors.New("validation error")

	// ErrNotFound is returned by repositories for an unknown trip ID.
	ErrNotFound = errors.New("trip not found")

	// ErrSeatInitialization wraps failures of the seat-initialization
	// collaborator. The trip it refers to is already persisted.
	ErrSeatInitialization = errors.New("seat initialization failed")
)
