package infrastructure

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoHandler is returned by the buses when nothing is registered under the
// dispatched name.
var ErrNoHandler = errors.New("no handler registered")

// GenerateUUID satisfies domain.IDGenerator[string].
func GenerateUUID() string {
	return uuid.New().String()
}
