package application

import (
	"context"

	"github.com/mateusmacedo/bus-catalog/pkg/domain"
)

// QueryHandler answers a single query type.
type QueryHandler[Q domain.Query[T], T any, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// QueryBus routes queries to the handler registered under their name.
type QueryBus[Q domain.Query[D], D any, R any] interface {
	RegisterHandler(queryName string, handler QueryHandler[Q, D, R])
	Dispatch(ctx context.Context, query Q) (R, error)
}
