package domain

// Command is a request to change state. Its name selects the handler on the bus.
type Command[T any] interface {
	CommandName() string
	Payload() T
}

// Query is a read-only request; handlers must not mutate state.
type Query[T any] interface {
	QueryName() string
	Payload() T
}

// Event represents something that already happened in the system.
type Event[T any] interface {
	EventName() string
	Payload() T
}

// IDGenerator produces opaque identifiers, e.g. for event messages.
type IDGenerator[T any] func() T
