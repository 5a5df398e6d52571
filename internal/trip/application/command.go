package application

import (
	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
)

const (
	CreateTripCommandName  = "CreateTrip"
	ReplaceTripCommandName = "ReplaceTrip"
)

type createTripCommand struct {
	data domain.CreateTripData
}

func (c createTripCommand) CommandName() string {
	return CreateTripCommandName
}

func (c createTripCommand) Payload() domain.CreateTripData {
	return c.data
}

func NewCreateTripCommand(data domain.CreateTripData) pkgDomain.Command[domain.CreateTripData] {
	return createTripCommand{data: data}
}

// ReplaceTripData replaces every mutable field of trip ID.
type ReplaceTripData struct {
	ID   uint64
	Trip domain.CreateTripData
}

type replaceTripCommand struct {
	data ReplaceTripData
}

func (c replaceTripCommand) CommandName() string {
	return ReplaceTripCommandName
}

func (c replaceTripCommand) Payload() ReplaceTripData {
	return c.data
}

func NewReplaceTripCommand(data ReplaceTripData) pkgDomain.Command[ReplaceTripData] {
	return replaceTripCommand{data: data}
}
