package application

import (
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
)

const (
	GetTripQueryName     = "GetTrip"
	ListTripsQueryName   = "ListTrips"
	SearchTripsQueryName = "SearchTrips"
)

type GetTripData struct {
	ID uint64
}

type getTripQuery struct {
	data GetTripData
}

func (q getTripQuery) QueryName() string {
	return GetTripQueryName
}

func (q getTripQuery) Payload() GetTripData {
	return q.data
}

func NewGetTripQuery(data GetTripData) pkgDomain.Query[GetTripData] {
	return getTripQuery{data: data}
}

type ListTripsData struct{}

type listTripsQuery struct{}

func (q listTripsQuery) QueryName() string {
	return ListTripsQueryName
}

func (q listTripsQuery) Payload() ListTripsData {
	return ListTripsData{}
}

func NewListTripsQuery() pkgDomain.Query[ListTripsData] {
	return listTripsQuery{}
}

// SearchTripsData holds the optional filters. An empty string means the
// filter is absent.
type SearchTripsData struct {
	Name  string
	Route string
}

type searchTripsQuery struct {
	data SearchTripsData
}

func (q searchTripsQuery) QueryName() string {
	return SearchTripsQueryName
}

func (q searchTripsQuery) Payload() SearchTripsData {
	return q.data
}

func NewSearchTripsQuery(data SearchTripsData) pkgDomain.Query[SearchTripsData] {
	return searchTripsQuery{data: data}
}
