package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/bus-catalog/internal/trip/application"
	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-catalog/pkg/domain"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	healthMessage  = "Bus catalog is alive!"
)

type (
	CreateTripBus  = pkgApp.CommandBus[pkgDomain.Command[domain.CreateTripData], domain.CreateTripData, domain.Trip]
	ReplaceTripBus = pkgApp.CommandBus[pkgDomain.Command[application.ReplaceTripData], application.ReplaceTripData, domain.Trip]
	GetTripBus     = pkgApp.QueryBus[pkgDomain.Query[application.GetTripData], application.GetTripData, *domain.Trip]
	ListTripsBus   = pkgApp.QueryBus[pkgDomain.Query[application.ListTripsData], application.ListTripsData, []domain.Trip]
	SearchTripsBus = pkgApp.QueryBus[pkgDomain.Query[application.SearchTripsData], application.SearchTripsData, []domain.Trip]
)

// TripHTTPHandler exposes the trip catalog over HTTP. Every route dispatches
// onto a bus; the handler only translates between JSON and bus payloads.
type TripHTTPHandler struct {
	createBus  CreateTripBus
	replaceBus ReplaceTripBus
	getBus     GetTripBus
	listBus    ListTripsBus
	searchBus  SearchTripsBus
	logger     pkgApp.AppLogger
}

func NewTripHTTPHandler(
	createBus CreateTripBus,
	replaceBus ReplaceTripBus,
	getBus GetTripBus,
	listBus ListTripsBus,
	searchBus SearchTripsBus,
	logger pkgApp.AppLogger,
) *TripHTTPHandler {
	return &TripHTTPHandler{
		createBus:  createBus,
		replaceBus: replaceBus,
		getBus:     getBus,
		listBus:    listBus,
		searchBus:  searchBus,
		logger:     logger,
	}
}

func (h *TripHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Route("/bus", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Post("/", h.HandleCreateTrip)
		r.Get("/", h.HandleListTrips)
		r.Get("/search", h.HandleSearchTrips)
		r.Get("/{tripID}", h.HandleGetTrip)
		r.Put("/{tripID}", h.HandleReplaceTrip)
	})
}

func (h *TripHTTPHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(healthMessage))
}

func (h *TripHTTPHandler) HandleCreateTrip(w http.ResponseWriter, r *http.Request) {
	data, ok := h.decodeTripRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trip, err := h.createBus.Dispatch(ctx, application.NewCreateTripCommand(data))
	if err != nil {
		// The trip exists even though its seats are not ready; report it as
		// created and let seatsInitialized=false tell the caller.
		if errors.Is(err, domain.ErrSeatInitialization) && trip.ID != 0 {
			writeJSON(w, http.StatusCreated, toTripResponse(trip))
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTripResponse(trip))
}

func (h *TripHTTPHandler) HandleReplaceTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	data, ok := h.decodeTripRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trip, err := h.replaceBus.Dispatch(ctx, application.NewReplaceTripCommand(application.ReplaceTripData{ID: id, Trip: data}))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

func (h *TripHTTPHandler) HandleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trip, err := h.getBus.Dispatch(ctx, application.NewGetTripQuery(application.GetTripData{ID: id}))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if trip == nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, toTripResponse(*trip))
}

func (h *TripHTTPHandler) HandleListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trips, err := h.listBus.Dispatch(ctx, application.NewListTripsQuery())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTripResponses(trips))
}

func (h *TripHTTPHandler) HandleSearchTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data := application.SearchTripsData{
		Name:  query.Get("name"),
		Route: query.Get("route"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trips, err := h.searchBus.Dispatch(ctx, application.NewSearchTripsQuery(data))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTripResponses(trips))
}

func (h *TripHTTPHandler) decodeTripRequest(w http.ResponseWriter, r *http.Request) (domain.CreateTripData, bool) {
	var req tripRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return domain.CreateTripData{}, false
	}
	return req.toData(), true
}

// writeError maps domain errors to status codes. Anything unrecognised is a
// store or infrastructure failure and is reported opaquely.
func (h *TripHTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", "trip not found")
	case errors.Is(err, domain.ErrInvalidPriceFormat):
		writeErrorBody(w, http.StatusUnprocessableEntity, "invalid_price_format", err.Error())
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		pkgApp.LogError(r.Context(), h.logger, "request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func parseTripID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil || id == 0 {
		writeErrorBody(w, http.StatusBadRequest, "bad_request", "invalid trip id")
		return 0, false
	}
	return id, true
}

// tripRequest is the JSON body of create and replace. Price accepts either a
// JSON string or a JSON number; numbers are kept as their literal text so
// no precision is lost.
type tripRequest struct {
	Name           string    `json:"name"`
	Route          string    `json:"route"`
	DepartureTime  string    `json:"departureTime"`
	ArrivalTime    string    `json:"arrivalTime"`
	AvailableSeats int       `json:"availableSeats"`
	TotalSeats     int       `json:"totalSeats"`
	Price          priceText `json:"price"`
}

func (req tripRequest) toData() domain.CreateTripData {
	return domain.CreateTripData{
		Name:           req.Name,
		Route:          req.Route,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		AvailableSeats: req.AvailableSeats,
		TotalSeats:     req.TotalSeats,
		Price:          string(req.Price),
	}
}

type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceText(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = priceText(n.String())
	return nil
}

type tripResponse struct {
	ID               uint64      `json:"id"`
	Name             string      `json:"name"`
	Route            string      `json:"route"`
	DepartureTime    string      `json:"departureTime"`
	ArrivalTime      string      `json:"arrivalTime"`
	AvailableSeats   int         `json:"availableSeats"`
	TotalSeats       int         `json:"totalSeats"`
	Price            json.Number `json:"price"`
	SeatsInitialized bool        `json:"seatsInitialized"`
}

func toTripResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:               t.ID,
		Name:             t.Name,
		Route:            t.Route,
		DepartureTime:    t.DepartureTime,
		ArrivalTime:      t.ArrivalTime,
		AvailableSeats:   t.AvailableSeats,
		TotalSeats:       t.TotalSeats,
		Price:            json.Number(t.Price.String()),
		SeatsInitialized: t.SeatsInitialized,
	}
}

func toTripResponses(trips []domain.Trip) []tripResponse {
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = toTripResponse(t)
	}
	return out
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
