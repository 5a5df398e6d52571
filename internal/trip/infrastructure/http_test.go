package infrastructure_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/bus-catalog/internal/trip"
	"github.com/mateusmacedo/bus-catalog/internal/trip/domain"
	"github.com/mateusmacedo/bus-catalog/internal/trip/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-catalog/pkg/application"
	zapAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/zaplogger/adapter"
)

// seatInitializerFunc adapts a function to domain.SeatInitializer.
type seatInitializerFunc func(ctx context.Context, trip domain.Trip) error

func (f seatInitializerFunc) InitializeSeats(ctx context.Context, trip domain.Trip) error {
	return f(ctx, trip)
}

// failingRepository fails every call with err.
type failingRepository struct {
	err error
}

func (r failingRepository) Save(context.Context, domain.Trip) (domain.Trip, error) {
	return domain.Trip{}, r.err
}
func (r failingRepository) FindByID(context.Context, uint64) (domain.Trip, error) {
	return domain.Trip{}, r.err
}
func (r failingRepository) FindAll(context.Context) ([]domain.Trip, error) {
	return nil, r.err
}
func (r failingRepository) FindByFieldContaining(context.Context, domain.SearchField, string) ([]domain.Trip, error) {
	return nil, r.err
}

type tripBody struct {
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

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestLogger(t *testing.T) pkgApp.AppLogger {
	return zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
}

func newTestServer(t *testing.T, repo domain.TripRepository, seats domain.SeatInitializer) http.Handler {
	t.Helper()
	router := chi.NewRouter()
	trip.NewTripSlice(repo, seats, newTestLogger(t)).RegisterRoutes(router)
	return router
}

func okSeats() domain.SeatInitializer {
	return seatInitializerFunc(func(context.Context, domain.Trip) error { return nil })
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTrip(t *testing.T, rec *httptest.ResponseRecorder) tripBody {
	t.Helper()
	var out tripBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const express21Body = `{
	"name": "Express 21",
	"route": "Lisbon-Porto",
	"departureTime": "08:00",
	"arrivalTime": "11:00",
	"availableSeats": 40,
	"totalSeats": 40,
	"price": "25.50"
}`

func TestHealth(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())

	rec := do(t, h, http.MethodGet, "/bus/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bus catalog is alive!", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestCreateTrip(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())

	rec := do(t, h, http.MethodPost, "/bus", express21Body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeTrip(t, rec)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Express 21", got.Name)
	assert.Equal(t, "Lisbon-Porto", got.Route)
	assert.Equal(t, "08:00", got.DepartureTime)
	assert.Equal(t, "11:00", got.ArrivalTime)
	assert.Equal(t, 40, got.AvailableSeats)
	assert.Equal(t, 40, got.TotalSeats)
	assert.Equal(t, "25.5", got.Price.String())
	assert.Contains(t, rec.Body.String(), `"price":25.5`)
	assert.True(t, got.SeatsInitialized)
}

func TestCreateTrip_NumericPrice(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())

	body := strings.Replace(express21Body, `"25.50"`, `19.99`, 1)
	rec := do(t, h, http.MethodPost, "/bus", body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "19.99", decodeTrip(t, rec).Price.String())
}

func TestCreateTrip_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "unparseable price",
			body:       strings.Replace(express21Body, `"25.50"`, `"abc"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "invalid_price_format",
		},
		{
			name:       "missing price",
			body:       strings.Replace(express21Body, `"25.50"`, `null`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "invalid_price_format",
		},
		{
			name:       "negative price",
			body:       strings.Replace(express21Body, `"25.50"`, `"-1"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "price with three decimal places",
			body:       strings.Replace(express21Body, `"25.50"`, `"1.005"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "price too large for storage",
			body:       strings.Replace(express21Body, `"25.50"`, `"123456789"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "available exceeds total",
			body:       strings.Replace(express21Body, `"availableSeats": 40`, `"availableSeats": 41`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "missing name",
			body:       strings.Replace(express21Body, `"Express 21"`, `""`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := infrastructure.NewInMemoryTripRepository(newTestLogger(t))
			h := newTestServer(t, repo, okSeats())

			rec := do(t, h, http.MethodPost, "/bus", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, 0, repo.Count())
		})
	}
}

func TestCreateTrip_SeatFailureStillCreated(t *testing.T) {
	repo := infrastructure.NewInMemoryTripRepository(newTestLogger(t))
	seats := seatInitializerFunc(func(context.Context, domain.Trip) error {
		return errors.New("redis unavailable")
	})
	h := newTestServer(t, repo, seats)

	rec := do(t, h, http.MethodPost, "/bus", express21Body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeTrip(t, rec)
	assert.NotZero(t, got.ID)
	assert.False(t, got.SeatsInitialized)
	assert.Equal(t, 1, repo.Count())
}

func TestGetTrip(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())
	created := decodeTrip(t, do(t, h, http.MethodPost, "/bus", express21Body))

	t.Run("found", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/bus/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created, decodeTrip(t, rec))
	})

	t.Run("not found", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/bus/42", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body.Error.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/bus/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/bus/0", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTrips(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())

	rec := do(t, h, http.MethodGet, "/bus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		body := strings.Replace(express21Body, "Express 21", name, 1)
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/bus", body).Code)
	}

	rec = do(t, h, http.MethodGet, "/bus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var trips []tripBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trips))
	require.Len(t, trips, 3)
	assert.Equal(t, "Alpha", trips[0].Name)
	assert.Equal(t, "Bravo", trips[1].Name)
	assert.Equal(t, "Charlie", trips[2].Name)
}

func TestSearchTrips(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())

	seed := []struct{ name, route string }{
		{"Express 21", "Lisbon-Porto"},
		{"Night Owl", "Porto-Faro"},
		{"express coastal", "Lisbon-Faro"},
	}
	for _, s := range seed {
		body := strings.Replace(express21Body, "Express 21", s.name, 1)
		body = strings.Replace(body, "Lisbon-Porto", s.route, 1)
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/bus", body).Code)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Express 21", "Night Owl", "express coastal"}},
		{"?name=&route=", []string{"Express 21", "Night Owl", "express coastal"}},
		{"?name=EXPRESS", []string{"Express 21", "express coastal"}},
		{"?route=faro", []string{"Night Owl", "express coastal"}},
		{"?name=express&route=faro", []string{"express coastal"}},
		{"?name=nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/bus/search"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var trips []tripBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trips))
			got := make([]string, 0, len(trips))
			for _, trip := range trips {
				got = append(got, trip.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceTrip(t *testing.T) {
	h := newTestServer(t, infrastructure.NewInMemoryTripRepository(newTestLogger(t)), okSeats())
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/bus", express21Body).Code)

	t.Run("replaces", func(t *testing.T) {
		body := strings.Replace(express21Body, `"availableSeats": 40`, `"availableSeats": 12`, 1)
		rec := do(t, h, http.MethodPut, "/bus/1", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeTrip(t, rec)
		assert.Equal(t, uint64(1), got.ID)
		assert.Equal(t, 12, got.AvailableSeats)
		assert.True(t, got.SeatsInitialized)
	})

	t.Run("capacity violation", func(t *testing.T) {
		body := strings.Replace(express21Body, `"totalSeats": 40`, `"totalSeats": 10`, 1)
		rec := do(t, h, http.MethodPut, "/bus/1", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/bus/77", express21Body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStoreFailureIsOpaque(t *testing.T) {
	h := newTestServer(t, failingRepository{err: errors.New("pq: password authentication failed")}, okSeats())

	for _, path := range []string{"/bus", "/bus/1", "/bus/search?name=x"} {
		rec := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "password", path)
	}
}
