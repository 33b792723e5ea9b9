package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListAirports(ctx context.Context, q entity.ListQuery) (*entity.AirportList, error) {
	args := m.Called(ctx, q)
	result, _ := args.Get(0).(*entity.AirportList)
	return result, args.Error(1)
}

func (m *mockService) ListAirlines(ctx context.Context, q entity.ListQuery) (*entity.AirlineList, error) {
	args := m.Called(ctx, q)
	result, _ := args.Get(0).(*entity.AirlineList)
	return result, args.Error(1)
}

func (m *mockService) SearchFlights(ctx context.Context, req entity.FlightSearchRequest) (*entity.FlightList, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*entity.FlightList)
	return result, args.Error(1)
}

func (m *mockService) AirportInfo(ctx context.Context, code string) (*entity.AirportInfo, error) {
	args := m.Called(ctx, code)
	result, _ := args.Get(0).(*entity.AirportInfo)
	return result, args.Error(1)
}

func (m *mockService) AirlineSchedule(ctx context.Context, code string, date time.Time) (*entity.FlightList, error) {
	args := m.Called(ctx, code, date)
	result, _ := args.Get(0).(*entity.FlightList)
	return result, args.Error(1)
}

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/airports", h.GetAirports).Methods(http.MethodGet)
	r.HandleFunc("/airports/{code}", h.GetAirport).Methods(http.MethodGet)
	r.HandleFunc("/airlines", h.GetAirlines).Methods(http.MethodGet)
	r.HandleFunc("/airlines/{code}/flights", h.GetAirlineFlights).Methods(http.MethodGet)
	r.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet)
	return r
}

func serve(t *testing.T, svc *mockService, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := setupTestRouter(NewHandler(svc, logger.NewNopLogger()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestHandler_GetAirports(t *testing.T) {
	svc := new(mockService)
	svc.On("ListAirports", mock.Anything, entity.ListQuery{Query: "london", Country: "uk", Limit: 5}).
		Return(&entity.AirportList{
			Airports: []entity.Airport{{Code: "LHR", Name: "London Heathrow Airport"}},
			Source:   entity.SourceLive,
			Count:    1,
		}, nil)

	rec := serve(t, svc, "/airports?query=london&country=uk&limit=5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response entity.AirportList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, entity.SourceLive, response.Source)
	require.Len(t, response.Airports, 1)
	assert.Equal(t, "LHR", response.Airports[0].Code)
	svc.AssertExpectations(t)
}

func TestHandler_GetAirports_BadLimit(t *testing.T) {
	svc := new(mockService)

	rec := serve(t, svc, "/airports?limit=ten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "limit must be a number")
	svc.AssertNotCalled(t, "ListAirports", mock.Anything, mock.Anything)
}

func TestHandler_GetAirlines(t *testing.T) {
	svc := new(mockService)
	svc.On("ListAirlines", mock.Anything, entity.ListQuery{}).
		Return(&entity.AirlineList{Airlines: []entity.Airline{}, Source: entity.SourceNone}, nil)

	rec := serve(t, svc, "/airlines")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []any{}, response["airlines"])
	assert.Equal(t, entity.SourceNone, response["source"])
}

func TestHandler_SearchFlights(t *testing.T) {
	svc := new(mockService)
	want := entity.FlightSearchRequest{
		Origin:      "JFK",
		Destination: "Los Angeles",
		Airline:     "AA",
		Date:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	svc.On("SearchFlights", mock.Anything, want).Return(&entity.FlightList{
		Flights: []entity.Flight{{FlightNumber: "AA1234", Simulated: true, Provenance: entity.ProvenanceGenerator}},
		Source:  entity.SourceGenerated,
		Count:   1,
	}, nil)

	rec := serve(t, svc, "/flights/search?origin=JFK&destination=Los+Angeles&airline=AA&date=2026-05-01")
	require.Equal(t, http.StatusOK, rec.Code)

	var response entity.FlightList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, entity.SourceGenerated, response.Source)
	assert.True(t, response.Flights[0].Simulated)
	svc.AssertExpectations(t)
}

func TestHandler_SearchFlights_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        &entity.ValidationError{Problems: []string{"origin is required"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request: origin is required",
		},
		{
			name:       "unknown airport",
			err:        fmt.Errorf("origin %q: %w", "ZZZ", entity.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  `origin "ZZZ": not found`,
		},
		{
			name:       "internal",
			err:        errors.New("pq: connection reset by peer"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("SearchFlights", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(t, svc, "/flights/search?origin=ZZZ&destination=LAX")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec))
		})
	}
}

func TestHandler_SearchFlights_BadDate(t *testing.T) {
	svc := new(mockService)

	rec := serve(t, svc, "/flights/search?origin=JFK&destination=LAX&date=01/05/2026")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "expected YYYY-MM-DD")
	svc.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything)
}

func TestHandler_GetAirport(t *testing.T) {
	svc := new(mockService)
	svc.On("AirportInfo", mock.Anything, "LHR").Return(&entity.AirportInfo{
		Airport:    entity.Airport{Code: "LHR"},
		Statistics: entity.AirportStatistics{Terminals: 4, OperatingHours: "24/7"},
	}, nil)
	svc.On("AirportInfo", mock.Anything, "ZZZ").Return(nil, fmt.Errorf("airport ZZZ: %w", entity.ErrNotFound))

	rec := serve(t, svc, "/airports/LHR")
	require.Equal(t, http.StatusOK, rec.Code)
	var info entity.AirportInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, 4, info.Statistics.Terminals)

	rec = serve(t, svc, "/airports/ZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetAirlineFlights(t *testing.T) {
	svc := new(mockService)
	svc.On("AirlineSchedule", mock.Anything, "BA", time.Time{}).
		Return(&entity.FlightList{Flights: []entity.Flight{{FlightNumber: "BA1001"}}, Count: 1}, nil)

	rec := serve(t, svc, "/airlines/BA/flights")
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
