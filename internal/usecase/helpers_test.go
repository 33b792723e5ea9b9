package usecase

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/domain/repository"
	repo "flightlo-service/internal/interface/repository"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newSeedCatalog(t *testing.T) *Catalog {
	t.Helper()
	airports, err := repo.NewStaticAirportRepository()
	require.NoError(t, err)
	airlines, err := repo.NewStaticAirlineRepository()
	require.NoError(t, err)

	c := NewCatalog(
		[]repository.AirportRepository{airports},
		[]repository.AirlineRepository{airlines},
		logger.NewNopLogger(),
		nil,
	)
	require.NoError(t, c.Reload(context.Background()))
	return c
}

func newTestGenerator(catalog *Catalog) *FlightGenerator {
	return NewFlightGenerator(catalog, 8,
		WithRandSource(rand.NewPCG(42, 7)),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

type mockAirportRepo struct {
	mock.Mock
}

func (m *mockAirportRepo) List(ctx context.Context) ([]entity.Airport, error) {
	args := m.Called(ctx)
	airports, _ := args.Get(0).([]entity.Airport)
	return airports, args.Error(1)
}

func (m *mockAirportRepo) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	args := m.Called(ctx, code)
	airport, _ := args.Get(0).(*entity.Airport)
	return airport, args.Error(1)
}

type mockAirportFeed struct {
	mock.Mock
	name string
}

func (m *mockAirportFeed) Name() string { return m.name }

func (m *mockAirportFeed) FetchAirports(ctx context.Context) ([]entity.Airport, error) {
	args := m.Called(ctx)
	airports, _ := args.Get(0).([]entity.Airport)
	return airports, args.Error(1)
}

type mockAirlineFeed struct {
	mock.Mock
	name string
}

func (m *mockAirlineFeed) Name() string { return m.name }

func (m *mockAirlineFeed) FetchAirlines(ctx context.Context) ([]entity.Airline, error) {
	args := m.Called(ctx)
	airlines, _ := args.Get(0).([]entity.Airline)
	return airlines, args.Error(1)
}

type mockFlightFeed struct {
	mock.Mock
	name string
}

func (m *mockFlightFeed) Name() string { return m.name }

func (m *mockFlightFeed) FetchFlights(ctx context.Context, route entity.RouteQuery) ([]entity.Flight, error) {
	args := m.Called(ctx, route)
	flights, _ := args.Get(0).([]entity.Flight)
	return flights, args.Error(1)
}

type mockStateFeed struct {
	mock.Mock
	name string
}

func (m *mockStateFeed) Name() string { return m.name }

func (m *mockStateFeed) FetchStates(ctx context.Context) ([]entity.AircraftState, error) {
	args := m.Called(ctx)
	states, _ := args.Get(0).([]entity.AircraftState)
	return states, args.Error(1)
}
