package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightlo-service/internal/domain/entity"
)

func TestLiveStatus(t *testing.T) {
	tests := []struct {
		name     string
		altitude float64
		velocity float64
		want     entity.FlightStatus
	}{
		{"cruising", 11000, 240, entity.StatusOnTime},
		{"taxiing", 0, 10, entity.StatusBoarding},
		{"low and fast", 300, 120, entity.StatusDelayed},
		{"climbing", 4000, 150, entity.StatusOnTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LiveStatus(tt.altitude, tt.velocity))
		})
	}
}

func TestStateFlightSource_FetchFlights(t *testing.T) {
	catalog := newSeedCatalog(t)
	states := &mockStateFeed{name: "opensky"}
	states.On("FetchStates", mock.Anything).Return([]entity.AircraftState{
		{Callsign: "BAW117 ", Lat: 51.48, Lng: -0.46, Altitude: 11000, Velocity: 240},
		{Callsign: "EZY42", Lat: 51.16, Lng: -0.18, Altitude: 3000, Velocity: 150},
		{Callsign: "ZZZ9", Lat: 51.48, Lng: -0.46, Altitude: 0, Velocity: 5},
		{Callsign: "", Lat: 51.48, Lng: -0.46},
	}, nil)

	src := NewStateFlightSource(states, catalog, newTestGenerator(catalog))
	assert.Equal(t, "opensky", src.Name())

	flights, err := src.FetchFlights(context.Background(), entity.RouteQuery{})
	require.NoError(t, err)
	require.Len(t, flights, 3)

	ba := flights[0]
	assert.Equal(t, "OS_BAW117", ba.ID)
	assert.Equal(t, "BA", ba.AirlineCode)
	assert.Equal(t, "British Airways", ba.AirlineName)
	assert.Equal(t, "LHR", ba.Departure.Airport.Code)
	assert.NotEqual(t, "LHR", ba.Arrival.Airport.Code)
	assert.True(t, ba.Arrival.Time.After(ba.Departure.Time))
	assert.False(t, ba.Departure.Time.After(fixedNow))
	assert.Equal(t, "opensky", ba.Provenance)
	assert.False(t, ba.Simulated)
	require.NotNil(t, ba.Position)
	assert.Equal(t, 11000.0, ba.Position.Altitude)

	assert.Equal(t, "U2", flights[1].AirlineCode)
	assert.Equal(t, "LGW", flights[1].Departure.Airport.Code)

	assert.Equal(t, "ZZZ Airlines", flights[2].AirlineName)
	assert.Equal(t, entity.StatusBoarding, flights[2].Status)
}

func TestStateFlightSource_DropsInvalidOperatorPrefix(t *testing.T) {
	catalog := newSeedCatalog(t)
	states := &mockStateFeed{name: "opensky"}
	states.On("FetchStates", mock.Anything).Return([]entity.AircraftState{
		{Callsign: "X", Lat: 51.48, Lng: -0.46, Altitude: 900, Velocity: 60},
		{Callsign: "A-1B", Lat: 51.48, Lng: -0.46, Altitude: 900, Velocity: 60},
		{Callsign: "N1.2", Lat: 51.48, Lng: -0.46, Altitude: 900, Velocity: 60},
		{Callsign: "DLH4U", Lat: 51.48, Lng: -0.46, Altitude: 900, Velocity: 60},
	}, nil)

	src := NewStateFlightSource(states, catalog, newTestGenerator(catalog))
	flights, err := src.FetchFlights(context.Background(), entity.RouteQuery{})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "OS_DLH4U", flights[0].ID)
	for _, f := range flights {
		assert.True(t, entity.ValidAirlineCode(f.AirlineCode), f.AirlineCode)
	}
}

func TestStateFlightSource_PropagatesFeedError(t *testing.T) {
	catalog := newSeedCatalog(t)
	states := &mockStateFeed{name: "opensky"}
	feedErr := entity.NewNetworkError("opensky", errors.New("status 429"))
	states.On("FetchStates", mock.Anything).Return(nil, feedErr)

	src := NewStateFlightSource(states, catalog, newTestGenerator(catalog))
	_, err := src.FetchFlights(context.Background(), entity.RouteQuery{})

	var fe *entity.FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, entity.NetworkFailure, fe.Kind)
}
