package feed

import (
	"context"
	"strings"
	"time"

	"flightlo-service/internal/domain/entity"
)

// The state list is global; only the first airborne aircraft are used.
const openSkyMaxStates = 10

// OpenSky reads live aircraft state vectors from the OpenSky Network REST API.
// Works anonymously; an OAuth2 client raises the rate limit.
type OpenSky struct {
	client    *Client
	baseURL   string
	maxStates int
}

// NewOpenSky creates the OpenSky adapter
func NewOpenSky(client *Client, baseURL string) *OpenSky {
	return &OpenSky{client: client, baseURL: strings.TrimRight(baseURL, "/"), maxStates: openSkyMaxStates}
}

func (f *OpenSky) Name() string { return f.client.Name() }

type openskyResponse struct {
	Time   int64             `json:"time"`
	States []openskyStateVec `json:"states"`
}

// openskyStateVec is an OpenSky state vector (returned as a JSON array, not object).
// Can be 17 or 18 elements depending on whether `extended` was requested.
type openskyStateVec = []any

// FetchStates returns airborne aircraft that report a callsign and a position
func (f *OpenSky) FetchStates(ctx context.Context) ([]entity.AircraftState, error) {
	var raw openskyResponse
	if err := f.client.GetJSON(ctx, f.baseURL+"/states/all", nil, &raw); err != nil {
		return nil, err
	}

	var states []entity.AircraftState
	skipped := 0
	for _, s := range raw.States {
		if len(s) < 10 {
			skipped++
			continue
		}
		state, ok := stateToAircraft(s)
		if !ok {
			continue
		}
		states = append(states, state)
		if len(states) == f.maxStates {
			break
		}
	}
	f.client.Skipped(skipped)

	return states, nil
}

// stateToAircraft keeps airborne states with a callsign and a position.
func stateToAircraft(s openskyStateVec) (entity.AircraftState, bool) {
	var state entity.AircraftState

	if icao24, ok := s[0].(string); ok {
		state.ICAO24 = icao24
	}
	if callsign, ok := s[1].(string); ok {
		state.Callsign = trimCallsign(callsign)
	}
	if country, ok := s[2].(string); ok {
		state.OriginCountry = country
	}
	if contact, ok := toFloat(s[4]); ok {
		state.LastContact = time.Unix(int64(contact), 0).UTC()
	}

	lng, lngOK := toFloat(s[5])
	lat, latOK := toFloat(s[6])
	if state.Callsign == "" || !latOK || !lngOK {
		return state, false
	}
	state.Lat, state.Lng = lat, lng

	if onGround, ok := s[8].(bool); ok && onGround {
		return state, false
	}
	if alt, ok := toFloat(s[7]); ok { // baro_altitude in meters
		state.Altitude = alt
	}
	if spd, ok := toFloat(s[9]); ok { // velocity in m/s
		state.Velocity = spd
	}

	return state, true
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func trimCallsign(cs string) string {
	// OpenSky pads callsigns with spaces.
	return strings.TrimSpace(cs)
}
