package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/pkg/utils"
)

// AirportCodes queries the airport-codes.org search API
type AirportCodes struct {
	client *Client
	url    string
}

// NewAirportCodes creates the airport-codes.org adapter
func NewAirportCodes(client *Client, url string) *AirportCodes {
	return &AirportCodes{client: client, url: url}
}

func (f *AirportCodes) Name() string { return f.client.Name() }

type airportCodesResponse struct {
	Airports []struct {
		IATA         string    `json:"iata"`
		Name         string    `json:"name"`
		City         string    `json:"city"`
		Municipality string    `json:"municipality"`
		Country      string    `json:"country"`
		ISOCountry   string    `json:"iso_country"`
		Latitude     flexFloat `json:"latitude"`
		Longitude    flexFloat `json:"longitude"`
	} `json:"airports"`
}

// FetchAirports returns international airports known to airport-codes.org
func (f *AirportCodes) FetchAirports(ctx context.Context) ([]entity.Airport, error) {
	params := url.Values{
		"search": {"international"},
		"limit":  {"50"},
	}

	var raw airportCodesResponse
	if err := f.client.GetJSON(ctx, f.url, params, &raw); err != nil {
		return nil, err
	}

	airports := make([]entity.Airport, 0, len(raw.Airports))
	skipped := 0
	for _, a := range raw.Airports {
		code := entity.NormalizeCode(a.IATA)
		if a.Name == "" || !entity.ValidAirportCode(code) {
			skipped++
			continue
		}
		airports = append(airports, entity.Airport{
			Code:        code,
			Name:        a.Name,
			City:        firstNonEmpty(a.City, a.Municipality),
			Country:     firstNonEmpty(a.Country, a.ISOCountry),
			Coordinates: coordinates(a.Latitude, a.Longitude),
		})
	}
	f.client.Skipped(skipped)

	return airports, nil
}

// Geonames searches the GeoNames gazetteer for airport features
type Geonames struct {
	client   *Client
	url      string
	username string
}

// NewGeonames creates the GeoNames adapter
func NewGeonames(client *Client, url, username string) *Geonames {
	return &Geonames{client: client, url: url, username: username}
}

func (f *Geonames) Name() string { return f.client.Name() }

type geonamesResponse struct {
	Status *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
	Geonames []struct {
		Name        string    `json:"name"`
		ToponymName string    `json:"toponymName"`
		AdminName1  string    `json:"adminName1"`
		CountryName string    `json:"countryName"`
		Lat         flexFloat `json:"lat"`
		Lng         flexFloat `json:"lng"`
	} `json:"geonames"`
}

// GeoNames reports quota and auth errors with HTTP 200
func (r *geonamesResponse) upstreamErr() error {
	if r.Status == nil {
		return nil
	}
	return fmt.Errorf("upstream status %d: %s", r.Status.Value, r.Status.Message)
}

// FetchAirports returns airports whose GeoNames name carries an "(XXX)" IATA code
func (f *Geonames) FetchAirports(ctx context.Context) ([]entity.Airport, error) {
	params := url.Values{
		"q":           {"airport"},
		"featureCode": {"AIRP"},
		"maxRows":     {"50"},
		"username":    {f.username},
	}

	var raw geonamesResponse
	if err := f.client.GetJSON(ctx, f.url, params, &raw); err != nil {
		return nil, err
	}

	var airports []entity.Airport
	skipped := 0
	for _, place := range raw.Geonames {
		code := utils.ParenthesizedCode(place.Name)
		if code == "" {
			skipped++
			continue
		}
		airports = append(airports, entity.Airport{
			Code:        code,
			Name:        strings.TrimSpace(strings.Replace(place.Name, "("+code+")", "", 1)),
			City:        firstNonEmpty(place.AdminName1, place.ToponymName),
			Country:     place.CountryName,
			Coordinates: coordinates(place.Lat, place.Lng),
		})
	}
	f.client.Skipped(skipped)

	return airports, nil
}
