package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/utils"
)

// FlightService is the search pipeline behind the HTTP API
type FlightService interface {
	ListAirports(ctx context.Context, q entity.ListQuery) (*entity.AirportList, error)
	ListAirlines(ctx context.Context, q entity.ListQuery) (*entity.AirlineList, error)
	SearchFlights(ctx context.Context, req entity.FlightSearchRequest) (*entity.FlightList, error)
	AirportInfo(ctx context.Context, code string) (*entity.AirportInfo, error)
	AirlineSchedule(ctx context.Context, code string, date time.Time) (*entity.FlightList, error)
}

// Handler contains HTTP handlers for the API
type Handler struct {
	service FlightService
	logger  logger.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(service FlightService, logger logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// fail maps a service error to a status code. Internal errors are logged and
// replaced by a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, entity.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// GetAirports handles GET /airports
func (h *Handler) GetAirports(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.ListAirports(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetAirlines handles GET /airlines
func (h *Handler) GetAirlines(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.ListAirlines(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// SearchFlights handles GET /flights/search
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	limit, err := parseLimit(params.Get("limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := utils.ParseTravelDate(params.Get("date"))
	if err != nil {
		h.fail(w, r, &entity.ValidationError{Problems: []string{err.Error()}})
		return
	}

	result, err := h.service.SearchFlights(r.Context(), entity.FlightSearchRequest{
		Origin:      params.Get("origin"),
		Destination: params.Get("destination"),
		Airline:     params.Get("airline"),
		Country:     params.Get("country"),
		Date:        date,
		Limit:       limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetAirport handles GET /airports/{code}
func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.AirportInfo(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// GetAirlineFlights handles GET /airlines/{code}/flights
func (h *Handler) GetAirlineFlights(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseTravelDate(r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, &entity.ValidationError{Problems: []string{err.Error()}})
		return
	}
	result, err := h.service.AirlineSchedule(r.Context(), mux.Vars(r)["code"], date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func parseListQuery(r *http.Request) (entity.ListQuery, error) {
	params := r.URL.Query()
	limit, err := parseLimit(params.Get("limit"))
	if err != nil {
		return entity.ListQuery{}, err
	}
	return entity.ListQuery{
		Query:   params.Get("query"),
		Country: params.Get("country"),
		Limit:   limit,
	}, nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &entity.ValidationError{Problems: []string{"limit must be a number"}}
	}
	return limit, nil
}
