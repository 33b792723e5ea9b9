package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightlo-service/internal/interface/handler"
	"flightlo-service/pkg/logger"
)

// CatalogStatus reports when the reference catalog was last rebuilt
type CatalogStatus interface {
	LoadedAt() time.Time
}

// SetupRouter creates and configures the HTTP router. API routes are served at
// the root and again under /api.
func SetupRouter(h *handler.Handler, catalog CatalogStatus, logger logger.Logger) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(logger))

	registerAPI(r, h)
	registerAPI(r.PathPrefix("/api").Subrouter(), h)

	// Health check
	r.HandleFunc("/health", healthCheck(catalog)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func registerAPI(r *mux.Router, h *handler.Handler) {
	// Airports
	r.HandleFunc("/airports", h.GetAirports).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/airports/{code}", h.GetAirport).Methods(http.MethodGet, http.MethodOptions)

	// Airlines
	r.HandleFunc("/airlines", h.GetAirlines).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/airlines/{code}/flights", h.GetAirlineFlights).Methods(http.MethodGet, http.MethodOptions)

	// Flights
	r.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet, http.MethodOptions)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("Handled request",
				"method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
		})
	}
}

type healthResponse struct {
	Status            string     `json:"status"`
	CatalogLoadedAt   *time.Time `json:"catalogLoadedAt,omitempty"`
	CatalogAgeSeconds *int64     `json:"catalogAgeSeconds,omitempty"`
}

func healthCheck(catalog CatalogStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "healthy"}
		if catalog != nil {
			if loaded := catalog.LoadedAt(); !loaded.IsZero() {
				age := int64(time.Since(loaded).Seconds())
				loaded = loaded.UTC()
				resp.CatalogLoadedAt = &loaded
				resp.CatalogAgeSeconds = &age
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
