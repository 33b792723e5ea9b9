// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Search pipeline
	FeedTimeout            time.Duration
	FeedCacheTTL           time.Duration
	GeneratorFlightCount   int
	SearchResultLimit      int
	CatalogRefreshInterval time.Duration

	// Catalog database (optional)
	PostgresURI string

	// Feed cache (optional)
	MongoURI string
	MongoDB  string

	// Feeds
	Feeds FeedConfig
}

// FeedConfig holds upstream endpoints and credentials. Empty credentials disable
// the feeds that require them.
type FeedConfig struct {
	OpenFlightsAirportsURL string
	OpenFlightsAirlinesURL string
	AirportCodesURL        string
	GeonamesURL            string
	GeonamesUsername       string
	FlightStatsURL         string

	AmadeusURL          string
	AmadeusTokenURL     string
	AmadeusClientID     string
	AmadeusClientSecret string

	OpenSkyURL          string
	OpenSkyTokenURL     string
	OpenSkyClientID     string
	OpenSkyClientSecret string
	OpenSkyRatePerMin   int

	AviationStackURL       string
	AviationStackAccessKey string

	UserAgent string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		FeedTimeout:            getEnvAsDuration("FEED_TIMEOUT", 5*time.Second),
		FeedCacheTTL:           getEnvAsDuration("FEED_CACHE_TTL", time.Hour),
		GeneratorFlightCount:   getEnvAsInt("GENERATOR_FLIGHT_COUNT", 8),
		SearchResultLimit:      getEnvAsInt("SEARCH_RESULT_LIMIT", 15),
		CatalogRefreshInterval: getEnvAsDuration("CATALOG_REFRESH_INTERVAL", 6*time.Hour),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		MongoURI: getEnv("MONGODB_DSN", ""),
		MongoDB:  getEnv("MONGO_DB", "flightlo"),

		Feeds: FeedConfig{
			OpenFlightsAirportsURL: getEnv("OPENFLIGHTS_AIRPORTS_URL", "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"),
			OpenFlightsAirlinesURL: getEnv("OPENFLIGHTS_AIRLINES_URL", "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airlines.dat"),
			AirportCodesURL:        getEnv("AIRPORT_CODES_URL", "https://api.airport-codes.org/airports"),
			GeonamesURL:            getEnv("GEONAMES_URL", "http://api.geonames.org/searchJSON"),
			GeonamesUsername:       getEnv("GEONAMES_USERNAME", "demo"),
			FlightStatsURL:         getEnv("FLIGHTSTATS_URL", "https://api.flightstats.com/flex/airlines/rest/v1/json/all"),

			AmadeusURL:          getEnv("AMADEUS_URL", "https://test.api.amadeus.com/v1/reference-data/airlines"),
			AmadeusTokenURL:     getEnv("AMADEUS_TOKEN_URL", "https://test.api.amadeus.com/v1/security/oauth2/token"),
			AmadeusClientID:     getEnv("AMADEUS_CLIENT_ID", ""),
			AmadeusClientSecret: getEnv("AMADEUS_CLIENT_SECRET", ""),

			OpenSkyURL:          getEnv("OPENSKY_URL", "https://opensky-network.org/api"),
			OpenSkyTokenURL:     getEnv("OPENSKY_TOKEN_URL", "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"),
			OpenSkyClientID:     getEnv("OPENSKY_CLIENT_ID", ""),
			OpenSkyClientSecret: getEnv("OPENSKY_CLIENT_SECRET", ""),
			OpenSkyRatePerMin:   getEnvAsInt("OPENSKY_RATE_PER_MIN", 60),

			AviationStackURL:       getEnv("AVIATIONSTACK_URL", "http://api.aviationstack.com/v1"),
			AviationStackAccessKey: getEnv("AVIATIONSTACK_ACCESS_KEY", ""),

			UserAgent: getEnv("FEED_USER_AGENT", "FlightTracker/1.0"),
		},
	}

	if config.GeneratorFlightCount <= 0 {
		config.GeneratorFlightCount = 8
	}
	if config.SearchResultLimit <= 0 {
		config.SearchResultLimit = 15
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("5s", "1h") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
