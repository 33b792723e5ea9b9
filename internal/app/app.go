// Package app wires configuration, storage, feeds and use cases into one
// search service shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"flightlo-service/internal/domain/repository"
	"flightlo-service/internal/infrastructure/config"
	"flightlo-service/internal/infrastructure/oauth"
	"flightlo-service/internal/infrastructure/persistence"
	"flightlo-service/internal/interface/feed"
	repo "flightlo-service/internal/interface/repository"
	"flightlo-service/internal/usecase"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"
)

// Feed names, used in logs, metrics, cache keys and provenance tags
const (
	FeedOpenFlightsAirports = "openflights-airports"
	FeedOpenFlightsAirlines = "openflights-airlines"
	FeedAirportCodes        = "airport-codes"
	FeedGeonames            = "geonames"
	FeedFlightStats         = "flightstats"
	FeedAmadeus             = "amadeus"
	FeedOpenSky             = "opensky"
	FeedAviationStack       = "aviationstack"
)

const stateCacheTTL = time.Minute

// App holds the assembled service and the resources it must release
type App struct {
	Catalog   *usecase.Catalog
	Generator *usecase.FlightGenerator
	Service   *usecase.SearchService

	mongoClient *mongo.Client
	logger      logger.Logger
}

// New builds the search service. PostgreSQL and MongoDB are optional: when a
// DSN is empty or unreachable the embedded catalog and an in-memory cache are used.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics) (*App, error) {
	a := &App{logger: log}

	airportRepos, airlineRepos, err := a.catalogRepositories(cfg)
	if err != nil {
		return nil, err
	}
	a.Catalog = usecase.NewCatalog(airportRepos, airlineRepos, log, m)
	if err := a.Catalog.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a.Generator = usecase.NewFlightGenerator(a.Catalog, cfg.GeneratorFlightCount)
	cache := a.feedCache(ctx, cfg)
	feeds := a.buildFeeds(ctx, cfg, cache, log, m)

	a.Service = usecase.NewSearchService(feeds, a.Catalog, a.Generator, usecase.SearchConfig{
		FeedTimeout:        cfg.FeedTimeout,
		DefaultFlightLimit: cfg.SearchResultLimit,
	}, log, m)

	log.Info("Search service ready",
		"airportFeeds", len(feeds.Airports), "airlineFeeds", len(feeds.Airlines), "flightFeeds", len(feeds.Flights))
	return a, nil
}

// Close releases external connections
func (a *App) Close(ctx context.Context) {
	if a.mongoClient == nil {
		return
	}
	if err := a.mongoClient.Disconnect(ctx); err != nil {
		a.logger.Error("MongoDB disconnect error", "error", err)
	}
}

func (a *App) catalogRepositories(cfg *config.Config) ([]repository.AirportRepository, []repository.AirlineRepository, error) {
	var airportRepos []repository.AirportRepository
	var airlineRepos []repository.AirlineRepository

	if cfg.PostgresURI != "" {
		a.logger.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			a.logger.Warn("PostgreSQL unavailable, using embedded catalog only", "error", err)
		} else {
			airportRepos = append(airportRepos, repo.NewGormAirportRepository(gormDB))
			airlineRepos = append(airlineRepos, repo.NewGormAirlineRepository(gormDB))
		}
	}

	staticAirports, err := repo.NewStaticAirportRepository()
	if err != nil {
		return nil, nil, err
	}
	staticAirlines, err := repo.NewStaticAirlineRepository()
	if err != nil {
		return nil, nil, err
	}
	return append(airportRepos, staticAirports), append(airlineRepos, staticAirlines), nil
}

func (a *App) feedCache(ctx context.Context, cfg *config.Config) repository.FeedCache {
	if cfg.MongoURI == "" {
		return repo.NewMemoryFeedCache()
	}

	a.logger.Info("Connecting to MongoDB")
	client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		a.logger.Warn("MongoDB unavailable, caching feeds in memory", "error", err)
		return repo.NewMemoryFeedCache()
	}
	cache, err := repo.NewMongoFeedCache(ctx, db)
	if err != nil {
		a.logger.Warn("MongoDB feed cache setup failed, caching feeds in memory", "error", err)
		if derr := client.Disconnect(ctx); derr != nil {
			a.logger.Error("MongoDB disconnect error", "error", derr)
		}
		return repo.NewMemoryFeedCache()
	}
	a.mongoClient = client
	return cache
}

func (a *App) buildFeeds(
	ctx context.Context,
	cfg *config.Config,
	cache repository.FeedCache,
	log logger.Logger,
	m *metrics.Metrics,
) usecase.Feeds {
	fc := cfg.Feeds
	newClient := func(name string, ttl time.Duration, opts ...feed.Option) *feed.Client {
		base := []feed.Option{
			feed.WithCache(cache, ttl),
			feed.WithHeader("User-Agent", fc.UserAgent),
			feed.WithLogger(log),
			feed.WithMetrics(m),
		}
		return feed.NewClient(name, append(base, opts...)...)
	}
	ttl := cfg.FeedCacheTTL

	feeds := usecase.Feeds{
		Airports: []repository.AirportFeed{
			feed.NewOpenFlightsAirports(newClient(FeedOpenFlightsAirports, ttl), fc.OpenFlightsAirportsURL),
			feed.NewAirportCodes(newClient(FeedAirportCodes, ttl/2), fc.AirportCodesURL),
			feed.NewGeonames(newClient(FeedGeonames, ttl), fc.GeonamesURL, fc.GeonamesUsername),
		},
		Airlines: []repository.AirlineFeed{
			feed.NewOpenFlightsAirlines(newClient(FeedOpenFlightsAirlines, ttl), fc.OpenFlightsAirlinesURL),
			feed.NewFlightStats(newClient(FeedFlightStats, ttl/2), fc.FlightStatsURL),
		},
	}

	if creds := oauth.NewClientCredentials(fc.AmadeusClientID, fc.AmadeusClientSecret, fc.AmadeusTokenURL); creds != nil {
		hc := creds.HTTPClient(ctx, &http.Client{Timeout: cfg.FeedTimeout})
		feeds.Airlines = append(feeds.Airlines,
			feed.NewAmadeus(newClient(FeedAmadeus, ttl, feed.WithHTTPClient(hc)), fc.AmadeusURL))
	} else {
		log.Info("Amadeus credentials not set, feed disabled")
	}

	if fc.AviationStackAccessKey != "" {
		feeds.Flights = append(feeds.Flights,
			feed.NewAviationStack(newClient(FeedAviationStack, ttl/4), fc.AviationStackURL, fc.AviationStackAccessKey))
	} else {
		log.Info("AviationStack access key not set, feed disabled")
	}

	openSkyOpts := []feed.Option{feed.WithRateLimit(fc.OpenSkyRatePerMin)}
	if creds := oauth.NewClientCredentials(fc.OpenSkyClientID, fc.OpenSkyClientSecret, fc.OpenSkyTokenURL); creds != nil {
		openSkyOpts = append(openSkyOpts, feed.WithHTTPClient(creds.HTTPClient(ctx, &http.Client{Timeout: cfg.FeedTimeout})))
	}
	openSky := feed.NewOpenSky(newClient(FeedOpenSky, stateCacheTTL, openSkyOpts...), fc.OpenSkyURL)
	feeds.Flights = append(feeds.Flights, usecase.NewStateFlightSource(openSky, a.Catalog, a.Generator))

	return feeds
}
