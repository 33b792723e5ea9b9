package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"

	"flightlo-service/internal/app"
	"flightlo-service/internal/infrastructure/config"
	"flightlo-service/internal/infrastructure/router"
	"flightlo-service/internal/interface/handler"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Flightlo Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("flightlo", prometheus.DefaultRegisterer)

	application, err := app.New(ctx, cfg, log, m)
	if err != nil {
		log.Fatal("Failed to build search service", "error", err)
	}

	// Refresh reference data in the background
	go application.Catalog.StartRefresh(ctx, cfg.CatalogRefreshInterval)

	h := handler.NewHandler(application.Service, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.SetupRouter(h, application.Catalog, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	application.Close(shutdownCtx)

	log.Info("Flightlo Service stopped")
}
