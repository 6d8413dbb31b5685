package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/delocator/delocator/internal/config"
	"github.com/delocator/delocator/internal/geocoding"
	"github.com/delocator/delocator/internal/metrics"
	"github.com/delocator/delocator/internal/notify"
	"github.com/delocator/delocator/internal/overpass"
	"github.com/delocator/delocator/internal/server"
	"github.com/delocator/delocator/internal/service"
	"github.com/delocator/delocator/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the anonymization HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	engine, locationStore, dispatcher, err := buildEngine(cfg, logger, appMetrics)
	if err != nil {
		return err
	}

	// Publish the initial notification action table from persisted state.
	records, err := locationStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load saved locations: %w", err)
	}
	dispatcher.Refresh(records)

	handlers := server.NewHandlers(engine, locationStore, dispatcher, logger)

	const (
		readTimeout  = 5 * time.Second
		writeTimeout = 60 * time.Second
	)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handlers.Router(reg),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", err)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")
	return nil
}

// buildEngine wires the engine components from configuration: the geocoding
// provider selected by the factory, the Overpass discovery client, the
// saved-location store, and the notification dispatcher.
func buildEngine(
	cfg *config.Config,
	logger *slog.Logger,
	appMetrics *metrics.Metrics,
) (*service.Anonymizer, *store.Store, *notify.Dispatcher, error) {
	providerConfig := geocoding.ProviderConfig{
		Type:   geocoding.ProviderType(cfg.ProviderType),
		APIKey: cfg.APIKey,
		Logger: logger,
	}

	geoProvider, err := geocoding.NewProvider(providerConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create geocoding provider: %w", err)
	}

	logger.Info("Geocoding provider initialized", "type", cfg.ProviderType)

	locationStore := store.NewStore(cfg.StateFile, logger)
	dispatcher := notify.NewDispatcher(cfg.Namespace, notify.SystemClipboard{}, logger)
	discoverer := overpass.NewClient(logger)

	engine := service.NewAnonymizer(
		logger,
		geoProvider,
		cfg.ProviderType,
		discoverer,
		locationStore,
		appMetrics,
		clockwork.NewRealClock(),
		cfg.RadiusMeters,
		cfg.CandidateCap,
	)

	return engine, locationStore, dispatcher, nil
}
