package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discount-api/internal/config"
	"discount-api/internal/handler"
	"discount-api/internal/repository"
	"discount-api/internal/router"
	"discount-api/internal/service"
	"discount-api/internal/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting discount API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories against the configured store backend
	var discountRepo repository.DiscountRepository
	var venueRepo repository.VenueRepository

	switch cfg.Store.Backend {
	case "memory":
		logger.Info().Msg("using in-memory store backend")
		discountRepo = repository.NewMemoryDiscountRepository()
		venueRepo = repository.NewMemoryVenueRepository()
	default:
		client, err := repository.NewDynamoClient(ctx, cfg.Store, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize store client: %w", err)
		}
		discountRepo = repository.NewDiscountRepository(
			client,
			cfg.Store.DiscountsTable,
			cfg.Store.VenueIndex,
			cfg.Store.VoucherCodeIndex,
			logger,
		)
		venueRepo = repository.NewVenueRepository(client, cfg.Store.VenuesTable, logger)
	}

	// Initialize field validator
	validator, err := validation.New()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}

	// Initialize service and handlers
	discountService := service.NewDiscountService(discountRepo, venueRepo, cfg.Auth.VenueGroup, logger)
	discountHandler := handler.NewDiscountHandler(discountService, validator, logger)

	// Initialize router
	mux := router.New(discountHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
