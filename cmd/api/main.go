package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prank-kart/internal/cache"
	"prank-kart/internal/cart"
	"prank-kart/internal/config"
	"prank-kart/internal/database"
	"prank-kart/internal/handler"
	"prank-kart/internal/payment"
	"prank-kart/internal/repository"
	"prank-kart/internal/router"
	"prank-kart/internal/seed"
	"prank-kart/internal/service"
	"prank-kart/internal/wizard"
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
	logger.Info().Msg("starting prank-kart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations before the pool starts serving queries
	if cfg.Database.RunMigrations {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize Redis for carts, wizard sessions and the catalogue cache
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)

	// Initialize stores
	carts := cart.NewStore(cart.NewRedisKV(redisClient), cfg.Cart.KeyPrefix, logger)
	sessions := wizard.NewRedisSessionStore(redisClient, cfg.Wizard.SessionTTL)
	catalogCache := cache.NewRedisCache(redisClient, cfg.Catalog.CacheTTL)
	payments := payment.NewSimulatedProcessor(cfg.Checkout.PaymentMethods, logger)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, catalogCache, logger)
	orderService := service.NewOrderService(orderRepo, addressRepo, carts, payments, cfg.Checkout.DeliveryFee, logger)
	addressService := service.NewAddressService(addressRepo, logger)
	wizardService := service.NewWizardService(catalogService, sessions, carts, logger)

	// Seed the catalogue from S3 or local files when asked to
	if cfg.Catalog.SeedOnRun {
		seeder := seed.NewSeeder(seed.NewLoader(ctx, cfg.S3, logger), catalogRepo, catalogService, logger)
		if _, err := seeder.Run(ctx, cfg.Catalog.SeedFiles); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService, logger),
		Cart:    handler.NewCartHandler(carts, logger),
		Wizard:  handler.NewWizardHandler(wizardService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Address: handler.NewAddressHandler(addressService, logger),
	}, cfg.Auth.APIKey, logger)

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

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
