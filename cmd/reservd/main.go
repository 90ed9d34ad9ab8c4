package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-inventory-backend/config"
	"hotel-inventory-backend/internal/api"
	"hotel-inventory-backend/internal/clock"
	"hotel-inventory-backend/internal/db"
	"hotel-inventory-backend/internal/store"
	"hotel-inventory-backend/internal/sweeper"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "reservd ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the reservation store
	appStore := store.NewGormStore(gormDB, clock.NewSystem(),
		store.WithHoldTTL(cfg.Hold.TTL),
		store.WithMaxRetries(cfg.Hold.MaxRetries),
	)
	logger.Println("reservation store initialized")

	// Start the expiry sweeper in the background
	if cfg.Sweeper.Enabled {
		sw := sweeper.New(appStore, cfg.Sweeper.Interval, cfg.Sweeper.BatchSize, cfg.Sweeper.Workers)
		go sw.Run(ctx)
	} else {
		logger.Println("expiry sweeper is disabled")
	}

	// Initialize router
	router := api.NewRouter(appStore, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
