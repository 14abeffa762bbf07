package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "fleet-rental-pricing/internal/api/http"
	"fleet-rental-pricing/internal/config"
	"fleet-rental-pricing/internal/jobs"
	"fleet-rental-pricing/internal/logger"
	"fleet-rental-pricing/internal/metrics"
	"fleet-rental-pricing/internal/pricing"
	"fleet-rental-pricing/internal/repository/memory"
	"fleet-rental-pricing/internal/scheduler"
	"fleet-rental-pricing/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (defaults and environment only when empty)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using the process environment")
	}

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting fleet rental pricing server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	params, err := cfg.Pricing.Params()
	if err != nil {
		log.Fatalf("Failed to build pricing parameters: %v", err)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize Repositories and Services
	store := memory.NewStore()
	rentalSvc := service.NewRentalService(store.CarRepository, store.RentalRepository, pricing.NewEngine(params), m)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(rentalSvc, cfg)
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Set up HTTP server
	router := mux.NewRouter()
	httpapi.RegisterRentalRoutes(router, rentalSvc, registry)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}
