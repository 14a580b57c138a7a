package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/database"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	database.SetLogger(logger)
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	logger.WithField("path", cfg.Database.Path).Info("connected to database")

	// Create repositories
	insiderRepo := repository.NewInsiderTradeRepository(db)
	myTradeRepo := repository.NewMyTradeRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	// Create services
	yahooClient := yahoo.NewFinanceClient(cfg.Prices.BaseURL, cfg.Prices.HTTPTimeout)
	priceService := service.NewPriceService(priceRepo, yahooClient)
	updater := service.NewPerformanceUpdater(
		performanceRepo,
		priceService,
		cfg.Updater.Concurrency,
		cfg.Updater.Timeout,
	)

	gate, err := auth.NewGate(cfg.Auth)
	if err != nil {
		logger.Fatalf("Failed to configure authentication: %v", err)
	}
	if !gate.Configured() {
		logger.Warn("authentication not configured; import and bulk update endpoints are disabled")
	}

	services := api.Services{
		System:      service.NewSystemService(db),
		Insider:     service.NewInsiderService(db, insiderRepo, performanceRepo),
		MyTrade:     service.NewMyTradeService(db, myTradeRepo, insiderRepo, performanceRepo),
		Performance: service.NewPerformanceService(performanceRepo, myTradeRepo, insiderRepo),
		Updater:     updater,
		Portfolio:   service.NewPortfolioService(myTradeRepo, priceService),
		Gate:        gate,
	}

	var scheduler *service.UpdateScheduler
	if cfg.Updater.Schedule != "" {
		scheduler, err = service.NewUpdateScheduler(updater, cfg.Updater.Schedule, model.UpdatePolicy(cfg.Updater.Policy), logger)
		if err != nil {
			logger.Fatalf("Failed to schedule performance updates: %v", err)
		}
		scheduler.Start()
	}

	// Create router
	router := api.NewRouter(services, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}
