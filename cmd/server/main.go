package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ndewijer/stock-ledger/internal/api"
	"github.com/ndewijer/stock-ledger/internal/config"
	"github.com/ndewijer/stock-ledger/internal/database"
	"github.com/ndewijer/stock-ledger/internal/ibkr"
	"github.com/ndewijer/stock-ledger/internal/repository"
	"github.com/ndewijer/stock-ledger/internal/scheduler"
	"github.com/ndewijer/stock-ledger/internal/service"
	"github.com/ndewijer/stock-ledger/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	// Create services
	dashboardCache := cache.New(cfg.Cache.DashboardTTL, 2*cfg.Cache.DashboardTTL)
	limiter := rate.NewLimiter(rate.Limit(cfg.Prices.RequestsPerSec), 1)

	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(transactionRepo)
	if cfg.IBKR.Enabled() {
		transactionService.WithFlexClient(ibkr.NewFlexClient(), cfg.IBKR.FlexToken, cfg.IBKR.FlexQueryID)
	}
	portfolioService := service.NewPortfolioService(transactionRepo, priceRepo, dashboardCache)
	priceService := service.NewPriceService(priceRepo, transactionRepo, yahoo.NewFinanceClient(), limiter)

	// Scheduled price refresh
	if cfg.Prices.RefreshEnabled {
		refreshScheduler, err := scheduler.New(cfg.Prices.RefreshSchedule, priceService)
		if err != nil {
			log.Fatalf("Failed to create price refresh scheduler: %v", err)
		}
		refreshScheduler.Start()
		defer refreshScheduler.Stop()
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Transaction: transactionService,
		Portfolio:   portfolioService,
		Price:       priceService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // price refresh waits on the rate limiter
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}

	log.Println("Server exited")
}
