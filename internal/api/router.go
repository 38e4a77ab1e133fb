package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/stock-ledger/internal/api/handlers"
	custommiddleware "github.com/ndewijer/stock-ledger/internal/api/middleware"
	"github.com/ndewijer/stock-ledger/internal/config"
	"github.com/ndewijer/stock-ledger/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System      *service.SystemService
	Transaction *service.TransactionService
	Portfolio   *service.PortfolioService
	Price       *service.PriceService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
			r.Get("/dashboard", portfolioHandler.Dashboard)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/history", portfolioHandler.History)
			r.Get("/sales", portfolioHandler.Sales)
			r.With(custommiddleware.ValidateTickerMiddleware).Get("/ticker/{ticker}", portfolioHandler.TickerDetail)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Transaction)
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Post("/import", transactionHandler.ImportTransactions)
			r.Post("/import/ibkr", transactionHandler.ImportFlexStatement)
			r.Post("/import/ibkr/sync", transactionHandler.SyncFlexStatement)
			r.Get("/export", transactionHandler.ExportTransactions)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/price", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(services.Price)
			r.Get("/", priceHandler.ListPrices)
			r.Post("/refresh", priceHandler.RefreshPrices)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Put("/", priceHandler.UpdatePrice)
				r.Delete("/", priceHandler.DeletePrice)
			})
		})
	})

	return r
}
