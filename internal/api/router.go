package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
)

// Services bundles everything the HTTP layer delegates to.
type Services struct {
	System      *service.SystemService
	Insider     *service.InsiderService
	MyTrade     *service.MyTradeService
	Performance *service.PerformanceService
	Updater     *service.PerformanceUpdater
	Portfolio   *service.PortfolioService
	Gate        *auth.Gate
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireBearer := custommiddleware.RequireBearer(svc.Gate)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Gate)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/insider", func(r chi.Router) {
			insiderHandler := handlers.NewInsiderHandler(svc.Insider)
			r.Get("/", insiderHandler.ListInsiderTrades)
			r.Get("/count", insiderHandler.CountInsiderTrades)
			r.Get("/tickers", insiderHandler.Tickers)
			r.Get("/ticker/{ticker}/summary", insiderHandler.TickerSummary)
			r.With(requireBearer).Post("/import", insiderHandler.ImportInsiderTrades)

			r.With(custommiddleware.ValidateIDMiddleware("id")).Get("/{id}", insiderHandler.GetInsiderTrade)
		})

		r.Route("/my-trades", func(r chi.Router) {
			myTradeHandler := handlers.NewMyTradeHandler(svc.MyTrade)
			r.Get("/", myTradeHandler.ListMyTrades)
			r.Post("/", myTradeHandler.CreateMyTrade)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware("id"))
				r.Get("/", myTradeHandler.GetMyTrade)
				r.Patch("/", myTradeHandler.UpdateMyTrade)
				r.Delete("/", myTradeHandler.DeleteMyTrade)
			})
		})

		r.Route("/performance", func(r chi.Router) {
			performanceHandler := handlers.NewPerformanceHandler(
				svc.Performance,
				svc.Updater,
				model.UpdatePolicy(cfg.Updater.Policy),
			)
			r.Get("/", performanceHandler.ListPerformance)
			r.Get("/dashboard", performanceHandler.Dashboard)
			r.With(requireBearer).Post("/update", performanceHandler.RunUpdate)

			r.Route("/{myTradeId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware("myTradeId"))
				r.Get("/", performanceHandler.GetPerformance)
				r.Patch("/", performanceHandler.UpdatePerformance)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/", portfolioHandler.Portfolio)
		})
	})

	return r
}
