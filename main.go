package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/alyal/vendalytics/backend/src/config"
	"github.com/alyal/vendalytics/backend/src/database"
	"github.com/alyal/vendalytics/backend/src/handlers"
	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/alyal/vendalytics/backend/src/metrics"
	"github.com/alyal/vendalytics/backend/src/normalize"
	"github.com/alyal/vendalytics/backend/src/parsers"
	"github.com/alyal/vendalytics/backend/src/parsers/generic"
	"github.com/alyal/vendalytics/backend/src/parsers/mercadolivre"
	"github.com/alyal/vendalytics/backend/src/parsers/shopee"
	"github.com/alyal/vendalytics/backend/src/parsers/template"
	"github.com/alyal/vendalytics/backend/src/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter *rate.Limiter

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Vendalytics backend server starting...")

	normalize.ThousandsHeuristic = config.Cfg.ThousandsHeuristic

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(config.Cfg.CacheTTL, config.Cfg.CacheCleanupInterval)
	limiter = rate.NewLimiter(rate.Limit(config.Cfg.RateLimitRPS), config.Cfg.RateLimitBurst)

	adapters := []parsers.Adapter{
		mercadolivre.NewParser(),
		shopee.NewParser(),
		generic.NewParser(),
	}
	fallback := template.NewParser()

	abc := metrics.ABCThresholds{A: config.Cfg.ABCThresholdA, B: config.Cfg.ABCThresholdB}
	dashboardService := services.NewDashboardService(database.DB, reportCache, abc)
	ingestionService := services.NewIngestionService(database.DB, adapters, fallback, dashboardService)

	uploadHandler := handlers.NewUploadHandler(ingestionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	salesHandler := handlers.NewSalesHandler(database.DB)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Vendalytics Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", uploadHandler.HandleUpload)

		r.Get("/marketplaces", salesHandler.HandleListMarketplaces)
		r.Get("/vendas", salesHandler.HandleListSales)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/resumo", dashboardHandler.HandleSummary)
			r.Get("/timeseries", dashboardHandler.HandleTimeseries)
			r.Get("/status", dashboardHandler.HandleStatus)
			r.Get("/abc", dashboardHandler.HandleABC)
			r.Get("/top-produtos", dashboardHandler.HandleTopProducts)
			r.Get("/geografia", dashboardHandler.HandleGeo)
			r.Get("/margem", dashboardHandler.HandleMargin)
			r.Get("/rfm", dashboardHandler.HandleRFM)
			r.Get("/cohort", dashboardHandler.HandleCohort)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
