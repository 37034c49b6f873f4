package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "github.com/FACorreiaa/go-itinerary-planner/app/db"
	appLogger "github.com/FACorreiaa/go-itinerary-planner/app/logger"
	"github.com/FACorreiaa/go-itinerary-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-planner/app/tracer"
	"github.com/FACorreiaa/go-itinerary-planner/config"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/auth"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/bookmark"
	generativeai "github.com/FACorreiaa/go-itinerary-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/location"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/user"
	"github.com/FACorreiaa/go-itinerary-planner/internal/router"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func main() {
	// Standard log until slog is configured, in case godotenv fails.
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Migrations run before the main pool comes up.
	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Server.MetricsPort)
	metrics.InitAppMetrics()
	appMetrics := metrics.Get()

	// --- Optional description enricher ---
	var enricher generativeai.Enricher
	if cfg.Generative.Enabled {
		geminiEnricher, err := generativeai.NewGeminiEnricher(ctx, cfg.Generative.Model, logger)
		if err != nil {
			logger.Warn("Description enrichment disabled", slog.Any("error", err))
		} else {
			enricher = geminiEnricher
			logger.Info("Description enrichment enabled", slog.String("model", cfg.Generative.Model))
		}
	}

	// --- Dependency injection ---
	authRepo := auth.NewPostgresAuthRepo(pool, cfg.JWT, logger)
	authService := auth.NewAuthService(authRepo, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	locationRepo := location.NewPostgresLocationRepo(pool, logger)
	locationService := location.NewLocationService(locationRepo, cfg.Planner.LocationCacheTTL, logger)
	locationHandler := location.NewHandlerImpl(locationService, logger)

	bookmarkRepo := bookmark.NewPostgresBookmarkRepo(pool, logger)
	bookmarkService := bookmark.NewBookmarkService(bookmarkRepo, logger)
	bookmarkHandler := bookmark.NewHandlerImpl(bookmarkService, logger)

	itineraryRepo := itinerary.NewPostgresItineraryRepo(pool, appMetrics, logger)
	itineraryService := itinerary.NewItineraryService(itineraryRepo, locationService, cfg.Planner, enricher, appMetrics, logger)
	itineraryHandler := itinerary.NewHandlerImpl(itineraryService, logger)

	// --- Router ---
	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:            authHandler,
		UserHandler:            userHandler,
		LocationHandler:        locationHandler,
		BookmarkHandler:        bookmarkHandler,
		ItineraryHandler:       itineraryHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	// --- HTTP server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger picks colored development logs or JSON for everything else.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
