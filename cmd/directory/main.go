package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/apiclient"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/http/router"
	natsAdapter "github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/messaging/nats"
	redisAdapter "github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/redis"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/store"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/session"

	// Platform
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Configuration and logger
	cfg := config.MustLoad()
	appLogger := logger.NewLogger(cfg.Logger)
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...",
		zap.String("service_name", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.String("backend_url", cfg.Backend.BaseURL),
		zap.Bool("fallback_disabled", cfg.Store.DisableFallback),
		zap.Bool("discard_stale_fetches", cfg.Store.DiscardStaleFetches),
	)

	// 2. Tracer
	if cfg.Tracing.OTLPEndpoint != "" {
		tp := tracer.InitTracer(cfg.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
		defer func() {
			ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
		appLogger.Info("OpenTelemetry Tracer initialized.")
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	// 3. Metrics
	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	metricsSrv, err := metrics.StartMetricsServer(cfg.Metrics.Port, appLogger, metricsManager)
	if err != nil {
		appLogger.Error("Prometheus metrics server failed to start", zap.Error(err))
	}

	// 4. Redis
	redisClient, err := redisAdapter.NewClient(context.Background(), cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	// 5. Event publisher (optional)
	var events domain.EventPublisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer natsPublisher.Close()
		events = natsPublisher
	} else {
		appLogger.Info("NATS publisher disabled (NATS_URL not set); listing events will not be published.")
	}

	// 6. Backend clients and stores, one per listing kind
	clientConfig := func(resource string) apiclient.Config {
		return apiclient.Config{
			BaseURL:        cfg.Backend.BaseURL,
			Token:          cfg.Backend.Token,
			UserHeader:     cfg.Backend.UserHeader,
			Timeout:        cfg.Backend.Timeout,
			ResourcePath:   resource,
			CategoriesPath: cfg.Backend.CategoriesPath,
		}
	}
	businessAPI := apiclient.New(clientConfig(cfg.Backend.BusinessPath), domain.KindBusiness, appLogger, metricsManager)
	jobAPI := apiclient.New(clientConfig(cfg.Backend.JobPath), domain.KindJob, appLogger, metricsManager)

	storeOpts := store.Options{
		DisableFallback:     cfg.Store.DisableFallback,
		DiscardStaleFetches: cfg.Store.DiscardStaleFetches,
	}
	businesses := store.New(domain.KindBusiness, businessAPI, events, metricsManager, appLogger, storeOpts)
	jobs := store.New(domain.KindJob, jobAPI, events, metricsManager, appLogger, storeOpts)
	catalog := store.NewCatalog(businessAPI, redisAdapter.NewCategoryCache(redisClient), cfg.CategoryCache.TTL, appLogger)

	// 7. Session
	sessions := session.NewManager(redisAdapter.NewSessionRepository(redisClient), cfg.Session.JWTSecret, cfg.Session.TTL, appLogger)

	// 8. HTTP
	validate := handler.NewValidator()
	mux := router.New(appLogger)
	router.SetupListingRoutes(mux, "/api/businesses", handler.NewListingHandler(businesses, validate, appLogger), sessions, appLogger)
	router.SetupListingRoutes(mux, "/api/jobs", handler.NewListingHandler(jobs, validate, appLogger), sessions, appLogger)
	router.SetupCategoryRoutes(mux, handler.NewCategoryHandler(catalog, appLogger))
	router.SetupSessionRoutes(mux, handler.NewSessionHandler(sessions, validate, appLogger), sessions, appLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPServer.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			appLogger.Error("Prometheus metrics server shutdown failed", zap.Error(err))
		}
	}
	appLogger.Info("Application shutting down...")
}
