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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/api"
	"github.com/landingforge/landingforge/internal/api/handlers"
	"github.com/landingforge/landingforge/internal/app"
	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/observability"
	"github.com/landingforge/landingforge/internal/repository"
	"github.com/landingforge/landingforge/internal/repository/memory"
	rediscache "github.com/landingforge/landingforge/internal/repository/redis"
	"github.com/landingforge/landingforge/internal/storage"
	"github.com/landingforge/landingforge/internal/temporal"
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := app.NewLogger(cfg.Env, cfg.GetLogLevel())
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting LandingForge API",
		zap.String("version", cfg.App.Version),
		zap.String("environment", string(cfg.Env)),
	)

	metrics := observability.NewMetrics(cfg.App.Name, nil)
	checks := map[string]api.HealthCheck{}

	// Generation records live in Redis; a single instance can run on the in-memory store.
	var store repository.GenerationStore
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		rs, err := rediscache.New(cfg.Redis)
		if err != nil {
			logger.Warn("Failed to connect to Redis, using in-memory store", zap.Error(err))
		} else {
			defer rs.Close()
			store = rs
			redisClient = rs.Client()
			checks["redis"] = rs.Health
			logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		}
	}
	if store == nil {
		store = memory.New(cfg.Redis.GenerationTTL)
	}

	stack, err := app.NewStack(cfg, metrics, redisClient, logger)
	if err != nil {
		logger.Fatal("Failed to build generation stack", zap.Error(err))
	}

	landing := handlers.LandingPageDeps{
		Generator: stack.Orchestrator,
		Renderer:  stack.Orchestrator,
		Store:     store,
		Inliner:   stack.Inliner,
		Metrics:   metrics,
		Logger:    logger,
	}

	// Object storage for exports (optional)
	if cfg.Storage.Enabled {
		mc, err := storage.NewMinIOClient(cfg.Storage)
		if err != nil {
			logger.Warn("Failed to create MinIO client, export disabled", zap.Error(err))
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := mc.EnsureBucket(ctx); err != nil {
				logger.Warn("Failed to ensure export bucket, export disabled", zap.Error(err))
			} else {
				landing.Exporter = mc
				checks["storage"] = mc.Health
				logger.Info("Export storage ready",
					zap.String("endpoint", cfg.Storage.Endpoint),
					zap.String("bucket", cfg.Storage.Bucket),
				)
			}
			cancel()
		}
	}

	// Connect to Temporal (optional)
	if cfg.Temporal.Enabled {
		tc, err := temporal.NewClient(cfg.Temporal, logger)
		if err != nil {
			logger.Warn("Failed to connect to Temporal, async generation disabled", zap.Error(err))
		} else {
			defer tc.Close()
			landing.Workflows = tc
			checks["temporal"] = func(ctx context.Context) error {
				_, err := tc.CheckHealth(ctx, &client.CheckHealthRequest{})
				return err
			}
			logger.Info("Connected to Temporal",
				zap.String("address", cfg.Temporal.Addr()),
				zap.String("namespace", cfg.Temporal.Namespace),
			)
		}
	}

	// Synchronous generations may run up to the pipeline timeout.
	requestTimeout := cfg.Pipeline.Timeout + 30*time.Second
	if requestTimeout < time.Minute {
		requestTimeout = time.Minute
	}

	router := api.NewRouter(api.RouterConfig{
		Store:   store,
		Landing: landing,
		LandingConfig: handlers.LandingPageConfig{
			AsyncByDefault:    cfg.Features.AsyncGeneration,
			InlineOnExport:    cfg.Features.InlineOnExport,
			GenerationTimeout: cfg.Pipeline.Timeout,
		},
		Replier:        stack.Sellerbot,
		Metrics:        metrics,
		Logger:         logger,
		Security:       cfg.Security,
		RateLimits:     cfg.RateLimits,
		RequestTimeout: requestTimeout,
		Checks:         checks,
	})

	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout < requestTimeout {
		writeTimeout = requestTimeout + 5*time.Second
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      http.MaxBytesHandler(router, cfg.Server.MaxRequestSize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
			_ = server.Close()
		}

		logger.Info("Server stopped gracefully")
	}
}
