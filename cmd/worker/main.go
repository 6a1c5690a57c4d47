// Command worker runs queued landing-page generations from Temporal.
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

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/activities/generation"
	"github.com/landingforge/landingforge/internal/app"
	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/observability"
	rediscache "github.com/landingforge/landingforge/internal/repository/redis"
	"github.com/landingforge/landingforge/internal/temporal"
	"github.com/landingforge/landingforge/internal/workflows"
	"github.com/landingforge/landingforge/pkg/httputil"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Env, cfg.GetLogLevel())
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Worker stopped with error", zap.Error(err))
	}
	logger.Info("Worker stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting LandingForge worker",
		zap.String("version", cfg.App.Version),
		zap.String("environment", string(cfg.Env)),
		zap.String("temporal", cfg.Temporal.Addr()),
		zap.String("task_queue", cfg.Temporal.TaskQueue),
	)

	// Generation records are shared with the API, so the in-memory store is not an option here.
	store, err := rediscache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer store.Close()

	metrics := observability.NewMetrics(cfg.App.Name, nil)
	stack, err := app.NewStack(cfg, metrics, store.Client(), logger)
	if err != nil {
		return fmt.Errorf("building generation stack: %w", err)
	}

	tc, err := temporal.NewClient(cfg.Temporal, logger)
	if err != nil {
		return err
	}
	defer tc.Close()

	w := worker.New(tc, cfg.Temporal.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     cfg.Temporal.WorkerCount,
		MaxConcurrentWorkflowTaskExecutionSize: cfg.Temporal.WorkerCount,
	})
	register(w, generation.NewActivity(stack.Orchestrator, store, logger.Named("activity")))

	probes := probeServer(cfg.Server.Addr(), metrics)
	go func() {
		if err := probes.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Probe server stopped", zap.Error(err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = probes.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker polling",
		zap.String("task_queue", cfg.Temporal.TaskQueue),
		zap.Int("concurrency", cfg.Temporal.WorkerCount),
		zap.String("probes", probes.Addr),
	)

	// Run blocks until interrupted, then drains in-flight activities.
	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	return w.Run(interrupt)
}

func register(w worker.Worker, a *generation.Activity) {
	w.RegisterWorkflow(workflows.GenerationWorkflow)
	generation.RegisterActivities(w, a)
}

// probeServer exposes /metrics and /health for the worker process.
func probeServer(addr string, metrics *observability.Metrics) *http.Server {
	mux := chi.NewRouter()
	mux.Handle("/metrics", metrics.Handler())
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "landingforge-worker"})
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
