package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pestdocs/pestdocs/internal/app"
	"github.com/pestdocs/pestdocs/internal/backend"
	"github.com/pestdocs/pestdocs/internal/inventory"
	jobmetrics "github.com/pestdocs/pestdocs/internal/jobs"
	"github.com/pestdocs/pestdocs/internal/observability"
	"github.com/pestdocs/pestdocs/internal/platform/cache"
	"github.com/pestdocs/pestdocs/internal/printing"
	"github.com/pestdocs/pestdocs/internal/profile"
	"github.com/pestdocs/pestdocs/internal/render"
	"github.com/pestdocs/pestdocs/jobs"
	"github.com/pestdocs/pestdocs/report"
)

// alertScanMinUrgency limits the daily scan to high and critical products.
const alertScanMinUrgency = 75

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	backendClient := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Token:   cfg.BackendToken,
		Timeout: cfg.BackendTimeout,
	})
	profiles := profile.NewProvider(backendClient, profile.NewCache(redisClient, cfg.ProfileCacheTTL), logger)

	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	renderer, err := render.NewRenderer(pdfClient)
	if err != nil {
		logger.Error("init renderer", slog.Any("error", err))
		os.Exit(1)
	}

	registry := observability.NewMetrics()
	documents := printing.NewService(printing.Config{
		Source:  backendClient,
		Company: profiles,
		Metrics: registry,
		Logger:  logger,
	})
	documentJob := printing.NewJob(printing.JobConfig{
		Service:    documents,
		Exporter:   render.NewExporter(renderer, "", logger),
		StorageDir: cfg.DocumentStorageDir,
		Logger:     logger,
	})

	metrics := jobmetrics.NewMetrics(registry.Registerer())
	scanJob := inventory.NewScanJob(inventory.NewService(backendClient, logger), logger).WithCounter(metrics)

	scanTask, err := jobs.NewInventoryAlertScanTask(time.Now().UTC(), alertScanMinUrgency)
	if err != nil {
		logger.Error("build inventory scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeDocumentGenerate, Handler: metrics.Wrap(jobs.TaskTypeDocumentGenerate, documentJob.Handle)},
			{Type: jobs.TaskInventoryAlertScan, Handler: metrics.Wrap(jobs.TaskInventoryAlertScan, scanJob.Handle)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 6 * * *", Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: registry.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
	}
}
