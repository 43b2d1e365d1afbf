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

	"github.com/pestdocs/pestdocs/cmd/pestdocs/cli"
	"github.com/pestdocs/pestdocs/internal/app"
	"github.com/pestdocs/pestdocs/internal/backend"
	"github.com/pestdocs/pestdocs/internal/faes"
	"github.com/pestdocs/pestdocs/internal/inventory"
	"github.com/pestdocs/pestdocs/internal/observability"
	"github.com/pestdocs/pestdocs/internal/platform/cache"
	"github.com/pestdocs/pestdocs/internal/printing"
	printinghttp "github.com/pestdocs/pestdocs/internal/printing/http"
	"github.com/pestdocs/pestdocs/internal/profile"
	"github.com/pestdocs/pestdocs/internal/render"
	"github.com/pestdocs/pestdocs/jobs"
	"github.com/pestdocs/pestdocs/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		code := cli.Run(ctx, cfg.RedisAddr, os.Args[2:], os.Stdout, os.Stderr)
		stop()
		os.Exit(code)
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
	metrics := observability.NewMetrics()

	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	renderer, err := render.NewRenderer(pdfClient)
	if err != nil {
		logger.Error("init renderer", slog.Any("error", err))
		os.Exit(1)
	}
	exporter := render.NewExporter(renderer, "", logger)

	documents := printing.NewService(printing.Config{
		Source:  backendClient,
		Company: profiles,
		Metrics: metrics,
		Logger:  logger,
	})

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	printingHandler := printinghttp.NewHandler(printinghttp.Config{
		Service:   documents,
		Exporter:  exporter,
		Submitter: faes.NewSubmitter(backendClient, logger),
		Schemas:   backendClient,
		Jobs:      jobClient,
		Logger:    logger,
	})
	inventoryHandler := inventory.NewHandler(logger, inventory.NewService(backendClient, logger))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		PrintingHandler:  printingHandler,
		InventoryHandler: inventoryHandler,
		ReportHandler:    report.NewHandler(pdfClient, logger),
		JobHandler:       jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
