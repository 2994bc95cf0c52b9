package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"agenda/internal/amqp"
	"agenda/internal/backend"
	"agenda/internal/cache"
	"agenda/internal/config"
	"agenda/internal/export"
	"agenda/internal/log"
	"agenda/internal/worker"
)

const sweepTimeout = 2 * time.Minute

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting agenda-notifier")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Select and open the data backend
	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateStore(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", backendConfig.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// Initialize AMQP client for publishing reminder messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	notifier := worker.NewNotifyWorker(result.Store, amqpClient, nil,
		cfg.EventWindowDays, cfg.DeadlineWindowDays)

	// Optional daily budget export to Google Sheets
	cacheManager := cache.NewManager()
	var sheetsExporter *export.SheetsExporter
	if cfg.SheetsExportEnabled() {
		sheetsExporter, err = export.NewSheetsExporter(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize sheets exporter", "error", err)
			os.Exit(1)
		}
		cacheManager.Register(sheetsExporter.RowCache())
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	// Schedule the reminder sweep
	scheduler := worker.NewScheduler(nil)
	_, err = scheduler.Schedule(cfg.SweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		runSweep(sweepCtx, logger, notifier, sheetsExporter, result.Store)
	})
	if err != nil {
		logger.Error("Failed to schedule reminder sweep", "error", err, "schedule", cfg.SweepSchedule)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start()
		logger.Info("Reminder sweep scheduled", "schedule", cfg.SweepSchedule)
		<-gctx.Done()
		scheduler.Stop()
		return gctx.Err()
	})

	// Run one sweep on startup so a restart never silently skips a day
	g.Go(func() error {
		sweepCtx, cancel := context.WithTimeout(gctx, sweepTimeout)
		defer cancel()
		runSweep(sweepCtx, logger, notifier, sheetsExporter, result.Store)
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Notifier stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Notifier shutdown complete")
}

func runSweep(ctx context.Context, logger *log.Logger, notifier *worker.NotifyWorker,
	exporter *export.SheetsExporter, store backend.Store) {
	if err := notifier.RunSweep(ctx); err != nil {
		logger.Error("Reminder sweep failed", "error", err)
	}
	if exporter == nil {
		return
	}
	snap, err := store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load events for budget export", "error", err)
		return
	}
	if err := exporter.ExportBudgets(ctx, snap.Active); err != nil {
		logger.Error("Budget export failed", "error", err)
	}
}
