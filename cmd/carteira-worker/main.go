// Command carteira-worker consumes snapshot-changed messages and mirrors
// the affected snapshots to Google Sheets.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"carteira/internal/amqp"
	"carteira/internal/config"
	applog "carteira/internal/log"
	"carteira/internal/services"
	"carteira/internal/sheets"
	gsheet "carteira/internal/sheets/google"
	sheetsmem "carteira/internal/sheets/memory"
	"carteira/internal/storage"
	"carteira/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting carteira-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var exporter sheets.SnapshotExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.DashboardSheetBase)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		// Without a spreadsheet the worker still drains the queue, so
		// messages do not pile up while export is unconfigured.
		exporter = sheetsmem.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	snapshots := services.NewSnapshotService(repo)
	exportWorker := worker.NewExportWorker(snapshots, exporter, cfg.ExportInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Consuming snapshot-changed messages",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
		return amqpClient.ConsumeSnapshotChanged(gctx, exportWorker.HandleSnapshotChanged)
	})
	g.Go(func() error {
		return exportWorker.RunPeriodic(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
