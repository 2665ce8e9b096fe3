package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneystory/internal/amqp"
	"moneystory/internal/analysis"
	"moneystory/internal/config"
	"moneystory/internal/export"
	"moneystory/internal/storage"
	"moneystory/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting moneystory-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Google Sheets export is optional; without it the worker still
	// re-analyzes users, it just keeps the results to itself.
	var exporter worker.SummaryExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := export.NewSheetsExporter(context.Background(),
			cfg.GoogleCredentialFile, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	analysisWorker := worker.NewAnalysisWorker(repo, analysis.New(analysis.DefaultConfig()), exporter)

	if err := amqpClient.SetPrefetch(cfg.WorkerPrefetch); err != nil {
		logger.Error("Failed to set AMQP prefetch", "error", err)
		os.Exit(1)
	}

	// Consume import events, reconnecting with backoff when the broker
	// connection drops.
	go func() {
		for {
			err := amqpClient.ConsumeTransactionsImported(ctx, analysisWorker.HandleImportMessage)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("Message consumption failed", "error", err)

			if err := amqpClient.Reconnect(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("AMQP reconnect failed, stopping worker", "error", err)
				}
				cancel()
				return
			}
		}
	}()

	// Periodic catch-up pass for events missed while the worker was down.
	profileTicker := time.NewTicker(cfg.ProfileInterval)
	defer profileTicker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-profileTicker.C:
				if err := analysisWorker.RefreshProfiles(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Periodic profile refresh failed", "error", err)
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()

	// Give the in-flight handler a moment to finish before the deferred
	// connection close.
	logger.Info("Shutting down worker...")
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
