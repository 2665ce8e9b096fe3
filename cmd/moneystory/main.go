package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneystory/internal/amqp"
	"moneystory/internal/analysis"
	"moneystory/internal/cache"
	"moneystory/internal/config"
	apphttp "moneystory/internal/http"
	"moneystory/internal/storage"
	"moneystory/internal/story"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

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

	if err := repo.SeedDemoData(context.Background()); err != nil {
		logger.Error("Failed seeding demo data", "error", err)
		os.Exit(1)
	}

	// The story teller is optional; without a model every story comes from
	// the deterministic template.
	var teller story.Teller
	if cfg.GeminiModel != "" {
		gt, err := story.NewGeminiTeller(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini teller", "error", err)
			os.Exit(1)
		}
		teller = gt
		logger.Info("Gemini story teller initialized", "model", cfg.GeminiModel)
	} else {
		logger.Info("Gemini disabled - template stories only")
	}

	// AMQP is optional too: without a broker imports still land, the
	// background worker just never hears about them.
	var publisher apphttp.ImportPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, import events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	reportCache := cache.NewLRUCache[analysis.MonthlyReport](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(reportCache)
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	engine := analysis.New(analysis.DefaultConfig())
	srv := apphttp.NewServer(":"+cfg.Port, repo, engine, teller, publisher, reportCache)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting moneystory server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
