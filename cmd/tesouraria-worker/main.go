package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tesouraria/internal/amqp"
	"tesouraria/internal/backend"
	"tesouraria/internal/config"
	applog "tesouraria/internal/log"
	"tesouraria/internal/services"
	"tesouraria/internal/storage"
	"tesouraria/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting tesouraria-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sourceResult, err := backend.NewFactory(logger.Logger).CreateSource(context.Background(), backend.Config{
		Type:          backend.SourceType(cfg.SourceBackend),
		SheetsAPIKey:  cfg.SheetsAPIKey,
		SpreadsheetID: cfg.SpreadsheetID,
		SheetRange:    cfg.SheetRange,
	})
	if err != nil {
		logger.Error("Failed to initialize row source", "error", err, "backend", cfg.SourceBackend)
		os.Exit(1)
	}
	if sourceResult.Cleanup != nil {
		defer sourceResult.Cleanup()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	importer := services.NewImportService(sourceResult.Source, repo)
	importWorker := worker.NewImportWorker(importer, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := importWorker.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the current delivery a moment to finish before the process exits.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
