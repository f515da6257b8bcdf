package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tesouraria/internal/amqp"
	"tesouraria/internal/backend"
	"tesouraria/internal/config"
	apphttp "tesouraria/internal/http"
	applog "tesouraria/internal/log"
	"tesouraria/internal/services"
	"tesouraria/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

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

	importer := services.NewImportService(sourceResult.Source, repo)

	opts := []apphttp.Option{
		apphttp.WithEntryLister(repo),
		apphttp.WithRateLimit(cfg.RateLimitPerMin),
	}

	// AMQP is optional: when configured, each successful import publishes a
	// completion event for downstream consumers.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, apphttp.WithCompletionPublisher(amqpClient))
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, importer, opts...)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 120 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

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

	logger.Info("Starting tesouraria server",
		"port", cfg.Port,
		"source", cfg.SourceBackend,
		"category", importer.Category())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
