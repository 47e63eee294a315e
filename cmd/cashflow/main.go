package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raulponte3/dashboard-cashflow/internal/amqp"
	"github.com/raulponte3/dashboard-cashflow/internal/config"
	apphttp "github.com/raulponte3/dashboard-cashflow/internal/http"
	"github.com/raulponte3/dashboard-cashflow/internal/llm"
	applog "github.com/raulponte3/dashboard-cashflow/internal/log"
	ports "github.com/raulponte3/dashboard-cashflow/internal/sheets"
	gsheet "github.com/raulponte3/dashboard-cashflow/internal/sheets/google"
	mem "github.com/raulponte3/dashboard-cashflow/internal/sheets/memory"
	"github.com/raulponte3/dashboard-cashflow/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: "cashflow"})
	applog.SetDefault(logger)

	logger.Info("Starting cashflow server")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var grid ports.GridReader
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		grid = cli
		logger.Info("Initialized Google Sheets backend", "backend", cfg.DataBackend)
	default:
		grid = mem.NewFromFiles("data")
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	// The chat proxy is optional: without an API key the summary endpoint
	// still works.
	var llmClient *llm.Client
	if cfg.LLMAPIKey != "" {
		var err error
		llmClient, err = llm.New(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMAPIVersion)
		if err != nil {
			logger.Error("Failed to initialize language model client", "error", err)
			os.Exit(1)
		}
		logger.Info("Language model proxy enabled")
	} else {
		logger.Info("Language model proxy disabled - no API key provided")
	}

	// Analysis persistence and the sync outbox are optional as well.
	var saver apphttp.AnalysisSaver
	if llmClient != nil && cfg.SQLiteDBPath != "" {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		saver = repo
		logger.Info("Analysis persistence enabled", "path", cfg.SQLiteDBPath)
	}

	var publisher apphttp.SyncPublisher
	if saver != nil && cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Analysis sync publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Grid:           grid,
		LLM:            llmClient,
		Analyses:       saver,
		Publisher:      publisher,
		TopN:           cfg.TopN,
		ForecastWindow: cfg.ForecastWindow,
		CacheTTL:       cfg.SummaryCacheTTL,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 150 * time.Second // chat proxy requests can be slow
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

	logger.Info("Starting cashflow server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
