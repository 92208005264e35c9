package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tanmodi/oorja-backend/internal/common"
	"github.com/tanmodi/oorja-backend/internal/export"
	"github.com/tanmodi/oorja-backend/internal/extract"
	"github.com/tanmodi/oorja-backend/internal/llm"
	"github.com/tanmodi/oorja-backend/internal/llm/openai"
	"github.com/tanmodi/oorja-backend/internal/modelcfg"
	"github.com/tanmodi/oorja-backend/internal/pipeline"
	"github.com/tanmodi/oorja-backend/internal/pricing"
	"github.com/tanmodi/oorja-backend/internal/repository"
	"github.com/tanmodi/oorja-backend/internal/scratch"
	"github.com/tanmodi/oorja-backend/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Model table: built-in defaults, OPENAI_MODEL re-points the default,
	// MODELS_FILE replaces the whole table.
	registry := llm.DefaultRegistry().WithDefault(cfg.LLM.Model)
	prices := pricing.DefaultTable()
	if cfg.LLM.ModelsFile != "" {
		mf, err := modelcfg.Load(cfg.LLM.ModelsFile)
		if err != nil {
			logger.Error("load models file", "path", cfg.LLM.ModelsFile, "error", err)
			os.Exit(2)
		}
		registry, prices = mf.Apply(registry, prices)
		logger.Info("models file applied", "path", cfg.LLM.ModelsFile, "models", len(registry.IDs()))
	}

	store, err := scratch.NewStore(cfg.Scratch.Dir, logger)
	if err != nil {
		logger.Error("scratch store", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewPDFExtractor(extract.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Timeout:   cfg.Extract.Timeout,
	}, logger)

	invoker := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	// Usage ledger is optional; without a DSN we run with a no-op recorder.
	var usageRepo repository.UsageRepository = repository.NopUsageRepository{}
	var exports *export.Service
	if cfg.Ledger.DSN != "" {
		db, closeDB, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Ledger.DSN,
			MaxConns:        cfg.Ledger.MaxConns,
			MaxConnLifetime: cfg.Ledger.MaxConnLifetime,
			MaxConnIdleTime: cfg.Ledger.MaxConnIdleTime,
			DialTimeout:     cfg.Ledger.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("open ledger", "error", err)
			os.Exit(1)
		}
		defer closeDB()
		if err := repository.HealthCheck(ctx, db, cfg.Ledger.DialTimeout, logger); err != nil {
			logger.Error("ledger health failed", "error", err)
			os.Exit(1)
		}
		usageRepo, err = repository.NewUsageRepository(ctx, db, logger)
		if err != nil {
			logger.Error("init usage repository", "error", err)
			os.Exit(1)
		}
		exports = export.NewService(usageRepo, logger)
		logger.Info("usage ledger enabled")
	}

	pipe := pipeline.New(logger, extractor, invoker, registry, prices, usageRepo, store)
	srv := server.New(pipe, store, exports, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "default_model", registry.Default().ID)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
