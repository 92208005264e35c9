// dbhealth probes usage-ledger connectivity with the same DSN handling the
// server uses. Exit 0 on a successful ping.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/tanmodi/oorja-backend/internal/common"
	"github.com/tanmodi/oorja-backend/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := common.LoadConfig()
	if cfg.Ledger.DSN == "" {
		logger.Error("LEDGER_DSN env var is required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, closeDB, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Ledger.DSN,
		MaxConns:    2,
		DialTimeout: cfg.Ledger.DialTimeout,
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
	logger.Info("ledger health OK")
}
