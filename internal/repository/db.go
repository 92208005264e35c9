package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// Open connects the usage ledger. A postgres:// DSN goes through a pgx pool
// wrapped as database/sql; a sqlite: DSN (or bare file path) uses the
// embedded sqlite driver. The ledger SQL sticks to the $N placeholder form
// both engines accept.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case strings.HasPrefix(cfg.DSN, "postgres://"), strings.HasPrefix(cfg.DSN, "postgresql://"):
		return openPostgres(ctx, cfg, logger)
	case strings.HasPrefix(cfg.DSN, "sqlite:"):
		return openSQLite(strings.TrimPrefix(cfg.DSN, "sqlite:"), logger)
	case cfg.DSN != "":
		return openSQLite(cfg.DSN, logger)
	}
	return nil, nil, fmt.Errorf("empty ledger DSN")
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, func(), error) {
	logger.Info("ledger.connect", "driver", "pgx")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("parse ledger dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "oorja-backend"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, nil, fmt.Errorf("connect ledger: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("ledger.close_failed", "error", err)
		}
		pool.Close()
	}
	return db, closeFn, nil
}

func openSQLite(path string, logger *slog.Logger) (*sql.DB, func(), error) {
	logger.Info("ledger.connect", "driver", "sqlite", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite ledger: %w", err)
	}
	// The modernc driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("ledger.close_failed", "error", err)
		}
	}
	return db, closeFn, nil
}

// HealthCheck pings the ledger to catch DSN issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("ledger.ping_failed", "error", err)
		return err
	}
	logger.Debug("ledger.ping_ok")
	return nil
}
