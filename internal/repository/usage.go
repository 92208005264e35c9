package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tanmodi/oorja-backend/constants"
)

// UsageRecord is one row of the usage ledger: one model invocation, success
// or failure, with its tokens, cost, and timing.
type UsageRecord struct {
	ID               uuid.UUID
	RequestID        string
	Filename         string
	Model            string
	Status           constants.RunStatus
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	InputCost        string
	OutputCost       string
	TotalCost        string
	ErrorMessage     string
	DurationMS       int64
	RequestedAt      time.Time
}

// UsageRepository persists and lists ledger rows.
type UsageRepository interface {
	Record(ctx context.Context, rec UsageRecord) error
	List(ctx context.Context, from, to *time.Time) ([]UsageRecord, error)
}

const usageSchema = `
CREATE TABLE IF NOT EXISTS usage_ledger (
	id                TEXT PRIMARY KEY,
	request_id        TEXT NOT NULL,
	filename          TEXT NOT NULL,
	model             TEXT NOT NULL,
	status            TEXT NOT NULL,
	prompt_tokens     BIGINT NOT NULL DEFAULT 0,
	completion_tokens BIGINT NOT NULL DEFAULT 0,
	total_tokens      BIGINT NOT NULL DEFAULT 0,
	input_cost        TEXT NOT NULL DEFAULT '',
	output_cost       TEXT NOT NULL DEFAULT '',
	total_cost        TEXT NOT NULL DEFAULT '',
	error_message     TEXT NOT NULL DEFAULT '',
	duration_ms       BIGINT NOT NULL DEFAULT 0,
	requested_at      TEXT NOT NULL
)`

type usageRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUsageRepository creates the ledger table if needed and returns the
// repository.
func NewUsageRepository(ctx context.Context, db *sql.DB, logger *slog.Logger) (UsageRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, usageSchema); err != nil {
		return nil, fmt.Errorf("create usage_ledger: %w", err)
	}
	return &usageRepository{db: db, logger: logger}, nil
}

func (r *usageRepository) Record(ctx context.Context, rec UsageRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.RequestedAt.IsZero() {
		rec.RequestedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usage_ledger (
			id, request_id, filename, model, status,
			prompt_tokens, completion_tokens, total_tokens,
			input_cost, output_cost, total_cost,
			error_message, duration_ms, requested_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rec.ID.String(), rec.RequestID, rec.Filename, rec.Model, string(rec.Status),
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		rec.InputCost, rec.OutputCost, rec.TotalCost,
		rec.ErrorMessage, rec.DurationMS, rec.RequestedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert usage row: %w", err)
	}
	r.logger.Debug("ledger.recorded", "model", rec.Model, "status", string(rec.Status), "request_id", rec.RequestID)
	return nil
}

func (r *usageRepository) List(ctx context.Context, from, to *time.Time) ([]UsageRecord, error) {
	q := `SELECT id, request_id, filename, model, status,
		prompt_tokens, completion_tokens, total_tokens,
		input_cost, output_cost, total_cost,
		error_message, duration_ms, requested_at
		FROM usage_ledger`
	var (
		args  []any
		conds []string
	)
	if from != nil {
		args = append(args, from.UTC().Format(time.RFC3339Nano))
		conds = append(conds, fmt.Sprintf("requested_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, to.UTC().Format(time.RFC3339Nano))
		conds = append(conds, fmt.Sprintf("requested_at <= $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY requested_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list usage rows: %w", err)
	}
	defer rows.Close()

	var out []UsageRecord
	for rows.Next() {
		var (
			rec          UsageRecord
			id, status   string
			requestedRaw string
		)
		if err := rows.Scan(
			&id, &rec.RequestID, &rec.Filename, &rec.Model, &status,
			&rec.PromptTokens, &rec.CompletionTokens, &rec.TotalTokens,
			&rec.InputCost, &rec.OutputCost, &rec.TotalCost,
			&rec.ErrorMessage, &rec.DurationMS, &requestedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		rec.ID, _ = uuid.Parse(id)
		rec.Status = constants.RunStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, requestedRaw); err == nil {
			rec.RequestedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// NopUsageRepository is the recorder used when no ledger DSN is configured.
// The pipeline does not care whether metering is on.
type NopUsageRepository struct{}

func (NopUsageRepository) Record(context.Context, UsageRecord) error { return nil }
func (NopUsageRepository) List(context.Context, *time.Time, *time.Time) ([]UsageRecord, error) {
	return nil, nil
}
