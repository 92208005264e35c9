package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/tanmodi/oorja-backend/constants"
)

func testLedger(t *testing.T) UsageRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	repo, err := NewUsageRepository(context.Background(), db, logger)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	return repo
}

func TestRecordAndListRoundtrip(t *testing.T) {
	repo := testLedger(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	rows := []UsageRecord{
		{
			RequestID: "req-1", Filename: "march.pdf", Model: "gpt-4o-mini",
			Status: constants.RunStatusDone, PromptTokens: 1000, CompletionTokens: 100, TotalTokens: 1100,
			InputCost: "$0.000150", OutputCost: "$0.000060", TotalCost: "$0.000210",
			DurationMS: 1800, RequestedAt: base,
		},
		{
			RequestID: "req-1", Filename: "march.pdf", Model: "gpt-4o",
			Status: constants.RunStatusFailed, ErrorMessage: "model gpt-4o: upstream 429",
			DurationMS: 300, RequestedAt: base.Add(2 * time.Second),
		},
	}
	for _, r := range rows {
		if err := repo.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := repo.List(ctx, nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}

	first := got[0]
	if first.Model != "gpt-4o-mini" || first.Status != constants.RunStatusDone {
		t.Fatalf("first row = %+v", first)
	}
	if first.TotalTokens != 1100 || first.TotalCost != "$0.000210" {
		t.Fatalf("counters not preserved: %+v", first)
	}
	if !first.RequestedAt.Equal(base) {
		t.Fatalf("requested_at = %v, want %v", first.RequestedAt, base)
	}
	if first.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("Record did not assign an id")
	}

	second := got[1]
	if second.Status != constants.RunStatusFailed || second.ErrorMessage == "" {
		t.Fatalf("failed row = %+v", second)
	}
}

func TestListTimeWindow(t *testing.T) {
	repo := testLedger(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := UsageRecord{
			RequestID: "req", Filename: "bill.pdf", Model: "gpt-4o-mini",
			Status: constants.RunStatusDone, RequestedAt: base.AddDate(0, 0, i),
		}
		if err := repo.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 2)
	got, err := repo.List(ctx, &from, &to)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("window rows = %d, want 2", len(got))
	}
	for _, r := range got {
		if r.RequestedAt.Before(from) || r.RequestedAt.After(to) {
			t.Fatalf("row outside window: %v", r.RequestedAt)
		}
	}

	onlyFrom, err := repo.List(ctx, &from, nil)
	if err != nil {
		t.Fatalf("List from: %v", err)
	}
	if len(onlyFrom) != 3 {
		t.Fatalf("open-ended rows = %d, want 3", len(onlyFrom))
	}
}
