package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tanmodi/oorja-backend/internal/repository"
)

// Service turns usage-ledger rows into an XLSX workbook for download.
type Service struct {
	usageRepo repository.UsageRepository
	logger    *slog.Logger
}

func NewService(repo repository.UsageRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{usageRepo: repo, logger: logger}
}

// ExportUsageXLSX returns a workbook of ledger rows in the given window.
// Nil bounds mean an open interval on that side.
func (s *Service) ExportUsageXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	recs, err := s.usageRepo.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query usage ledger: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Usage"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Requested At",
		"Request ID",
		"Filename",
		"Model",
		"Status",
		"Prompt Tokens",
		"Completion Tokens",
		"Total Tokens",
		"Input Cost",
		"Output Cost",
		"Total Cost",
		"Duration (ms)",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.RequestedAt.UTC().Format(time.RFC3339))
		write(2, r.RequestID)
		write(3, r.Filename)
		write(4, r.Model)
		write(5, string(r.Status))
		write(6, r.PromptTokens)
		write(7, r.CompletionTokens)
		write(8, r.TotalTokens)
		write(9, r.InputCost)
		write(10, r.OutputCost)
		write(11, r.TotalCost)
		write(12, r.DurationMS)
		write(13, truncate(r.ErrorMessage, 140))
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 22) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 38) // request id
	_ = f.SetColWidth(sheet, "C", "C", 32) // filename
	_ = f.SetColWidth(sheet, "D", "D", 16) // model
	_ = f.SetColWidth(sheet, "I", "K", 14) // costs
	_ = f.SetColWidth(sheet, "M", "M", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
