package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tanmodi/oorja-backend/internal/common"
)

// Config for the pdftotext-based extractor.
type Config struct {
	Pdftotext string        // binary name or path, default "pdftotext"
	Timeout   time.Duration // per-extraction deadline, 0 = caller's context only
}

// PDFExtractor extracts embedded text from PDFs by shelling out to pdftotext.
// No layout reconstruction is attempted; pages come back concatenated in order
// with form-feed separators.
type PDFExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewPDFExtractor(cfg Config, logger *slog.Logger) *PDFExtractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{cfg: cfg, runner: execRunner{log: logger}, logger: logger}
}

// WithRunner swaps the command runner (tests).
func (e *PDFExtractor) WithRunner(r Runner) *PDFExtractor {
	e.runner = r
	return e
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Error("extract.pdf.failed", "path", path, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return TextExtractionResult{}, common.NewAppError("EXTRACTION_ERROR",
			fmt.Sprintf("pdftotext failed: %s", firstLine(string(errb))), common.ErrExtraction)
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		e.logger.Warn("extract.pdf.empty", "path", path)
		return TextExtractionResult{}, common.NewAppError("EXTRACTION_ERROR",
			"no extractable text in PDF", common.ErrExtraction)
	}

	// A form-feed \f is used as page separator by default.
	pages := 1 + strings.Count(text, "\f")
	res := TextExtractionResult{
		Text:     text,
		Pages:    pages,
		Method:   "pdf-text",
		Duration: time.Since(start),
	}
	e.logger.Info("extract.pdf.ok",
		"path", path,
		"pages", pages,
		"bytes", len(text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "exit error"
	}
	return s
}
