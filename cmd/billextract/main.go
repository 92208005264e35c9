// billextract runs the extraction pipeline against a local PDF without the
// HTTP layer: billextract <file.pdf> [model|all]
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tanmodi/oorja-backend/internal/common"
	"github.com/tanmodi/oorja-backend/internal/extract"
	"github.com/tanmodi/oorja-backend/internal/llm"
	"github.com/tanmodi/oorja-backend/internal/llm/openai"
	"github.com/tanmodi/oorja-backend/internal/pipeline"
	"github.com/tanmodi/oorja-backend/internal/pricing"
	"github.com/tanmodi/oorja-backend/internal/scratch"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: billextract <file.pdf> [model|all]")
		os.Exit(2)
	}
	srcPath := os.Args[1]
	model := ""
	if len(os.Args) >= 3 {
		model = os.Args[2]
	}

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := scratch.NewStore(cfg.Scratch.Dir, logger)
	if err != nil {
		logger.Error("scratch store", "error", err)
		os.Exit(1)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		logger.Error("open input", "path", srcPath, "error", err)
		os.Exit(1)
	}
	scratchPath, err := store.Save(src, filepath.Base(srcPath))
	_ = src.Close()
	if err != nil {
		logger.Error("stage input", "error", err)
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

	pipe := pipeline.New(logger, extractor, invoker,
		llm.DefaultRegistry().WithDefault(cfg.LLM.Model), pricing.DefaultTable(), nil, store)

	name := filepath.Base(srcPath)
	if model == "all" {
		results, err := pipe.CompareBill(ctx, scratchPath, name, nil)
		if err != nil {
			logger.Error("compare failed", "error", err)
			os.Exit(1)
		}
		emit(results)
		return
	}

	res, err := pipe.ExtractBill(ctx, scratchPath, name, model)
	if err != nil {
		logger.Error("extract failed", "error", err)
		os.Exit(1)
	}
	emit(res)
}

func emit(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
